package main

import (
	"flag"
	"io"
	"testing"
	"time"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := parseFlags(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Addr != ":8000" {
		t.Fatalf("addr=%q", cfg.Addr)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Fatalf("model=%q", cfg.Model)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("shutdown-timeout=%v", cfg.ShutdownTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestParseFlags_Overrides(t *testing.T) {
	cfg, err := parseFlags(newFlagSet(), []string{
		"-addr", ":9001",
		"-model", "gpt-4o",
		"-api-key", "sk-test",
		"-supabase-url", "https://proj.supabase.co",
		"-supabase-key", "anon",
		"-shutdown-timeout", "30s",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Addr != ":9001" || cfg.Model != "gpt-4o" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.APIKey != "sk-test" || cfg.SupabaseURL != "https://proj.supabase.co" || cfg.SupabaseKey != "anon" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Fatalf("shutdown-timeout=%v", cfg.ShutdownTimeout)
	}
}

func TestParseFlags_EnvFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("SUPABASE_KEY", "env-anon")

	cfg, err := parseFlags(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.APIKey != "sk-env" || cfg.SupabaseURL != "https://env.supabase.co" || cfg.SupabaseKey != "env-anon" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestParseFlags_FlagBeatsEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := parseFlags(newFlagSet(), []string{"-api-key", "sk-flag"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.APIKey != "sk-flag" {
		t.Fatalf("api key=%q", cfg.APIKey)
	}
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	if _, err := parseFlags(newFlagSet(), []string{"-bogus"}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"empty addr", func(c *Config) { c.Addr = "" }, false},
		{"empty model", func(c *Config) { c.Model = "" }, false},
		{"zero timeout", func(c *Config) { c.ShutdownTimeout = 0 }, false},
		{"negative timeout", func(c *Config) { c.ShutdownTimeout = -time.Second }, false},
	}
	for _, tc := range cases {
		cfg := defaultConfig()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}
