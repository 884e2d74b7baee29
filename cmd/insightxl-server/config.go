package main

import (
	"errors"
	"flag"
	"os"
	"time"
)

type Config struct {
	Addr  string
	Model string

	APIKey      string
	SupabaseURL string
	SupabaseKey string

	ShutdownTimeout time.Duration
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("missing -addr")
	}
	if c.Model == "" {
		return errors.New("missing -model")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown-timeout must be > 0")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Addr:            ":8000",
		Model:           "gpt-4o-mini",
		ShutdownTimeout: 10 * time.Second,
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address for the HTTP server")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "OpenAI model to use (e.g. gpt-4o-mini)")
	fs.StringVar(&cfg.APIKey, "api-key", "", "OpenAI API key (overrides OPENAI_API_KEY env var)")
	fs.StringVar(&cfg.SupabaseURL, "supabase-url", "", "Supabase project URL (overrides SUPABASE_URL env var)")
	fs.StringVar(&cfg.SupabaseKey, "supabase-key", "", "Supabase anon API key (overrides SUPABASE_KEY env var)")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Grace period for in-flight requests on shutdown")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.SupabaseURL == "" {
		cfg.SupabaseURL = os.Getenv("SUPABASE_URL")
	}
	if cfg.SupabaseKey == "" {
		cfg.SupabaseKey = os.Getenv("SUPABASE_KEY")
	}
	return cfg, nil
}
