package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theimaginaryfoundation/insightxl/insight"
	"github.com/theimaginaryfoundation/insightxl/provider"
	"github.com/theimaginaryfoundation/insightxl/server"
	"github.com/theimaginaryfoundation/insightxl/supabase"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The capability variant is selected exactly once, here. Handlers only
	// ever see the interface.
	var gen insight.TextGenerator = insight.Unavailable{}
	if cfg.APIKey != "" {
		gen = provider.NewOpenAI(cfg.APIKey, cfg.Model)
		log.Info("text generation configured", zap.String("model", cfg.Model))
	} else {
		log.Warn("OPENAI_API_KEY not set; generation paths will use fixed fallbacks")
	}

	auth := supabase.New(cfg.SupabaseURL, cfg.SupabaseKey)
	if !auth.Configured() {
		log.Warn("SUPABASE_URL/SUPABASE_KEY not set; auth endpoints will report a configuration error")
	}

	registry := insight.NewRegistry()
	defer registry.Shutdown()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.New(log, registry, gen, auth).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("serve", zap.Error(err))
			os.Exit(1)
		}
	}
}
