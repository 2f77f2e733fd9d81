package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ecorec/backend/config"
	"github.com/ecorec/backend/internal/app"
	httpDelivery "github.com/ecorec/backend/internal/delivery/http"
	"github.com/ecorec/backend/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ecorec: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	app.InitLogging(cfg, os.Stdout)
	log := logging.Component("main")

	log.Info().
		Str("version", httpDelivery.Version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("catalog", cfg.Catalog.Path).
		Str("cache", cfg.Cache.Type).
		Bool("include_material", cfg.Similarity.IncludeMaterial).
		Int("rate_limit_per_ip", cfg.RateLimit.PerIP).
		Msg("starting EcoRec backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// Start server
	if err := a.Serve(ctx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
