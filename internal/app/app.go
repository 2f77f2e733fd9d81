// Package app wires configuration, infrastructure and the catalog service
// into a runnable process. Both the server binary and the CLI start here.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ecorec/backend/config"
	httpDelivery "github.com/ecorec/backend/internal/delivery/http"
	"github.com/ecorec/backend/internal/domain"
	"github.com/ecorec/backend/internal/infrastructure/cache"
	"github.com/ecorec/backend/internal/infrastructure/catalogfile"
	"github.com/ecorec/backend/internal/logging"
	"github.com/ecorec/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// App holds the wired dependencies of one process
type App struct {
	Config  *config.Config
	Catalog *usecase.CatalogService
	cache   cache.Store
	log     zerolog.Logger
}

// InitLogging configures the global logger from cfg, writing to out
func InitLogging(cfg *config.Config, out io.Writer) {
	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: out,
	})
}

// New builds the cache and catalog service described by cfg
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.Component("app")

	store, err := cache.New(ctx, cfg.Cache.Type, cfg.Cache.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}
	log.Info().Str("type", cfg.Cache.Type).Dur("ttl", cfg.Cache.TTL).Msg("cache ready")

	svc := usecase.NewCatalogService(
		catalogfile.NewLoader(),
		store,
		usecase.CatalogServiceConfig{
			DefaultPath: cfg.Catalog.Path,
			Similarity: usecase.SimilarityConfig{
				IncludeMaterial: cfg.Similarity.IncludeMaterial,
			},
			Filter: usecase.FilterConfig{
				TopRatedMinRating:  &cfg.Filter.TopRatedMinRating,
				TopRatedMinReviews: &cfg.Filter.TopRatedMinReviews,
			},
			DefaultTopN: cfg.Similarity.TopN,
			CacheTTL:    cfg.Cache.TTL,
		},
	)

	return &App{Config: cfg, Catalog: svc, cache: store, log: log}, nil
}

// DefaultFilterOptions returns unfiltered options carrying the configured price range
func (a *App) DefaultFilterOptions() domain.FilterOptions {
	return domain.FilterOptions{
		Mode:     domain.FilterModeNone,
		MinPrice: a.Config.Filter.DefaultMinPrice,
		MaxPrice: a.Config.Filter.DefaultMaxPrice,
	}
}

// Router builds the HTTP router over the catalog service
func (a *App) Router() *gin.Engine {
	handler := httpDelivery.NewHandler(a.Catalog, httpDelivery.HandlerConfig{
		DefaultMinPrice: a.Config.Filter.DefaultMinPrice,
		DefaultMaxPrice: a.Config.Filter.DefaultMaxPrice,
	})
	return httpDelivery.SetupRouter(a.Config, handler)
}

// Serve warms the default catalog and runs the HTTP server until ctx is done
func (a *App) Serve(ctx context.Context) error {
	// A catalog that fails to load is reported but does not stop the server;
	// requests answer 503 until the file is fixed
	if snap, err := a.Catalog.Init(ctx, ""); err != nil {
		a.log.Warn().Err(err).Str("path", a.Config.Catalog.Path).Msg("catalog warm-up failed")
	} else {
		a.log.Info().Str("path", snap.Path).Int("products", len(snap.Products)).Msg("catalog warmed")
	}

	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Str("environment", a.Config.Server.Environment).Msg("server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
		a.log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("graceful shutdown failed")
		return srv.Close()
	}
	return nil
}

// Close releases the cache
func (a *App) Close() error {
	return a.cache.Close()
}
