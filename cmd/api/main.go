package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"consultacnpj/cmd/internal/cache"
	"consultacnpj/cmd/internal/config"
	"consultacnpj/cmd/internal/http/handler"
	"consultacnpj/cmd/internal/http/server"
	"consultacnpj/cmd/internal/infrastructure/cnpjws"
	"consultacnpj/cmd/internal/ratelimit"
	"consultacnpj/cmd/internal/service"
	"consultacnpj/cmd/internal/service/jobs"
	"consultacnpj/cmd/internal/utils/validators"

	"github.com/labstack/gommon/log"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	validate := validators.New()

	// Loads env vars depending on environment
	if err := config.LoadEnv(ctx); err != nil {
		log.Fatalf("unable to load environment: %v", err)
	}

	cfg, err := config.Load(validate)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(cfg.LogLevel)

	// Cache
	store, closeStore, err := newCacheStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	limiter := ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow)
	cnpjClient := cnpjws.NewClient(
		cnpjws.WithBaseURL(cfg.UpstreamBaseURL),
		cnpjws.WithTimeout(cfg.UpstreamTimeout),
		cnpjws.WithRequestsPerMinute(cfg.UpstreamRPM),
		cnpjws.WithUserAgent("consultacnpj/"+version),
	)

	// Getting services
	companyService := service.NewCompanyService(cnpjClient, store, validate, service.CompanyServiceConfig{
		CacheNegative: cfg.CacheNegative,
		Coalesce:      cfg.UpstreamCoalesce,
		DevMode:       cfg.DevMode(),
	})

	e := server.New(&server.Config{
		BodyLimit:   cfg.BodyLimit,
		TrustProxy:  cfg.TrustProxy,
		Limiter:     limiter,
		CNPJRoute:   handler.NewCNPJRoute(companyService),
		HealthRoute: handler.NewHealthRoute(store, limiter),
	})
	e.Logger.SetLevel(cfg.LogLevel)

	go jobs.NewSweeper(store, limiter, cfg.SweepInterval).Start(ctx)

	go func() {
		log.Infof("listening on %s (env=%s, cache=%s)", cfg.Addr(), cfg.AppEnv, cfg.CacheBackend)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
	}
}

func newCacheStore(cfg *config.Config) (cache.Store, func(), error) {
	opts := []cache.Option{cache.WithTTL(cfg.CacheTTL)}

	if cfg.CacheBackend == config.CacheSQLite {
		store, err := cache.NewSQLite(opts...)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Errorf("failed to close sqlite cache: %v", err)
			}
		}, nil
	}
	return cache.NewMemory(opts...), func() {}, nil
}
