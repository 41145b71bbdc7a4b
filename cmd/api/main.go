package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vacation_planner_backend/internal/autocomplete"
	"vacation_planner_backend/internal/events"
	apphttp "vacation_planner_backend/internal/http"
	"vacation_planner_backend/internal/http/router"
	"vacation_planner_backend/internal/maps"
	"vacation_planner_backend/platform/cache"
	"vacation_planner_backend/platform/config"
	"vacation_planner_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.NewFromConfig(cfg.Env, cfg.LogFile)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var rdb *redis.Client
	if cfg.IsCacheEnabled() {
		if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
			client, err := cache.NewClient(ctx, cfg)
			if err != nil {
				return err
			}
			rdb = client
			return nil
		}); err != nil {
			log.Warn("redis unavailable; geocode results will not be cached", "error", err)
			rdb = nil
		} else {
			defer func() { _ = rdb.Close() }()
			log.Info("geocode cache enabled", "ttl", cfg.GeocodeCacheTTL.String())
		}
	} else {
		log.Info("REDIS_URL not configured; geocode cache disabled")
	}

	eventBus := events.NewInMemoryBus(log)

	// ========================================================================
	// Domain Modules
	// ========================================================================

	mapsModule, err := maps.NewModule(cfg, cfg, rdb, log)
	if err != nil {
		log.Error("failed to initialize maps module", "error", err)
		panic("failed to initialize maps module: " + err.Error())
	}

	autocompleteModule, err := autocomplete.NewModule(cfg, cfg, mapsModule.Service(), eventBus, log)
	if err != nil {
		log.Error("failed to initialize autocomplete module", "error", err)
		panic("failed to initialize autocomplete module: " + err.Error())
	}
	log.Info("address widget forms loaded", "forms", autocompleteModule.Forms())

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   cache.NewPingAdapter(rdb),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			mapsModule,
			autocompleteModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
