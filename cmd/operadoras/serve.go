package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"operadoras/internal/backend"
	"operadoras/internal/cache"
	"operadoras/internal/core"
	"operadoras/internal/dataset"
	apphttp "operadoras/internal/http"
	applog "operadoras/internal/log"
	"operadoras/internal/services"
)

const cacheCleanupInterval = 10 * time.Minute

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
	addServeFlags(cmd)
	return cmd
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("port", "", "listen port (overrides PORT)")
	cmd.Flags().String("backend", "", fmt.Sprintf("data backend, one of %s (overrides DATA_BACKEND)",
		strings.Join(backend.GetBackendTypeStrings(), ", ")))
	cmd.Flags().StringSlice("trusted-proxies", nil, "extra proxy CIDRs whose X-Forwarded-For is trusted (overrides TRUSTED_PROXIES)")
	cmd.Flags().String("db", "", "SQLite database path (overrides SQLITE_DB_PATH)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	ctx := cmd.Context()

	ds := dataset.New(dataset.NewRand(cfg.Seed))
	reportAnomalies(ctx, logger, ds)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(ctx, backendCfg, ds)
	if err != nil {
		return err
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", applog.FieldError, err.Error())
			}
		}()
	}

	svc := services.NewQueryService(result.Backend, cfg.CacheSize, cfg.CacheTTL)

	cacheManager := cache.NewManager()
	for _, c := range svc.Caches() {
		cacheManager.Register(c)
	}
	cacheManager.StartCleanup(cacheCleanupInterval)
	defer cacheManager.Stop()

	srv := apphttp.NewServer(cfg.Addr(), svc, apphttp.Options{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustedProxies: cfg.TrustedProxies,
		RateLimitRPM:   cfg.RateLimitRPM,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting operadoras server",
			"addr", cfg.Addr(),
			"backend", cfg.DataBackend,
			"operators", len(ds.Operators),
			"expenses", len(ds.Expenses))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err.Error())
		return err
	}

	logger.Info("Server stopped gracefully")
	return nil
}

func reportAnomalies(ctx context.Context, logger *applog.Logger, ds core.Dataset) {
	anomalies := ds.Check()
	if len(anomalies) == 0 {
		return
	}

	sl := applog.NewStructuredLogger(logger)
	for _, a := range anomalies {
		sl.LogAnomaly(ctx, a.Kind, a.Detail)
	}
}
