package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/target/records-ui/config"
	"github.com/target/records-ui/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) (err error) {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	bootstrap.SetLogLevel(cfg.SlogLevel())
	logStartupInfo(ctx, logger, &cfg)

	cache, err := bootstrap.NewCache(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cache.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	metrics, err := bootstrap.NewMetrics(cfg.Observability.Metrics, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := metrics.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close statsd client failed", "error", cerr)
		}
	}()

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:  &cfg,
		Cache:   cache.Repo,
		Metrics: metrics,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	server, err := bootstrap.NewHTTPServer(&bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.Run(ctx, bootstrap.RunConfig{
		Server:          server,
		Services:        services,
		Cache:           cache,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		Logger:          logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting records ui",
		"addr", cfg.HTTP.Addr,
		"api_base_url", cfg.API.BaseURL,
		"cache_backend", cfg.Cache.Backend,
		"job_roles_page_size", cfg.Paging.JobRolesPageSize,
		"posts_page_size", cfg.Paging.PostsPageSize,
		"dev", cfg.IsDev,
	)
}
