package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/target/records-ui/config"
	httpx "github.com/target/records-ui/internal/http"
)

const (
	serverReadTimeout  = 30 * time.Second
	serverWriteTimeout = 30 * time.Second
	serverIdleTimeout  = 120 * time.Second
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// NewHTTPServer builds the server with its middleware chain. It does not listen.
func NewHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil || cfg.Config == nil || cfg.Services == nil {
		return nil, errors.New("http server config is incomplete")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router, err := httpx.NewRouter(httpx.RouterServices{
		Resources:    cfg.Services.Resources,
		Cache:        cfg.Services.Cache,
		CookieDomain: cfg.Config.HTTP.CookieDomain,
		IsDev:        cfg.Config.IsDev,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	return &http.Server{
		Addr:         cfg.Config.HTTP.Addr,
		Handler:      buildHTTPHandler(router, cfg.Config.HTTP, logger),
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}, nil
}

// buildHTTPHandler wraps router as Recover -> Logging -> Compression -> router.
func buildHTTPHandler(router http.Handler, cfg config.HTTPConfig, logger *slog.Logger) http.Handler {
	h := router
	if cfg.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", cfg.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: cfg.CompressionLevel, MinSize: 512, Logger: logger})(h)
	}
	h = httpx.Logging(logger)(h)
	h = httpx.Recover(logger)(h)
	return h
}

// RunConfig contains what Run serves and how long it may take to stop.
type RunConfig struct {
	Server          *http.Server
	Services        *ServiceContainer
	Cache           *CacheHandle
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// Run serves until ctx is canceled or the server fails, then shuts the server
// down and waits for in-flight prefetches.
func Run(ctx context.Context, cfg RunConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.InfoContext(gctx, "starting HTTP server", "addr", cfg.Server.Addr)
		if err := cfg.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if cfg.Cache != nil {
		g.Go(func() error {
			cfg.Cache.RunJanitor(gctx, logger)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return shutdown(cfg, logger)
	})

	return g.Wait()
}

func shutdown(cfg RunConfig, logger *slog.Logger) error {
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("shutting down HTTP server")
	if err := cfg.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	if cfg.Services != nil {
		done := make(chan struct{})
		go func() {
			cfg.Services.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			logger.Warn("timeout waiting for prefetches to finish")
		}
	}

	logger.Info("HTTP server stopped")
	return nil
}
