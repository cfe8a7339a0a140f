// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/yriveiro/opencode-python-docs/internal/cache"
	"github.com/yriveiro/opencode-python-docs/internal/devdocs"
	"github.com/yriveiro/opencode-python-docs/internal/docservice"
	"github.com/yriveiro/opencode-python-docs/internal/markdown"
	"github.com/yriveiro/opencode-python-docs/internal/mcpserver"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Structured JSON logger on stderr: with the stdio transport, stdout
	// carries the MCP protocol.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("transport", cfg.App.Transport),
		slog.String("base_url", cfg.Docs.BaseURL),
		slog.String("product", cfg.Docs.Product),
		slog.String("default_version", cfg.Docs.DefaultVersion),
		slog.String("cache_root", cfg.Cache.Root),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := cache.NewStore(cfg.Cache.Root)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	client := devdocs.NewClient(cfg.Docs.BaseURL, cfg.Docs.Product,
		devdocs.WithTimeout(cfg.Docs.FetchTimeout.Std()),
		devdocs.WithRateLimit(cfg.Docs.RequestsPerSecond),
	)

	svc := docservice.New(store, client, markdown.NewConverter(), logger,
		cfg.Cache.IndexTTL.Std(), cfg.Cache.DocTTL.Std())

	// Startup sweep; it runs again on every new client session.
	stats := svc.RunGarbageCollection()
	logger.Info("cache gc on startup",
		slog.Int("scanned", stats.Scanned),
		slog.Int("deleted", stats.Deleted),
		slog.Int("errors", stats.Errors))

	srv := mcpserver.New(svc, cfg.Docs.DefaultVersion, logger)

	switch cfg.App.Transport {
	case TransportHTTP:
		return runHTTP(ctx, cfg, srv, logger)
	default:
		return runStdio(ctx, srv, logger)
	}
}

func runStdio(ctx context.Context, srv *mcpserver.Server, logger *slog.Logger) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Serving MCP over stdio")
		return srv.ServeStdio(gCtx)
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			return context.Canceled
		case <-gCtx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

func runHTTP(ctx context.Context, cfg *Config, srv *mcpserver.Server, logger *slog.Logger) error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/mcp", srv.HTTPHandler())

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
