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

	"github.com/ethanf/roam-research-mcp/internal/api"
	"github.com/ethanf/roam-research-mcp/internal/mcpserver"
	"github.com/ethanf/roam-research-mcp/internal/store"
	"github.com/ethanf/roam-research-mcp/internal/tools"
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

	// Structured JSON logs go to stderr: stdout belongs to the MCP stdio
	// transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	st := app.store
	if st == nil {
		roamOpts := []store.RoamOption{store.WithTimeout(cfg.Roam.Timeout())}
		if cfg.Roam.BaseURL != "" {
			roamOpts = append(roamOpts, store.WithBaseURL(cfg.Roam.BaseURL))
		}
		st = store.NewRoamClient(cfg.Roam.Graph, cfg.Roam.Token, roamOpts...)
	}

	svc := tools.NewService(st)

	logger.Info("Configuration loaded",
		slog.String("graph", cfg.Roam.Graph),
		slog.Bool("stdio", cfg.App.Stdio),
		slog.Bool("http", cfg.App.HTTP.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	g, gCtx := errgroup.WithContext(ctx)

	var httpServer *http.Server
	if cfg.App.HTTP.Enabled {
		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)

		r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		// Readiness checks the graph is reachable when the store supports it.
		r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if pinger, ok := st.(interface{ Ping(context.Context) error }); ok {
				if err := pinger.Ping(req.Context()); err != nil {
					w.WriteHeader(http.StatusServiceUnavailable)
					_, _ = w.Write([]byte(`{"status":"unreachable"}`))
					return
				}
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		r.Mount("/api", api.NewRouter(svc))

		httpServer = &http.Server{
			Addr:    cfg.App.HTTP.Address(),
			Handler: r,
		}

		g.Go(func() error {
			logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
	}

	if cfg.App.Stdio {
		g.Go(func() error {
			logger.Info("Starting MCP stdio server")
			srv := mcpserver.New(svc)
			if err := srv.ServeStdio(); err != nil {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		})
	}

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		if httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
			}
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped")
	return nil
}
