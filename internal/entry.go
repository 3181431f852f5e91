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

	"github.com/sdn3bangkuang/sekolahku/internal/api"
	"github.com/sdn3bangkuang/sekolahku/internal/apperr"
	"github.com/sdn3bangkuang/sekolahku/internal/chat"
	"github.com/sdn3bangkuang/sekolahku/internal/content"
	"github.com/sdn3bangkuang/sekolahku/internal/sheet"
	"github.com/sdn3bangkuang/sekolahku/internal/snapshot"
	"github.com/sdn3bangkuang/sekolahku/internal/sse"
	"github.com/sdn3bangkuang/sekolahku/internal/uploads"
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

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sheet_base_url", cfg.Sheet.BaseURL),
		slog.String("snapshot_path", cfg.Snapshot.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Snapshot cache: last known good copy of the collections.
	snap, err := snapshot.Open(cfg.Snapshot.Path)
	if err != nil {
		return fmt.Errorf("init snapshot: %w", err)
	}
	defer snap.Close()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Spreadsheet backend and content store.
	backend := sheet.NewClient(cfg.Sheet.BaseURL, &http.Client{Timeout: cfg.Sheet.Timeout})
	store := content.NewStore(backend, snap, logger, broker.PublishContentEvent)

	if err := store.RestoreFromSnapshot(); err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			logger.Warn("snapshot restore failed", slog.String("error", err.Error()))
		}
	} else {
		logger.Info("content restored from snapshot")
	}

	// Initial fetch; the site can still serve the snapshot if this fails.
	if err := store.Refresh(ctx); err != nil {
		logger.Warn("initial content fetch failed", slog.String("error", err.Error()))
	}

	// Assistant. Without a credential it still answers, with a fixed
	// remediation message, so the endpoint never breaks the page.
	assistant, err := buildAssistant(ctx, cfg, store, logger)
	if err != nil {
		return err
	}

	// Uploads directory.
	uploadFS, err := uploads.NewFS(cfg.Uploads.Path)
	if err != nil {
		return fmt.Errorf("init uploads: %w", err)
	}

	gate := api.NewGate(cfg.Admin.Password, cfg.Admin.MaxAttempts, cfg.Admin.Lockout)
	apiRouter := api.NewRouter(store, assistant, gate, uploadFS, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
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

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Public media serving.
	r.Get("/uploads/{filename}", api.NewUploadHandler(uploadFS).ServeFile)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the uploads directory so manually dropped files also reach
	// connected pages as SSE events.
	g.Go(func() error {
		if err := uploads.Watch(gCtx, uploadFS, logger, broker.PublishAssetEvent); err != nil {
			logger.Warn("uploads watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

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

		logger.Info("Shutting down server...")

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

// buildAssistant wires the chat assistant to the live content store.
func buildAssistant(ctx context.Context, cfg *Config, store *content.Store, logger *slog.Logger) (*chat.Assistant, error) {
	digest := func() string {
		return chat.Digest(store.Teachers(), store.News(), store.Gallery())
	}

	apiKey := cfg.Chat.APIKey
	if apiKey == "" {
		apiKey = chat.ResolveAPIKey()
	}
	if apiKey == "" {
		logger.Warn("no Gemini credential configured; assistant will answer with remediation text")
		return chat.NewAssistant(nil, digest, logger), nil
	}

	gen, err := chat.NewGeminiGenerator(ctx, apiKey, cfg.Chat.Model)
	if err != nil {
		return nil, fmt.Errorf("init assistant: %w", err)
	}
	logger.Info("assistant ready", slog.String("model", cfg.Chat.Model))
	return chat.NewAssistant(gen, digest, logger), nil
}
