package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/sdn3bangkuang/sekolahku/internal/apperr"
	"github.com/sdn3bangkuang/sekolahku/internal/content"
	"github.com/sdn3bangkuang/sekolahku/internal/mcpserver"
	"github.com/sdn3bangkuang/sekolahku/internal/sheet"
	"github.com/sdn3bangkuang/sekolahku/internal/snapshot"
)

// RunMCP serves the content tools over MCP stdio. The logger writes to
// stderr because stdout carries the MCP transport.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	snap, err := snapshot.Open(cfg.Snapshot.Path)
	if err != nil {
		return fmt.Errorf("init snapshot: %w", err)
	}
	defer snap.Close()

	backend := sheet.NewClient(cfg.Sheet.BaseURL, &http.Client{Timeout: cfg.Sheet.Timeout})
	store := content.NewStore(backend, snap, logger, nil)

	if err := store.RestoreFromSnapshot(); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		logger.Warn("snapshot restore failed", slog.String("error", err.Error()))
	}
	if err := store.Refresh(ctx); err != nil {
		logger.Warn("initial content fetch failed", slog.String("error", err.Error()))
	}

	assistant, err := buildAssistant(ctx, cfg, store, logger)
	if err != nil {
		return err
	}

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(store, assistant).ServeStdio()
}
