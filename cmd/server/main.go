package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/feudhost/feudhost/internal/bus"
	"github.com/feudhost/feudhost/internal/config"
	"github.com/feudhost/feudhost/internal/database"
	"github.com/feudhost/feudhost/internal/generate"
	"github.com/feudhost/feudhost/internal/migrations"
	"github.com/feudhost/feudhost/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	// A .env file is optional; real deployments set variables directly.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	if err := os.MkdirAll(cfg.DBDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	dbPath := filepath.Join(cfg.DBDir, "feudhost.db")

	db, err := database.Open(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", dbPath)

	// --- Rooms ---
	exchange := bus.NewExchange()
	rooms := server.NewRoomManager(exchange, cfg.PublicURL, logger, clockwork.NewRealClock())
	defer rooms.CloseAll()

	// --- Board generation ---
	var gen generate.Generator
	if cfg.GeminiAPIKey != "" {
		gen = generate.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
		logger.Info("board generation enabled", "model", cfg.GeminiModel)
	}

	// --- HTTP Server ---
	store := server.NewDocStore(db)
	srv := server.New(cfg.HTTPAddr, logger, db, store, rooms, gen, cfg.SPADir)

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
