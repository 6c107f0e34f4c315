package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ArminGh02/dumpy-bot/pkg/config"
	"github.com/ArminGh02/dumpy-bot/pkg/database"
	"github.com/ArminGh02/dumpy-bot/pkg/dumpybot"
	"github.com/ArminGh02/dumpy-bot/pkg/gifmaker"
	"github.com/ArminGh02/dumpy-bot/pkg/logging"
	"github.com/ArminGh02/dumpy-bot/pkg/telemetry"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("dumpy-bot failed", slog.Any("err", err))
		os.Exit(1)
	}
}

// run must not call os.Exit: its deferred calls flush buffered spans.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	level, ok := logging.ParseLevel(cfg.LogLevel)
	slog.SetDefault(logging.New(logging.Writer{Loc: cfg.Location}, level, cfg.LogFormat))
	if !ok {
		slog.Warn("unknown LOG_LEVEL, using info", slog.String("value", cfg.LogLevel))
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	telemetry.Init()
	shutdown, err := telemetry.InitTracing("dumpy-bot", "1.0.0")
	if err != nil {
		return fmt.Errorf("tracing initialization failed: %w", err)
	}
	defer shutdown()

	assets, err := gifmaker.LoadAssets(cfg.AssetsDir)
	if err != nil {
		return fmt.Errorf("failed to load sprite assets from %s: %w", cfg.AssetsDir, err)
	}

	opts := cfg.RenderOptions()
	inProcess := gifmaker.NewInProcess(assets, opts)
	var ffmpeg gifmaker.Renderer
	if cfg.FFmpegMinTileHeight > 0 {
		if _, err := exec.LookPath("ffmpeg"); err != nil {
			slog.Warn("ffmpeg not found, rendering everything in-process", slog.Any("err", err))
		} else {
			ffmpeg = gifmaker.NewFFmpeg(assets, opts)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.MongoDBURI)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	return dumpybot.New(cfg, store, inProcess, ffmpeg).Run(ctx)
}

func openStore(ctx context.Context, uri string) (database.Store, error) {
	if uri == "" {
		slog.Warn("DUMPY_MONGODB_URI not set, keeping users in memory")
		return database.NewMemory(), nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return database.New(ctx, uri)
}
