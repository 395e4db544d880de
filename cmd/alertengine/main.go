package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tradewatch/config"
	"tradewatch/internal/alertengine"
	"tradewatch/internal/logger"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	configPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	// .env is a developer convenience; production sets real env vars.
	if err := godotenv.Load(); err == nil {
		log.Println("[alertengine] loaded .env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[alertengine] config: %v", err)
	}

	logger.Init("alertengine", slogLevel(cfg.LogLevel))

	svc, err := alertengine.New(cfg)
	if err != nil {
		log.Fatalf("[alertengine] init failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := svc.Run(ctx); err != nil {
		log.Fatalf("[alertengine] fatal: %v", err)
	}
}

func slogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
