package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-breed-browser/internal/app"
	"github.com/samvad-hq/samvad-breed-browser/internal/config"
	"github.com/samvad-hq/samvad-breed-browser/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "breed browser failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("breed browser starting", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session, err := app.NewSession(ctx, cfg, log, app.Streams{Out: os.Stdout, Progress: os.Stderr})
	if err != nil {
		logger.ErrorObj("failed to initialize session", "error", err.Error())
		return err
	}

	if err := session.Run(ctx, os.Stdin); err != nil {
		return fmt.Errorf("session run: %w", err)
	}

	return nil
}
