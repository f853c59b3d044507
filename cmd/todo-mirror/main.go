package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/todo-api-client/internal/app"
	"github.com/Adda-Baaj/todo-api-client/internal/config"
	"github.com/Adda-Baaj/todo-api-client/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "todo-mirror start failed: %v\n", err)
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

	logger.InfoObj("todo-mirror starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mirror, err := app.NewMirror(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize mirror", "error", err.Error())
		return err
	}
	defer func() {
		if err := mirror.Close(); err != nil {
			logger.ErrorObj("mirror close failed", "error", err.Error())
		}
	}()

	if err := mirror.Run(ctx); err != nil {
		return fmt.Errorf("mirror run: %w", err)
	}

	return nil
}
