package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/fundsflow-backend/internal/adapter/console"
	"github.com/simaogato/fundsflow-backend/internal/app"
	"github.com/simaogato/fundsflow-backend/internal/config"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logrus.Fatalf("Failed to load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger, nil)
	if err != nil {
		logger.Fatalf("Failed to start: %v", err)
	}

	renderer := console.NewRenderer(os.Stdout)
	application.Orchestrator.OnStateChange(renderer.Render)

	if err := console.NewConsole(application.Orchestrator, renderer, os.Stdin, logger).Run(ctx); err != nil {
		logger.Fatalf("Console stopped: %v", err)
	}
}
