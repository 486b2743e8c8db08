package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/claritysync/notioncenter/adapter/cli"
	"github.com/claritysync/notioncenter/pkg/config"
	"github.com/claritysync/notioncenter/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cli.SetLogger(logger)

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			// In development, allow informational commands without storage.
			logger.Warn("failed to wire application, running in limited mode", "error", err)
		} else {
			logger.Error("failed to wire application", "error", err)
			os.Exit(1)
		}
	} else {
		defer app.Close()
	}
	cli.SetApp(app)

	cli.Execute(ctx)
}
