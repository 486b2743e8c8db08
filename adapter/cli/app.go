package cli

import (
	"fmt"
	"log/slog"

	"github.com/claritysync/notioncenter/internal/gateway"
	"github.com/claritysync/notioncenter/internal/session"
	"github.com/claritysync/notioncenter/internal/storage"
	"github.com/claritysync/notioncenter/internal/tasks"
	"github.com/claritysync/notioncenter/pkg/config"
)

// App bundles the wired dependencies the commands share: the session store
// over the configured KV backend, the gateway client, and the task service
// built on both.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Session *session.Store
	Gateway *gateway.Client
	Tasks   *tasks.Service

	kv storage.KV
}

// NewApp wires the application from configuration.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	kv, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	sessionStore := session.NewStore(kv)
	client := gateway.NewClient(gateway.ClientConfig{
		BaseURL:    cfg.GatewayURL,
		Timeout:    cfg.RequestTimeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}, logger)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Session: sessionStore,
		Gateway: client,
		Tasks:   tasks.NewService(client, sessionStore, logger),
		kv:      kv,
	}, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.kv.Close()
}
