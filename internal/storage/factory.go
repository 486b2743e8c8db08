package storage

import (
	"fmt"

	"github.com/claritysync/notioncenter/pkg/config"
)

// Open creates the KV backend selected by configuration.
// Supported backends: memory, sqlite, redis.
func Open(cfg *config.Config) (KV, error) {
	switch cfg.StorageBackend {
	case "memory":
		return NewMemoryKV(), nil
	case "sqlite", "":
		return NewSQLiteKV(cfg.SQLitePath)
	case "redis":
		return NewRedisKV(cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
