package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Gateway server
	HTTPAddr string

	// Notion upstream
	NotionAPIURL  string
	NotionVersion string

	// OAuth (server-held; required only for the /oauth exchange)
	NotionClientID     string
	NotionClientSecret string
	BaseURL            string

	// Client
	GatewayURL     string
	RequestTimeout time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Session storage
	StorageBackend string
	SQLitePath     string
	RedisURL       string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("NC_ENV", "development"),
		LogLevel: getEnv("NC_LOG_LEVEL", "info"),

		HTTPAddr: getEnv("NC_HTTP_ADDR", "0.0.0.0:8080"),

		NotionAPIURL:  getEnv("NOTION_API_URL", "https://api.notion.com"),
		NotionVersion: getEnv("NOTION_VERSION", "2022-06-28"),

		NotionClientID:     getEnv("NOTION_CLIENT_ID", ""),
		NotionClientSecret: getEnv("NOTION_CLIENT_SECRET", ""),
		BaseURL:            getEnv("BASE_URL", ""),

		GatewayURL:     getEnv("NC_GATEWAY_URL", "http://localhost:8080"),
		RequestTimeout: getDurationEnv("NC_REQUEST_TIMEOUT", 10*time.Second),
		MaxRetries:     getIntEnv("NC_MAX_RETRIES", 3),
		RetryDelay:     getDurationEnv("NC_RETRY_DELAY", time.Second),

		StorageBackend: getEnv("NC_STORAGE_BACKEND", "sqlite"),
		SQLitePath:     getEnv("NC_SQLITE_PATH", getDefaultSQLitePath()),
		RedisURL:       getEnv("NC_REDIS_URL", "redis://localhost:6379/0"),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// HasOAuthCredentials reports whether the server-held OAuth configuration is
// complete. The code exchange fails fast without it.
func (c *Config) HasOAuthCredentials() bool {
	return c.NotionClientID != "" && c.NotionClientSecret != "" && c.BaseURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getDefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".notioncenter/session.db"
	}
	return home + "/.notioncenter/session.db"
}
