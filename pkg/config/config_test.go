package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnvVars clears all notification-center environment variables.
func clearEnvVars() {
	envVars := []string{
		"NC_ENV", "NC_LOG_LEVEL", "NC_HTTP_ADDR",
		"NOTION_API_URL", "NOTION_VERSION",
		"NOTION_CLIENT_ID", "NOTION_CLIENT_SECRET", "BASE_URL",
		"NC_GATEWAY_URL", "NC_REQUEST_TIMEOUT", "NC_MAX_RETRIES", "NC_RETRY_DELAY",
		"NC_STORAGE_BACKEND", "NC_SQLITE_PATH", "NC_REDIS_URL",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)

	assert.Equal(t, "https://api.notion.com", cfg.NotionAPIURL)
	assert.Equal(t, "2022-06-28", cfg.NotionVersion)
	assert.Empty(t, cfg.NotionClientID)
	assert.Empty(t, cfg.NotionClientSecret)
	assert.Empty(t, cfg.BaseURL)

	assert.Equal(t, "http://localhost:8080", cfg.GatewayURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)

	assert.Equal(t, "sqlite", cfg.StorageBackend)
	assert.NotEmpty(t, cfg.SQLitePath)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("NC_ENV", "production")
	os.Setenv("NC_HTTP_ADDR", "127.0.0.1:9999")
	os.Setenv("NOTION_API_URL", "http://localhost:4010")
	os.Setenv("NC_REQUEST_TIMEOUT", "2s")
	os.Setenv("NC_MAX_RETRIES", "5")
	os.Setenv("NC_STORAGE_BACKEND", "redis")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "127.0.0.1:9999", cfg.HTTPAddr)
	assert.Equal(t, "http://localhost:4010", cfg.NotionAPIURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, "redis", cfg.StorageBackend)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("NC_MAX_RETRIES", "not-a-number")
	os.Setenv("NC_REQUEST_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestHasOAuthCredentials(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.HasOAuthCredentials())

	cfg.NotionClientID = "client-id"
	cfg.NotionClientSecret = "client-secret"
	assert.False(t, cfg.HasOAuthCredentials())

	cfg.BaseURL = "https://notify.claritysync.app"
	assert.True(t, cfg.HasOAuthCredentials())
}
