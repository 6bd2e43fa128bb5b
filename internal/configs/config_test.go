package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

// unsetForTest снимает переменную и восстанавливает ее после теста.
func unsetForTest(t *testing.T, keys ...string) {
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	unsetForTest(t, "APP_NAME", "PORT", "MARKETPLACE_API_TIMEOUT", "DATABASE_URL", "RABBITMQ_ENABLED",
		"FEED_DEDUPLICATE_BY_ID", "FEED_DISCARD_STALE_PAGES", "FEED_SESSION_TTL", "FEED_EVICTION_INTERVAL",
		"FLUENTBIT_ENABLED", "STDOUT_LOG_LEVEL", "CORS_ALLOWED_ORIGINS")
	t.Setenv("MARKETPLACE_API_URL", "https://farmboard.example.com/")

	cfg, err := LoadConfig(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "feed-service", cfg.AppName)
	assert.Equal(t, "https://farmboard.example.com", cfg.MarketplaceAPI.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.MarketplaceAPI.Timeout)
	assert.Equal(t, "8090", cfg.Rest.PORT)
	assert.Equal(t, []string{"*"}, cfg.Rest.AllowedOrigins)
	assert.Empty(t, cfg.Database.URL)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.False(t, cfg.Feed.DeduplicateByID)
	assert.False(t, cfg.Feed.DiscardStalePages)
	assert.Equal(t, 30*time.Minute, cfg.Feed.SessionTTL)
	assert.Equal(t, time.Minute, cfg.Feed.EvictionInterval)
	assert.False(t, cfg.FluentBit.Enabled)
	assert.Equal(t, "debug", cfg.StdoutLogger.Level)
}

func TestLoadConfig_RequiresMarketplaceURL(t *testing.T) {
	t.Setenv("MARKETPLACE_API_URL", "")

	_, err := LoadConfig(missingEnvFile(t))
	assert.ErrorContains(t, err, "MARKETPLACE_API_URL")
}

func TestLoadConfig_RabbitMQNeedsURL(t *testing.T) {
	t.Setenv("MARKETPLACE_API_URL", "http://localhost:3000")
	t.Setenv("RABBITMQ_ENABLED", "true")
	t.Setenv("RABBITMQ_URL", "")

	_, err := LoadConfig(missingEnvFile(t))
	assert.ErrorContains(t, err, "RABBITMQ_URL")
}

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	unsetForTest(t, "MARKETPLACE_API_URL", "FEED_SESSION_TTL", "FEED_DEDUPLICATE_BY_ID", "CORS_ALLOWED_ORIGINS")

	path := filepath.Join(t.TempDir(), ".env")
	content := "MARKETPLACE_API_URL=http://api.local\n" +
		"FEED_SESSION_TTL=5m\n" +
		"FEED_DEDUPLICATE_BY_ID=true\n" +
		"CORS_ALLOWED_ORIGINS=http://a.test, ,http://b.test\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://api.local", cfg.MarketplaceAPI.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.Feed.SessionTTL)
	assert.True(t, cfg.Feed.DeduplicateByID)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Rest.AllowedOrigins)
}

func TestLoadConfig_BadValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("MARKETPLACE_API_URL", "http://localhost:3000")
	t.Setenv("MARKETPLACE_API_TIMEOUT", "soon")
	t.Setenv("FEED_DISCARD_STALE_PAGES", "maybe")
	t.Setenv("FLUENTBIT_ENABLED", "true")
	t.Setenv("FLUENTBIT_HOST", "")

	cfg, err := LoadConfig(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.MarketplaceAPI.Timeout)
	assert.False(t, cfg.Feed.DiscardStalePages)
	assert.False(t, cfg.FluentBit.Enabled)
}
