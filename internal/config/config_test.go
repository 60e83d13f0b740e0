package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "KAFKA_BROKERS", "SCOPES", "AI_TIMEOUT", "BATCH_DELAY", "SHOPIFY_APP_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite://ezproduct.db", cfg.DatabaseURL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Contains(t, cfg.Scopes, "write_products")
	assert.Equal(t, 90*time.Second, cfg.AITimeout)
	assert.Equal(t, 2*time.Second, cfg.BatchDelay)
	assert.Equal(t, "http://localhost:8080", cfg.ShopifyAppURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("AI_TIMEOUT", "15")
	t.Setenv("BATCH_DELAY", "500ms")
	t.Setenv("SHOPIFY_APP_URL", "https://app.example.com/")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 15*time.Second, cfg.AITimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchDelay)
	assert.Equal(t, "https://app.example.com", cfg.ShopifyAppURL)
	assert.True(t, cfg.IsProduction())
}
