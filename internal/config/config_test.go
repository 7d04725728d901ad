package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvProduction)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "/api/clientes", cfg.HTTPPrefix)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, time.Second, cfg.OutboxPeriod)
	assert.Equal(t, 10, cfg.OutboxLimit)
	assert.False(t, cfg.UseKafka)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", EnvDevelopment)
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("USE_KAFKA", "true")
	t.Setenv("OUTBOX_PERIOD", "250ms")
	t.Setenv("HTTP_PREFIX", "/clientes")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.UseKafka)
	assert.Equal(t, 250*time.Millisecond, cfg.OutboxPeriod)
	assert.Equal(t, "/clientes", cfg.HTTPPrefix)
}
