package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.NotEmpty(t, cfg.SirensURL)
	assert.NotEmpty(t, cfg.RainURL)
	assert.Empty(t, cfg.TrafficURL, "traffic feed has no public default endpoint")
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("TRAFFIC_URL", "http://localhost:9090/traffic")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("KAFKA_TOPIC", "alerts")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "http://localhost:9090/traffic", cfg.TrafficURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "alerts", cfg.KafkaTopic)
	assert.True(t, cfg.KafkaEnabled, "brokers present implies publishing enabled")
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "SHUTDOWN_TIMEOUT")
}

func TestLoadKafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	assert.ErrorContains(t, err, "KAFKA_BROKERS")
}

func TestLoadIncidentsRequiresCredentials(t *testing.T) {
	t.Setenv("INCIDENTS_URL", "https://incidents.example/api")
	_, err := Load()
	assert.ErrorContains(t, err, "INCIDENTS_USER")

	t.Setenv("INCIDENTS_USER", "user")
	t.Setenv("INCIDENTS_PASSWORD", "secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "user", cfg.IncidentsUser)
}

func TestKafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092")
	t.Setenv("KAFKA_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}
