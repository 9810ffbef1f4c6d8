package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 10_000, cfg.ChannelCapacity)
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		EnvChannelCapacity: " 20 ",
		EnvLogLevel:        "debug",
		EnvPostgresDSN:     "postgres://ledger@localhost/ledger?sslmode=disable",
		EnvKafkaBrokers:    "kafka-1:9092, ,kafka-2:9092",
		EnvKafkaTopic:      "accounts",
		EnvMetricsAddr:     ":9102",
	}))
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.ChannelCapacity)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres://ledger@localhost/ledger?sslmode=disable", cfg.PostgresDSN)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "accounts", cfg.KafkaTopic)
	assert.Equal(t, ":9102", cfg.MetricsAddr)
}

func TestFromLookupRejectsBadCapacity(t *testing.T) {
	for _, v := range []string{"abc", "0", "-5"} {
		_, err := FromLookup(lookupFrom(map[string]string{EnvChannelCapacity: v}))
		require.Error(t, err, v)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LEDGER_CHANNEL_CAPACITY=42\nLEDGER_KAFKA_TOPIC=from-file\n"), 0o600))
	t.Setenv(EnvKafkaTopic, "from-env")
	t.Cleanup(func() { _ = os.Unsetenv(EnvChannelCapacity) })

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.ChannelCapacity)
	assert.Equal(t, "from-env", cfg.KafkaTopic)
}
