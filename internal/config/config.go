// Package config loads engine settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultChannelCapacity = 10_000
	DefaultLogLevel        = "info"
	DefaultKafkaTopic      = "account_reported"
)

// Environment variable names.
const (
	EnvChannelCapacity = "LEDGER_CHANNEL_CAPACITY"
	EnvLogLevel        = "LEDGER_LOG_LEVEL"
	EnvPostgresDSN     = "LEDGER_POSTGRES_DSN"
	EnvKafkaBrokers    = "LEDGER_KAFKA_BROKERS"
	EnvKafkaTopic      = "LEDGER_KAFKA_TOPIC"
	EnvMetricsAddr     = "LEDGER_METRICS_ADDR"
)

// Config holds the settings for one engine run.
type Config struct {
	ChannelCapacity int
	LogLevel        string
	PostgresDSN     string
	KafkaBrokers    []string
	KafkaTopic      string
	MetricsAddr     string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		ChannelCapacity: DefaultChannelCapacity,
		LogLevel:        DefaultLogLevel,
		KafkaTopic:      DefaultKafkaTopic,
	}
}

// Load reads the given .env files (missing files are ignored) and then the process environment.
// Variables already present in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, which has the signature of os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvChannelCapacity); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvChannelCapacity, err)
		}
		if n <= 0 {
			return Config{}, fmt.Errorf("%s must be > 0, got %d", EnvChannelCapacity, n)
		}
		cfg.ChannelCapacity = n
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvPostgresDSN); ok {
		cfg.PostgresDSN = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvKafkaBrokers); ok {
		for _, broker := range strings.Split(v, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}
	if v, ok := lookup(EnvKafkaTopic); ok && strings.TrimSpace(v) != "" {
		cfg.KafkaTopic = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvMetricsAddr); ok {
		cfg.MetricsAddr = strings.TrimSpace(v)
	}
	return cfg, nil
}
