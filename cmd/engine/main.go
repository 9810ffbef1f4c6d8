// Command engine applies a CSV stream of ledger events and prints the final account balances as CSV.
//
//	engine transactions.csv > accounts.csv
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/payments-engine/internal/config"
	"github.com/sheikh-saqib/payments-engine/internal/csvio"
	"github.com/sheikh-saqib/payments-engine/internal/events/kafka"
	"github.com/sheikh-saqib/payments-engine/internal/logging"
	"github.com/sheikh-saqib/payments-engine/internal/metrics"
	"github.com/sheikh-saqib/payments-engine/internal/pipeline"
	"github.com/sheikh-saqib/payments-engine/internal/storage/postgres"
)

const metricsShutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: engine <transactions.csv>")
		return 2
	}

	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}

	runID := uuid.NewString()
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, RunID: runID})
	if err != nil {
		fmt.Fprintf(stderr, "init logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	if err := execute(context.Background(), args[0], cfg, runID, logger, stdout); err != nil {
		logger.Error("run failed", zap.Error(err))
		return 1
	}
	return 0
}

func execute(ctx context.Context, path string, cfg config.Config, runID string, logger *zap.Logger, stdout io.Writer) error {
	registry := prometheus.NewRegistry()
	pipelineMetrics := metrics.NewPipeline(registry)
	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr, registry, logger)
		defer stop()
	}

	// #nosec G304 -- file path is operator provided on the command line.
	input, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer input.Close()

	sink, closeSinks, err := buildSinks(ctx, cfg, runID, stdout, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	logger.Info("run started",
		zap.String("input", path),
		zap.Int("channel_capacity", cfg.ChannelCapacity),
		zap.Int("sinks", len(sink)),
	)
	return pipeline.Run(ctx, csvio.NewReader(bufio.NewReader(input)), sink, cfg.ChannelCapacity,
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(pipelineMetrics),
	)
}

// buildSinks always reports to stdout and adds Postgres and Kafka when configured.
func buildSinks(ctx context.Context, cfg config.Config, runID string, stdout io.Writer, logger *zap.Logger) (pipeline.MultiSink, func(), error) {
	sinks := pipeline.MultiSink{csvio.NewWriter(stdout)}
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("close sink", zap.Error(err))
			}
		}
	}

	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, db.Close)
		store := postgres.NewPostgresReportStore(db, runID)
		if err := store.EnsureSchema(ctx); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("ensure postgres schema: %w", err)
		}
		sinks = append(sinks, store)
		logger.Info("postgres report sink enabled")
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		closers = append(closers, publisher.Close)
		sinks = append(sinks, kafka.NewReportSink(publisher, runID))
		logger.Info("kafka report sink enabled",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic),
		)
	}

	return sinks, closeAll, nil
}

func serveMetrics(addr string, registry *prometheus.Registry, logger *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	logger.Info("metrics endpoint listening", zap.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
