// Package pipeline drives validated events from a record source through a bounded
// dispatch channel into the ledger registry, then hands the final accounts to a report sink.
package pipeline

import (
	"context"
	"errors"
	"io"

	"github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/ledger"
	"github.com/sheikh-saqib/payments-engine/internal/metrics"
	"github.com/sheikh-saqib/payments-engine/internal/models"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Option customises a run.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	metrics *metrics.Pipeline
}

// WithLogger sets the logger used for per-record diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records pipeline activity on m.
func WithMetrics(m *metrics.Pipeline) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Run ingests every record from source, applies it to a fresh registry and writes the
// final account states to sink. Per-record failures are logged and skipped; only
// transport failures are returned, as *TransportError.
func Run(ctx context.Context, source interfaces.RecordSource, sink interfaces.ReportSink, capacity int, opts ...Option) error {
	o := newOptions(opts)

	registry, err := ingest(ctx, source, capacity, o)
	if err != nil {
		return err
	}

	accounts := registry.Snapshots()
	if err := sink.WriteAccounts(ctx, accounts); err != nil {
		o.logger.Error("write report failed", zap.Error(err))
		return &TransportError{Op: "write report", Err: err}
	}
	o.logger.Info("report written", zap.Int("accounts", len(accounts)))
	return nil
}

// Ingest drains source into a new registry and returns it once the stream is exhausted.
func Ingest(ctx context.Context, source interfaces.RecordSource, capacity int, opts ...Option) (*ledger.Registry, error) {
	return ingest(ctx, source, capacity, newOptions(opts))
}

func ingest(ctx context.Context, source interfaces.RecordSource, capacity int, o options) (*ledger.Registry, error) {
	registry := ledger.NewRegistry()
	dispatch := NewDispatch(capacity)

	var produceErr error
	var wg conc.WaitGroup
	wg.Go(func() {
		produceErr = produce(ctx, source, dispatch, o)
	})
	wg.Go(func() {
		consume(dispatch, registry, o)
	})
	wg.Wait()

	if produceErr != nil {
		o.logger.Error("ingestion aborted", zap.Error(produceErr))
		return nil, produceErr
	}
	return registry, nil
}

// produce reads the source until EOF. The dispatch channel is always closed on return
// so the consumer can drain and exit.
func produce(ctx context.Context, source interfaces.RecordSource, dispatch *Dispatch, o options) error {
	defer dispatch.Close()

	for {
		ev, err := source.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, models.ErrValidation):
			o.metrics.RecordRead()
			o.metrics.RecordRejected(reason(err))
			o.logger.Warn("record rejected", zap.Error(err))
			continue
		case err != nil:
			return &TransportError{Op: "read record", Err: err}
		}

		o.metrics.RecordRead()
		dispatch.Send(ev)
		o.metrics.SetDispatchDepth(dispatch.Len())
	}
}

func consume(dispatch *Dispatch, registry *ledger.Registry, o options) {
	for {
		ev, ok := dispatch.Recv()
		if !ok {
			return
		}
		o.metrics.SetDispatchDepth(dispatch.Len())

		account := registry.GetOrCreate(ev.Client)
		if err := account.Apply(ev); err != nil {
			o.metrics.OperationFailed(ev.Kind.String(), reason(err))
			o.logger.Warn("operation refused",
				zap.Uint16("client", uint16(ev.Client)),
				zap.Uint32("tx", uint32(ev.ID)),
				zap.Stringer("kind", ev.Kind),
				zap.Error(err),
			)
			continue
		}
		o.metrics.OperationApplied(ev.Kind.String())
	}
}
