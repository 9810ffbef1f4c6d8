// Package metrics exposes Prometheus instruments for the ledger pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "ledger"
	subsystem = "pipeline"
)

// Pipeline tracks record intake, ledger application outcomes and dispatch queue depth.
// A nil *Pipeline is valid and records nothing.
type Pipeline struct {
	recordsRead      prometheus.Counter
	recordsRejected  *prometheus.CounterVec
	operationsOK     *prometheus.CounterVec
	operationsFailed *prometheus.CounterVec
	dispatchDepth    prometheus.Gauge
}

// NewPipeline constructs and registers pipeline metrics with the provided registerer.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Pipeline{
		recordsRead: prometheus.NewCounter(prometheus.CounterOpts{ //nolint:exhaustruct
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "records_read_total",
			Help:      "Total number of records pulled from the record source.",
		}),
		recordsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{ //nolint:exhaustruct
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "records_rejected_total",
				Help:      "Total number of records rejected before reaching the ledger.",
			},
			[]string{"reason"},
		),
		operationsOK: prometheus.NewCounterVec(
			prometheus.CounterOpts{ //nolint:exhaustruct
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "operations_applied_total",
				Help:      "Total number of ledger operations applied successfully.",
			},
			[]string{"kind"},
		),
		operationsFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{ //nolint:exhaustruct
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "operations_failed_total",
				Help:      "Total number of ledger operations refused by the account state machine.",
			},
			[]string{"kind", "reason"},
		),
		dispatchDepth: prometheus.NewGauge(prometheus.GaugeOpts{ //nolint:exhaustruct
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dispatch_depth",
			Help:      "Events waiting in the dispatch channel.",
		}),
	}
	reg.MustRegister(m.recordsRead, m.recordsRejected, m.operationsOK, m.operationsFailed, m.dispatchDepth)
	return m
}

// RecordRead counts one record pulled from the source.
func (m *Pipeline) RecordRead() {
	if m == nil {
		return
	}
	m.recordsRead.Inc()
}

// RecordRejected counts a record dropped at the source boundary.
func (m *Pipeline) RecordRejected(reason string) {
	if m == nil {
		return
	}
	m.recordsRejected.WithLabelValues(reason).Inc()
}

// OperationApplied counts a successful ledger operation.
func (m *Pipeline) OperationApplied(kind string) {
	if m == nil {
		return
	}
	m.operationsOK.WithLabelValues(kind).Inc()
}

// OperationFailed counts a ledger operation that left the account unchanged.
func (m *Pipeline) OperationFailed(kind, reason string) {
	if m == nil {
		return
	}
	m.operationsFailed.WithLabelValues(kind, reason).Inc()
}

// SetDispatchDepth records the current dispatch channel length.
func (m *Pipeline) SetDispatchDepth(depth int) {
	if m == nil {
		return
	}
	m.dispatchDepth.Set(float64(depth))
}
