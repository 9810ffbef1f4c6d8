package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sheikh-saqib/payments-engine/internal/ledger"
	"github.com/sheikh-saqib/payments-engine/internal/metrics"
	"github.com/sheikh-saqib/payments-engine/internal/models"
	"github.com/sheikh-saqib/payments-engine/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRunAppliesEventsAndReports(t *testing.T) {
	source := &sliceSource{items: []item{
		fundEvent(models.KindDeposit, 1, 1, "3.5"),
		fundEvent(models.KindDeposit, 2, 3, "18"),
		fundEvent(models.KindWithdrawal, 1, 2, "1.5"),
		disputeEvent(models.KindDispute, 1, 2),
		disputeEvent(models.KindChargeBack, 1, 2),
		fundEvent(models.KindWithdrawal, 2, 4, "5"),
	}}
	store := memory.NewMemoryReportStore()

	require.NoError(t, Run(context.Background(), source, store, 2))

	one, ok := store.Account(1)
	require.True(t, ok)
	assert.Equal(t, "2.0000", models.FormatMoney(one.Available))
	assert.Equal(t, "0.0000", models.FormatMoney(one.Held))
	assert.Equal(t, "2.0000", models.FormatMoney(one.Total))
	assert.True(t, one.Locked)

	two, ok := store.Account(2)
	require.True(t, ok)
	assert.Equal(t, "13.0000", models.FormatMoney(two.Total))
	assert.False(t, two.Locked)
	assert.Equal(t, 1, store.Writes())
}

func TestRunSkipsPerRecordFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	reg := prometheus.NewRegistry()
	m := metrics.NewPipeline(reg)

	source := &sliceSource{items: []item{
		rejected("deposit tx 9 requires an amount"),
		fundEvent(models.KindDeposit, 1, 1, "1"),
		fundEvent(models.KindWithdrawal, 1, 2, "5"),
		disputeEvent(models.KindDispute, 1, 77),
		disputeEvent(models.KindResolve, 1, 1),
		fundEvent(models.KindDeposit, 1, 3, "2"),
	}}
	store := memory.NewMemoryReportStore()

	err := Run(context.Background(), source, store, 1, WithLogger(zap.New(core)), WithMetrics(m))
	require.NoError(t, err)

	got, ok := store.Account(1)
	require.True(t, ok)
	assert.Equal(t, "3.0000", models.FormatMoney(got.Available))
	assert.Equal(t, "3.0000", models.FormatMoney(got.Total))

	assert.Equal(t, 1, logs.FilterMessage("record rejected").Len())
	assert.Equal(t, 3, logs.FilterMessage("operation refused").Len())

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP ledger_pipeline_records_read_total Total number of records pulled from the record source.
# TYPE ledger_pipeline_records_read_total counter
ledger_pipeline_records_read_total 6
`), "ledger_pipeline_records_read_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "ledger_pipeline_records_rejected_total"))
	assert.Equal(t, 3, testutil.CollectAndCount(reg, "ledger_pipeline_operations_failed_total"))
}

func TestRunRejectedRecordsNeverTouchTheLedger(t *testing.T) {
	source := &sliceSource{items: []item{
		rejected("withdrawal tx 1 requires an amount"),
		rejected("dispute tx 1 must not carry an amount"),
	}}
	store := memory.NewMemoryReportStore()

	require.NoError(t, Run(context.Background(), source, store, 4))
	assert.Empty(t, store.Accounts())
}

func TestRunAbortsOnSourceFailure(t *testing.T) {
	source := &sliceSource{items: []item{
		fundEvent(models.KindDeposit, 1, 1, "1"),
		{err: errBrokenPipe},
		fundEvent(models.KindDeposit, 1, 2, "1"),
	}}
	store := memory.NewMemoryReportStore()

	err := Run(context.Background(), source, store, 1)
	require.ErrorIs(t, err, ErrTransport)
	require.ErrorIs(t, err, errBrokenPipe)

	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, "read record", tErr.Op)
	assert.Equal(t, 0, store.Writes(), "no report after an aborted ingestion")
}

func TestRunReportsSinkFailure(t *testing.T) {
	source := &sliceSource{items: []item{fundEvent(models.KindDeposit, 1, 1, "1")}}

	err := Run(context.Background(), source, failingSink{err: errBrokenPipe}, 1)
	require.ErrorIs(t, err, ErrTransport)
	require.ErrorIs(t, err, errBrokenPipe)
}

func TestIngestPreservesPerClientOrder(t *testing.T) {
	// a withdrawal that only succeeds if the deposit before it was applied first
	var items []item
	for i := 0; i < 500; i++ {
		client := models.ClientID(i % 5)
		dep := models.TransactionID(2 * i)
		items = append(items,
			fundEvent(models.KindDeposit, client, dep, "1"),
			fundEvent(models.KindWithdrawal, client, dep+1, "1"),
		)
	}

	registry, err := Ingest(context.Background(), &sliceSource{items: items}, 3)
	require.NoError(t, err)
	require.Equal(t, 5, registry.Len())
	for _, snap := range registry.Snapshots() {
		assert.True(t, snap.Total.IsZero(), "client %d: %s", snap.Client, snap.Total)
	}
}

func TestIngestTotalsMatchAppliedMovements(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const client = models.ClientID(42)

	var items []item
	expected := decimal.Zero
	for id := models.TransactionID(1); id <= 2000; id++ {
		amount := decimal.NewFromInt(int64(rng.Intn(50000) + 1)).Shift(-4)
		if rng.Intn(3) == 0 {
			items = append(items, fundEvent(models.KindWithdrawal, client, id, amount.String()))
			if amount.LessThanOrEqual(expected) {
				expected = expected.Sub(amount)
			}
			continue
		}
		items = append(items, fundEvent(models.KindDeposit, client, id, amount.String()))
		expected = expected.Add(amount)
	}

	registry, err := Ingest(context.Background(), &sliceSource{items: items}, 16)
	require.NoError(t, err)

	account, ok := registry.Get(client)
	require.True(t, ok)
	snap := account.Snapshot()
	assert.True(t, snap.Total.Equal(expected), "total %s want %s", snap.Total, expected)
	assert.True(t, snap.Total.Equal(snap.Available.Add(snap.Held)))
}

func TestMultiSinkStopsAtFirstFailure(t *testing.T) {
	first := memory.NewMemoryReportStore()
	last := memory.NewMemoryReportStore()
	sink := MultiSink{first, nil, failingSink{err: errBrokenPipe}, last}

	err := sink.WriteAccounts(context.Background(), []models.AccountSnapshot{{Client: 1}})
	require.ErrorIs(t, err, errBrokenPipe)
	assert.Equal(t, 1, first.Writes())
	assert.Equal(t, 0, last.Writes())
}

func TestReasonLabels(t *testing.T) {
	for want, err := range map[string]error{
		"validation":            &models.ValidationError{Reason: "x"},
		"insufficient_funds":    fmt.Errorf("wrap: %w", ledger.ErrInsufficientFunds),
		"unknown_transaction":   ledger.ErrUnknownTransaction,
		"invalid_dispute_state": ledger.ErrInvalidDisputeState,
		"duplicate_transaction": ledger.ErrDuplicateTransaction,
		"other":                 errBrokenPipe,
	} {
		assert.Equal(t, want, reason(err))
	}
}
