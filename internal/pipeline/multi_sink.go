package pipeline

import (
	"context"

	"github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// MultiSink hands the same report to every sink in order and stops at the first failure.
type MultiSink []interfaces.ReportSink

func (m MultiSink) WriteAccounts(ctx context.Context, accounts []models.AccountSnapshot) error {
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.WriteAccounts(ctx, accounts); err != nil {
			return err
		}
	}
	return nil
}

var _ interfaces.ReportSink = MultiSink(nil)
