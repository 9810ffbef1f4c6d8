package kafka

import (
	"context"
	"fmt"
	"time"

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
	"github.com/sheikh-saqib/payments-engine/internal/models/events"
)

// ReportSink publishes one AccountReported event per account, all in one batch.
type ReportSink struct {
	publisher interfaces.EventPublisher
	runID     string
	now       func() time.Time
}

func NewReportSink(publisher interfaces.EventPublisher, runID string) *ReportSink {
	return &ReportSink{
		publisher: publisher,
		runID:     runID,
		now:       time.Now,
	}
}

func (s *ReportSink) WriteAccounts(ctx context.Context, accounts []models.AccountSnapshot) error {
	at := s.now().UTC()
	batch := make([]interfaces.KeyedEvent, 0, len(accounts))
	for _, account := range accounts {
		batch = append(batch, interfaces.KeyedEvent{
			Key:   account.Client.String(),
			Event: events.NewAccountReported(s.runID, account, at),
		})
	}

	if err := s.publisher.PublishBatch(ctx, batch); err != nil {
		return fmt.Errorf("publish %d accounts: %w", len(batch), err)
	}
	return nil
}

var _ interfaces.ReportSink = (*ReportSink)(nil)
