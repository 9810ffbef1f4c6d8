package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// AccountReported is published once per account after the input stream is exhausted
type AccountReported struct {
	EventID    string    `json:"event_id"`
	RunID      string    `json:"run_id"`
	Client     uint16    `json:"client"`
	Available  string    `json:"available"`
	Held       string    `json:"held"`
	Total      string    `json:"total"`
	Locked     bool      `json:"locked"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewAccountReported builds the wire payload for a final account state.
func NewAccountReported(runID string, snap models.AccountSnapshot, at time.Time) AccountReported {
	return AccountReported{
		EventID:    uuid.New().String(),
		RunID:      runID,
		Client:     uint16(snap.Client),
		Available:  models.FormatMoney(snap.Available),
		Held:       models.FormatMoney(snap.Held),
		Total:      models.FormatMoney(snap.Total),
		Locked:     snap.Locked,
		OccurredAt: at,
	}
}
