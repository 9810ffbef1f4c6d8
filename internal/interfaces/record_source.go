package interfaces

import (
	"context"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// RecordSource yields validated events. Next returns io.EOF once the input is exhausted
// and an error matching models.ErrValidation for a rejected record; any other error is fatal.
type RecordSource interface {
	Next(ctx context.Context) (models.Event, error)
}
