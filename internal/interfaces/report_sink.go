package interfaces

import (
	"context"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

type ReportSink interface {
	WriteAccounts(ctx context.Context, accounts []models.AccountSnapshot) error
}
