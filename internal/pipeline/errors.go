package pipeline

import (
	"errors"
	"fmt"

	"github.com/sheikh-saqib/payments-engine/internal/ledger"
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// ErrTransport matches every *TransportError.
var ErrTransport = errors.New("transport failure")

// TransportError is a fatal read or write failure on the record source or a report sink.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// reason labels a per-record failure for logs and metrics.
func reason(err error) string {
	switch {
	case errors.Is(err, models.ErrValidation):
		return "validation"
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ledger.ErrUnknownTransaction):
		return "unknown_transaction"
	case errors.Is(err, ledger.ErrInvalidDisputeState):
		return "invalid_dispute_state"
	case errors.Is(err, ledger.ErrDuplicateTransaction):
		return "duplicate_transaction"
	default:
		return "other"
	}
}
