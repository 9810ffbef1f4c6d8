package ledger

import "errors"

var (
	// ErrInsufficientFunds is returned when a withdrawal exceeds the available funds.
	ErrInsufficientFunds = errors.New("insufficient available funds")

	// ErrUnknownTransaction is returned when a dispute references a transaction
	// that is not in the account history.
	ErrUnknownTransaction = errors.New("unknown transaction")

	// ErrInvalidDisputeState is returned when resolve or chargeback targets a
	// transaction that is missing or not currently disputed.
	ErrInvalidDisputeState = errors.New("transaction is not under dispute")

	// ErrDuplicateTransaction is returned when a deposit or withdrawal reuses a
	// transaction id already recorded on the account.
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
)
