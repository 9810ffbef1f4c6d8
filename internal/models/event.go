package models

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the type of a ledger event
type Kind uint8

const (
	KindDeposit Kind = iota + 1
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeBack
)

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindDispute:
		return "dispute"
	case KindResolve:
		return "resolve"
	case KindChargeBack:
		return "chargeback"
	default:
		return "unknown"
	}
}

// MovesFunds reports whether events of this kind carry an amount and create history.
func (k Kind) MovesFunds() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// ParseKind maps a wire token such as "Deposit" or " chargeback " to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit":
		return KindDeposit, nil
	case "withdrawal":
		return KindWithdrawal, nil
	case "dispute":
		return KindDispute, nil
	case "resolve":
		return KindResolve, nil
	case "chargeback":
		return KindChargeBack, nil
	}
	return 0, &ValidationError{Reason: fmt.Sprintf("unknown transaction type %q", s)}
}

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New("invalid transaction record")

// ValidationError rejects a record at the source boundary. It never reaches the ledger.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrValidation, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Event is a validated ledger event. Build it with NewEvent.
type Event struct {
	ID     TransactionID
	Client ClientID
	Kind   Kind
	amount *Money
}

// NewEvent validates that amount is present exactly when kind moves funds.
func NewEvent(id TransactionID, client ClientID, kind Kind, amount *Money) (Event, error) {
	switch {
	case kind < KindDeposit || kind > KindChargeBack:
		return Event{}, &ValidationError{Reason: fmt.Sprintf("unknown kind for tx %d", id)}
	case kind.MovesFunds() && amount == nil:
		return Event{}, &ValidationError{Reason: fmt.Sprintf("%s tx %d requires an amount", kind, id)}
	case !kind.MovesFunds() && amount != nil:
		return Event{}, &ValidationError{Reason: fmt.Sprintf("%s tx %d must not carry an amount", kind, id)}
	}
	ev := Event{ID: id, Client: client, Kind: kind}
	if amount != nil {
		a := *amount
		ev.amount = &a
	}
	return ev, nil
}

// Amount returns the event amount; ok is false for dispute-lifecycle events.
func (e Event) Amount() (Money, bool) {
	if e.amount == nil {
		return Money{}, false
	}
	return *e.amount, true
}
