package ledger

import (
	"fmt"
	"sync"

	"github.com/sheikh-saqib/payments-engine/internal/models"
	"github.com/shopspring/decimal"
)

// Account is the ledger of a single client.
// Every operation takes the account mutex for its whole duration and releases it
// before returning, so a failed operation never leaves a partial mutation behind.
type Account struct {
	mu        sync.Mutex
	client    models.ClientID
	available models.Money
	held      models.Money
	total     models.Money
	locked    bool
	history   map[models.TransactionID]*models.Operation // audit log, entries are never removed
}

// NewAccount returns an empty, unlocked account for client
func NewAccount(client models.ClientID) *Account {
	return &Account{
		client:    client,
		available: decimal.Zero,
		held:      decimal.Zero,
		total:     decimal.Zero,
		history:   make(map[models.TransactionID]*models.Operation),
	}
}

// Client returns the owner of the account.
func (a *Account) Client() models.ClientID {
	return a.client
}

// Apply routes a validated event to the matching operation.
func (a *Account) Apply(ev models.Event) error {
	switch ev.Kind {
	case models.KindDeposit, models.KindWithdrawal:
		amount, ok := ev.Amount()
		if !ok {
			return fmt.Errorf("client %d tx %d: %s without amount: %w", a.client, ev.ID, ev.Kind, models.ErrValidation)
		}
		if ev.Kind == models.KindDeposit {
			return a.Deposit(ev.ID, amount)
		}
		return a.Withdraw(ev.ID, amount)
	case models.KindDispute:
		return a.Dispute(ev.ID)
	case models.KindResolve:
		return a.Resolve(ev.ID)
	case models.KindChargeBack:
		return a.ChargeBack(ev.ID)
	default:
		return fmt.Errorf("client %d tx %d: %w", a.client, ev.ID, models.ErrValidation)
	}
}

// Deposit credits amount to available and total and records the operation.
// Deposits are accepted on locked accounts.
//
// A deposit whose id is already recorded on the account is refused with
// ErrDuplicateTransaction: nothing is credited and the recorded operation is
// kept as is, rather than being overwritten while the funds are credited again.
func (a *Account) Deposit(id models.TransactionID, amount models.Money) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.history[id]; exists {
		return a.fail(id, ErrDuplicateTransaction)
	}

	a.total = a.total.Add(amount)
	a.available = a.available.Add(amount)
	a.record(id, amount)
	return nil
}

// Withdraw debits amount from available and total when enough funds are available.
func (a *Account) Withdraw(id models.TransactionID, amount models.Money) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.history[id]; exists {
		return a.fail(id, ErrDuplicateTransaction)
	}
	if amount.GreaterThan(a.available) {
		return a.fail(id, ErrInsufficientFunds)
	}

	a.total = a.total.Sub(amount)
	a.available = a.available.Sub(amount)
	a.record(id, amount)
	return nil
}

// Dispute marks a recorded operation as disputed and moves its amount into held.
//
// held and total both grow by the operation amount while available is left alone.
// The status is overwritten whatever it was before, so a resolved or charged back
// operation can be disputed again.
func (a *Account) Dispute(id models.TransactionID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	op, exists := a.history[id]
	if !exists {
		return a.fail(id, ErrUnknownTransaction)
	}

	op.Status = models.StatusDisputed
	a.held = a.held.Add(op.Amount)
	a.total = a.total.Add(op.Amount)
	return nil
}

// Resolve releases the held amount of a disputed operation back to available.
func (a *Account) Resolve(id models.TransactionID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	op, err := a.disputed(id)
	if err != nil {
		return err
	}

	op.Status = models.StatusResolved
	a.held = a.held.Sub(op.Amount)
	a.available = a.available.Add(op.Amount)
	return nil
}

// ChargeBack reverses a disputed operation and locks the account for good.
func (a *Account) ChargeBack(id models.TransactionID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	op, err := a.disputed(id)
	if err != nil {
		return err
	}

	op.Status = models.StatusChargedBack
	a.held = a.held.Sub(op.Amount)
	a.total = a.total.Sub(op.Amount)
	a.locked = true
	return nil
}

// Snapshot returns a consistent copy of the balances.
func (a *Account) Snapshot() models.AccountSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	return models.AccountSnapshot{
		Client:    a.client,
		Available: a.available,
		Held:      a.held,
		Total:     a.total,
		Locked:    a.locked,
	}
}

// Operation returns a copy of the history entry for id.
func (a *Account) Operation(id models.TransactionID) (models.Operation, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	op, exists := a.history[id]
	if !exists {
		return models.Operation{}, false
	}
	return *op, true
}

// must be called with a.mu held
func (a *Account) disputed(id models.TransactionID) (*models.Operation, error) {
	op, exists := a.history[id]
	if !exists || op.Status != models.StatusDisputed {
		return nil, a.fail(id, ErrInvalidDisputeState)
	}
	return op, nil
}

func (a *Account) record(id models.TransactionID, amount models.Money) {
	a.history[id] = &models.Operation{Amount: amount, Status: models.StatusNone}
}

func (a *Account) fail(id models.TransactionID, err error) error {
	return fmt.Errorf("client %d tx %d: %w", a.client, id, err)
}
