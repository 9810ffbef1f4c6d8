package ledger

import (
	"sort"
	"sync"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// Registry owns every Account of a run, keyed by client.
// Accounts are created lazily on first reference and never removed.
type Registry struct {
	mu       sync.Mutex // protects the accounts map itself, not the accounts
	accounts map[models.ClientID]*Account
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		accounts: make(map[models.ClientID]*Account),
	}
}

// GetOrCreate returns the account for client, inserting a new empty one on first use.
func (r *Registry) GetOrCreate(client models.ClientID) *Account {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[client]
	if !exists {
		account = NewAccount(client)
		r.accounts[client] = account
	}
	return account
}

// Get returns the account for client without creating it.
func (r *Registry) Get(client models.ClientID) (*Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[client]
	return account, exists
}

// Len returns the number of accounts ever referenced.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

// Range calls fn for every account in unspecified order until fn returns false.
func (r *Registry) Range(fn func(*Account) bool) {
	r.mu.Lock()
	accounts := make([]*Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		accounts = append(accounts, account)
	}
	r.mu.Unlock()

	for _, account := range accounts {
		if !fn(account) {
			return
		}
	}
}

// Snapshots returns one snapshot per account ordered by client id.
func (r *Registry) Snapshots() []models.AccountSnapshot {
	out := make([]models.AccountSnapshot, 0, r.Len())
	r.Range(func(a *Account) bool {
		out = append(out, a.Snapshot())
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}
