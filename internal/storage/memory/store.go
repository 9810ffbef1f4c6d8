package memory

import (
	"context" // standard Go package for request-scoped context (timeouts, cancellation)
	"sort"
	"sync" // standard Go package for concurrency primitives like Mutex

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces" // interface ReportSink
	"github.com/sheikh-saqib/payments-engine/internal/models"                // domain models: AccountSnapshot
)

// MemoryReportStore is an in-memory implementation of interfaces.ReportSink.
// It keeps the latest reported state of every account and is safe for concurrent use.
type MemoryReportStore struct {
	mu       sync.Mutex                                 // mutex to protect accounts and writes
	accounts map[models.ClientID]models.AccountSnapshot // latest snapshot per client
	writes   int                                        // number of WriteAccounts calls
}

// NewMemoryReportStore creates and returns a new MemoryReportStore instance
func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{
		accounts: make(map[models.ClientID]models.AccountSnapshot),
	}
}

// WriteAccounts stores every snapshot, replacing earlier reports for the same client.
// Implements the ReportSink interface.
func (m *MemoryReportStore) WriteAccounts(ctx context.Context, accounts []models.AccountSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()         // lock the mutex to prevent concurrent writes
	defer m.mu.Unlock() // unlock automatically when function exits (even if error occurs)

	for _, account := range accounts {
		m.accounts[account.Client] = account
	}
	m.writes++
	return nil
}

// Accounts returns a copy of all stored snapshots ordered by client.
func (m *MemoryReportStore) Accounts() []models.AccountSnapshot {

	m.mu.Lock()         // lock to prevent concurrent modification while reading
	defer m.mu.Unlock() // unlock automatically at the end

	copied := make([]models.AccountSnapshot, 0, len(m.accounts))
	for _, account := range m.accounts {
		copied = append(copied, account)
	}
	sort.Slice(copied, func(i, j int) bool { return copied[i].Client < copied[j].Client })
	return copied // return a copy so external code can't modify internal state
}

// Account returns the stored snapshot for client.
func (m *MemoryReportStore) Account(client models.ClientID) (models.AccountSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, exists := m.accounts[client]
	return account, exists
}

// Writes returns how many reports have been written.
func (m *MemoryReportStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Compile-time check: ensure MemoryReportStore implements ReportSink interface
var _ interfaces.ReportSink = (*MemoryReportStore)(nil)
