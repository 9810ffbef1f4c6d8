package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" driver

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces" // interface ReportSink
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

const schema = `CREATE TABLE IF NOT EXISTS account_reports (
	run_id      TEXT           NOT NULL,
	client      INTEGER        NOT NULL,
	available   NUMERIC(20, 4) NOT NULL,
	held        NUMERIC(20, 4) NOT NULL,
	total       NUMERIC(20, 4) NOT NULL,
	locked      BOOLEAN        NOT NULL,
	reported_at TIMESTAMPTZ    NOT NULL,
	PRIMARY KEY (run_id, client)
)`

type PostgresReportStore struct {
	db    *sql.DB
	runID string
}

// Open connects to Postgres using lib/pq and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func NewPostgresReportStore(db *sql.DB, runID string) *PostgresReportStore {
	return &PostgresReportStore{
		db:    db,
		runID: runID,
	}
}

// EnsureSchema creates the account_reports table when missing.
func (p *PostgresReportStore) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, schema)
	return err
}

func (p *PostgresReportStore) saveAccount(ctx context.Context, account models.AccountSnapshot, reportedAt time.Time, dbTx *sql.Tx) error {
	const query = `INSERT INTO account_reports (run_id, client, available, held, total, locked, reported_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7)
	ON CONFLICT (run_id, client) DO UPDATE SET
		available = EXCLUDED.available,
		held = EXCLUDED.held,
		total = EXCLUDED.total,
		locked = EXCLUDED.locked,
		reported_at = EXCLUDED.reported_at`

	_, err := dbTx.ExecContext(ctx, query,
		p.runID,
		int(account.Client),
		account.Available,
		account.Held,
		account.Total,
		account.Locked,
		reportedAt,
	)
	return err
}

// WriteAccounts stores the whole report in one database transaction.
func (p *PostgresReportStore) WriteAccounts(ctx context.Context, accounts []models.AccountSnapshot) (err error) {

	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	reportedAt := time.Now().UTC()
	for _, account := range accounts {
		if err = p.saveAccount(ctx, account, reportedAt, dbTx); err != nil {
			return fmt.Errorf("save account %d: %w", account.Client, err)
		}
	}
	return dbTx.Commit()
}

// Accounts returns the stored report of this store's run ordered by client.
func (p *PostgresReportStore) Accounts(ctx context.Context) ([]models.AccountSnapshot, error) {
	const query = `SELECT client, available, held, total, locked FROM account_reports
	WHERE run_id = $1 ORDER BY client`

	rows, err := p.db.QueryContext(ctx, query, p.runID)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var accounts []models.AccountSnapshot
	for rows.Next() {
		var (
			account models.AccountSnapshot
			client  int
		)
		if err := rows.Scan(&client, &account.Available, &account.Held, &account.Total, &account.Locked); err != nil {
			return nil, err
		}
		account.Client = models.ClientID(client)
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

var _ interfaces.ReportSink = (*PostgresReportStore)(nil)
