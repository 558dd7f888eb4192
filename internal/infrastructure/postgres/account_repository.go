package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"argentasync/internal/domain/account"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Ensure AccountRepository implements account.Repository
var _ account.Repository = (*AccountRepository)(nil)

const accountColumns = `id, iban, alias, last_sync_time, ledger_account_id, last_synced_row_count`

func scanAccount(scan func(dest ...any) error) (*account.Account, error) {
	var acc account.Account
	var lastSyncTime sql.NullTime
	var ledgerAccountID sql.NullString

	err := scan(
		&acc.ID, &acc.IBAN, &acc.Alias,
		&lastSyncTime, &ledgerAccountID, &acc.LastSyncedRowCount,
	)
	if err != nil {
		return nil, err
	}

	if lastSyncTime.Valid {
		t := lastSyncTime.Time
		acc.LastSyncTime = &t
	}
	if ledgerAccountID.Valid && ledgerAccountID.String != "" {
		s := ledgerAccountID.String
		acc.LedgerAccountID = &s
	}

	return &acc, nil
}

// List retrieves all known accounts ordered by alias
func (r *AccountRepository) List(ctx context.Context) ([]*account.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY alias, iban
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		acc, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// GetByID retrieves an account by its bank-assigned ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1
	`

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return acc, nil
}

// GetByIBAN retrieves an account by its IBAN
func (r *AccountRepository) GetByIBAN(ctx context.Context, iban string) (*account.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE iban = $1
	`

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, iban).Scan)
	if err == sql.ErrNoRows {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by IBAN: %w", err)
	}

	return acc, nil
}

// UpsertBatch inserts newly discovered accounts and refreshes the identity
// fields of existing ones. The ledger link and row-count checkpoint are never
// touched here: they belong to the sync lifecycle, not account discovery.
func (r *AccountRepository) UpsertBatch(ctx context.Context, accounts []account.UpsertParams) error {
	if len(accounts) == 0 {
		return nil
	}

	query := `
		INSERT INTO accounts (id, iban, alias, last_synced_row_count)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (id) DO UPDATE SET
			iban = EXCLUDED.iban,
			alias = EXCLUDED.alias
	`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin upsert: %w", err)
	}

	for _, params := range accounts {
		if err := params.Validate(); err != nil {
			tx.Rollback()
			return fmt.Errorf("%w: %v", account.ErrInvalidInput, err)
		}
		if _, err := tx.ExecContext(ctx, query, params.ID, params.IBAN, params.Alias); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert account %s: %w", params.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}

	return nil
}

// LinkLedgerAccount sets the destination ledger account
func (r *AccountRepository) LinkLedgerAccount(ctx context.Context, id, ledgerAccountID string) error {
	query := `
		UPDATE accounts
		SET ledger_account_id = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, ledgerAccountID)
	if err != nil {
		return fmt.Errorf("failed to link account: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return account.ErrAccountNotFound
	}

	return nil
}

// UnlinkLedgerAccount clears the destination ledger account and resets the
// row-count checkpoint, so a future re-link starts with a full sync.
func (r *AccountRepository) UnlinkLedgerAccount(ctx context.Context, id string) error {
	query := `
		UPDATE accounts
		SET ledger_account_id = NULL,
		    last_synced_row_count = 0
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to unlink account: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return account.ErrAccountNotFound
	}

	return nil
}

// UpdateSyncStatus stamps the last sync time and, when rowCount is non-nil,
// advances the row-count checkpoint.
func (r *AccountRepository) UpdateSyncStatus(ctx context.Context, id string, rowCount *int) error {
	var result sql.Result
	var err error

	if rowCount != nil {
		query := `
			UPDATE accounts
			SET last_sync_time = $2,
			    last_synced_row_count = $3
			WHERE id = $1
		`
		result, err = r.db.ExecContext(ctx, query, id, time.Now().UTC(), *rowCount)
	} else {
		query := `
			UPDATE accounts
			SET last_sync_time = $2
			WHERE id = $1
		`
		result, err = r.db.ExecContext(ctx, query, id, time.Now().UTC())
	}

	if err != nil {
		return fmt.Errorf("failed to update sync status: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return account.ErrAccountNotFound
	}

	return nil
}

// LedgerAccountID returns the linked ledger account ID, or "" when the
// account is unlinked or unknown.
func (r *AccountRepository) LedgerAccountID(ctx context.Context, id string) (string, error) {
	query := `
		SELECT ledger_account_id
		FROM accounts
		WHERE id = $1
	`

	var ledgerAccountID sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&ledgerAccountID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get ledger account ID: %w", err)
	}

	return ledgerAccountID.String, nil
}

// LastSyncedRowCount returns the row-count checkpoint, defaulting to 0 for
// unknown accounts.
func (r *AccountRepository) LastSyncedRowCount(ctx context.Context, id string) (int, error) {
	query := `
		SELECT last_synced_row_count
		FROM accounts
		WHERE id = $1
	`

	var rowCount int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rowCount)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get last synced row count: %w", err)
	}

	return rowCount, nil
}
