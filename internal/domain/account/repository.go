package account

import "context"

// Repository defines the interface for account sync-state access.
// This interface is defined in the domain layer, but implemented in the
// infrastructure layer. All operations are atomic with respect to a single
// account row.
type Repository interface {
	// List retrieves all known accounts.
	List(ctx context.Context) ([]*Account, error)

	// GetByID retrieves an account by its bank-assigned ID.
	GetByID(ctx context.Context, id string) (*Account, error)

	// GetByIBAN retrieves an account by its IBAN (unique).
	GetByIBAN(ctx context.Context, iban string) (*Account, error)

	// UpsertBatch inserts newly discovered accounts with zeroed sync state and
	// refreshes identity fields (IBAN, alias) of existing ones, leaving the
	// ledger link and row-count checkpoint untouched.
	UpsertBatch(ctx context.Context, accounts []UpsertParams) error

	// LinkLedgerAccount sets the destination ledger account.
	LinkLedgerAccount(ctx context.Context, id, ledgerAccountID string) error

	// UnlinkLedgerAccount clears the destination ledger account and resets
	// the row-count checkpoint to zero.
	UnlinkLedgerAccount(ctx context.Context, id string) error

	// UpdateSyncStatus stamps the last sync time and, when rowCount is
	// non-nil, advances the row-count checkpoint.
	UpdateSyncStatus(ctx context.Context, id string, rowCount *int) error

	// LedgerAccountID returns the linked ledger account ID, or "" when the
	// account is not linked or unknown.
	LedgerAccountID(ctx context.Context, id string) (string, error)

	// LastSyncedRowCount returns the row-count checkpoint, defaulting to 0
	// for unknown accounts.
	LastSyncedRowCount(ctx context.Context, id string) (int, error)
}
