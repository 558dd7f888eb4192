package account

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidInput    = errors.New("invalid input")
)

// Account represents a bank account discovered from the home banking session,
// together with its sync bookkeeping. LastSyncedRowCount is the high-water
// mark of source movements already observed; it only ever grows, except when
// the account is unlinked from the ledger, which resets it to zero.
type Account struct {
	ID                 string     `json:"id"`
	IBAN               string     `json:"iban"`
	Alias              string     `json:"alias"`
	LastSyncTime       *time.Time `json:"lastSyncTime"`
	LedgerAccountID    *string    `json:"ledgerAccountId"`
	LastSyncedRowCount int        `json:"lastSyncedRowCount"`
}

// Linked reports whether the account has a destination ledger account.
func (a *Account) Linked() bool {
	return a.LedgerAccountID != nil && *a.LedgerAccountID != ""
}

// SanitizedIBAN returns the IBAN with whitespace stripped, safe for use in
// file names.
func (a *Account) SanitizedIBAN() string {
	return strings.ReplaceAll(a.IBAN, " ", "")
}

// UpsertParams carries the identity fields refreshed from the bank's account
// list. Sync-state fields are deliberately absent: an upsert never touches
// the ledger link or the row-count checkpoint.
type UpsertParams struct {
	ID    string
	IBAN  string
	Alias string
}

// Validate validates the upsert parameters.
func (p UpsertParams) Validate() error {
	if p.ID == "" {
		return errors.New("account ID is required")
	}
	if p.IBAN == "" {
		return errors.New("account IBAN is required")
	}
	return nil
}
