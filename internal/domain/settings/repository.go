package settings

import "context"

// Repository is a durable key/value configuration store with typed accessors
// for the values this service cares about. Implementations encrypt the ledger
// password at rest.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error

	// SetLoginSuccess stamps a successful login (time, success flag, cleared error).
	SetLoginSuccess(ctx context.Context) error

	// SetLoginError stamps a failed login with its error text.
	SetLoginError(ctx context.Context, errText string) error

	// LoginStatus returns the recorded outcome of the last login attempt.
	LoginStatus(ctx context.Context) (*LoginStatus, error)

	// LedgerConfig returns the Actual Budget connection settings, or nil when
	// any required field is missing.
	LedgerConfig(ctx context.Context) (*LedgerConfig, error)

	// SetLedgerConfig stores the Actual Budget connection settings.
	SetLedgerConfig(ctx context.Context, cfg LedgerConfig) error
}
