package argenta

import "context"

// ClientInterface defines the read side of the Argenta home banking gateway.
//
// Movements are returned newest-first by the bank; the incremental sync's
// quota-limited fetch depends on that ordering. If the ordering contract is
// ever broken the caller must fall back to a full fetch.
type ClientInterface interface {
	// IsAuthenticated reports whether a captured session state is present on disk.
	IsAuthenticated() bool

	// ValidateSession probes the accounts endpoint with the stored session.
	ValidateSession(ctx context.Context) SessionStatus

	// GetAccounts fetches the account list visible to the session.
	GetAccounts(ctx context.Context) (*AccountsResponse, error)

	// FetchMovements fetches one page of accounting movements.
	// A page with fewer than maxResults records marks the end of the data.
	FetchMovements(ctx context.Context, iban string, start, maxResults int) (*MovementsResponse, error)

	// GetMovementCount probes the total movement count with a 1-record fetch.
	GetMovementCount(ctx context.Context, iban string) (int, error)
}

// SessionInterface drives the interactive login flow. The actual credential
// entry happens in an external browser helper; this side only starts the
// helper, polls for a valid captured session, and releases the helper.
type SessionInterface interface {
	StartLoginSession(ctx context.Context) error
	WaitForValidSession(ctx context.Context) (*LoginResult, error)
	CloseLoginSession() error
}
