package sync

import (
	"errors"

	"argentasync/internal/infrastructure/actualbudget"
)

// Domain errors
var (
	// ErrSyncInProgress is returned when a sync or login is started while
	// another one is still running. Callers are rejected, never queued.
	ErrSyncInProgress = errors.New("sync already in progress")
)

// State is the externally visible sync state.
type State struct {
	InProgress bool `json:"inProgress"`
}

// SyncResult is the outcome of a single account sync run. Success refers to
// the fetch side: a run that fetched everything but failed to import still
// reports Success=true with the import failure carried in Import.
type SyncResult struct {
	Success          bool                       `json:"success"`
	Message          string                     `json:"message"`
	MovementCount    int                        `json:"movementCount"`
	Import           *actualbudget.ImportResult `json:"import,omitempty"`
	NeedsReauth      bool                       `json:"needsReauth,omitempty"`
	NeedsAccountLink bool                       `json:"needsAccountLink,omitempty"`
}
