package actualbudget

// Config holds the connection parameters for an Actual Budget server.
// SyncID selects the budget file to open on that server.
type Config struct {
	ServerURL string `json:"serverUrl"`
	Password  string `json:"password"`
	SyncID    string `json:"syncId"`
}

// Account represents an account inside the ledger
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BudgetInfo describes a budget file available on the server
type BudgetInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GroupID string `json:"groupId"`
}

// TestConnectionResult reports the outcome of a connection probe
type TestConnectionResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Budgets []BudgetInfo `json:"budgets,omitempty"`
}

// ImportTransaction is a transaction in the ledger's import format.
// ImportedID drives idempotency: re-importing the same ID updates
// instead of duplicating.
type ImportTransaction struct {
	Account    string `json:"account"`
	Date       string `json:"date"`   // YYYY-MM-DD
	Amount     int64  `json:"amount"` // minor units, negative for outflow
	PayeeName  string `json:"payee_name"`
	Notes      string `json:"notes"`
	ImportedID string `json:"imported_id"`
	Cleared    bool   `json:"cleared"`
}

// ImportResult reports what an import batch did on the ledger side
type ImportResult struct {
	Success bool     `json:"success"`
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
	Message string   `json:"message"`
}
