package settings

import "time"

// Well-known configuration keys.
const (
	KeyLastLoginTime    = "lastLoginTime"
	KeyLastLoginSuccess = "lastLoginSuccess"
	KeyLastError        = "lastError"
	KeyLedgerServerURL  = "ledgerServerUrl"
	KeyLedgerPassword   = "ledgerPassword"
	KeyLedgerSyncID     = "ledgerSyncId"
)

// LedgerConfig holds the connection settings for the Actual Budget server.
type LedgerConfig struct {
	ServerURL string `json:"serverUrl"`
	Password  string `json:"password,omitempty"`
	SyncID    string `json:"syncId"`
}

// Complete reports whether all fields required to connect are present.
func (c *LedgerConfig) Complete() bool {
	return c != nil && c.ServerURL != "" && c.Password != "" && c.SyncID != ""
}

// LoginStatus describes the outcome of the most recent interactive login.
type LoginStatus struct {
	LastLoginTime    *time.Time `json:"lastLoginTime"`
	LastLoginSuccess *bool      `json:"lastLoginSuccess"`
	LastError        string     `json:"lastError"`
}
