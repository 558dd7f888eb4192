package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"argentasync/internal/domain/settings"
	"argentasync/internal/infrastructure/crypto"
)

// SettingsRepository implements the settings.Repository interface for
// PostgreSQL. The ledger password is encrypted with AES-256-GCM before it
// touches the table.
type SettingsRepository struct {
	db        *DB
	encryptor *crypto.Encryptor
}

// NewSettingsRepository creates a new PostgreSQL settings repository
func NewSettingsRepository(db *DB, encryptor *crypto.Encryptor) *SettingsRepository {
	return &SettingsRepository{db: db, encryptor: encryptor}
}

// Ensure SettingsRepository implements settings.Repository
var _ settings.Repository = (*SettingsRepository)(nil)

// Get returns the value for a key, or "" when the key is unset
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	query := `
		SELECT value
		FROM settings
		WHERE key = $1
	`

	var value sql.NullString
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	return value.String, nil
}

// Set stores a value under a key, overwriting any previous value
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}

	return nil
}

// SetLoginSuccess stamps a successful login and clears any previous error
func (r *SettingsRepository) SetLoginSuccess(ctx context.Context) error {
	if err := r.Set(ctx, settings.KeyLastLoginTime, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	if err := r.Set(ctx, settings.KeyLastLoginSuccess, "true"); err != nil {
		return err
	}
	return r.Set(ctx, settings.KeyLastError, "")
}

// SetLoginError stamps a failed login with its error text
func (r *SettingsRepository) SetLoginError(ctx context.Context, errText string) error {
	if err := r.Set(ctx, settings.KeyLastLoginTime, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	if err := r.Set(ctx, settings.KeyLastLoginSuccess, "false"); err != nil {
		return err
	}
	return r.Set(ctx, settings.KeyLastError, errText)
}

// LoginStatus returns the recorded outcome of the last login attempt
func (r *SettingsRepository) LoginStatus(ctx context.Context) (*settings.LoginStatus, error) {
	var status settings.LoginStatus

	rawTime, err := r.Get(ctx, settings.KeyLastLoginTime)
	if err != nil {
		return nil, err
	}
	if rawTime != "" {
		t, err := time.Parse(time.RFC3339, rawTime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", settings.KeyLastLoginTime, err)
		}
		status.LastLoginTime = &t
	}

	rawSuccess, err := r.Get(ctx, settings.KeyLastLoginSuccess)
	if err != nil {
		return nil, err
	}
	if rawSuccess != "" {
		success, err := strconv.ParseBool(rawSuccess)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", settings.KeyLastLoginSuccess, err)
		}
		status.LastLoginSuccess = &success
	}

	status.LastError, err = r.Get(ctx, settings.KeyLastError)
	if err != nil {
		return nil, err
	}

	return &status, nil
}

// LedgerConfig returns the Actual Budget connection settings with the
// password decrypted, or nil when any required field is missing.
func (r *SettingsRepository) LedgerConfig(ctx context.Context) (*settings.LedgerConfig, error) {
	serverURL, err := r.Get(ctx, settings.KeyLedgerServerURL)
	if err != nil {
		return nil, err
	}

	encrypted, err := r.Get(ctx, settings.KeyLedgerPassword)
	if err != nil {
		return nil, err
	}
	password, err := r.encryptor.Decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt ledger password: %w", err)
	}

	syncID, err := r.Get(ctx, settings.KeyLedgerSyncID)
	if err != nil {
		return nil, err
	}

	cfg := &settings.LedgerConfig{
		ServerURL: serverURL,
		Password:  password,
		SyncID:    syncID,
	}
	if !cfg.Complete() {
		return nil, nil
	}

	return cfg, nil
}

// SetLedgerConfig stores the Actual Budget connection settings, encrypting
// the password at rest.
func (r *SettingsRepository) SetLedgerConfig(ctx context.Context, cfg settings.LedgerConfig) error {
	encrypted, err := r.encryptor.Encrypt(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to encrypt ledger password: %w", err)
	}

	if err := r.Set(ctx, settings.KeyLedgerServerURL, cfg.ServerURL); err != nil {
		return err
	}
	if err := r.Set(ctx, settings.KeyLedgerPassword, encrypted); err != nil {
		return err
	}
	return r.Set(ctx, settings.KeyLedgerSyncID, cfg.SyncID)
}
