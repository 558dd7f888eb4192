package argenta

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// ErrLoginTimeout means no valid session appeared before the login deadline.
var ErrLoginTimeout = errors.New("timeout waiting for valid session")

// SessionManager runs the interactive login flow. The configured helper
// command launches the external browser (original deployment: a headful
// browser exposed over VNC) which writes the session state file once the
// user has logged in. SessionManager polls until that state validates.
type SessionManager struct {
	client       *Client
	helperCmd    string
	pollInterval time.Duration

	mu  sync.Mutex
	cmd *exec.Cmd
}

// Ensure SessionManager implements SessionInterface
var _ SessionInterface = (*SessionManager)(nil)

// NewSessionManager creates a session manager. helperCmd may be empty, in
// which case the browser is assumed to be managed out-of-band and only the
// polling happens here.
func NewSessionManager(client *Client, helperCmd string, pollInterval time.Duration) *SessionManager {
	return &SessionManager{
		client:       client,
		helperCmd:    helperCmd,
		pollInterval: pollInterval,
	}
}

// StartLoginSession launches the external login helper, if one is configured.
func (m *SessionManager) StartLoginSession(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.helperCmd == "" {
		return nil
	}
	if m.cmd != nil {
		return errors.New("login session already started")
	}

	fields := strings.Fields(m.helperCmd)
	cmd := exec.Command(fields[0], fields[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start login helper: %w", err)
	}

	m.cmd = cmd
	log.Printf("Login helper started (pid %d)", cmd.Process.Pid)
	return nil
}

// WaitForValidSession polls until the captured session validates against the
// bank, then returns the discovered account list. The caller bounds the wait
// through ctx; expiry maps to ErrLoginTimeout.
func (m *SessionManager) WaitForValidSession(ctx context.Context) (*LoginResult, error) {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		if m.client.IsAuthenticated() {
			accounts, err := m.client.GetAccounts(ctx)
			if err == nil {
				return &LoginResult{Accounts: accounts.Accounts}, nil
			}
			// Session file exists but does not validate yet; keep polling.
		}

		select {
		case <-ctx.Done():
			return nil, ErrLoginTimeout
		case <-ticker.C:
		}
	}
}

// CloseLoginSession releases the login helper process. Safe to call on every
// exit path, including when nothing was started.
func (m *SessionManager) CloseLoginSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd == nil {
		return nil
	}

	cmd := m.cmd
	m.cmd = nil

	if cmd.Process != nil {
		if err := cmd.Process.Kill(); err != nil {
			return fmt.Errorf("failed to stop login helper: %w", err)
		}
	}
	// Reap the process; the kill above makes Wait return promptly.
	_ = cmd.Wait()

	return nil
}
