package argenta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	defaultTimeout = 60 * time.Second
	accountsPath   = "/accounts"
	movementsPath  = "/accounts/accountingmovements"
)

var (
	// ErrNotAuthenticated means no captured session state exists yet.
	ErrNotAuthenticated = errors.New("not authenticated: no session state")

	// ErrSessionExpired means the bank rejected the stored session (HTTP 401).
	// Callers should trigger a re-authentication.
	ErrSessionExpired = errors.New("session expired")
)

// Client talks to the Argenta home banking API using a session captured by
// the external browser login. The session state file is opaque except for its
// cookie list; the client never writes it.
type Client struct {
	httpClient *http.Client
	baseURL    string
	statePath  string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new Argenta API client.
func NewClient(baseURL, sessionStatePath string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:   baseURL,
		statePath: sessionStatePath,
	}
}

// sessionState mirrors the cookie portion of the browser state snapshot.
type sessionState struct {
	Cookies []sessionCookie `json:"cookies"`
}

type sessionCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// IsAuthenticated reports whether a session state file is present.
func (c *Client) IsAuthenticated() bool {
	_, err := os.Stat(c.statePath)
	return err == nil
}

func (c *Client) loadSession() (*sessionState, error) {
	data, err := os.ReadFile(c.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}

	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse session state: %w", err)
	}

	return &state, nil
}

// get performs an authenticated GET against the bank API, decoding the JSON
// body into out. HTTP 401 maps to ErrSessionExpired.
func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	state, err := c.loadSession()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	for _, cookie := range state.Cookies {
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// ValidateSession probes the accounts endpoint with the stored session.
func (c *Client) ValidateSession(ctx context.Context) SessionStatus {
	if !c.IsAuthenticated() {
		return SessionStatus{HasSession: false, IsValid: false}
	}

	var resp AccountsResponse
	if err := c.get(ctx, c.baseURL+accountsPath, &resp); err != nil {
		return SessionStatus{HasSession: true, IsValid: false}
	}

	return SessionStatus{HasSession: true, IsValid: true}
}

// GetAccounts fetches the account list visible to the session.
func (c *Client) GetAccounts(ctx context.Context) (*AccountsResponse, error) {
	var resp AccountsResponse
	if err := c.get(ctx, c.baseURL+accountsPath, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchMovements fetches one page of accounting movements for an account.
func (c *Client) FetchMovements(ctx context.Context, iban string, start, maxResults int) (*MovementsResponse, error) {
	params := url.Values{}
	params.Set("accountNumber", iban)
	params.Set("start", strconv.Itoa(start))
	params.Set("maxResults", strconv.Itoa(maxResults))

	var resp MovementsResponse
	if err := c.get(ctx, c.baseURL+movementsPath+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMovementCount probes the account's total movement count with a
// 1-record fetch.
func (c *Client) GetMovementCount(ctx context.Context, iban string) (int, error) {
	resp, err := c.FetchMovements(ctx, iban, 0, 1)
	if err != nil {
		return 0, err
	}
	return resp.RowCount, nil
}
