package actualbudget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout   = 180 * time.Second // imports of large backlogs can be slow
	budgetsPath      = "/v1/budgets"
	accountsPath     = "/v1/budgets/%s/accounts"
	transactionsPath = "/v1/budgets/%s/accounts/%s/transactions/import"
)

// Client talks to an actual-http-api bridge in front of an Actual Budget
// server. The bridge exposes the budget file addressed by its sync ID.
type Client struct {
	httpClient *http.Client
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new Actual Budget bridge client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// ErrorResponse represents an error response from the bridge
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type budgetsResponse struct {
	Data []BudgetInfo `json:"data"`
}

type accountsResponse struct {
	Data []Account `json:"data"`
}

type accountResponse struct {
	Data Account `json:"data"`
}

type importResponse struct {
	Data struct {
		Added   []string `json:"added"`
		Updated []string `json:"updated"`
		Errors  []string `json:"errors"`
	} `json:"data"`
}

func (c *Client) do(ctx context.Context, method, serverURL, password, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	url := strings.TrimRight(serverURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-API-Key", password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err != nil || errResp.Error == "" {
			return nil, fmt.Errorf("ledger request failed with status %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, fmt.Errorf("ledger error (status %d): %s %s", resp.StatusCode, errResp.Error, errResp.Message)
	}

	return respBody, nil
}

// TestConnection verifies the server is reachable with the given password and
// lists the budget files it hosts. Failures are reported in the result rather
// than as an error so callers can show the message to the operator.
func (c *Client) TestConnection(ctx context.Context, serverURL, password string) (*TestConnectionResult, error) {
	body, err := c.do(ctx, http.MethodGet, serverURL, password, budgetsPath, nil)
	if err != nil {
		return &TestConnectionResult{
			Success: false,
			Message: fmt.Sprintf("Connection failed: %v", err),
		}, nil
	}

	var budgets budgetsResponse
	if err := json.Unmarshal(body, &budgets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal budgets: %w", err)
	}

	return &TestConnectionResult{
		Success: true,
		Message: fmt.Sprintf("Connected, %d budget(s) available", len(budgets.Data)),
		Budgets: budgets.Data,
	}, nil
}

// GetAccounts lists the accounts in the configured budget
func (c *Client) GetAccounts(ctx context.Context, cfg Config) ([]Account, error) {
	path := fmt.Sprintf(accountsPath, cfg.SyncID)

	body, err := c.do(ctx, http.MethodGet, cfg.ServerURL, cfg.Password, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ledger accounts: %w", err)
	}

	var accounts accountsResponse
	if err := json.Unmarshal(body, &accounts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal accounts: %w", err)
	}

	return accounts.Data, nil
}

// CreateAccount creates a new on-budget account in the configured budget
func (c *Client) CreateAccount(ctx context.Context, cfg Config, name string) (*Account, error) {
	path := fmt.Sprintf(accountsPath, cfg.SyncID)

	payload := map[string]any{
		"account": map[string]any{
			"name":      name,
			"offbudget": false,
		},
	}

	body, err := c.do(ctx, http.MethodPost, cfg.ServerURL, cfg.Password, path, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger account: %w", err)
	}

	var account accountResponse
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created account: %w", err)
	}
	if account.Data.Name == "" {
		account.Data.Name = name
	}

	return &account.Data, nil
}

// ImportTransactions imports a batch of transactions into a ledger account.
// The ledger deduplicates on imported_id, so re-running a batch updates rows
// instead of adding duplicates. An empty batch succeeds without a request.
func (c *Client) ImportTransactions(ctx context.Context, cfg Config, accountID string, transactions []ImportTransaction) (*ImportResult, error) {
	if len(transactions) == 0 {
		return &ImportResult{
			Success: true,
			Errors:  []string{},
			Message: "No transactions to import",
		}, nil
	}

	path := fmt.Sprintf(transactionsPath, cfg.SyncID, accountID)

	payload := map[string]any{
		"transactions": transactions,
	}

	body, err := c.do(ctx, http.MethodPost, cfg.ServerURL, cfg.Password, path, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to import transactions: %w", err)
	}

	var imported importResponse
	if err := json.Unmarshal(body, &imported); err != nil {
		return nil, fmt.Errorf("failed to unmarshal import result: %w", err)
	}

	result := &ImportResult{
		Success: len(imported.Data.Errors) == 0,
		Added:   len(imported.Data.Added),
		Updated: len(imported.Data.Updated),
		Errors:  imported.Data.Errors,
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}
	result.Message = fmt.Sprintf("Imported %d transaction(s): %d added, %d updated",
		len(transactions), result.Added, result.Updated)
	if !result.Success {
		result.Message = fmt.Sprintf("Import completed with %d error(s)", len(result.Errors))
	}

	return result, nil
}
