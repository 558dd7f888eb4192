package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"argentasync/internal/domain/account"
)

// mockAccountRepo is a mock implementation of account.Repository
type mockAccountRepo struct {
	listFunc                func(ctx context.Context) ([]*account.Account, error)
	linkLedgerAccountFunc   func(ctx context.Context, id, ledgerAccountID string) error
	unlinkLedgerAccountFunc func(ctx context.Context, id string) error
}

func (m *mockAccountRepo) List(ctx context.Context) ([]*account.Account, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id string) (*account.Account, error) {
	return nil, account.ErrAccountNotFound
}

func (m *mockAccountRepo) GetByIBAN(ctx context.Context, iban string) (*account.Account, error) {
	return nil, account.ErrAccountNotFound
}

func (m *mockAccountRepo) UpsertBatch(ctx context.Context, accounts []account.UpsertParams) error {
	return nil
}

func (m *mockAccountRepo) LinkLedgerAccount(ctx context.Context, id, ledgerAccountID string) error {
	if m.linkLedgerAccountFunc != nil {
		return m.linkLedgerAccountFunc(ctx, id, ledgerAccountID)
	}
	return nil
}

func (m *mockAccountRepo) UnlinkLedgerAccount(ctx context.Context, id string) error {
	if m.unlinkLedgerAccountFunc != nil {
		return m.unlinkLedgerAccountFunc(ctx, id)
	}
	return nil
}

func (m *mockAccountRepo) UpdateSyncStatus(ctx context.Context, id string, rowCount *int) error {
	return nil
}

func (m *mockAccountRepo) LedgerAccountID(ctx context.Context, id string) (string, error) {
	return "", nil
}

func (m *mockAccountRepo) LastSyncedRowCount(ctx context.Context, id string) (int, error) {
	return 0, nil
}

func TestHandleListAccounts(t *testing.T) {
	repo := &mockAccountRepo{
		listFunc: func(ctx context.Context) ([]*account.Account, error) {
			return []*account.Account{
				{ID: "acc-1", IBAN: "BE68539007547034", Alias: "Checking"},
			}, nil
		},
	}
	handler := NewAccountHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	rr := httptest.NewRecorder()

	handler.HandleListAccounts(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var accounts []account.Account
	if err := json.NewDecoder(rr.Body).Decode(&accounts); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(accounts) != 1 || accounts[0].ID != "acc-1" {
		t.Errorf("unexpected accounts: %+v", accounts)
	}
}

func TestHandleLinkAccount(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		linkErr        error
		expectedStatus int
	}{
		{
			name:           "Valid Link",
			body:           `{"accountId": "acc-1", "ledgerAccountId": "ledger-1"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing Account ID",
			body:           `{"ledgerAccountId": "ledger-1"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing Ledger Account ID",
			body:           `{"accountId": "acc-1"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid Body",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Unknown Account",
			body:           `{"accountId": "missing", "ledgerAccountId": "ledger-1"}`,
			linkErr:        account.ErrAccountNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAccountRepo{
				linkLedgerAccountFunc: func(ctx context.Context, id, ledgerAccountID string) error {
					return tt.linkErr
				},
			}
			handler := NewAccountHandler(repo)

			req := httptest.NewRequest(http.MethodPost, "/api/link-account", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			handler.HandleLinkAccount(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandleUnlinkAccount(t *testing.T) {
	var unlinked string
	repo := &mockAccountRepo{
		unlinkLedgerAccountFunc: func(ctx context.Context, id string) error {
			unlinked = id
			return nil
		},
	}
	handler := NewAccountHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/unlink-account", strings.NewReader(`{"accountId": "acc-1"}`))
	rr := httptest.NewRecorder()

	handler.HandleUnlinkAccount(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if unlinked != "acc-1" {
		t.Errorf("unlinked = %q, want acc-1", unlinked)
	}
}
