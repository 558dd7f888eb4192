package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"argentasync/internal/domain/sync"
)

// mockSyncService is a mock implementation of SyncService
type mockSyncService struct {
	stateFunc       func() sync.State
	startLoginFunc  func(ctx context.Context) error
	syncAccountFunc func(ctx context.Context, accountID string, fullSync bool) (*sync.SyncResult, error)
}

func (m *mockSyncService) State() sync.State {
	if m.stateFunc != nil {
		return m.stateFunc()
	}
	return sync.State{}
}

func (m *mockSyncService) StartLogin(ctx context.Context) error {
	if m.startLoginFunc != nil {
		return m.startLoginFunc(ctx)
	}
	return nil
}

func (m *mockSyncService) SyncAccount(ctx context.Context, accountID string, fullSync bool) (*sync.SyncResult, error) {
	if m.syncAccountFunc != nil {
		return m.syncAccountFunc(ctx, accountID, fullSync)
	}
	return &sync.SyncResult{Success: true}, nil
}

func TestHandleStartSync(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		startLoginErr  error
		expectedStatus int
	}{
		{
			name:           "Login Started",
			method:         http.MethodPost,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Already In Progress",
			method:         http.MethodPost,
			startLoginErr:  sync.ErrSyncInProgress,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Wrong Method",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockSyncService{
				startLoginFunc: func(ctx context.Context) error {
					return tt.startLoginErr
				},
			}
			handler := NewSyncHandler(service)

			req := httptest.NewRequest(tt.method, "/api/sync", nil)
			rr := httptest.NewRecorder()

			handler.HandleStartSync(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandleSyncAccount(t *testing.T) {
	var gotAccountID string
	var gotFullSync bool

	service := &mockSyncService{
		syncAccountFunc: func(ctx context.Context, accountID string, fullSync bool) (*sync.SyncResult, error) {
			gotAccountID = accountID
			gotFullSync = fullSync
			return &sync.SyncResult{Success: true, MovementCount: 7}, nil
		},
	}
	handler := NewSyncHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/acc-1?full=true", nil)
	req.SetPathValue("id", "acc-1")
	rr := httptest.NewRecorder()

	handler.HandleSyncAccount(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if gotAccountID != "acc-1" {
		t.Errorf("accountID = %q, want acc-1", gotAccountID)
	}
	if !gotFullSync {
		t.Error("expected fullSync=true")
	}

	var result sync.SyncResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.MovementCount != 7 {
		t.Errorf("MovementCount = %d, want 7", result.MovementCount)
	}
}

func TestHandleSyncAccount_Failure(t *testing.T) {
	service := &mockSyncService{
		syncAccountFunc: func(ctx context.Context, accountID string, fullSync bool) (*sync.SyncResult, error) {
			return &sync.SyncResult{Success: false, Message: "Account not linked", NeedsAccountLink: true}, nil
		},
	}
	handler := NewSyncHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/acc-1", nil)
	req.SetPathValue("id", "acc-1")
	rr := httptest.NewRecorder()

	handler.HandleSyncAccount(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	var result sync.SyncResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !result.NeedsAccountLink {
		t.Error("expected NeedsAccountLink in response body")
	}
}

func TestHandleSyncAccount_Conflict(t *testing.T) {
	service := &mockSyncService{
		syncAccountFunc: func(ctx context.Context, accountID string, fullSync bool) (*sync.SyncResult, error) {
			return nil, sync.ErrSyncInProgress
		},
	}
	handler := NewSyncHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/acc-1", nil)
	req.SetPathValue("id", "acc-1")
	rr := httptest.NewRecorder()

	handler.HandleSyncAccount(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rr.Code)
	}
}

func TestHandleSyncAccount_MissingID(t *testing.T) {
	handler := NewSyncHandler(&mockSyncService{})

	req := httptest.NewRequest(http.MethodPost, "/api/sync/", nil)
	rr := httptest.NewRecorder()

	handler.HandleSyncAccount(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}
