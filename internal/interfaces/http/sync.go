package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"argentasync/internal/domain/sync"
)

// SyncService is the part of the sync domain service the handlers use.
type SyncService interface {
	State() sync.State
	StartLogin(ctx context.Context) error
	SyncAccount(ctx context.Context, accountID string, fullSync bool) (*sync.SyncResult, error)
}

// SyncHandler exposes the login and per-account sync operations.
type SyncHandler struct {
	syncService SyncService
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(syncService SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// HandleStartSync starts the interactive login flow. A second call while a
// login or sync is running gets a 409.
func (h *SyncHandler) HandleStartSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.syncService.StartLogin(r.Context()); err != nil {
		if errors.Is(err, sync.ErrSyncInProgress) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "Sync already in progress"})
			return
		}
		log.Printf("Error starting login: %v", err)
		http.Error(w, "Failed to start login", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Login started"})
}

// HandleSyncAccount runs one sync for the account in the path. ?full=true
// forces a full re-fetch. Failed runs return the result with a 400 so the
// client can read the reauth / link signals.
func (h *SyncHandler) HandleSyncAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	accountID := r.PathValue("id")
	if accountID == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	fullSync := r.URL.Query().Get("full") == "true"

	result, err := h.syncService.SyncAccount(r.Context(), accountID, fullSync)
	if err != nil {
		if errors.Is(err, sync.ErrSyncInProgress) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "Sync already in progress"})
			return
		}
		log.Printf("Error syncing account %s: %v", accountID, err)
		http.Error(w, "Failed to sync account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if !result.Success {
		w.WriteHeader(http.StatusBadRequest)
	}
	json.NewEncoder(w).Encode(result)
}
