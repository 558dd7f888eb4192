package http

import (
	"encoding/json"
	"log"
	"net/http"

	"argentasync/internal/domain/settings"
	"argentasync/internal/infrastructure/actualbudget"
)

// LedgerHandler manages the Actual Budget connection settings and proxies
// account listing and creation to the ledger.
type LedgerHandler struct {
	ledger       actualbudget.ClientInterface
	settingsRepo settings.Repository
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(ledger actualbudget.ClientInterface, settingsRepo settings.Repository) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, settingsRepo: settingsRepo}
}

// LedgerConfigResponse describes the stored connection settings. The password
// never leaves the server.
type LedgerConfigResponse struct {
	Configured bool   `json:"configured"`
	ServerURL  string `json:"serverUrl,omitempty"`
	SyncID     string `json:"syncId,omitempty"`
}

// HandleConfig reads (GET) or stores (POST) the ledger connection settings.
func (h *LedgerHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGetConfig(w, r)
	case http.MethodPost:
		h.handleSetConfig(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LedgerHandler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settingsRepo.LedgerConfig(r.Context())
	if err != nil {
		log.Printf("Error loading ledger config: %v", err)
		http.Error(w, "Failed to load configuration", http.StatusInternalServerError)
		return
	}

	response := LedgerConfigResponse{}
	if cfg != nil {
		response.Configured = true
		response.ServerURL = cfg.ServerURL
		response.SyncID = cfg.SyncID
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *LedgerHandler) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var req settings.LedgerConfig
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ServerURL == "" || req.Password == "" || req.SyncID == "" {
		http.Error(w, "serverUrl, password, and syncId are required", http.StatusBadRequest)
		return
	}

	if err := h.settingsRepo.SetLedgerConfig(r.Context(), req); err != nil {
		log.Printf("Error saving ledger config: %v", err)
		http.Error(w, "Failed to save configuration", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Configuration saved"})
}

// TestConnectionRequest probes a ledger server before saving its settings.
type TestConnectionRequest struct {
	ServerURL string `json:"serverUrl"`
	Password  string `json:"password"`
}

// HandleTest probes the given ledger server and reports the budgets it hosts.
func (h *LedgerHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req TestConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ServerURL == "" || req.Password == "" {
		http.Error(w, "serverUrl and password are required", http.StatusBadRequest)
		return
	}

	result, err := h.ledger.TestConnection(r.Context(), req.ServerURL, req.Password)
	if err != nil {
		log.Printf("Error testing ledger connection: %v", err)
		http.Error(w, "Failed to test connection", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// CreateLedgerAccountRequest creates a new account in the ledger.
type CreateLedgerAccountRequest struct {
	Name string `json:"name"`
}

// HandleAccounts lists (GET) or creates (POST) accounts in the configured
// ledger. Without a stored configuration, GET returns an empty list so the
// UI can render before setup is complete.
func (h *LedgerHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListAccounts(w, r)
	case http.MethodPost:
		h.handleCreateAccount(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LedgerHandler) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settingsRepo.LedgerConfig(r.Context())
	if err != nil {
		log.Printf("Error loading ledger config: %v", err)
		http.Error(w, "Failed to load configuration", http.StatusInternalServerError)
		return
	}

	accounts := []actualbudget.Account{}
	if cfg != nil {
		accounts, err = h.ledger.GetAccounts(r.Context(), actualbudget.Config{
			ServerURL: cfg.ServerURL,
			Password:  cfg.Password,
			SyncID:    cfg.SyncID,
		})
		if err != nil {
			log.Printf("Error listing ledger accounts: %v", err)
			accounts = []actualbudget.Account{}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accounts)
}

func (h *LedgerHandler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateLedgerAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	cfg, err := h.settingsRepo.LedgerConfig(r.Context())
	if err != nil {
		log.Printf("Error loading ledger config: %v", err)
		http.Error(w, "Failed to load configuration", http.StatusInternalServerError)
		return
	}
	if cfg == nil {
		http.Error(w, "Ledger not configured", http.StatusBadRequest)
		return
	}

	created, err := h.ledger.CreateAccount(r.Context(), actualbudget.Config{
		ServerURL: cfg.ServerURL,
		Password:  cfg.Password,
		SyncID:    cfg.SyncID,
	}, req.Name)
	if err != nil {
		log.Printf("Error creating ledger account: %v", err)
		http.Error(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "account": created})
}
