package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"argentasync/internal/domain/account"
)

// AccountHandler exposes the account list and the ledger link operations.
type AccountHandler struct {
	accountRepo account.Repository
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accountRepo account.Repository) *AccountHandler {
	return &AccountHandler{accountRepo: accountRepo}
}

// LinkAccountRequest binds a bank account to a ledger account.
type LinkAccountRequest struct {
	AccountID       string `json:"accountId"`
	LedgerAccountID string `json:"ledgerAccountId"`
}

// UnlinkAccountRequest removes the ledger binding of a bank account.
type UnlinkAccountRequest struct {
	AccountID string `json:"accountId"`
}

// HandleListAccounts returns all known bank accounts.
func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	accounts, err := h.accountRepo.List(r.Context())
	if err != nil {
		log.Printf("Error listing accounts: %v", err)
		http.Error(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}
	if accounts == nil {
		accounts = []*account.Account{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accounts)
}

// HandleLinkAccount links a bank account to its destination ledger account.
func (h *AccountHandler) HandleLinkAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LinkAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.AccountID == "" || req.LedgerAccountID == "" {
		http.Error(w, "accountId and ledgerAccountId are required", http.StatusBadRequest)
		return
	}

	if err := h.accountRepo.LinkLedgerAccount(r.Context(), req.AccountID, req.LedgerAccountID); err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			http.Error(w, "Account not found", http.StatusNotFound)
			return
		}
		log.Printf("Error linking account %s: %v", req.AccountID, err)
		http.Error(w, "Failed to link account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Account linked"})
}

// HandleUnlinkAccount clears the ledger binding. The sync checkpoint resets
// with it, so a later re-link starts from a clean slate.
func (h *AccountHandler) HandleUnlinkAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req UnlinkAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.AccountID == "" {
		http.Error(w, "accountId is required", http.StatusBadRequest)
		return
	}

	if err := h.accountRepo.UnlinkLedgerAccount(r.Context(), req.AccountID); err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			http.Error(w, "Account not found", http.StatusNotFound)
			return
		}
		log.Printf("Error unlinking account %s: %v", req.AccountID, err)
		http.Error(w, "Failed to unlink account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Account unlinked"})
}
