package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"argentasync/internal/domain/account"
	"argentasync/internal/domain/settings"
	"argentasync/internal/infrastructure/argenta"
)

// StatusHandler reports the overall state of the service: login stamps,
// session validity, and per-account sync progress.
type StatusHandler struct {
	syncService  SyncService
	bank         argenta.ClientInterface
	accountRepo  account.Repository
	settingsRepo settings.Repository
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(syncService SyncService, bank argenta.ClientInterface, accountRepo account.Repository, settingsRepo settings.Repository) *StatusHandler {
	return &StatusHandler{
		syncService:  syncService,
		bank:         bank,
		accountRepo:  accountRepo,
		settingsRepo: settingsRepo,
	}
}

// AccountStatus is an account plus its live position against the bank.
// The counts are nil when the session is invalid and the bank cannot be asked.
type AccountStatus struct {
	ID                  string     `json:"id"`
	IBAN                string     `json:"iban"`
	Alias               string     `json:"alias"`
	LastSyncTime        *time.Time `json:"lastSyncTime"`
	LedgerAccountID     *string    `json:"ledgerAccountId"`
	LastSyncedRowCount  int        `json:"lastSyncedRowCount"`
	SourceMovementCount *int       `json:"sourceMovementCount"`
	PendingMovements    *int       `json:"pendingMovements"`
}

// StatusResponse is the payload of GET /api/status.
type StatusResponse struct {
	LastLoginTime    *time.Time      `json:"lastLoginTime"`
	LastLoginSuccess bool            `json:"lastLoginSuccess"`
	LastError        string          `json:"lastError"`
	Accounts         []AccountStatus `json:"accounts"`
	SessionValid     bool            `json:"sessionValid"`
	SyncInProgress   bool            `json:"syncInProgress"`
}

// HandleStatus returns the service status.
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionStatus := h.bank.ValidateSession(r.Context())

	accounts, err := h.accountRepo.List(r.Context())
	if err != nil {
		log.Printf("Error listing accounts: %v", err)
		http.Error(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}

	loginStatus, err := h.settingsRepo.LoginStatus(r.Context())
	if err != nil {
		log.Printf("Error loading login status: %v", err)
		http.Error(w, "Failed to load login status", http.StatusInternalServerError)
		return
	}

	accountStatuses := make([]AccountStatus, 0, len(accounts))
	for _, acc := range accounts {
		status := AccountStatus{
			ID:                 acc.ID,
			IBAN:               acc.IBAN,
			Alias:              acc.Alias,
			LastSyncTime:       acc.LastSyncTime,
			LedgerAccountID:    acc.LedgerAccountID,
			LastSyncedRowCount: acc.LastSyncedRowCount,
		}

		if sessionStatus.IsValid {
			count, err := h.bank.GetMovementCount(r.Context(), acc.IBAN)
			if err != nil {
				log.Printf("Error counting movements for %s: %v", acc.IBAN, err)
			} else {
				status.SourceMovementCount = &count
				if acc.LastSyncedRowCount > 0 {
					pending := count - acc.LastSyncedRowCount
					if pending < 0 {
						pending = 0
					}
					status.PendingMovements = &pending
				}
			}
		}

		accountStatuses = append(accountStatuses, status)
	}

	lastError := loginStatus.LastError
	if sessionStatus.HasSession && !sessionStatus.IsValid {
		lastError = "Session expired"
	}

	response := StatusResponse{
		LastLoginTime:    loginStatus.LastLoginTime,
		LastLoginSuccess: sessionStatus.IsValid,
		LastError:        lastError,
		Accounts:         accountStatuses,
		SessionValid:     sessionStatus.IsValid,
		SyncInProgress:   h.syncService.State().InProgress,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
