package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"argentasync/internal/domain/account"
	"argentasync/internal/domain/settings"
	"argentasync/internal/infrastructure/actualbudget"
	"argentasync/internal/infrastructure/argenta"
)

// Service orchestrates sync runs between the bank and the ledger. A single
// in-progress flag covers both syncs and logins: the bank session cannot
// serve two interactive flows at once.
type Service struct {
	bank         argenta.ClientInterface
	session      argenta.SessionInterface
	ledger       actualbudget.ClientInterface
	accountRepo  account.Repository
	settingsRepo settings.Repository
	snapshots    *SnapshotWriter
	pageSize     int
	loginTimeout time.Duration

	mu         sync.Mutex
	inProgress bool
}

// NewService creates a sync service.
func NewService(
	bank argenta.ClientInterface,
	session argenta.SessionInterface,
	ledger actualbudget.ClientInterface,
	accountRepo account.Repository,
	settingsRepo settings.Repository,
	snapshots *SnapshotWriter,
	pageSize int,
	loginTimeout time.Duration,
) *Service {
	return &Service{
		bank:         bank,
		session:      session,
		ledger:       ledger,
		accountRepo:  accountRepo,
		settingsRepo: settingsRepo,
		snapshots:    snapshots,
		pageSize:     pageSize,
		loginTimeout: loginTimeout,
	}
}

// State returns the externally visible sync state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{InProgress: s.inProgress}
}

// begin claims the in-progress flag. Concurrent callers are rejected, not queued.
func (s *Service) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inProgress {
		return ErrSyncInProgress
	}
	s.inProgress = true
	return nil
}

func (s *Service) end() {
	s.mu.Lock()
	s.inProgress = false
	s.mu.Unlock()
}

// StartLogin starts an interactive login. It claims the in-progress flag and
// launches the external login helper synchronously, then waits for a valid
// session in the background, bounded by the configured login timeout. The
// outcome is stamped into the settings store and the discovered accounts are
// upserted. Session resources are released on every exit path.
func (s *Service) StartLogin(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}

	log.Printf("Starting login session")
	if err := s.session.StartLoginSession(ctx); err != nil {
		if stampErr := s.settingsRepo.SetLoginError(ctx, err.Error()); stampErr != nil {
			log.Printf("Failed to record login error: %v", stampErr)
		}
		s.session.CloseLoginSession()
		s.end()
		return fmt.Errorf("failed to start login session: %w", err)
	}

	go s.awaitLogin()

	return nil
}

func (s *Service) awaitLogin() {
	defer s.end()
	defer s.session.CloseLoginSession()

	waitCtx, cancel := context.WithTimeout(context.Background(), s.loginTimeout)
	defer cancel()

	result, err := s.session.WaitForValidSession(waitCtx)

	// On timeout waitCtx is already past its deadline, which would make
	// every store write below fail. Persistence gets its own context.
	ctx, storeCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer storeCancel()

	if err != nil {
		log.Printf("Login failed: %v", err)
		if stampErr := s.settingsRepo.SetLoginError(ctx, err.Error()); stampErr != nil {
			log.Printf("Failed to record login error: %v", stampErr)
		}
		return
	}

	params := make([]account.UpsertParams, 0, len(result.Accounts))
	for _, acc := range result.Accounts {
		params = append(params, account.UpsertParams{ID: acc.ID, IBAN: acc.IBAN, Alias: acc.Alias})
	}
	if err := s.accountRepo.UpsertBatch(ctx, params); err != nil {
		log.Printf("Failed to store discovered accounts: %v", err)
		if stampErr := s.settingsRepo.SetLoginError(ctx, err.Error()); stampErr != nil {
			log.Printf("Failed to record login error: %v", stampErr)
		}
		return
	}

	if err := s.settingsRepo.SetLoginSuccess(ctx); err != nil {
		log.Printf("Failed to record login success: %v", err)
	}
	log.Printf("Login successful, %d account(s) discovered", len(result.Accounts))
}

// SyncAccount runs one sync for an account. With fullSync it refetches the
// whole history; otherwise it fetches only the movements that appeared since
// the last run, based on the bank's total row count.
//
// The row-count checkpoint advances whenever the fetch side succeeds, even if
// the ledger import fails: the import is idempotent on imported_id, so a
// retry via full sync recovers, while a stale checkpoint would refetch the
// same rows forever.
func (s *Service) SyncAccount(ctx context.Context, accountID string, fullSync bool) (*SyncResult, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	runID := uuid.New().String()

	if !s.bank.IsAuthenticated() {
		return &SyncResult{
			Success:     false,
			Message:     "Not authenticated. Please login first.",
			NeedsReauth: true,
		}, nil
	}

	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return &SyncResult{Success: false, Message: "Account not found"}, nil
		}
		return nil, err
	}

	ledgerAccountID, err := s.accountRepo.LedgerAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if ledgerAccountID == "" {
		return &SyncResult{
			Success:          false,
			Message:          "Account not linked to a ledger account",
			NeedsAccountLink: true,
		}, nil
	}

	lastSyncedRowCount, err := s.accountRepo.LastSyncedRowCount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	mode := "incremental"
	if fullSync {
		mode = "full"
	}
	log.Printf("[%s] Syncing account %s (%s, last synced: %d rows)", runID, acc.IBAN, mode, lastSyncedRowCount)

	totalRowCount, err := s.bank.GetMovementCount(ctx, acc.IBAN)
	if err != nil {
		return fetchFailure(err), nil
	}

	// Movements arrive newest-first, so everything beyond the last synced
	// row count sits at the front of the listing.
	target := 0 // unbounded
	if !fullSync && lastSyncedRowCount > 0 {
		delta := totalRowCount - lastSyncedRowCount
		if delta <= 0 {
			log.Printf("[%s] No new movements to sync", runID)
			return &SyncResult{Success: true, Message: "No new movements to sync"}, nil
		}
		target = delta
		log.Printf("[%s] Found %d new movements to fetch", runID, delta)
	}

	var movements []argenta.Movement
	start := 0
	for {
		page, err := s.bank.FetchMovements(ctx, acc.IBAN, start, s.pageSize)
		if err != nil {
			return fetchFailure(err), nil
		}

		batch := page.Result
		if target > 0 {
			if remaining := target - len(movements); remaining < len(batch) {
				batch = batch[:remaining]
			}
		}
		movements = append(movements, batch...)

		log.Printf("[%s] Fetched %d to %d of %d", runID, start, start+len(page.Result), totalRowCount)

		if len(page.Result) < s.pageSize {
			break
		}
		if target > 0 && len(movements) >= target {
			break
		}
		start += s.pageSize
	}

	log.Printf("[%s] Total movements fetched: %d", runID, len(movements))
	for _, line := range movementSummary(movements) {
		log.Printf("[%s] %s", runID, line)
	}
	s.snapshots.Write(runID, acc.IBAN, fullSync, movements)

	importResult := s.importMovements(ctx, ledgerAccountID, movements)

	if err := s.accountRepo.UpdateSyncStatus(ctx, accountID, &totalRowCount); err != nil {
		return nil, fmt.Errorf("failed to update sync checkpoint: %w", err)
	}

	message := fmt.Sprintf("Synced %d movements. %s", len(movements), importResult.Message)
	if !importResult.Success {
		message = fmt.Sprintf("Fetched %d movements but ledger import failed: %s", len(movements), importResult.Message)
	}

	return &SyncResult{
		Success:       true,
		Message:       message,
		MovementCount: len(movements),
		Import:        importResult,
	}, nil
}

func (s *Service) importMovements(ctx context.Context, ledgerAccountID string, movements []argenta.Movement) *actualbudget.ImportResult {
	cfg, err := s.settingsRepo.LedgerConfig(ctx)
	if err != nil {
		return importFailure(fmt.Sprintf("Failed to load ledger configuration: %v", err))
	}
	if cfg == nil {
		return importFailure("Ledger not configured")
	}

	transactions := MapMovements(movements, ledgerAccountID)
	result, err := s.ledger.ImportTransactions(ctx, actualbudget.Config{
		ServerURL: cfg.ServerURL,
		Password:  cfg.Password,
		SyncID:    cfg.SyncID,
	}, ledgerAccountID, transactions)
	if err != nil {
		return importFailure(err.Error())
	}
	return result
}

// movementSummary renders the first few fetched movements for the run log,
// one line per movement, with a trailing count of what was elided.
func movementSummary(movements []argenta.Movement) []string {
	const limit = 10

	lines := make([]string, 0, limit+1)
	for i, m := range movements {
		if i == limit {
			lines = append(lines, fmt.Sprintf("... and %d more", len(movements)-limit))
			break
		}
		counterparty := m.CounterpartyName
		if counterparty == "" {
			counterparty = m.StandardWording
		}
		lines = append(lines, fmt.Sprintf("%s | %s%s | %s", m.AccountingDate, m.MovementSign, m.MovementAmount, counterparty))
	}
	return lines
}

func fetchFailure(err error) *SyncResult {
	return &SyncResult{
		Success:     false,
		Message:     fmt.Sprintf("Failed to fetch movements: %v", err),
		NeedsReauth: errors.Is(err, argenta.ErrSessionExpired),
	}
}

func importFailure(message string) *actualbudget.ImportResult {
	return &actualbudget.ImportResult{
		Success: false,
		Errors:  []string{message},
		Message: message,
	}
}
