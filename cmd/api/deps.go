package main

import (
	"context"
	"log"

	"argentasync/internal/domain/sync"
	"argentasync/internal/infrastructure/actualbudget"
	"argentasync/internal/infrastructure/argenta"
	"argentasync/internal/infrastructure/crypto"
	"argentasync/internal/infrastructure/postgres"
	httphandlers "argentasync/internal/interfaces/http"
	"argentasync/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	SyncHandler    *httphandlers.SyncHandler
	StatusHandler  *httphandlers.StatusHandler
	AccountHandler *httphandlers.AccountHandler
	LedgerHandler  *httphandlers.LedgerHandler

	// Sync service (for scheduler)
	SyncService *sync.Service

	// Repositories (for scheduler job provider)
	AccountRepo *postgres.AccountRepository
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database and apply pending migrations
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	if err := db.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize encryptor
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db, encryptor)

	// Initialize bank gateway and login session manager
	bank := argenta.NewClient(cfg.Argenta.APIBase, cfg.Argenta.SessionStatePath)
	session := argenta.NewSessionManager(bank, cfg.Argenta.LoginHelperCmd, cfg.Argenta.LoginPollInterval)

	// Initialize ledger client
	ledger := actualbudget.NewClient()

	// Initialize sync service
	snapshots := sync.NewSnapshotWriter(cfg.Sync.SnapshotDir)
	syncService := sync.NewService(
		bank,
		session,
		ledger,
		accountRepo,
		settingsRepo,
		snapshots,
		cfg.Sync.PageSize,
		cfg.Argenta.LoginTimeout,
	)

	// Initialize handlers
	syncHandler := httphandlers.NewSyncHandler(syncService)
	statusHandler := httphandlers.NewStatusHandler(syncService, bank, accountRepo, settingsRepo)
	accountHandler := httphandlers.NewAccountHandler(accountRepo)
	ledgerHandler := httphandlers.NewLedgerHandler(ledger, settingsRepo)

	return &Dependencies{
		DB:             db,
		SyncHandler:    syncHandler,
		StatusHandler:  statusHandler,
		AccountHandler: accountHandler,
		LedgerHandler:  ledgerHandler,
		SyncService:    syncService,
		AccountRepo:    accountRepo,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
