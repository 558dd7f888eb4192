package actualbudget

import "context"

// ClientInterface defines the methods required from the Actual Budget bridge client
type ClientInterface interface {
	TestConnection(ctx context.Context, serverURL, password string) (*TestConnectionResult, error)
	GetAccounts(ctx context.Context, cfg Config) ([]Account, error)
	CreateAccount(ctx context.Context, cfg Config, name string) (*Account, error)
	ImportTransactions(ctx context.Context, cfg Config, accountID string, transactions []ImportTransaction) (*ImportResult, error)
}
