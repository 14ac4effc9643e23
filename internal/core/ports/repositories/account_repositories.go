package repositories

import (
	"context"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts
type AccountReader interface {
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	// FindAccountsByIDs returns the accounts found, keyed by ID. Missing IDs are simply absent.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)
	// CountJournalLines counts lines referencing the account, optionally only lines of posted entries.
	CountJournalLines(ctx context.Context, accountID string, postedOnly bool) (int, error)
}

// AccountWriter defines write operations for the chart of accounts
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	UpdateAccount(ctx context.Context, account domain.Account) error
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
