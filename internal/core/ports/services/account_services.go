package services

import (
	"context"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	"github.com/SscSPs/logistics_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	// CreateAccount fails with apperrors.ErrDuplicate when the code is taken.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	// UpdateAccount refuses a type change once posted lines reference the account.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
	// DeleteAccount refuses accounts referenced by any journal line.
	DeleteAccount(ctx context.Context, accountID string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
