package services

import (
	"context"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	"github.com/SscSPs/logistics_ledger/internal/dto"
)

// BalanceSvc derives balances from posted journal lines only.
type BalanceSvc interface {
	AccountBalance(ctx context.Context, accountID string, asOf time.Time) (*domain.AccountBalance, error)
	AccountBalanceForRange(ctx context.Context, accountID string, from, to time.Time) (*domain.AccountBalance, error)
	BankAccountBalance(ctx context.Context, bankAccountID string, asOf time.Time) (*domain.BankAccountBalance, error)
}

// BankAccountSvc maintains bank account records.
type BankAccountSvc interface {
	CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error)
	GetBankAccount(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error)
}

// BalanceSvcFacade combines balance derivation and bank account maintenance
type BalanceSvcFacade interface {
	BalanceSvc
	BankAccountSvc
}
