package repositories

import (
	"context"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
)

// BankAccountRepositoryFacade defines persistence for bank accounts.
type BankAccountRepositoryFacade interface {
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)
	// FindBankAccountByIDForUpdate locks the bank account row until the surrounding transaction ends.
	FindBankAccountByIDForUpdate(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error)
}
