package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock BalanceService ---
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) AccountBalance(ctx context.Context, accountID string, asOf time.Time) (*domain.AccountBalance, error) {
	args := m.Called(ctx, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}
func (m *MockBalanceService) AccountBalanceForRange(ctx context.Context, accountID string, from, to time.Time) (*domain.AccountBalance, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}
func (m *MockBalanceService) BankAccountBalance(ctx context.Context, bankAccountID string, asOf time.Time) (*domain.BankAccountBalance, error) {
	args := m.Called(ctx, bankAccountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccountBalance), args.Error(1)
}
func (m *MockBalanceService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}
func (m *MockBalanceService) GetBankAccount(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}
func (m *MockBalanceService) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

var _ portssvc.BalanceSvcFacade = (*MockBalanceService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) entry(args mock.Arguments) (*domain.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, entryID))
}
func (m *MockJournalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}
func (m *MockJournalService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, req, userID))
}
func (m *MockJournalService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, entryID, req, userID))
}
func (m *MockJournalService) DeleteEntry(ctx context.Context, entryID string, userID string) error {
	return m.Called(ctx, entryID, userID).Error(0)
}
func (m *MockJournalService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, entryID, userID))
}
func (m *MockJournalService) VoidEntry(ctx context.Context, entryID string, reason string, userID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, entryID, reason, userID))
}
func (m *MockJournalService) RecordEntry(ctx context.Context, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, req, userID))
}
func (m *MockJournalService) RecordApprovedExpense(ctx context.Context, req dto.RecordExpenseRequest, userID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, req, userID))
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalanceReport), args.Error(1)
}
func (m *MockReportingService) IncomeStatement(ctx context.Context, from, to time.Time, taxRateID string) (*domain.IncomeStatement, error) {
	args := m.Called(ctx, from, to, taxRateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatement), args.Error(1)
}
func (m *MockReportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheet), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)
