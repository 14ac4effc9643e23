package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	"github.com/SscSPs/logistics_ledger/internal/dto"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CountJournalLines(ctx context.Context, accountID string, postedOnly bool) (int, error) {
	args := m.Called(ctx, accountID, postedOnly)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// MockJournalRepository is a mock type for the JournalRepositoryFacade interface
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntryByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, refType, refID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, filter domain.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), next, args.Error(2)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteDraftEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func (m *MockJournalRepository) TransitionEntry(ctx context.Context, transition domain.EntryTransition) error {
	args := m.Called(ctx, transition)
	return args.Error(0)
}

// MockFiscalPeriodRepository is a mock type for the FiscalPeriodRepositoryFacade interface
type MockFiscalPeriodRepository struct {
	mock.Mock
}

func (m *MockFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockFiscalPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) ListPeriods(ctx context.Context, fiscalYear *int) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, fiscalYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) FindPeriodsContaining(ctx context.Context, at time.Time) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) TransitionPeriod(ctx context.Context, periodID string, from, to domain.PeriodStatus, by string, at time.Time) error {
	args := m.Called(ctx, periodID, from, to, by, at)
	return args.Error(0)
}

// MockExchangeRateRepository is a mock type for the ExchangeRateRepositoryFacade interface
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) FindLatestRate(ctx context.Context, currencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, currencyCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListExchangeRates(ctx context.Context, currencyCode string) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

// MockTaxRateRepository is a mock type for the TaxRateRepositoryFacade interface
type MockTaxRateRepository struct {
	mock.Mock
}

func (m *MockTaxRateRepository) SaveTaxRate(ctx context.Context, rate domain.TaxRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockTaxRateRepository) FindTaxRateByID(ctx context.Context, taxRateID string) (*domain.TaxRate, error) {
	args := m.Called(ctx, taxRateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) ListTaxRates(ctx context.Context, activeOnly bool) ([]domain.TaxRate, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxRate), args.Error(1)
}

// MockBankAccountRepository is a mock type for the BankAccountRepositoryFacade interface
type MockBankAccountRepository struct {
	mock.Mock
}

func (m *MockBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) FindBankAccountByIDForUpdate(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

// MockLedgerReader is a mock type for the LedgerReader interface
type MockLedgerReader struct {
	mock.Mock
}

func (m *MockLedgerReader) SumPostedLines(ctx context.Context, filter domain.LineSumFilter) ([]domain.AccountTurnover, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTurnover), args.Error(1)
}

func (m *MockLedgerReader) SumPostedLinesByCurrency(ctx context.Context, accountID string, asOf time.Time) ([]domain.CurrencyTurnover, error) {
	args := m.Called(ctx, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CurrencyTurnover), args.Error(1)
}

// MockPayrollRepository is a mock type for the PayrollRepositoryFacade interface
type MockPayrollRepository struct {
	mock.Mock
}

func (m *MockPayrollRepository) DeactivateSalaries(ctx context.Context, employeeID string, by string, at time.Time) error {
	args := m.Called(ctx, employeeID, by, at)
	return args.Error(0)
}

func (m *MockPayrollRepository) SaveSalary(ctx context.Context, salary domain.EmployeeSalary) error {
	args := m.Called(ctx, salary)
	return args.Error(0)
}

func (m *MockPayrollRepository) ListActiveSalaries(ctx context.Context) ([]domain.EmployeeSalary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmployeeSalary), args.Error(1)
}

func (m *MockPayrollRepository) SaveAdvance(ctx context.Context, advance domain.SalaryAdvance) error {
	args := m.Called(ctx, advance)
	return args.Error(0)
}

func (m *MockPayrollRepository) FindAdvanceByID(ctx context.Context, advanceID string) (*domain.SalaryAdvance, error) {
	args := m.Called(ctx, advanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalaryAdvance), args.Error(1)
}

func (m *MockPayrollRepository) ListAdvances(ctx context.Context, employeeID string, status *domain.AdvanceStatus) ([]domain.SalaryAdvance, error) {
	args := m.Called(ctx, employeeID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SalaryAdvance), args.Error(1)
}

func (m *MockPayrollRepository) ListUnconsumedAdvances(ctx context.Context) ([]domain.SalaryAdvance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SalaryAdvance), args.Error(1)
}

func (m *MockPayrollRepository) ApproveAdvance(ctx context.Context, advanceID string, journalEntryID string, by string, at time.Time) error {
	args := m.Called(ctx, advanceID, journalEntryID, by, at)
	return args.Error(0)
}

func (m *MockPayrollRepository) LinkAdvancesToRun(ctx context.Context, runID string, advanceIDs []string, by string, at time.Time) (int64, error) {
	args := m.Called(ctx, runID, advanceIDs, by, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayrollRepository) SaveRun(ctx context.Context, run domain.PayrollRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockPayrollRepository) FindRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}

func (m *MockPayrollRepository) ListRuns(ctx context.Context, year *int) ([]domain.PayrollRun, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollRun), args.Error(1)
}

func (m *MockPayrollRepository) CountItems(ctx context.Context, runID string) (int, error) {
	args := m.Called(ctx, runID)
	return args.Int(0), args.Error(1)
}

func (m *MockPayrollRepository) SaveItems(ctx context.Context, items []domain.PayrollItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockPayrollRepository) ListItems(ctx context.Context, runID string) ([]domain.PayrollItem, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollItem), args.Error(1)
}

func (m *MockPayrollRepository) MarkGenerated(ctx context.Context, runID string, totals domain.RunTotals, by string, at time.Time) error {
	args := m.Called(ctx, runID, totals, by, at)
	return args.Error(0)
}

func (m *MockPayrollRepository) MarkPaid(ctx context.Context, runID string, bankAccountID, journalEntryID, by string, at time.Time) error {
	args := m.Called(ctx, runID, bankAccountID, journalEntryID, by, at)
	return args.Error(0)
}

// MockCostRepository is a mock type for the CostAllocationRepositoryFacade interface
type MockCostRepository struct {
	mock.Mock
}

func (m *MockCostRepository) SaveBatchCost(ctx context.Context, cost domain.BatchCost) error {
	args := m.Called(ctx, cost)
	return args.Error(0)
}

func (m *MockCostRepository) ListBatchCosts(ctx context.Context, batchID string) ([]domain.BatchCost, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchCost), args.Error(1)
}

func (m *MockCostRepository) ListShipments(ctx context.Context, batchID string) ([]domain.Shipment, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Shipment), args.Error(1)
}

func (m *MockCostRepository) ReplaceAllocations(ctx context.Context, batchID string, allocations []domain.BatchCostAllocation) error {
	args := m.Called(ctx, batchID, allocations)
	return args.Error(0)
}

func (m *MockCostRepository) ListAllocations(ctx context.Context, batchID string) ([]domain.BatchCostAllocation, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchCostAllocation), args.Error(1)
}

// MockLedgerRecorder is a mock type for the LedgerRecorderSvc interface
type MockLedgerRecorder struct {
	mock.Mock
}

func (m *MockLedgerRecorder) RecordEntry(ctx context.Context, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerRecorder) RecordApprovedExpense(ctx context.Context, req dto.RecordExpenseRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// fakeTxManager runs fn directly and counts transactions. With mark set the
// context passed to fn carries a value that inTx matches.
type fakeTxManager struct {
	calls int
	mark  bool
}

type fakeTxKey struct{}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if f.mark {
		ctx = context.WithValue(ctx, fakeTxKey{}, f.calls)
	}
	return fn(ctx)
}

// inTx matches contexts handed out by fakeTxManager.
func inTx() interface{} {
	return mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Value(fakeTxKey{}) != nil
	})
}

// fakeSequencer hands out consecutive numbers per sequence.
type fakeSequencer struct {
	next map[string]int64
}

func newFakeSequencer() *fakeSequencer {
	return &fakeSequencer{next: map[string]int64{}}
}

func (f *fakeSequencer) Next(_ context.Context, name string) (int64, error) {
	f.next[name]++
	return f.next[name], nil
}

// stubPeriodGuard answers IsPostable with a fixed value.
type stubPeriodGuard struct {
	postable bool
	err      error
}

func (s stubPeriodGuard) IsPostable(context.Context, time.Time) (bool, error) {
	return s.postable, s.err
}
