package services

import (
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/observability/metrics"
	"github.com/SscSPs/logistics_ledger/internal/platform/config"
)

// NewContainer creates a new service container with properly initialized dependencies.
// A nil m disables ledger metrics.
func NewContainer(repos *portsrepo.RepositoryProvider, cfg *config.Config, m *metrics.LedgerMetrics) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Currency and period services are collaborators of everything that posts.
	currency := NewCurrencyService(repos.ExchangeRateRepo, repos.TaxRateRepo, cfg.BaseCurrency)
	periods := NewFiscalPeriodService(repos.FiscalPeriodRepo, cfg.RequireOpenPeriod)
	container.Currency = currency
	container.FiscalPeriod = periods

	container.Account = NewAccountService(repos.AccountRepo, cfg.BaseCurrency)

	container.Journal = NewJournalService(
		repos.JournalRepo,
		repos.AccountRepo,
		currency,
		periods,
		repos.Sequencer,
		repos.TxManager,
		WithJournalMetrics(m),
	)

	container.Balance = NewBalanceService(repos.AccountRepo, repos.BankAccountRepo, repos.LedgerReader, currency)
	container.Reporting = NewReportingService(repos.AccountRepo, repos.LedgerReader, repos.TaxRateRepo)

	container.Payroll = NewPayrollService(PayrollDependencies{
		PayrollRepo: repos.PayrollRepo,
		BankRepo:    repos.BankAccountRepo,
		AccountRepo: repos.AccountRepo,
		Journal:     container.Journal,
		Sequencer:   repos.Sequencer,
		TxManager:   repos.TxManager,
		Accounts:    cfg.PayrollAccounts,
		Defaults:    cfg.PayrollDefaults,
		Scale:       currency.Scale(cfg.BaseCurrency),
	}, WithPayrollMetrics(m))

	container.CostAllocation = NewCostAllocationService(repos.CostRepo, currency, repos.TxManager, WithAllocationMetrics(m))

	return container
}
