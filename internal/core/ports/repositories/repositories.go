package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager        TransactionManager
	Sequencer        Sequencer
	AccountRepo      AccountRepositoryFacade
	ExchangeRateRepo ExchangeRateRepositoryFacade
	TaxRateRepo      TaxRateRepositoryFacade
	JournalRepo      JournalRepositoryFacade
	FiscalPeriodRepo FiscalPeriodRepositoryFacade
	BankAccountRepo  BankAccountRepositoryFacade
	LedgerReader     LedgerReader
	PayrollRepo      PayrollRepositoryFacade
	CostRepo         CostAllocationRepositoryFacade
}
