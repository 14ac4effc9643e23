package pgsql

import (
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		TxManager:        newPgxTxManager(dbPool),
		Sequencer:        newPgxSequencer(dbPool),
		AccountRepo:      newPgxAccountRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		TaxRateRepo:      newPgxTaxRateRepository(dbPool),
		JournalRepo:      newPgxJournalRepository(dbPool),
		FiscalPeriodRepo: newPgxFiscalPeriodRepository(dbPool),
		BankAccountRepo:  newPgxBankAccountRepository(dbPool),
		LedgerReader:     newLedgerReader(dbPool),
		PayrollRepo:      newPgxPayrollRepository(dbPool),
		CostRepo:         newPgxCostAllocationRepository(dbPool),
	}
}
