package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is a funding account. Its current balance is always derived from the ledger.
type BankAccount struct {
	BankAccountID   string          `json:"bankAccountID"`
	Name            string          `json:"name"`
	BankName        string          `json:"bankName"`
	AccountNumber   string          `json:"accountNumber"`
	CurrencyCode    string          `json:"currencyCode"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	LedgerAccountID string          `json:"ledgerAccountID,omitempty"`
	IsActive        bool            `json:"isActive"`
	AuditFields
}

// BankAccountBalance is a derived bank balance at a point in time.
type BankAccountBalance struct {
	BankAccount BankAccount     `json:"bankAccount"`
	Balance     decimal.Decimal `json:"balance"`
	AsOf        time.Time       `json:"asOf"`
}
