package dto

import "github.com/shopspring/decimal"

// CreateBankAccountRequest defines the data needed to register a bank account.
type CreateBankAccountRequest struct {
	Name            string          `json:"name" binding:"required"`
	BankName        string          `json:"bankName" binding:"required"`
	AccountNumber   string          `json:"accountNumber" binding:"required"`
	CurrencyCode    string          `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	LedgerAccountID string          `json:"ledgerAccountID"`
}
