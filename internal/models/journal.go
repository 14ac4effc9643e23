package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID       string     `db:"entry_id"`
	EntryNumber   string     `db:"entry_number"`
	EntryDate     time.Time  `db:"entry_date"`
	Description   string     `db:"description"`
	Status        string     `db:"status"`
	ReferenceType *string    `db:"reference_type"` // Nullable
	ReferenceID   *string    `db:"reference_id"`   // Nullable
	PostedAt      *time.Time `db:"posted_at"`
	PostedBy      *string    `db:"posted_by"`
	VoidedAt      *time.Time `db:"voided_at"`
	VoidedBy      *string    `db:"voided_by"`
	VoidReason    *string    `db:"void_reason"`
	AuditFields
}

// JournalLine is a row of the journal_lines table. Amounts are stored in the line currency
// and again in the base currency.
type JournalLine struct {
	LineID       string          `db:"line_id"`
	EntryID      string          `db:"entry_id"`
	LineNumber   int             `db:"line_number"`
	AccountID    string          `db:"account_id"`
	Debit        decimal.Decimal `db:"debit"`
	Credit       decimal.Decimal `db:"credit"`
	CurrencyCode string          `db:"currency_code"`
	ExchangeRate decimal.Decimal `db:"exchange_rate"`
	DebitBase    decimal.Decimal `db:"debit_base"`
	CreditBase   decimal.Decimal `db:"credit_base"`
	Memo         *string         `db:"memo"`
}
