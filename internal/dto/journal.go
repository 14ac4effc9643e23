package dto

import (
	"time"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one line of a journal entry request. Exactly one side must be positive.
type JournalLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Debit        decimal.Decimal `json:"debit" binding:"decimal_gte0"`
	Credit       decimal.Decimal `json:"credit" binding:"decimal_gte0"`
	CurrencyCode string          `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
	Memo         string          `json:"memo"`
}

// CreateEntryRequest defines the data needed to create a draft journal entry.
type CreateEntryRequest struct {
	EntryDate     time.Time            `json:"entryDate" binding:"required"`
	Description   string               `json:"description" binding:"required"`
	ReferenceType string               `json:"referenceType" binding:"omitempty,oneof=manual expense payroll_run salary_advance cost_allocation"`
	ReferenceID   string               `json:"referenceID"`
	Lines         []JournalLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateEntryRequest changes a draft entry. A nil Lines slice keeps the existing lines.
type UpdateEntryRequest struct {
	EntryDate   *time.Time           `json:"entryDate"`
	Description *string              `json:"description"`
	Lines       []JournalLineRequest `json:"lines" binding:"omitempty,dive"`
}

// VoidEntryRequest carries the mandatory reason for voiding a posted entry.
type VoidEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListEntriesParams defines query parameters for listing journal entries.
type ListEntriesParams struct {
	Status        string     `form:"status" binding:"omitempty,oneof=draft posted voided"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	ReferenceType string     `form:"referenceType"`
	ReferenceID   string     `form:"referenceID"`
	Limit         int        `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken     *string    `form:"nextToken"`
}

// ListEntriesResponse is a page of journal entry headers.
type ListEntriesResponse struct {
	Entries   []domain.JournalEntry `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// RecordExpenseRequest is an approved expense handed over by the expense workflow.
type RecordExpenseRequest struct {
	ExpenseID        string          `json:"expenseID" binding:"required"`
	ExpenseDate      time.Time       `json:"expenseDate" binding:"required"`
	Category         string          `json:"category" binding:"required"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	CurrencyCode     string          `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
	ExpenseAccountID string          `json:"expenseAccountID" binding:"required"`
	FundingAccountID string          `json:"fundingAccountID" binding:"required"`
}
