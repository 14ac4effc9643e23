package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a journal entry.
type EntryStatus string

const (
	EntryDraft  EntryStatus = "draft"
	EntryPosted EntryStatus = "posted"
	EntryVoided EntryStatus = "voided"
)

// ParseEntryStatus validates an entry status string.
func ParseEntryStatus(s string) (EntryStatus, error) {
	switch st := EntryStatus(s); st {
	case EntryDraft, EntryPosted, EntryVoided:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown entry status %q", apperrors.ErrValidation, s)
}

// ReferenceType names the origin of a journal entry.
type ReferenceType string

const (
	RefNone           ReferenceType = ""
	RefManual         ReferenceType = "manual"
	RefExpense        ReferenceType = "expense"
	RefPayrollRun     ReferenceType = "payroll_run"
	RefSalaryAdvance  ReferenceType = "salary_advance"
	RefCostAllocation ReferenceType = "cost_allocation"
)

// ParseReferenceType validates a reference type string. The empty string is accepted.
func ParseReferenceType(s string) (ReferenceType, error) {
	switch rt := ReferenceType(s); rt {
	case RefNone, RefManual, RefExpense, RefPayrollRun, RefSalaryAdvance, RefCostAllocation:
		return rt, nil
	}
	return "", fmt.Errorf("%w: unknown reference type %q", apperrors.ErrValidation, s)
}

// JournalEntry is the header of a double-entry posting.
type JournalEntry struct {
	EntryID       string        `json:"entryID"`
	EntryNumber   string        `json:"entryNumber"`
	EntryDate     time.Time     `json:"entryDate"`
	Description   string        `json:"description"`
	Status        EntryStatus   `json:"status"`
	ReferenceType ReferenceType `json:"referenceType,omitempty"`
	ReferenceID   string        `json:"referenceID,omitempty"`
	PostedAt      *time.Time    `json:"postedAt,omitempty"`
	PostedBy      string        `json:"postedBy,omitempty"`
	VoidedAt      *time.Time    `json:"voidedAt,omitempty"`
	VoidedBy      string        `json:"voidedBy,omitempty"`
	VoidReason    string        `json:"voidReason,omitempty"`
	Lines         []JournalLine `json:"lines"`
	AuditFields
}

// JournalLine is one side of a journal entry. Exactly one of Debit and Credit is positive.
type JournalLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	LineNumber   int             `json:"lineNumber"`
	AccountID    string          `json:"accountID"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	DebitBase    decimal.Decimal `json:"debitBase"`
	CreditBase   decimal.Decimal `json:"creditBase"`
	Memo         string          `json:"memo,omitempty"`
}

// BaseTotals sums the base currency sides of all lines.
func (e JournalEntry) BaseTotals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.DebitBase)
		credit = credit.Add(l.CreditBase)
	}
	return debit, credit
}

// JournalFilter narrows ListEntries.
type JournalFilter struct {
	Status        *EntryStatus
	From          *time.Time
	To            *time.Time
	ReferenceType ReferenceType
	ReferenceID   string
}

// EntryTransition describes an optimistic status change of a journal entry.
type EntryTransition struct {
	EntryID string
	From    EntryStatus
	To      EntryStatus
	At      time.Time
	By      string
	Reason  string
}
