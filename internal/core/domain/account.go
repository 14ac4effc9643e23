package domain

import (
	"fmt"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
)

// ParseAccountType validates a persisted or user supplied account type string.
func ParseAccountType(s string) (AccountType, error) {
	switch t := AccountType(s); t {
	case Asset, Liability, Equity, Revenue, Expense:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, s)
}

// NormalBalance is the side under which an account's balance is considered positive.
type NormalBalance string

const (
	DebitSide  NormalBalance = "debit"
	CreditSide NormalBalance = "credit"
)

// ParseNormalBalance validates a normal balance string.
func ParseNormalBalance(s string) (NormalBalance, error) {
	switch nb := NormalBalance(s); nb {
	case DebitSide, CreditSide:
		return nb, nil
	}
	return "", fmt.Errorf("%w: unknown normal balance %q", apperrors.ErrValidation, s)
}

// NormalBalance returns the side implied by the account type.
func (t AccountType) NormalBalance() NormalBalance {
	switch t {
	case Asset, Expense:
		return DebitSide
	default:
		return CreditSide
	}
}

// Account represents a chart of accounts entry.
type Account struct {
	AccountID     string        `json:"accountID"`
	Code          string        `json:"code"`
	Name          string        `json:"name"`
	AccountType   AccountType   `json:"accountType"`
	NormalBalance NormalBalance `json:"normalBalance"`
	Subtype       string        `json:"subtype"`
	Description   string        `json:"description"`
	CurrencyCode  string        `json:"currencyCode"`
	IsActive      bool          `json:"isActive"`
	AuditFields
}

// AccountFilter narrows ListAccounts. Nil fields match everything.
type AccountFilter struct {
	Type   *AccountType
	Active *bool
}
