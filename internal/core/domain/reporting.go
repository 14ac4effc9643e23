package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineSumFilter bounds an aggregation over posted journal lines. Bounds are inclusive.
type LineSumFilter struct {
	AccountIDs []string
	From       *time.Time
	To         *time.Time
}

// AccountTurnover is the base currency debit and credit turnover of one account.
type AccountTurnover struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// CurrencyTurnover is the turnover of one account in one line currency.
type CurrencyTurnover struct {
	CurrencyCode string
	Debit        decimal.Decimal
	Credit       decimal.Decimal
	DebitBase    decimal.Decimal
	CreditBase   decimal.Decimal
}

// AccountBalance is an account's normal-signed balance over a range.
type AccountBalance struct {
	AccountID     string          `json:"accountID"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
	From          *time.Time      `json:"from,omitempty"`
	To            time.Time       `json:"to"`
}

// TrialBalanceRow represents a single row in a trial balance report.
type TrialBalanceRow struct {
	AccountID     string          `json:"accountID"`
	AccountCode   string          `json:"accountCode"`
	AccountName   string          `json:"accountName"`
	AccountType   AccountType     `json:"accountType"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
	DebitBalance  decimal.Decimal `json:"debitBalance"`
	CreditBalance decimal.Decimal `json:"creditBalance"`
}

// TrialBalanceReport lists every account with activity as of a date.
type TrialBalanceReport struct {
	AsOf               time.Time         `json:"asOf"`
	Rows               []TrialBalanceRow `json:"rows"`
	TotalDebit         decimal.Decimal   `json:"totalDebit"`
	TotalCredit        decimal.Decimal   `json:"totalCredit"`
	TotalDebitBalance  decimal.Decimal   `json:"totalDebitBalance"`
	TotalCreditBalance decimal.Decimal   `json:"totalCreditBalance"`
	IsBalanced         bool              `json:"isBalanced"`
}

// AccountAmount represents an account with its normal-signed amount in a statement.
type AccountAmount struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Amount      decimal.Decimal `json:"amount"`
}

// IncomeStatement covers revenue and expense activity within a date range.
type IncomeStatement struct {
	From              time.Time       `json:"from"`
	To                time.Time       `json:"to"`
	Revenue           []AccountAmount `json:"revenue"`
	Expenses          []AccountAmount `json:"expenses"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	NetIncome         decimal.Decimal `json:"netIncome"`
	TaxRate           *TaxRate        `json:"taxRate,omitempty"`
	EstimatedTax      decimal.Decimal `json:"estimatedTax"`
	NetIncomeAfterTax decimal.Decimal `json:"netIncomeAfterTax"`
}

// BalanceSheet is the cumulative position of asset, liability and equity accounts.
// UnclosedEarnings is revenue minus expense not yet closed into equity. Difference is
// assets minus liabilities and equity, so a consistent ledger has Difference equal to UnclosedEarnings.
type BalanceSheet struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	UnclosedEarnings decimal.Decimal `json:"unclosedEarnings"`
	Difference       decimal.Decimal `json:"difference"`
	IsBalanced       bool            `json:"isBalanced"`
}
