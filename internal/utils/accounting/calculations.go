package accounting

import (
	"fmt"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// NormalSignedBalance applies the account's normal side to its debit and credit turnover.
// DEBIT-normal accounts (asset, expense) are positive when debits exceed credits,
// CREDIT-normal accounts (liability, equity, revenue) when credits exceed debits.
func NormalSignedBalance(side domain.NormalBalance, debit, credit decimal.Decimal) decimal.Decimal {
	if side == domain.DebitSide {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// ValidateLine checks that exactly one side of a line carries a positive amount.
func ValidateLine(index int, line domain.JournalLine) error {
	if line.AccountID == "" {
		return fmt.Errorf("%w: line %d has no account", apperrors.ErrValidation, index+1)
	}
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, index+1)
	}
	hasDebit, hasCredit := line.Debit.IsPositive(), line.Credit.IsPositive()
	if hasDebit == hasCredit {
		return fmt.Errorf("%w: line %d must have exactly one of debit or credit greater than zero (debit %s, credit %s)",
			apperrors.ErrValidation, index+1, line.Debit.String(), line.Credit.String())
	}
	return nil
}

// ValidateEntryBalance checks that an entry can be posted: at least two lines and
// equal debit and credit totals in base currency, with zero tolerance.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: journal entry must have at least two lines", apperrors.ErrValidation)
	}
	debits, credits := decimal.Zero, decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.DebitBase)
		credits = credits.Add(l.CreditBase)
	}
	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s (difference %s)",
			apperrors.ErrUnbalanced, debits.String(), credits.String(), debits.Sub(credits).String())
	}
	return nil
}

// Percent returns rate percent of amount rounded to scale decimal places.
func Percent(amount, rate decimal.Decimal, scale int32) decimal.Decimal {
	return amount.Mul(rate).Div(hundred).Round(scale)
}

// Margin returns profit as a percentage of revenue with two decimals, or zero without revenue.
func Margin(profit, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return profit.Mul(hundred).Div(revenue).Round(2)
}
