package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
)

// LedgerReader aggregates posted journal lines. Draft and voided entries never contribute.
type LedgerReader interface {
	// SumPostedLines returns base currency turnover per account for accounts with at least one line.
	SumPostedLines(ctx context.Context, filter domain.LineSumFilter) ([]domain.AccountTurnover, error)

	// SumPostedLinesByCurrency returns the turnover of one account grouped by line currency.
	SumPostedLinesByCurrency(ctx context.Context, accountID string, asOf time.Time) ([]domain.CurrencyTurnover, error)
}
