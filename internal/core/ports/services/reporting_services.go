package services

import (
	"context"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error)
	// IncomeStatement applies the tax rate to positive net income when taxRateID is not empty.
	IncomeStatement(ctx context.Context, from, to time.Time, taxRateID string) (*domain.IncomeStatement, error)
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error)
}
