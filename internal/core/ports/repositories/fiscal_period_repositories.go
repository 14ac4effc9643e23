package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
)

// FiscalPeriodRepositoryFacade defines persistence for fiscal periods.
type FiscalPeriodRepositoryFacade interface {
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)
	// ListPeriods lists periods ordered by start date; a nil fiscalYear lists every year.
	ListPeriods(ctx context.Context, fiscalYear *int) ([]domain.FiscalPeriod, error)
	// FindPeriodsContaining returns every period whose range includes date.
	FindPeriodsContaining(ctx context.Context, date time.Time) ([]domain.FiscalPeriod, error)
	// TransitionPeriod changes status guarded by the expected current status.
	TransitionPeriod(ctx context.Context, periodID string, from, to domain.PeriodStatus, by string, at time.Time) error
}
