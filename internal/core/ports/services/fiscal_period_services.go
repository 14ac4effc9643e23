package services

import (
	"context"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	"github.com/SscSPs/logistics_ledger/internal/dto"
)

// PeriodGuardSvc answers whether a date can receive postings.
type PeriodGuardSvc interface {
	IsPostable(ctx context.Context, date time.Time) (bool, error)
}

// FiscalPeriodSvcFacade manages fiscal periods.
type FiscalPeriodSvcFacade interface {
	PeriodGuardSvc
	OpenPeriod(ctx context.Context, req dto.OpenPeriodRequest, userID string) (*domain.FiscalPeriod, error)
	// ClosePeriod is irreversible.
	ClosePeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error)
	LockPeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error)
	GetPeriod(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context, fiscalYear *int) ([]domain.FiscalPeriod, error)
}
