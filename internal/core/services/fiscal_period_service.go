package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
)

type fiscalPeriodService struct {
	BaseService
	periodRepo portsrepo.FiscalPeriodRepositoryFacade
	// requireOpenPeriod rejects postings dated outside every defined period.
	requireOpenPeriod bool
}

// NewFiscalPeriodService creates the fiscal period manager.
func NewFiscalPeriodService(repo portsrepo.FiscalPeriodRepositoryFacade, requireOpenPeriod bool) portssvc.FiscalPeriodSvcFacade {
	return &fiscalPeriodService{
		periodRepo:        repo,
		requireOpenPeriod: requireOpenPeriod,
	}
}

var _ portssvc.FiscalPeriodSvcFacade = (*fiscalPeriodService)(nil)

// OpenPeriod creates an open period that does not overlap another period of the same fiscal year.
// A concurrent insert that slips past the list check is rejected by the fiscal_periods_no_overlap constraint.
func (s *fiscalPeriodService) OpenPeriod(ctx context.Context, req dto.OpenPeriodRequest, userID string) (*domain.FiscalPeriod, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: period name is required", apperrors.ErrValidation)
	}
	start, end := domain.DateOnly(req.StartDate), domain.DateOnly(req.EndDate)
	if start.After(end) {
		return nil, fmt.Errorf("%w: period start %s is after its end %s", apperrors.ErrValidation, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	year := req.FiscalYear
	existing, err := s.periodRepo.ListPeriods(ctx, &year)
	if err != nil {
		return nil, fmt.Errorf("failed to list fiscal periods: %w", err)
	}
	for _, p := range existing {
		if p.Overlaps(start, end) {
			return nil, fmt.Errorf("%w: period %s overlaps %s (%s to %s) in fiscal year %d", apperrors.ErrValidation,
				name, p.Name, p.StartDate.Format(time.DateOnly), p.EndDate.Format(time.DateOnly), year)
		}
	}

	period := domain.FiscalPeriod{
		PeriodID:    uuid.NewString(),
		Name:        name,
		FiscalYear:  year,
		StartDate:   start,
		EndDate:     end,
		Status:      domain.PeriodOpen,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		s.LogError(ctx, err, "Failed to save fiscal period", slog.String("name", name))
		return nil, err
	}
	s.LogInfo(ctx, "Fiscal period opened", slog.String("period_id", period.PeriodID), slog.String("name", name))
	return &period, nil
}

// ClosePeriod moves an open period to closed. There is no way back.
func (s *fiscalPeriodService) ClosePeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error) {
	return s.transition(ctx, periodID, domain.PeriodOpen, domain.PeriodClosed, userID)
}

// LockPeriod moves a closed period to locked.
func (s *fiscalPeriodService) LockPeriod(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error) {
	return s.transition(ctx, periodID, domain.PeriodClosed, domain.PeriodLocked, userID)
}

func (s *fiscalPeriodService) transition(ctx context.Context, periodID string, from, to domain.PeriodStatus, userID string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.Status != from {
		return nil, fmt.Errorf("%w: period %s is %s; only %s periods can become %s", apperrors.ErrConflict, period.Name, period.Status, from, to)
	}

	now := s.Now()
	if err := s.periodRepo.TransitionPeriod(ctx, periodID, from, to, userID, now); err != nil {
		s.LogWarn(ctx, err, "Fiscal period transition failed", slog.String("period_id", periodID), slog.String("to", string(to)))
		return nil, err
	}

	period.Status = to
	if to == domain.PeriodClosed {
		period.ClosedAt = &now
		period.ClosedBy = userID
	}
	period.LastUpdatedAt = now
	period.LastUpdatedBy = userID
	s.LogInfo(ctx, "Fiscal period status changed", slog.String("period_id", periodID), slog.String("status", string(to)))
	return period, nil
}

// IsPostable reports whether an entry dated date may be posted or voided.
func (s *fiscalPeriodService) IsPostable(ctx context.Context, date time.Time) (bool, error) {
	periods, err := s.periodRepo.FindPeriodsContaining(ctx, domain.DateOnly(date))
	if err != nil {
		return false, fmt.Errorf("failed to find fiscal periods: %w", err)
	}
	if len(periods) == 0 {
		return !s.requireOpenPeriod, nil
	}
	for _, p := range periods {
		if !p.AcceptsPostings() {
			return false, nil
		}
	}
	return true, nil
}

func (s *fiscalPeriodService) GetPeriod(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	return s.periodRepo.FindPeriodByID(ctx, periodID)
}

func (s *fiscalPeriodService) ListPeriods(ctx context.Context, fiscalYear *int) ([]domain.FiscalPeriod, error) {
	return s.periodRepo.ListPeriods(ctx, fiscalYear)
}
