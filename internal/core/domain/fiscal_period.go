package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
)

// PeriodStatus is the lifecycle state of a fiscal period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "open"
	PeriodClosed PeriodStatus = "closed"
	PeriodLocked PeriodStatus = "locked"
)

// ParsePeriodStatus validates a period status string.
func ParsePeriodStatus(s string) (PeriodStatus, error) {
	switch st := PeriodStatus(s); st {
	case PeriodOpen, PeriodClosed, PeriodLocked:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown period status %q", apperrors.ErrValidation, s)
}

// FiscalPeriod is a date range during which postings are permitted while open.
type FiscalPeriod struct {
	PeriodID   string       `json:"periodID"`
	Name       string       `json:"name"`
	FiscalYear int          `json:"fiscalYear"`
	StartDate  time.Time    `json:"startDate"`
	EndDate    time.Time    `json:"endDate"`
	Status     PeriodStatus `json:"status"`
	ClosedAt   *time.Time   `json:"closedAt,omitempty"`
	ClosedBy   string       `json:"closedBy,omitempty"`
	AuditFields
}

// Contains reports whether the calendar day of d lies within the period, bounds inclusive.
func (p FiscalPeriod) Contains(d time.Time) bool {
	day := DateOnly(d)
	return !day.Before(DateOnly(p.StartDate)) && !day.After(DateOnly(p.EndDate))
}

// Overlaps reports whether [start, end] intersects the period.
func (p FiscalPeriod) Overlaps(start, end time.Time) bool {
	return !DateOnly(start).After(DateOnly(p.EndDate)) && !DateOnly(end).Before(DateOnly(p.StartDate))
}

// AcceptsPostings is true only for open periods.
func (p FiscalPeriod) AcceptsPostings() bool {
	return p.Status == PeriodOpen
}
