package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess         = "success"
	OutcomeValidation      = "validation"
	OutcomeUnbalanced      = "unbalanced"
	OutcomeConflict        = "conflict"
	OutcomePeriodClosed    = "period_closed"
	OutcomeNotFound        = "not_found"
	OutcomeMissingRate     = "missing_rate"
	OutcomeReferentialLock = "referential_block"
	OutcomeError           = "error"
)

// LedgerMetrics captures ledger mutation outcomes and HTTP latency.
type LedgerMetrics struct {
	entryTransitions *prometheus.CounterVec
	payrollRuns      *prometheus.CounterVec
	allocations      *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

var (
	ledgerMetricsOnce sync.Once
	ledgerMetrics     *LedgerMetrics
)

// Ledger returns the singleton ledger metrics registered on the default registerer.
func Ledger() *LedgerMetrics {
	ledgerMetricsOnce.Do(func() {
		ledgerMetrics = NewLedgerMetrics(prometheus.DefaultRegisterer)
	})
	return ledgerMetrics
}

// NewLedgerMetrics builds and registers a metrics set. A nil registerer skips registration.
func NewLedgerMetrics(registerer prometheus.Registerer) *LedgerMetrics {
	m := &LedgerMetrics{
		entryTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "journal_entry_transitions_total",
			Help:      "Journal entry lifecycle operations by action and outcome.",
		}, []string{"action", "outcome"}),
		payrollRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "payroll_run_operations_total",
			Help:      "Payroll run generate and process operations by outcome.",
		}, []string{"action", "outcome"}),
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "cost_allocations_total",
			Help:      "Batch cost allocation rows written by method.",
		}, []string{"method"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	if registerer != nil {
		registerer.MustRegister(m.entryTransitions, m.payrollRuns, m.allocations, m.httpDuration)
	}
	return m
}

// Outcome maps a service error to a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, apperrors.ErrUnbalanced):
		return OutcomeUnbalanced
	case errors.Is(err, apperrors.ErrValidation):
		return OutcomeValidation
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return OutcomeConflict
	case errors.Is(err, apperrors.ErrPeriodClosed):
		return OutcomePeriodClosed
	case errors.Is(err, apperrors.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, apperrors.ErrMissingRate):
		return OutcomeMissingRate
	case errors.Is(err, apperrors.ErrReferentialBlock):
		return OutcomeReferentialLock
	default:
		return OutcomeError
	}
}

// ObserveEntryTransition counts a post, void or record attempt.
func (m *LedgerMetrics) ObserveEntryTransition(action string, err error) {
	if m == nil {
		return
	}
	m.entryTransitions.WithLabelValues(action, Outcome(err)).Inc()
}

// ObservePayrollRun counts a generate or process attempt.
func (m *LedgerMetrics) ObservePayrollRun(action string, err error) {
	if m == nil {
		return
	}
	m.payrollRuns.WithLabelValues(action, Outcome(err)).Inc()
}

// ObserveAllocations counts allocation rows written for one method.
func (m *LedgerMetrics) ObserveAllocations(method string, rows int) {
	if m == nil || rows <= 0 {
		return
	}
	m.allocations.WithLabelValues(method).Add(float64(rows))
}

// ObserveHTTP records the latency of one request.
func (m *LedgerMetrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}
