package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
)

// SalaryRepository defines persistence for employee salary records.
type SalaryRepository interface {
	// DeactivateSalaries marks every active salary of the employee inactive.
	DeactivateSalaries(ctx context.Context, employeeID string, by string, at time.Time) error
	SaveSalary(ctx context.Context, salary domain.EmployeeSalary) error
	ListActiveSalaries(ctx context.Context) ([]domain.EmployeeSalary, error)
}

// AdvanceRepository defines persistence for salary advances.
type AdvanceRepository interface {
	SaveAdvance(ctx context.Context, advance domain.SalaryAdvance) error
	FindAdvanceByID(ctx context.Context, advanceID string) (*domain.SalaryAdvance, error)
	ListAdvances(ctx context.Context, employeeID string, status *domain.AdvanceStatus) ([]domain.SalaryAdvance, error)
	// ListUnconsumedAdvances returns approved advances not yet linked to a run and locks them.
	ListUnconsumedAdvances(ctx context.Context) ([]domain.SalaryAdvance, error)
	// ApproveAdvance moves pending to approved; ErrConflict when the advance is not pending.
	ApproveAdvance(ctx context.Context, advanceID string, journalEntryID string, by string, at time.Time) error
	// LinkAdvancesToRun marks approved, unlinked advances as deducted by runID and returns the rows changed.
	LinkAdvancesToRun(ctx context.Context, runID string, advanceIDs []string, by string, at time.Time) (int64, error)
}

// PayrollRunRepository defines persistence for payroll runs and their items.
type PayrollRunRepository interface {
	SaveRun(ctx context.Context, run domain.PayrollRun) error
	FindRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error)
	ListRuns(ctx context.Context, year *int) ([]domain.PayrollRun, error)
	CountItems(ctx context.Context, runID string) (int, error)
	SaveItems(ctx context.Context, items []domain.PayrollItem) error
	ListItems(ctx context.Context, runID string) ([]domain.PayrollItem, error)
	// MarkGenerated writes totals and moves the run from draft to generated.
	MarkGenerated(ctx context.Context, runID string, totals domain.RunTotals, by string, at time.Time) error
	// MarkPaid moves the run and its items from generated to paid.
	MarkPaid(ctx context.Context, runID string, bankAccountID, journalEntryID, by string, at time.Time) error
}

// PayrollRepositoryFacade combines all payroll-related repository interfaces
type PayrollRepositoryFacade interface {
	SalaryRepository
	AdvanceRepository
	PayrollRunRepository
}
