package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/logistics_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	salaryColumns = `salary_id, employee_id, employee_name, base_salary, allowances, paye_rate,
		nssf_employee_rate, nssf_employer_rate, health_deduction, effective_from, is_active,
		created_at, created_by, last_updated_at, last_updated_by`
	advanceColumns = `advance_id, employee_id, amount, reason, status, payroll_run_id, approved_at,
		approved_by, journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`
	runColumns = `run_id, run_number, period_month, period_year, status, total_gross, total_deductions,
		total_net, total_employer_contributions, paid_at, paid_by, bank_account_id, journal_entry_id,
		created_at, created_by, last_updated_at, last_updated_by`
	itemColumns = `item_id, run_id, employee_id, employee_name, base_salary, allowances, gross, paye,
		nssf_employee, nssf_employer, health, advance_deduction, total_deductions, net, status,
		created_at, created_by, last_updated_at, last_updated_by`
)

// PgxPayrollRepository persists salaries, advances, runs and payslips.
type PgxPayrollRepository struct {
	BaseRepository
}

func newPgxPayrollRepository(pool *pgxpool.Pool) *PgxPayrollRepository {
	return &PgxPayrollRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PayrollRepositoryFacade = (*PgxPayrollRepository)(nil)

// collectRows drains rows through scan. It always closes rows.
func collectRows[T any](rows pgx.Rows, what string, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", what, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating "+what+" rows", err)
	}
	return out, nil
}

func scanSalary(row pgx.Row) (domain.EmployeeSalary, error) {
	var s domain.EmployeeSalary
	err := row.Scan(
		&s.SalaryID, &s.EmployeeID, &s.EmployeeName, &s.BaseSalary, &s.Allowances, &s.PayeRate,
		&s.NSSFEmployeeRate, &s.NSSFEmployerRate, &s.HealthDeduction, &s.EffectiveFrom, &s.IsActive,
		&s.CreatedAt, &s.CreatedBy, &s.LastUpdatedAt, &s.LastUpdatedBy,
	)
	return s, err
}

func scanAdvance(row pgx.Row) (domain.SalaryAdvance, error) {
	var a domain.SalaryAdvance
	var status string
	var reason, runID, approvedBy, entryID *string
	err := row.Scan(
		&a.AdvanceID, &a.EmployeeID, &a.Amount, &reason, &status, &runID, &a.ApprovedAt,
		&approvedBy, &entryID, &a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
	)
	if err != nil {
		return domain.SalaryAdvance{}, err
	}
	if a.Status, err = domain.ParseAdvanceStatus(status); err != nil {
		return domain.SalaryAdvance{}, err
	}
	a.Reason = mapping.StringValue(reason)
	a.PayrollRunID = mapping.StringValue(runID)
	a.ApprovedBy = mapping.StringValue(approvedBy)
	a.JournalEntryID = mapping.StringValue(entryID)
	return a, nil
}

func scanRun(row pgx.Row) (domain.PayrollRun, error) {
	var p domain.PayrollRun
	var status string
	var paidBy, bankID, entryID *string
	err := row.Scan(
		&p.RunID, &p.RunNumber, &p.PeriodMonth, &p.PeriodYear, &status, &p.TotalGross, &p.TotalDeductions,
		&p.TotalNet, &p.TotalEmployerContributions, &p.PaidAt, &paidBy, &bankID, &entryID,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	if err != nil {
		return domain.PayrollRun{}, err
	}
	if p.Status, err = domain.ParsePayrollStatus(status); err != nil {
		return domain.PayrollRun{}, err
	}
	p.PaidBy = mapping.StringValue(paidBy)
	p.BankAccountID = mapping.StringValue(bankID)
	p.JournalEntryID = mapping.StringValue(entryID)
	return p, nil
}

func scanItem(row pgx.Row) (domain.PayrollItem, error) {
	var i domain.PayrollItem
	var status string
	err := row.Scan(
		&i.ItemID, &i.RunID, &i.EmployeeID, &i.EmployeeName, &i.BaseSalary, &i.Allowances, &i.Gross, &i.Paye,
		&i.NSSFEmployee, &i.NSSFEmployer, &i.Health, &i.AdvanceDeduction, &i.TotalDeductions, &i.Net, &status,
		&i.CreatedAt, &i.CreatedBy, &i.LastUpdatedAt, &i.LastUpdatedBy,
	)
	if err != nil {
		return domain.PayrollItem{}, err
	}
	i.Status, err = domain.ParsePayrollStatus(status)
	return i, err
}

func (r *PgxPayrollRepository) DeactivateSalaries(ctx context.Context, employeeID string, by string, at time.Time) error {
	_, err := r.db(ctx).Exec(ctx, `
		UPDATE employee_salaries
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE employee_id = $1 AND is_active;`, employeeID, at, by)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate salaries of employee "+employeeID, err)
	}
	return nil
}

func (r *PgxPayrollRepository) SaveSalary(ctx context.Context, s domain.EmployeeSalary) error {
	query := `
		INSERT INTO employee_salaries (` + salaryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		s.SalaryID, s.EmployeeID, s.EmployeeName, s.BaseSalary, s.Allowances, s.PayeRate,
		s.NSSFEmployeeRate, s.NSSFEmployerRate, s.HealthDeduction, domain.DateOnly(s.EffectiveFrom), s.IsActive,
		s.CreatedAt, s.CreatedBy, s.LastUpdatedAt, s.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "salary of employee "+s.EmployeeID)
	}
	return nil
}

func (r *PgxPayrollRepository) ListActiveSalaries(ctx context.Context) ([]domain.EmployeeSalary, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+salaryColumns+` FROM employee_salaries WHERE is_active ORDER BY employee_name, employee_id;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list active salaries", err)
	}
	return collectRows(rows, "salary", scanSalary)
}

func (r *PgxPayrollRepository) SaveAdvance(ctx context.Context, a domain.SalaryAdvance) error {
	query := `
		INSERT INTO salary_advances (` + advanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		a.AdvanceID, a.EmployeeID, a.Amount, mapping.NullableString(a.Reason), string(a.Status),
		mapping.NullableString(a.PayrollRunID), a.ApprovedAt, mapping.NullableString(a.ApprovedBy),
		mapping.NullableString(a.JournalEntryID), a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "salary advance of employee "+a.EmployeeID)
	}
	return nil
}

func (r *PgxPayrollRepository) FindAdvanceByID(ctx context.Context, advanceID string) (*domain.SalaryAdvance, error) {
	a, err := scanAdvance(r.db(ctx).QueryRow(ctx, `SELECT `+advanceColumns+` FROM salary_advances WHERE advance_id = $1;`, advanceID))
	if err != nil {
		return nil, mapReadError(err, "salary advance "+advanceID)
	}
	return &a, nil
}

func (r *PgxPayrollRepository) ListAdvances(ctx context.Context, employeeID string, status *domain.AdvanceStatus) ([]domain.SalaryAdvance, error) {
	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}
	query := `
		SELECT ` + advanceColumns + `
		FROM salary_advances
		WHERE ($1 = '' OR employee_id = $1) AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at;
	`
	rows, err := r.db(ctx).Query(ctx, query, employeeID, statusArg)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list salary advances", err)
	}
	return collectRows(rows, "salary advance", scanAdvance)
}

// ListUnconsumedAdvances locks approved, unlinked advances until the transaction ends.
func (r *PgxPayrollRepository) ListUnconsumedAdvances(ctx context.Context) ([]domain.SalaryAdvance, error) {
	query := `
		SELECT ` + advanceColumns + `
		FROM salary_advances
		WHERE status = 'approved' AND payroll_run_id IS NULL
		ORDER BY created_at
		FOR UPDATE;
	`
	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list unconsumed salary advances", err)
	}
	return collectRows(rows, "salary advance", scanAdvance)
}

func (r *PgxPayrollRepository) ApproveAdvance(ctx context.Context, advanceID string, journalEntryID string, by string, at time.Time) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE salary_advances
		SET status = 'approved', approved_at = $3, approved_by = $4, journal_entry_id = $2,
		    last_updated_at = $3, last_updated_by = $4
		WHERE advance_id = $1 AND status = 'pending';`,
		advanceID, mapping.NullableString(journalEntryID), at, by)
	if err != nil {
		return mapWriteError(err, "salary advance "+advanceID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: salary advance %s is no longer pending", apperrors.ErrConflict, advanceID)
	}
	return nil
}

func (r *PgxPayrollRepository) LinkAdvancesToRun(ctx context.Context, runID string, advanceIDs []string, by string, at time.Time) (int64, error) {
	if len(advanceIDs) == 0 {
		return 0, nil
	}
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE salary_advances
		SET status = 'deducted', payroll_run_id = $1, last_updated_at = $3, last_updated_by = $4
		WHERE advance_id = ANY($2) AND status = 'approved' AND payroll_run_id IS NULL;`,
		runID, advanceIDs, at, by)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to link salary advances to run "+runID, err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgxPayrollRepository) SaveRun(ctx context.Context, p domain.PayrollRun) error {
	query := `
		INSERT INTO payroll_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		p.RunID, p.RunNumber, p.PeriodMonth, p.PeriodYear, string(p.Status), p.TotalGross, p.TotalDeductions,
		p.TotalNet, p.TotalEmployerContributions, p.PaidAt, mapping.NullableString(p.PaidBy),
		mapping.NullableString(p.BankAccountID), mapping.NullableString(p.JournalEntryID),
		p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "payroll run "+p.RunNumber)
	}
	return nil
}

func (r *PgxPayrollRepository) FindRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	p, err := scanRun(r.db(ctx).QueryRow(ctx, `SELECT `+runColumns+` FROM payroll_runs WHERE run_id = $1;`, runID))
	if err != nil {
		return nil, mapReadError(err, "payroll run "+runID)
	}
	return &p, nil
}

func (r *PgxPayrollRepository) ListRuns(ctx context.Context, year *int) ([]domain.PayrollRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM payroll_runs
		WHERE ($1::int IS NULL OR period_year = $1)
		ORDER BY period_year DESC, period_month DESC, run_number DESC;
	`
	rows, err := r.db(ctx).Query(ctx, query, year)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list payroll runs", err)
	}
	return collectRows(rows, "payroll run", scanRun)
}

func (r *PgxPayrollRepository) CountItems(ctx context.Context, runID string) (int, error) {
	var count int
	if err := r.db(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM payroll_items WHERE run_id = $1;`, runID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count items of payroll run "+runID, err)
	}
	return count, nil
}

// SaveItems inserts every payslip in one batch.
func (r *PgxPayrollRepository) SaveItems(ctx context.Context, items []domain.PayrollItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO payroll_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	batch := &pgx.Batch{}
	for _, i := range items {
		batch.Queue(query,
			i.ItemID, i.RunID, i.EmployeeID, i.EmployeeName, i.BaseSalary, i.Allowances, i.Gross, i.Paye,
			i.NSSFEmployee, i.NSSFEmployer, i.Health, i.AdvanceDeduction, i.TotalDeductions, i.Net, string(i.Status),
			i.CreatedAt, i.CreatedBy, i.LastUpdatedAt, i.LastUpdatedBy,
		)
	}
	if err := r.db(ctx).SendBatch(ctx, batch).Close(); err != nil {
		return mapWriteError(err, "payroll items of run "+items[0].RunID)
	}
	return nil
}

func (r *PgxPayrollRepository) ListItems(ctx context.Context, runID string) ([]domain.PayrollItem, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+itemColumns+` FROM payroll_items WHERE run_id = $1 ORDER BY employee_name, employee_id;`, runID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list items of payroll run "+runID, err)
	}
	return collectRows(rows, "payroll item", scanItem)
}

func (r *PgxPayrollRepository) MarkGenerated(ctx context.Context, runID string, totals domain.RunTotals, by string, at time.Time) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE payroll_runs
		SET status = 'generated', total_gross = $2, total_deductions = $3, total_net = $4,
		    total_employer_contributions = $5, last_updated_at = $6, last_updated_by = $7
		WHERE run_id = $1 AND status = 'draft';`,
		runID, totals.Gross, totals.Deductions, totals.Net, totals.EmployerContributions, at, by)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark payroll run "+runID+" generated", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payroll run %s is no longer a draft", apperrors.ErrConflict, runID)
	}
	return nil
}

// MarkPaid moves the run and then its items to paid.
func (r *PgxPayrollRepository) MarkPaid(ctx context.Context, runID string, bankAccountID, journalEntryID, by string, at time.Time) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE payroll_runs
		SET status = 'paid', paid_at = $4, paid_by = $5, bank_account_id = $2, journal_entry_id = $3,
		    last_updated_at = $4, last_updated_by = $5
		WHERE run_id = $1 AND status = 'generated';`,
		runID, bankAccountID, mapping.NullableString(journalEntryID), at, by)
	if err != nil {
		return mapWriteError(err, "payroll run "+runID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payroll run %s is no longer generated", apperrors.ErrConflict, runID)
	}
	_, err = r.db(ctx).Exec(ctx, `
		UPDATE payroll_items
		SET status = 'paid', last_updated_at = $2, last_updated_by = $3
		WHERE run_id = $1;`, runID, at, by)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark items of payroll run "+runID+" paid", err)
	}
	return nil
}
