package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
	"github.com/SscSPs/logistics_ledger/internal/observability/metrics"
	"github.com/SscSPs/logistics_ledger/internal/platform/config"
	"github.com/SscSPs/logistics_ledger/internal/utils/accounting"
)

const payrollRunSequence = "payroll_run"

// PayrollServiceOption configures optional collaborators of the payroll service.
type PayrollServiceOption func(*payrollService)

// WithPayrollMetrics records generate and process outcomes on m.
func WithPayrollMetrics(m *metrics.LedgerMetrics) PayrollServiceOption {
	return func(s *payrollService) {
		s.metrics = m
	}
}

type payrollService struct {
	BaseService
	payrollRepo portsrepo.PayrollRepositoryFacade
	bankRepo    portsrepo.BankAccountRepositoryFacade
	accountRepo portsrepo.AccountReader
	journal     portssvc.LedgerRecorderSvc
	sequencer   portsrepo.Sequencer
	txManager   portsrepo.TransactionManager
	accounts    config.PayrollAccounts
	defaults    config.PayrollDefaults
	// scale is the minor unit count of the base currency; every payroll amount is in base currency.
	scale   int32
	metrics *metrics.LedgerMetrics
}

// PayrollDependencies groups the collaborators of the payroll engine.
type PayrollDependencies struct {
	PayrollRepo portsrepo.PayrollRepositoryFacade
	BankRepo    portsrepo.BankAccountRepositoryFacade
	AccountRepo portsrepo.AccountReader
	Journal     portssvc.LedgerRecorderSvc
	Sequencer   portsrepo.Sequencer
	TxManager   portsrepo.TransactionManager
	Accounts    config.PayrollAccounts
	Defaults    config.PayrollDefaults
	Scale       int32
}

// NewPayrollService creates the payroll engine.
func NewPayrollService(deps PayrollDependencies, opts ...PayrollServiceOption) portssvc.PayrollSvcFacade {
	s := &payrollService{
		payrollRepo: deps.PayrollRepo,
		bankRepo:    deps.BankRepo,
		accountRepo: deps.AccountRepo,
		journal:     deps.Journal,
		sequencer:   deps.Sequencer,
		txManager:   deps.TxManager,
		accounts:    deps.Accounts,
		defaults:    deps.Defaults,
		scale:       deps.Scale,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.PayrollSvcFacade = (*payrollService)(nil)

// CreateSalary replaces the employee's active salary with a new record.
func (s *payrollService) CreateSalary(ctx context.Context, req dto.CreateSalaryRequest, userID string) (*domain.EmployeeSalary, error) {
	if strings.TrimSpace(req.EmployeeID) == "" {
		return nil, fmt.Errorf("%w: employee id is required", apperrors.ErrValidation)
	}
	if !req.BaseSalary.IsPositive() {
		return nil, fmt.Errorf("%w: base salary must be greater than zero", apperrors.ErrValidation)
	}
	if req.Allowances.IsNegative() {
		return nil, fmt.Errorf("%w: allowances cannot be negative", apperrors.ErrValidation)
	}

	salary := domain.EmployeeSalary{
		SalaryID:         uuid.NewString(),
		EmployeeID:       req.EmployeeID,
		EmployeeName:     req.EmployeeName,
		BaseSalary:       req.BaseSalary,
		Allowances:       req.Allowances,
		PayeRate:         orDefault(req.PayeRate, s.defaults.PayeRate),
		NSSFEmployeeRate: orDefault(req.NSSFEmployeeRate, s.defaults.NSSFEmployeeRate),
		NSSFEmployerRate: orDefault(req.NSSFEmployerRate, s.defaults.NSSFEmployerRate),
		HealthDeduction:  orDefault(req.HealthDeduction, s.defaults.HealthDeduction),
		EffectiveFrom:    domain.DateOnly(req.EffectiveFrom),
		IsActive:         true,
	}
	if req.EffectiveFrom.IsZero() {
		salary.EffectiveFrom = domain.DateOnly(s.Now())
	}
	for name, rate := range map[string]decimal.Decimal{
		"paye rate":          salary.PayeRate,
		"nssf employee rate": salary.NSSFEmployeeRate,
		"nssf employer rate": salary.NSSFEmployerRate,
	} {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("%w: %s must be between 0 and 100, got %s", apperrors.ErrValidation, name, rate.String())
		}
	}
	if salary.HealthDeduction.IsNegative() {
		return nil, fmt.Errorf("%w: health deduction cannot be negative", apperrors.ErrValidation)
	}

	now := s.Now()
	salary.AuditFields = domain.NewAuditFields(userID, now)
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.payrollRepo.DeactivateSalaries(ctx, salary.EmployeeID, userID, now); err != nil {
			return err
		}
		return s.payrollRepo.SaveSalary(ctx, salary)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save salary", slog.String("employee_id", salary.EmployeeID))
		return nil, err
	}
	s.LogInfo(ctx, "Salary recorded", slog.String("employee_id", salary.EmployeeID), slog.String("salary_id", salary.SalaryID))
	return &salary, nil
}

func (s *payrollService) ListActiveSalaries(ctx context.Context) ([]domain.EmployeeSalary, error) {
	return s.payrollRepo.ListActiveSalaries(ctx)
}

// CreateAdvance records a pending advance request.
func (s *payrollService) CreateAdvance(ctx context.Context, req dto.CreateAdvanceRequest, userID string) (*domain.SalaryAdvance, error) {
	if strings.TrimSpace(req.EmployeeID) == "" {
		return nil, fmt.Errorf("%w: employee id is required", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: advance amount must be greater than zero", apperrors.ErrValidation)
	}
	advance := domain.SalaryAdvance{
		AdvanceID:   uuid.NewString(),
		EmployeeID:  req.EmployeeID,
		Amount:      req.Amount,
		Reason:      req.Reason,
		Status:      domain.AdvancePending,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.payrollRepo.SaveAdvance(ctx, advance); err != nil {
		s.LogError(ctx, err, "Failed to save salary advance", slog.String("employee_id", req.EmployeeID))
		return nil, err
	}
	return &advance, nil
}

// ApproveAdvance approves a pending advance. With a bank account it also posts
// Dr advances receivable, Cr the bank's ledger account.
func (s *payrollService) ApproveAdvance(ctx context.Context, advanceID string, req dto.ApproveAdvanceRequest, userID string) (*domain.SalaryAdvance, error) {
	var approved *domain.SalaryAdvance
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		advance, err := s.payrollRepo.FindAdvanceByID(ctx, advanceID)
		if err != nil {
			return err
		}
		if advance.Status != domain.AdvancePending {
			return fmt.Errorf("%w: advance %s is already %s", apperrors.ErrConflict, advanceID, advance.Status)
		}

		var entryID string
		if req.BankAccountID != "" {
			bank, err := s.lockBankAccount(ctx, req.BankAccountID)
			if err != nil {
				return err
			}
			receivable, err := s.payrollAccount(ctx, s.accounts.AdvancesReceivable)
			if err != nil {
				return err
			}
			entry, err := s.journal.RecordEntry(ctx, dto.CreateEntryRequest{
				EntryDate:     s.Now(),
				Description:   "Salary advance to employee " + advance.EmployeeID,
				ReferenceType: string(domain.RefSalaryAdvance),
				ReferenceID:   advance.AdvanceID,
				Lines: []dto.JournalLineRequest{
					{AccountID: receivable.AccountID, Debit: advance.Amount, Memo: advance.Reason},
					{AccountID: bank.LedgerAccountID, Credit: advance.Amount, Memo: advance.Reason},
				},
			}, userID)
			if err != nil {
				return err
			}
			entryID = entry.EntryID
		}

		now := s.Now()
		if err := s.payrollRepo.ApproveAdvance(ctx, advanceID, entryID, userID, now); err != nil {
			return err
		}
		advance.Status = domain.AdvanceApproved
		advance.ApprovedAt = &now
		advance.ApprovedBy = userID
		advance.JournalEntryID = entryID
		advance.LastUpdatedAt = now
		advance.LastUpdatedBy = userID
		approved = advance
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, err, "Salary advance approval failed", slog.String("advance_id", advanceID))
		return nil, err
	}
	s.LogInfo(ctx, "Salary advance approved", slog.String("advance_id", advanceID))
	return approved, nil
}

func (s *payrollService) ListAdvances(ctx context.Context, employeeID string, status string) ([]domain.SalaryAdvance, error) {
	var filter *domain.AdvanceStatus
	if status != "" {
		st, err := domain.ParseAdvanceStatus(status)
		if err != nil {
			return nil, err
		}
		filter = &st
	}
	return s.payrollRepo.ListAdvances(ctx, employeeID, filter)
}

// CreateRun opens a draft payroll run numbered PR-000001, PR-000002, ...
func (s *payrollService) CreateRun(ctx context.Context, req dto.CreatePayrollRunRequest, userID string) (*domain.PayrollRun, error) {
	if req.PeriodMonth < 1 || req.PeriodMonth > 12 {
		return nil, fmt.Errorf("%w: period month must be between 1 and 12", apperrors.ErrValidation)
	}
	if req.PeriodYear < 1900 {
		return nil, fmt.Errorf("%w: period year %d is out of range", apperrors.ErrValidation, req.PeriodYear)
	}

	var run domain.PayrollRun
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		seq, err := s.sequencer.Next(ctx, payrollRunSequence)
		if err != nil {
			return fmt.Errorf("failed to allocate run number: %w", err)
		}
		run = domain.PayrollRun{
			RunID:                      uuid.NewString(),
			RunNumber:                  fmt.Sprintf("PR-%06d", seq),
			PeriodMonth:                req.PeriodMonth,
			PeriodYear:                 req.PeriodYear,
			Status:                     domain.PayrollDraft,
			TotalGross:                 decimal.Zero,
			TotalDeductions:            decimal.Zero,
			TotalNet:                   decimal.Zero,
			TotalEmployerContributions: decimal.Zero,
			AuditFields:                domain.NewAuditFields(userID, s.Now()),
		}
		return s.payrollRepo.SaveRun(ctx, run)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create payroll run", slog.Int("month", req.PeriodMonth), slog.Int("year", req.PeriodYear))
		return nil, err
	}
	s.LogInfo(ctx, "Payroll run created", slog.String("run_id", run.RunID), slog.String("run_number", run.RunNumber))
	return &run, nil
}

func (s *payrollService) GetRun(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	return s.payrollRepo.FindRunByID(ctx, runID)
}

func (s *payrollService) ListRuns(ctx context.Context, year *int) ([]domain.PayrollRun, error) {
	return s.payrollRepo.ListRuns(ctx, year)
}

func (s *payrollService) ListItems(ctx context.Context, runID string) ([]domain.PayrollItem, error) {
	if _, err := s.payrollRepo.FindRunByID(ctx, runID); err != nil {
		return nil, err
	}
	return s.payrollRepo.ListItems(ctx, runID)
}

// GenerateItems computes one payslip per active salary and deducts every approved,
// unconsumed advance of that employee. Items are generated at most once per run.
func (s *payrollService) GenerateItems(ctx context.Context, runID string, userID string) (*domain.PayrollRun, error) {
	var generated *domain.PayrollRun
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		run, err := s.payrollRepo.FindRunByID(ctx, runID)
		if err != nil {
			return err
		}
		if run.Status != domain.PayrollDraft {
			return fmt.Errorf("%w: payroll run %s is already %s", apperrors.ErrConflict, run.RunNumber, run.Status)
		}
		count, err := s.payrollRepo.CountItems(ctx, runID)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: payroll run %s already has %d items", apperrors.ErrConflict, run.RunNumber, count)
		}

		salaries, err := s.payrollRepo.ListActiveSalaries(ctx)
		if err != nil {
			return err
		}
		if len(salaries) == 0 {
			return fmt.Errorf("%w: there are no active salaries to pay", apperrors.ErrValidation)
		}
		advances, err := s.payrollRepo.ListUnconsumedAdvances(ctx)
		if err != nil {
			return err
		}
		advancesByEmployee := make(map[string][]domain.SalaryAdvance)
		for _, a := range advances {
			advancesByEmployee[a.EmployeeID] = append(advancesByEmployee[a.EmployeeID], a)
		}

		now := s.Now()
		items := make([]domain.PayrollItem, 0, len(salaries))
		var consumed []string
		totals := domain.RunTotals{Gross: decimal.Zero, Deductions: decimal.Zero, Net: decimal.Zero, EmployerContributions: decimal.Zero}
		for _, salary := range salaries {
			advanceTotal := decimal.Zero
			for _, a := range advancesByEmployee[salary.EmployeeID] {
				advanceTotal = advanceTotal.Add(a.Amount)
				consumed = append(consumed, a.AdvanceID)
			}
			item := computePayslip(runID, salary, advanceTotal, s.scale)
			if item.Net.IsNegative() {
				return fmt.Errorf("%w: deductions of employee %s (%s) exceed gross pay %s",
					apperrors.ErrValidation, salary.EmployeeID, item.TotalDeductions.String(), item.Gross.String())
			}
			item.AuditFields = domain.NewAuditFields(userID, now)
			items = append(items, item)

			totals.Gross = totals.Gross.Add(item.Gross)
			totals.Deductions = totals.Deductions.Add(item.TotalDeductions)
			totals.Net = totals.Net.Add(item.Net)
			totals.EmployerContributions = totals.EmployerContributions.Add(item.NSSFEmployer)
		}

		if err := s.payrollRepo.SaveItems(ctx, items); err != nil {
			return err
		}
		if len(consumed) > 0 {
			linked, err := s.payrollRepo.LinkAdvancesToRun(ctx, runID, consumed, userID, now)
			if err != nil {
				return err
			}
			if linked != int64(len(consumed)) {
				return fmt.Errorf("%w: %d of %d advances were consumed by another run", apperrors.ErrConflict, int64(len(consumed))-linked, len(consumed))
			}
		}
		if err := s.payrollRepo.MarkGenerated(ctx, runID, totals, userID, now); err != nil {
			return err
		}

		run.Status = domain.PayrollGenerated
		run.TotalGross = totals.Gross
		run.TotalDeductions = totals.Deductions
		run.TotalNet = totals.Net
		run.TotalEmployerContributions = totals.EmployerContributions
		run.LastUpdatedAt = now
		run.LastUpdatedBy = userID
		generated = run
		return nil
	})
	s.metrics.ObservePayrollRun("generate", err)
	if err != nil {
		s.LogWarn(ctx, err, "Payroll item generation failed", slog.String("run_id", runID))
		return nil, err
	}
	s.LogInfo(ctx, "Payroll items generated", slog.String("run_id", runID), slog.String("total_net", generated.TotalNet.String()))
	return generated, nil
}

// computePayslip derives one employee's pay. Percentages are rounded to the base currency scale.
func computePayslip(runID string, salary domain.EmployeeSalary, advances decimal.Decimal, scale int32) domain.PayrollItem {
	gross := salary.BaseSalary.Add(salary.Allowances)
	paye := accounting.Percent(gross, salary.PayeRate, scale)
	nssfEmployee := accounting.Percent(gross, salary.NSSFEmployeeRate, scale)
	nssfEmployer := accounting.Percent(gross, salary.NSSFEmployerRate, scale)
	health := salary.HealthDeduction
	deductions := paye.Add(nssfEmployee).Add(health).Add(advances)

	return domain.PayrollItem{
		ItemID:           uuid.NewString(),
		RunID:            runID,
		EmployeeID:       salary.EmployeeID,
		EmployeeName:     salary.EmployeeName,
		BaseSalary:       salary.BaseSalary,
		Allowances:       salary.Allowances,
		Gross:            gross,
		Paye:             paye,
		NSSFEmployee:     nssfEmployee,
		NSSFEmployer:     nssfEmployer,
		Health:           health,
		AdvanceDeduction: advances,
		TotalDeductions:  deductions,
		Net:              gross.Sub(deductions),
		Status:           domain.PayrollGenerated,
	}
}

// ProcessRun pays a generated run from a bank account and posts the payroll journal entry.
// The bank account row stays locked until the run is marked paid.
func (s *payrollService) ProcessRun(ctx context.Context, runID string, bankAccountID string, userID string) (*domain.PayrollRun, error) {
	var paid *domain.PayrollRun
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		bank, err := s.lockBankAccount(ctx, bankAccountID)
		if err != nil {
			return err
		}
		run, err := s.payrollRepo.FindRunByID(ctx, runID)
		if err != nil {
			return err
		}
		switch run.Status {
		case domain.PayrollDraft:
			return fmt.Errorf("%w: payroll run %s has no generated items yet", apperrors.ErrConflict, run.RunNumber)
		case domain.PayrollPaid:
			return fmt.Errorf("%w: payroll run %s is already paid", apperrors.ErrConflict, run.RunNumber)
		}
		items, err := s.payrollRepo.ListItems(ctx, runID)
		if err != nil {
			return err
		}

		lines, err := s.payrollLines(ctx, run, items, bank)
		if err != nil {
			return err
		}
		entry, err := s.journal.RecordEntry(ctx, dto.CreateEntryRequest{
			EntryDate:     s.Now(),
			Description:   fmt.Sprintf("Payroll %s for %02d/%d", run.RunNumber, run.PeriodMonth, run.PeriodYear),
			ReferenceType: string(domain.RefPayrollRun),
			ReferenceID:   run.RunID,
			Lines:         lines,
		}, userID)
		if err != nil {
			return err
		}

		now := s.Now()
		if err := s.payrollRepo.MarkPaid(ctx, runID, bank.BankAccountID, entry.EntryID, userID, now); err != nil {
			return err
		}
		run.Status = domain.PayrollPaid
		run.PaidAt = &now
		run.PaidBy = userID
		run.BankAccountID = bank.BankAccountID
		run.JournalEntryID = entry.EntryID
		run.LastUpdatedAt = now
		run.LastUpdatedBy = userID
		paid = run
		return nil
	})
	s.metrics.ObservePayrollRun("process", err)
	if err != nil {
		s.LogWarn(ctx, err, "Payroll run processing failed", slog.String("run_id", runID), slog.String("bank_account_id", bankAccountID))
		return nil, err
	}
	s.LogInfo(ctx, "Payroll run paid", slog.String("run_id", runID), slog.String("journal_entry_id", paid.JournalEntryID))
	return paid, nil
}

// payrollLines builds the settlement entry. Zero amounts produce no line.
func (s *payrollService) payrollLines(ctx context.Context, run *domain.PayrollRun, items []domain.PayrollItem, bank *domain.BankAccount) ([]dto.JournalLineRequest, error) {
	paye, nssf, health, advances := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, item := range items {
		paye = paye.Add(item.Paye)
		nssf = nssf.Add(item.NSSFEmployee)
		health = health.Add(item.Health)
		advances = advances.Add(item.AdvanceDeduction)
	}

	type leg struct {
		code   string
		amount decimal.Decimal
		debit  bool
		memo   string
	}
	legs := []leg{
		{s.accounts.SalaryExpense, run.TotalGross, true, "Gross salaries"},
		{s.accounts.EmployerExpense, run.TotalEmployerContributions, true, "Employer NSSF contribution"},
		{s.accounts.PayePayable, paye, false, "PAYE withheld"},
		{s.accounts.NSSFPayable, nssf, false, "Employee NSSF withheld"},
		{s.accounts.HealthPayable, health, false, "Health insurance withheld"},
		{s.accounts.AdvancesReceivable, advances, false, "Salary advances recovered"},
	}

	lines := make([]dto.JournalLineRequest, 0, len(legs)+1)
	for _, l := range legs {
		if l.amount.IsZero() {
			continue
		}
		account, err := s.payrollAccount(ctx, l.code)
		if err != nil {
			return nil, err
		}
		line := dto.JournalLineRequest{AccountID: account.AccountID, Memo: l.memo}
		if l.debit {
			line.Debit = l.amount
		} else {
			line.Credit = l.amount
		}
		lines = append(lines, line)
	}

	// The bank pays net salaries and remits the employer contribution.
	if outflow := run.TotalNet.Add(run.TotalEmployerContributions); outflow.IsPositive() {
		lines = append(lines, dto.JournalLineRequest{AccountID: bank.LedgerAccountID, Credit: outflow, Memo: "Payroll payment"})
	}
	return lines, nil
}

func (s *payrollService) lockBankAccount(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	if bankAccountID == "" {
		return nil, fmt.Errorf("%w: bank account is required", apperrors.ErrValidation)
	}
	bank, err := s.bankRepo.FindBankAccountByIDForUpdate(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}
	if !bank.IsActive {
		return nil, fmt.Errorf("%w: bank account %s is inactive", apperrors.ErrValidation, bank.Name)
	}
	if bank.LedgerAccountID == "" {
		return nil, fmt.Errorf("%w: bank account %s is not linked to a ledger account", apperrors.ErrValidation, bank.Name)
	}
	return bank, nil
}

func (s *payrollService) payrollAccount(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: payroll account %s is missing from the chart of accounts", apperrors.ErrValidation, code)
		}
		return nil, err
	}
	return account, nil
}

func orDefault(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return *v
}

