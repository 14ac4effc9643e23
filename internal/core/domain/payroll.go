package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AdvanceStatus is the lifecycle state of a salary advance.
type AdvanceStatus string

const (
	AdvancePending  AdvanceStatus = "pending"
	AdvanceApproved AdvanceStatus = "approved"
	AdvanceDeducted AdvanceStatus = "deducted"
)

// ParseAdvanceStatus validates an advance status string.
func ParseAdvanceStatus(s string) (AdvanceStatus, error) {
	switch st := AdvanceStatus(s); st {
	case AdvancePending, AdvanceApproved, AdvanceDeducted:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown advance status %q", apperrors.ErrValidation, s)
}

// PayrollStatus is the lifecycle state of a payroll run and of its items.
type PayrollStatus string

const (
	PayrollDraft     PayrollStatus = "draft"
	PayrollGenerated PayrollStatus = "generated"
	PayrollPaid      PayrollStatus = "paid"
)

// ParsePayrollStatus validates a payroll status string.
func ParsePayrollStatus(s string) (PayrollStatus, error) {
	switch st := PayrollStatus(s); st {
	case PayrollDraft, PayrollGenerated, PayrollPaid:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown payroll status %q", apperrors.ErrValidation, s)
}

// EmployeeSalary is the active pay configuration of an employee. Rates are percentages.
type EmployeeSalary struct {
	SalaryID         string          `json:"salaryID"`
	EmployeeID       string          `json:"employeeID"`
	EmployeeName     string          `json:"employeeName"`
	BaseSalary       decimal.Decimal `json:"baseSalary"`
	Allowances       decimal.Decimal `json:"allowances"`
	PayeRate         decimal.Decimal `json:"payeRate"`
	NSSFEmployeeRate decimal.Decimal `json:"nssfEmployeeRate"`
	NSSFEmployerRate decimal.Decimal `json:"nssfEmployerRate"`
	HealthDeduction  decimal.Decimal `json:"healthDeduction"`
	EffectiveFrom    time.Time       `json:"effectiveFrom"`
	IsActive         bool            `json:"isActive"`
	AuditFields
}

// SalaryAdvance is money paid ahead of payroll and recovered by the first run that consumes it.
type SalaryAdvance struct {
	AdvanceID      string          `json:"advanceID"`
	EmployeeID     string          `json:"employeeID"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
	Status         AdvanceStatus   `json:"status"`
	PayrollRunID   string          `json:"payrollRunID,omitempty"`
	ApprovedAt     *time.Time      `json:"approvedAt,omitempty"`
	ApprovedBy     string          `json:"approvedBy,omitempty"`
	JournalEntryID string          `json:"journalEntryID,omitempty"`
	AuditFields
}

// PayrollRun aggregates payroll items for one month.
type PayrollRun struct {
	RunID                      string          `json:"runID"`
	RunNumber                  string          `json:"runNumber"`
	PeriodMonth                int             `json:"periodMonth"`
	PeriodYear                 int             `json:"periodYear"`
	Status                     PayrollStatus   `json:"status"`
	TotalGross                 decimal.Decimal `json:"totalGross"`
	TotalDeductions            decimal.Decimal `json:"totalDeductions"`
	TotalNet                   decimal.Decimal `json:"totalNet"`
	TotalEmployerContributions decimal.Decimal `json:"totalEmployerContributions"`
	PaidAt                     *time.Time      `json:"paidAt,omitempty"`
	PaidBy                     string          `json:"paidBy,omitempty"`
	BankAccountID              string          `json:"bankAccountID,omitempty"`
	JournalEntryID             string          `json:"journalEntryID,omitempty"`
	AuditFields
}

// PayrollItem is one employee's payslip within a run.
type PayrollItem struct {
	ItemID           string          `json:"itemID"`
	RunID            string          `json:"runID"`
	EmployeeID       string          `json:"employeeID"`
	EmployeeName     string          `json:"employeeName"`
	BaseSalary       decimal.Decimal `json:"baseSalary"`
	Allowances       decimal.Decimal `json:"allowances"`
	Gross            decimal.Decimal `json:"gross"`
	Paye             decimal.Decimal `json:"paye"`
	NSSFEmployee     decimal.Decimal `json:"nssfEmployee"`
	NSSFEmployer     decimal.Decimal `json:"nssfEmployer"`
	Health           decimal.Decimal `json:"health"`
	AdvanceDeduction decimal.Decimal `json:"advanceDeduction"`
	TotalDeductions  decimal.Decimal `json:"totalDeductions"`
	Net              decimal.Decimal `json:"net"`
	Status           PayrollStatus   `json:"status"`
	AuditFields
}

// RunTotals are the aggregates written to a run when its items are generated.
type RunTotals struct {
	Gross                 decimal.Decimal
	Deductions            decimal.Decimal
	Net                   decimal.Decimal
	EmployerContributions decimal.Decimal
}
