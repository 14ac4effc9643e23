package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSalaryRequest defines a new active salary for an employee. Nil rates fall back to configured defaults.
type CreateSalaryRequest struct {
	EmployeeID       string           `json:"employeeID" binding:"required"`
	EmployeeName     string           `json:"employeeName"`
	BaseSalary       decimal.Decimal  `json:"baseSalary" binding:"decimal_gt0"`
	Allowances       decimal.Decimal  `json:"allowances" binding:"decimal_gte0"`
	PayeRate         *decimal.Decimal `json:"payeRate"`
	NSSFEmployeeRate *decimal.Decimal `json:"nssfEmployeeRate"`
	NSSFEmployerRate *decimal.Decimal `json:"nssfEmployerRate"`
	HealthDeduction  *decimal.Decimal `json:"healthDeduction"`
	EffectiveFrom    time.Time        `json:"effectiveFrom"`
}

// CreateAdvanceRequest requests a salary advance.
type CreateAdvanceRequest struct {
	EmployeeID string          `json:"employeeID" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	Reason     string          `json:"reason"`
}

// ApproveAdvanceRequest optionally names the bank account that pays the advance out.
type ApproveAdvanceRequest struct {
	BankAccountID string `json:"bankAccountID"`
}

// CreatePayrollRunRequest opens a draft run for a month.
type CreatePayrollRunRequest struct {
	PeriodMonth int `json:"periodMonth" binding:"required,min=1,max=12"`
	PeriodYear  int `json:"periodYear" binding:"required,min=1900,max=9999"`
}

// ProcessPayrollRunRequest names the bank account that settles the run.
type ProcessPayrollRunRequest struct {
	BankAccountID string `json:"bankAccountID" binding:"required"`
}
