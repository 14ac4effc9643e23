package services

import (
	"context"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	"github.com/SscSPs/logistics_ledger/internal/dto"
)

// SalarySvc maintains employee salary records.
type SalarySvc interface {
	CreateSalary(ctx context.Context, req dto.CreateSalaryRequest, userID string) (*domain.EmployeeSalary, error)
	ListActiveSalaries(ctx context.Context) ([]domain.EmployeeSalary, error)
}

// AdvanceSvc manages salary advances.
type AdvanceSvc interface {
	CreateAdvance(ctx context.Context, req dto.CreateAdvanceRequest, userID string) (*domain.SalaryAdvance, error)
	// ApproveAdvance pays the advance out of the bank account when one is given.
	ApproveAdvance(ctx context.Context, advanceID string, req dto.ApproveAdvanceRequest, userID string) (*domain.SalaryAdvance, error)
	ListAdvances(ctx context.Context, employeeID string, status string) ([]domain.SalaryAdvance, error)
}

// PayrollRunSvc drives the draft, generated, paid lifecycle of payroll runs.
type PayrollRunSvc interface {
	CreateRun(ctx context.Context, req dto.CreatePayrollRunRequest, userID string) (*domain.PayrollRun, error)
	GetRun(ctx context.Context, runID string) (*domain.PayrollRun, error)
	ListRuns(ctx context.Context, year *int) ([]domain.PayrollRun, error)
	ListItems(ctx context.Context, runID string) ([]domain.PayrollItem, error)
	GenerateItems(ctx context.Context, runID string, userID string) (*domain.PayrollRun, error)
	ProcessRun(ctx context.Context, runID string, bankAccountID string, userID string) (*domain.PayrollRun, error)
}

// PayrollSvcFacade combines all payroll-related service interfaces
type PayrollSvcFacade interface {
	SalarySvc
	AdvanceSvc
	PayrollRunSvc
}
