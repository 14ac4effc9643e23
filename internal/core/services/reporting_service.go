package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/utils/accounting"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledger      portsrepo.LedgerReader
	taxRepo     portsrepo.TaxRateRepositoryFacade
}

// NewReportingService creates a new reporting service
func NewReportingService(accountRepo portsrepo.AccountReader, ledger portsrepo.LedgerReader, taxRepo portsrepo.TaxRateRepositoryFacade) portssvc.ReportingService {
	return &reportingService{
		accountRepo: accountRepo,
		ledger:      ledger,
		taxRepo:     taxRepo,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance lists every account with posted activity up to asOf, in code order.
// Inactive accounts still appear while they carry turnover.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	asOf = domain.DateOnly(asOf)
	accounts, turnover, err := s.load(ctx, domain.LineSumFilter{To: &asOf})
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalanceReport{
		AsOf:               asOf,
		Rows:               []domain.TrialBalanceRow{},
		TotalDebit:         decimal.Zero,
		TotalCredit:        decimal.Zero,
		TotalDebitBalance:  decimal.Zero,
		TotalCreditBalance: decimal.Zero,
	}
	for _, account := range accounts {
		t, ok := turnover[account.AccountID]
		if !ok || (t.Debit.IsZero() && t.Credit.IsZero()) {
			continue
		}
		row := domain.TrialBalanceRow{
			AccountID:     account.AccountID,
			AccountCode:   account.Code,
			AccountName:   account.Name,
			AccountType:   account.AccountType,
			Debit:         t.Debit,
			Credit:        t.Credit,
			Balance:       accounting.NormalSignedBalance(account.NormalBalance, t.Debit, t.Credit),
			DebitBalance:  decimal.Zero,
			CreditBalance: decimal.Zero,
		}
		if net := t.Debit.Sub(t.Credit); net.IsPositive() {
			row.DebitBalance = net
		} else {
			row.CreditBalance = net.Neg()
		}

		report.Rows = append(report.Rows, row)
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
		report.TotalDebitBalance = report.TotalDebitBalance.Add(row.DebitBalance)
		report.TotalCreditBalance = report.TotalCreditBalance.Add(row.CreditBalance)
	}
	report.IsBalanced = report.TotalDebit.Equal(report.TotalCredit) &&
		report.TotalDebitBalance.Equal(report.TotalCreditBalance)

	if !report.IsBalanced {
		s.GetLogger(ctx).Warn("Trial balance does not balance",
			slog.String("as_of", asOf.Format(time.DateOnly)),
			slog.String("total_debit", report.TotalDebit.String()),
			slog.String("total_credit", report.TotalCredit.String()))
	}
	return report, nil
}

// IncomeStatement summarises revenue and expense activity within [from, to].
func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time, taxRateID string) (*domain.IncomeStatement, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: range start %s is after its end %s", apperrors.ErrValidation, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}

	var taxRate *domain.TaxRate
	if taxRateID != "" {
		rate, err := s.taxRepo.FindTaxRateByID(ctx, taxRateID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: tax rate %s does not exist", apperrors.ErrValidation, taxRateID)
			}
			return nil, err
		}
		taxRate = rate
	}

	accounts, turnover, err := s.load(ctx, domain.LineSumFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	statement := &domain.IncomeStatement{
		From:     from,
		To:       to,
		Revenue:  []domain.AccountAmount{},
		Expenses: []domain.AccountAmount{},
		TaxRate:  taxRate,
	}
	statement.Revenue, statement.TotalRevenue = collectAmounts(accounts, turnover, domain.Revenue)
	statement.Expenses, statement.TotalExpenses = collectAmounts(accounts, turnover, domain.Expense)
	statement.NetIncome = statement.TotalRevenue.Sub(statement.TotalExpenses)

	statement.EstimatedTax = decimal.Zero
	if taxRate != nil && statement.NetIncome.IsPositive() {
		statement.EstimatedTax = accounting.Percent(statement.NetIncome, taxRate.Rate, 2)
	}
	statement.NetIncomeAfterTax = statement.NetIncome.Sub(statement.EstimatedTax)
	return statement, nil
}

// BalanceSheet reports cumulative asset, liability and equity balances as of asOf.
// Revenue minus expense up to asOf is shown as unclosed earnings.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	asOf = domain.DateOnly(asOf)
	accounts, turnover, err := s.load(ctx, domain.LineSumFilter{To: &asOf})
	if err != nil {
		return nil, err
	}

	sheet := &domain.BalanceSheet{AsOf: asOf}
	sheet.Assets, sheet.TotalAssets = collectAmounts(accounts, turnover, domain.Asset)
	sheet.Liabilities, sheet.TotalLiabilities = collectAmounts(accounts, turnover, domain.Liability)
	sheet.Equity, sheet.TotalEquity = collectAmounts(accounts, turnover, domain.Equity)

	_, revenue := collectAmounts(accounts, turnover, domain.Revenue)
	_, expenses := collectAmounts(accounts, turnover, domain.Expense)
	sheet.UnclosedEarnings = revenue.Sub(expenses)

	sheet.Difference = sheet.TotalAssets.Sub(sheet.TotalLiabilities.Add(sheet.TotalEquity))
	sheet.IsBalanced = sheet.Difference.Equal(sheet.UnclosedEarnings)
	if !sheet.IsBalanced {
		s.GetLogger(ctx).Warn("Balance sheet does not balance",
			slog.String("as_of", asOf.Format(time.DateOnly)),
			slog.String("difference", sheet.Difference.String()),
			slog.String("unclosed_earnings", sheet.UnclosedEarnings.String()))
	}
	return sheet, nil
}

func (s *reportingService) load(ctx context.Context, filter domain.LineSumFilter) ([]domain.Account, map[string]domain.AccountTurnover, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, domain.AccountFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for report")
		return nil, nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	sums, err := s.ledger.SumPostedLines(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum posted lines for report")
		return nil, nil, fmt.Errorf("failed to sum posted lines: %w", err)
	}
	turnover := make(map[string]domain.AccountTurnover, len(sums))
	for _, t := range sums {
		turnover[t.AccountID] = t
	}
	return accounts, turnover, nil
}

// collectAmounts returns the normal-signed amounts of accounts of one type that have turnover.
func collectAmounts(accounts []domain.Account, turnover map[string]domain.AccountTurnover, accountType domain.AccountType) ([]domain.AccountAmount, decimal.Decimal) {
	amounts := []domain.AccountAmount{}
	total := decimal.Zero
	for _, account := range accounts {
		if account.AccountType != accountType {
			continue
		}
		t, ok := turnover[account.AccountID]
		if !ok || (t.Debit.IsZero() && t.Credit.IsZero()) {
			continue
		}
		amount := accounting.NormalSignedBalance(account.NormalBalance, t.Debit, t.Credit)
		amounts = append(amounts, domain.AccountAmount{
			AccountID:   account.AccountID,
			Code:        account.Code,
			Name:        account.Name,
			AccountType: account.AccountType,
			Debit:       t.Debit,
			Credit:      t.Credit,
			Amount:      amount,
		})
		total = total.Add(amount)
	}
	return amounts, total
}
