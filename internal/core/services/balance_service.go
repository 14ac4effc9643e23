package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
	"github.com/SscSPs/logistics_ledger/internal/utils/accounting"
)

// balanceService derives account and bank balances. Nothing here stores a running total.
type balanceService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	bankRepo    portsrepo.BankAccountRepositoryFacade
	ledger      portsrepo.LedgerReader
	converter   portssvc.CurrencyConverterSvc
}

// NewBalanceService creates the balance engine.
func NewBalanceService(
	accountRepo portsrepo.AccountReader,
	bankRepo portsrepo.BankAccountRepositoryFacade,
	ledger portsrepo.LedgerReader,
	converter portssvc.CurrencyConverterSvc,
) portssvc.BalanceSvcFacade {
	return &balanceService{
		accountRepo: accountRepo,
		bankRepo:    bankRepo,
		ledger:      ledger,
		converter:   converter,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// AccountBalance sums posted lines dated on or before asOf.
func (s *balanceService) AccountBalance(ctx context.Context, accountID string, asOf time.Time) (*domain.AccountBalance, error) {
	return s.balance(ctx, accountID, nil, domain.DateOnly(asOf))
}

// AccountBalanceForRange sums posted lines dated within [from, to].
func (s *balanceService) AccountBalanceForRange(ctx context.Context, accountID string, from, to time.Time) (*domain.AccountBalance, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: range start %s is after its end %s", apperrors.ErrValidation, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	return s.balance(ctx, accountID, &from, to)
}

func (s *balanceService) balance(ctx context.Context, accountID string, from *time.Time, to time.Time) (*domain.AccountBalance, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	sums, err := s.ledger.SumPostedLines(ctx, domain.LineSumFilter{
		AccountIDs: []string{accountID},
		From:       from,
		To:         &to,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to sum posted lines", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to sum posted lines: %w", err)
	}

	debit, credit := decimal.Zero, decimal.Zero
	for _, t := range sums {
		if t.AccountID == accountID {
			debit = debit.Add(t.Debit)
			credit = credit.Add(t.Credit)
		}
	}

	return &domain.AccountBalance{
		AccountID:     accountID,
		NormalBalance: account.NormalBalance,
		Debit:         debit,
		Credit:        credit,
		Balance:       accounting.NormalSignedBalance(account.NormalBalance, debit, credit),
		From:          from,
		To:            to,
	}, nil
}

// BankAccountBalance is the opening balance plus the net posted movement of the linked ledger account,
// expressed in the bank account's currency.
func (s *balanceService) BankAccountBalance(ctx context.Context, bankAccountID string, asOf time.Time) (*domain.BankAccountBalance, error) {
	bank, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}
	asOf = domain.DateOnly(asOf)
	balance := bank.OpeningBalance

	if bank.LedgerAccountID != "" {
		rows, err := s.ledger.SumPostedLinesByCurrency(ctx, bank.LedgerAccountID, asOf)
		if err != nil {
			s.LogError(ctx, err, "Failed to sum bank ledger lines", slog.String("bank_account_id", bankAccountID))
			return nil, fmt.Errorf("failed to sum bank ledger lines: %w", err)
		}
		for _, row := range rows {
			if strings.EqualFold(row.CurrencyCode, bank.CurrencyCode) {
				balance = balance.Add(row.Debit.Sub(row.Credit))
				continue
			}
			converted, err := s.converter.FromBase(ctx, row.DebitBase.Sub(row.CreditBase), bank.CurrencyCode, asOf)
			if err != nil {
				return nil, err
			}
			balance = balance.Add(converted)
		}
	}

	return &domain.BankAccountBalance{
		BankAccount: *bank,
		Balance:     balance,
		AsOf:        asOf,
	}, nil
}

// CreateBankAccount registers a bank account, optionally linked to an asset ledger account.
func (s *balanceService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.AccountNumber) == "" {
		return nil, fmt.Errorf("%w: bank account name and number are required", apperrors.ErrValidation)
	}
	currency := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if currency == "" {
		currency = s.converter.BaseCurrency()
	}

	if req.LedgerAccountID != "" {
		account, err := s.accountRepo.FindAccountByID(ctx, req.LedgerAccountID)
		if err != nil {
			return nil, fmt.Errorf("ledger account %s: %w", req.LedgerAccountID, err)
		}
		if account.AccountType != domain.Asset {
			return nil, fmt.Errorf("%w: ledger account %s is %s, bank accounts must link to an asset account",
				apperrors.ErrValidation, account.Code, account.AccountType)
		}
	}

	bank := domain.BankAccount{
		BankAccountID:   uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		BankName:        strings.TrimSpace(req.BankName),
		AccountNumber:   strings.TrimSpace(req.AccountNumber),
		CurrencyCode:    currency,
		OpeningBalance:  req.OpeningBalance,
		LedgerAccountID: req.LedgerAccountID,
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.bankRepo.SaveBankAccount(ctx, bank); err != nil {
		s.LogError(ctx, err, "Failed to save bank account", slog.String("name", bank.Name))
		return nil, err
	}
	s.LogInfo(ctx, "Bank account created", slog.String("bank_account_id", bank.BankAccountID))
	return &bank, nil
}

func (s *balanceService) GetBankAccount(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	return s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
}

func (s *balanceService) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	return s.bankRepo.ListBankAccounts(ctx)
}
