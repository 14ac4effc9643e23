package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
)

// accountService maintains the chart of accounts.
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	baseCurrency string
}

// NewAccountService creates a new account service. Accounts without a currency get baseCurrency.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, baseCurrency string) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:  repo,
		baseCurrency: baseCurrency,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates a new account with a normal balance derived from its type.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" || strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}

	accountType, err := domain.ParseAccountType(req.AccountType)
	if err != nil {
		return nil, err
	}
	normal := accountType.NormalBalance()
	if req.NormalBalance != "" {
		requested, err := domain.ParseNormalBalance(req.NormalBalance)
		if err != nil {
			return nil, err
		}
		if requested != normal {
			return nil, fmt.Errorf("%w: a %s account has a %s normal balance, not %s", apperrors.ErrValidation, accountType, normal, requested)
		}
	}

	existing, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check account code", slog.String("code", code))
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %s is already used by %s", apperrors.ErrDuplicate, code, existing.Name)
	}

	currency := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if currency == "" {
		currency = s.baseCurrency
	}

	account := domain.Account{
		AccountID:     uuid.NewString(),
		Code:          code,
		Name:          strings.TrimSpace(req.Name),
		AccountType:   accountType,
		NormalBalance: normal,
		Subtype:       req.Subtype,
		Description:   req.Description,
		CurrencyCode:  currency,
		IsActive:      true,
		AuditFields:   domain.NewAuditFields(creatorUserID, s.Now()),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", code))
	return &account, nil
}

// GetAccountByID retrieves an account by its ID.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountByCode retrieves an account by its chart code.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, code)
}

// GetAccountsByIDs retrieves several accounts at once.
func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
}

// ListAccounts lists accounts filtered by type and active flag.
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	filter := domain.AccountFilter{Active: params.Active}
	if params.Type != "" {
		accountType, err := domain.ParseAccountType(params.Type)
		if err != nil {
			return nil, err
		}
		filter.Type = &accountType
	}
	return s.accountRepo.ListAccounts(ctx, filter)
}

// UpdateAccount applies the non-nil fields of req.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.AccountType != nil {
		newType, err := domain.ParseAccountType(*req.AccountType)
		if err != nil {
			return nil, err
		}
		if newType != account.AccountType {
			posted, err := s.accountRepo.CountJournalLines(ctx, accountID, true)
			if err != nil {
				return nil, fmt.Errorf("failed to count posted lines: %w", err)
			}
			if posted > 0 {
				return nil, fmt.Errorf("%w: account %s has %d posted lines; its type cannot change from %s to %s",
					apperrors.ErrReferentialBlock, account.Code, posted, account.AccountType, newType)
			}
			account.AccountType = newType
			account.NormalBalance = newType.NormalBalance()
		}
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
		}
		account.Name = strings.TrimSpace(*req.Name)
	}
	if req.Subtype != nil {
		account.Subtype = *req.Subtype
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = s.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes an account that no journal line references.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	lines, err := s.accountRepo.CountJournalLines(ctx, accountID, false)
	if err != nil {
		return fmt.Errorf("failed to count journal lines: %w", err)
	}
	if lines > 0 {
		return fmt.Errorf("%w: account %s is used by %d journal lines; deactivate it instead", apperrors.ErrReferentialBlock, account.Code, lines)
	}
	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("user_id", userID))
	return nil
}
