package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/logistics_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/logistics_ledger/internal/core/ports/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
)

const defaultCurrencyScale int32 = 2

// currencyService converts amounts using the exchange rate table.
type currencyService struct {
	BaseService
	rateRepo     portsrepo.ExchangeRateRepositoryFacade
	taxRepo      portsrepo.TaxRateRepositoryFacade
	baseCurrency string
}

// NewCurrencyService creates the currency converter and rate table service.
func NewCurrencyService(rateRepo portsrepo.ExchangeRateRepositoryFacade, taxRepo portsrepo.TaxRateRepositoryFacade, baseCurrency string) portssvc.CurrencySvcFacade {
	return &currencyService{
		rateRepo:     rateRepo,
		taxRepo:      taxRepo,
		baseCurrency: strings.ToUpper(baseCurrency),
	}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) BaseCurrency() string {
	return s.baseCurrency
}

// Scale returns the ISO 4217 minor unit digits, falling back to two for unknown codes.
func (s *currencyService) Scale(currencyCode string) int32 {
	cur := money.GetCurrency(strings.ToUpper(currencyCode))
	if cur == nil {
		return defaultCurrencyScale
	}
	return int32(cur.Fraction)
}

func (s *currencyService) isBase(currencyCode string) bool {
	return currencyCode == "" || strings.EqualFold(currencyCode, s.baseCurrency)
}

// Rate returns how many base units one unit of currencyCode is worth at asOf.
func (s *currencyService) Rate(ctx context.Context, currencyCode string, asOf time.Time) (decimal.Decimal, error) {
	if s.isBase(currencyCode) {
		return decimal.NewFromInt(1), nil
	}
	code := strings.ToUpper(currencyCode)
	rate, err := s.rateRepo.FindLatestRate(ctx, code, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: no rate for %s effective on or before %s", apperrors.ErrMissingRate, code, asOf.Format(time.DateOnly))
		}
		s.LogError(ctx, err, "Failed to look up exchange rate", slog.String("currency_code", code))
		return decimal.Zero, fmt.Errorf("failed to look up exchange rate for %s: %w", code, err)
	}
	if !rate.RateToBase.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: stored rate for %s is not positive", apperrors.ErrMissingRate, code)
	}
	return rate.RateToBase, nil
}

// ToBase converts amount into the base currency, rounded to the base currency's minor unit.
func (s *currencyService) ToBase(ctx context.Context, amount decimal.Decimal, currencyCode string, asOf time.Time) (decimal.Decimal, error) {
	rate, err := s.Rate(ctx, currencyCode, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate).Round(s.Scale(s.baseCurrency)), nil
}

// FromBase converts a base currency amount into currencyCode.
func (s *currencyService) FromBase(ctx context.Context, amount decimal.Decimal, currencyCode string, asOf time.Time) (decimal.Decimal, error) {
	if s.isBase(currencyCode) {
		return amount, nil
	}
	rate, err := s.Rate(ctx, currencyCode, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Div(rate).Round(s.Scale(currencyCode)), nil
}

// CreateExchangeRate records a new rate in the table.
func (s *currencyService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, userID string) (*domain.ExchangeRate, error) {
	code := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if s.isBase(code) {
		return nil, fmt.Errorf("%w: the base currency %s always converts at 1", apperrors.ErrValidation, s.baseCurrency)
	}
	if money.GetCurrency(code) == nil {
		return nil, fmt.Errorf("%w: unknown currency code %s", apperrors.ErrValidation, code)
	}
	if !req.RateToBase.IsPositive() {
		return nil, fmt.Errorf("%w: rate must be greater than zero", apperrors.ErrValidation)
	}

	now := s.Now()
	effective := req.EffectiveDate
	if effective.IsZero() {
		effective = now
	}

	rate := domain.ExchangeRate{
		RateID:        uuid.NewString(),
		CurrencyCode:  code,
		RateToBase:    req.RateToBase,
		EffectiveDate: domain.DateOnly(effective),
		AuditFields:   domain.NewAuditFields(userID, now),
	}
	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate", slog.String("currency_code", code))
		return nil, err
	}
	s.LogInfo(ctx, "Exchange rate recorded", slog.String("currency_code", code), slog.String("rate", rate.RateToBase.String()))
	return &rate, nil
}

func (s *currencyService) ListExchangeRates(ctx context.Context, currencyCode string) ([]domain.ExchangeRate, error) {
	return s.rateRepo.ListExchangeRates(ctx, strings.ToUpper(currencyCode))
}

// CreateTaxRate records a tax rate between 0 and 100 percent.
func (s *currencyService) CreateTaxRate(ctx context.Context, req dto.CreateTaxRateRequest, userID string) (*domain.TaxRate, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: tax rate name is required", apperrors.ErrValidation)
	}
	if req.Rate.IsNegative() || req.Rate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: tax rate must be between 0 and 100 percent", apperrors.ErrValidation)
	}
	rate := domain.TaxRate{
		TaxRateID:   uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Rate:        req.Rate,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.taxRepo.SaveTaxRate(ctx, rate); err != nil {
		return nil, err
	}
	return &rate, nil
}

func (s *currencyService) GetTaxRate(ctx context.Context, taxRateID string) (*domain.TaxRate, error) {
	return s.taxRepo.FindTaxRateByID(ctx, taxRateID)
}

func (s *currencyService) ListTaxRates(ctx context.Context, activeOnly bool) ([]domain.TaxRate, error) {
	return s.taxRepo.ListTaxRates(ctx, activeOnly)
}
