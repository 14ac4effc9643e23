package services

import (
	"context"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	"github.com/SscSPs/logistics_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// CurrencyConverterSvc converts amounts between transaction currencies and the base currency.
type CurrencyConverterSvc interface {
	BaseCurrency() string
	// Scale is the number of minor unit digits of the currency.
	Scale(currencyCode string) int32
	// Rate returns rate_to_base effective at asOf; apperrors.ErrMissingRate when none exists.
	Rate(ctx context.Context, currencyCode string, asOf time.Time) (decimal.Decimal, error)
	ToBase(ctx context.Context, amount decimal.Decimal, currencyCode string, asOf time.Time) (decimal.Decimal, error)
	FromBase(ctx context.Context, amount decimal.Decimal, currencyCode string, asOf time.Time) (decimal.Decimal, error)
}

// RateTableSvc maintains exchange and tax rates.
type RateTableSvc interface {
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, userID string) (*domain.ExchangeRate, error)
	ListExchangeRates(ctx context.Context, currencyCode string) ([]domain.ExchangeRate, error)
	CreateTaxRate(ctx context.Context, req dto.CreateTaxRateRequest, userID string) (*domain.TaxRate, error)
	GetTaxRate(ctx context.Context, taxRateID string) (*domain.TaxRate, error)
	ListTaxRates(ctx context.Context, activeOnly bool) ([]domain.TaxRate, error)
}

// CurrencySvcFacade combines conversion and rate maintenance
type CurrencySvcFacade interface {
	CurrencyConverterSvc
	RateTableSvc
}
