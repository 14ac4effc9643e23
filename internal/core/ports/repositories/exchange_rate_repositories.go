package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
)

// ExchangeRateRepositoryFacade defines persistence for the exchange rate table.
type ExchangeRateRepositoryFacade interface {
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
	// FindLatestRate returns the most recent rate effective on or before asOf.
	FindLatestRate(ctx context.Context, currencyCode string, asOf time.Time) (*domain.ExchangeRate, error)
	ListExchangeRates(ctx context.Context, currencyCode string) ([]domain.ExchangeRate, error)
}

// TaxRateRepositoryFacade defines persistence for tax rates.
type TaxRateRepositoryFacade interface {
	SaveTaxRate(ctx context.Context, rate domain.TaxRate) error
	FindTaxRateByID(ctx context.Context, taxRateID string) (*domain.TaxRate, error)
	ListTaxRates(ctx context.Context, activeOnly bool) ([]domain.TaxRate, error)
}
