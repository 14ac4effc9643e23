package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate converts one unit of CurrencyCode into the base currency.
type ExchangeRate struct {
	RateID        string          `json:"rateID"`
	CurrencyCode  string          `json:"currencyCode"`
	RateToBase    decimal.Decimal `json:"rateToBase"`
	EffectiveDate time.Time       `json:"effectiveDate"`
	AuditFields
}

// TaxRate is a named percentage used for estimated tax on income statements.
type TaxRate struct {
	TaxRateID string          `json:"taxRateID"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	IsActive  bool            `json:"isActive"`
	AuditFields
}
