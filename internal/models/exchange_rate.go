package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores how many base currency units one unit of CurrencyCode is worth from DateEffective on.
type ExchangeRate struct {
	ExchangeRateID string          `db:"exchange_rate_id"`
	CurrencyCode   string          `db:"currency_code"`
	RateToBase     decimal.Decimal `db:"rate_to_base"`
	DateEffective  time.Time       `db:"date_effective"`
	AuditFields
}

// TaxRate is a row of the tax_rates table; Rate is a percentage.
type TaxRate struct {
	TaxRateID string          `db:"tax_rate_id"`
	Name      string          `db:"name"`
	Rate      decimal.Decimal `db:"rate"`
	IsActive  bool            `db:"is_active"`
	AuditFields
}
