package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest records a rate converting one unit of CurrencyCode into base currency.
type CreateExchangeRateRequest struct {
	CurrencyCode  string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	RateToBase    decimal.Decimal `json:"rateToBase" binding:"decimal_gt0"`
	EffectiveDate time.Time       `json:"effectiveDate"`
}

// CreateTaxRateRequest defines a tax rate in percent.
type CreateTaxRateRequest struct {
	Name string          `json:"name" binding:"required"`
	Rate decimal.Decimal `json:"rate" binding:"decimal_gte0"`
}
