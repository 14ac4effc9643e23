package mapping

import (
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	"github.com/SscSPs/logistics_ledger/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID: d.RateID,
		CurrencyCode:   d.CurrencyCode,
		RateToBase:     d.RateToBase,
		DateEffective:  d.EffectiveDate,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		RateID:        m.ExchangeRateID,
		CurrencyCode:  m.CurrencyCode,
		RateToBase:    m.RateToBase,
		EffectiveDate: domain.DateOnly(m.DateEffective),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelTaxRate(d domain.TaxRate) models.TaxRate {
	return models.TaxRate{
		TaxRateID:   d.TaxRateID,
		Name:        d.Name,
		Rate:        d.Rate,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainTaxRate(m models.TaxRate) domain.TaxRate {
	return domain.TaxRate{
		TaxRateID:   m.TaxRateID,
		Name:        m.Name,
		Rate:        m.Rate,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
