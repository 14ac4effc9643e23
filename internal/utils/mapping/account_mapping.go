package mapping

import (
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	"github.com/SscSPs/logistics_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:     d.AccountID,
		Code:          d.Code,
		Name:          d.Name,
		AccountType:   string(d.AccountType),
		NormalBalance: string(d.NormalBalance),
		Subtype:       NullableString(d.Subtype),
		Description:   NullableString(d.Description),
		CurrencyCode:  d.CurrencyCode,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account. Unknown enum values fail.
func ToDomainAccount(m models.Account) (domain.Account, error) {
	accountType, err := domain.ParseAccountType(m.AccountType)
	if err != nil {
		return domain.Account{}, err
	}
	normal, err := domain.ParseNormalBalance(m.NormalBalance)
	if err != nil {
		return domain.Account{}, err
	}
	return domain.Account{
		AccountID:     m.AccountID,
		Code:          m.Code,
		Name:          m.Name,
		AccountType:   accountType,
		NormalBalance: normal,
		Subtype:       StringValue(m.Subtype),
		Description:   StringValue(m.Description),
		CurrencyCode:  m.CurrencyCode,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) ([]domain.Account, error) {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		d, err := ToDomainAccount(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
