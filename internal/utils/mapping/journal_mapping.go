package mapping

import (
	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	"github.com/SscSPs/logistics_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:       d.EntryID,
		EntryNumber:   d.EntryNumber,
		EntryDate:     domain.DateOnly(d.EntryDate),
		Description:   d.Description,
		Status:        string(d.Status),
		ReferenceType: NullableString(string(d.ReferenceType)),
		ReferenceID:   NullableString(d.ReferenceID),
		PostedAt:      d.PostedAt,
		PostedBy:      NullableString(d.PostedBy),
		VoidedAt:      d.VoidedAt,
		VoidedBy:      NullableString(d.VoidedBy),
		VoidReason:    NullableString(d.VoidReason),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry without lines
func ToDomainJournalEntry(m models.JournalEntry) (domain.JournalEntry, error) {
	status, err := domain.ParseEntryStatus(m.Status)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	refType, err := domain.ParseReferenceType(StringValue(m.ReferenceType))
	if err != nil {
		return domain.JournalEntry{}, err
	}
	return domain.JournalEntry{
		EntryID:       m.EntryID,
		EntryNumber:   m.EntryNumber,
		EntryDate:     domain.DateOnly(m.EntryDate),
		Description:   m.Description,
		Status:        status,
		ReferenceType: refType,
		ReferenceID:   StringValue(m.ReferenceID),
		PostedAt:      m.PostedAt,
		PostedBy:      StringValue(m.PostedBy),
		VoidedAt:      m.VoidedAt,
		VoidedBy:      StringValue(m.VoidedBy),
		VoidReason:    StringValue(m.VoidReason),
		Lines:         []domain.JournalLine{},
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:       d.LineID,
		EntryID:      d.EntryID,
		LineNumber:   d.LineNumber,
		AccountID:    d.AccountID,
		Debit:        d.Debit,
		Credit:       d.Credit,
		CurrencyCode: d.CurrencyCode,
		ExchangeRate: d.ExchangeRate,
		DebitBase:    d.DebitBase,
		CreditBase:   d.CreditBase,
		Memo:         NullableString(d.Memo),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:       m.LineID,
		EntryID:      m.EntryID,
		LineNumber:   m.LineNumber,
		AccountID:    m.AccountID,
		Debit:        m.Debit,
		Credit:       m.Credit,
		CurrencyCode: m.CurrencyCode,
		ExchangeRate: m.ExchangeRate,
		DebitBase:    m.DebitBase,
		CreditBase:   m.CreditBase,
		Memo:         StringValue(m.Memo),
	}
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to a slice of domain JournalLines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
