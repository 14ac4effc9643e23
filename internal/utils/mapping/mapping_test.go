package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
	"github.com/SscSPs/logistics_ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountMappingNullColumns(t *testing.T) {
	d := domain.Account{
		AccountID:     "acc-1",
		Code:          "1000",
		Name:          "Cash",
		AccountType:   domain.Asset,
		NormalBalance: domain.DebitSide,
		CurrencyCode:  "KES",
		IsActive:      true,
	}

	m := ToModelAccount(d)
	assert.Nil(t, m.Subtype, "empty subtype should be stored as NULL")
	assert.Nil(t, m.Description)
	assert.Equal(t, "asset", m.AccountType)

	back, err := ToDomainAccount(m)
	require.NoError(t, err)
	assert.Equal(t, d, back)
}

func TestToDomainAccountRejectsUnknownType(t *testing.T) {
	_, err := ToDomainAccount(models.Account{AccountType: "gadget", NormalBalance: "debit"})
	assert.Error(t, err)

	_, err = ToDomainAccountSlice([]models.Account{
		{AccountType: "asset", NormalBalance: "debit"},
		{AccountType: "asset", NormalBalance: "sideways"},
	})
	assert.Error(t, err)
}

func TestJournalEntryMappingTruncatesDateAndStartsWithoutLines(t *testing.T) {
	postedAt := time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)
	m := models.JournalEntry{
		EntryID:     "je-1",
		EntryNumber: "JE-000001",
		EntryDate:   time.Date(2025, 4, 1, 17, 45, 0, 0, time.UTC),
		Description: "Fuel",
		Status:      "posted",
		PostedAt:    &postedAt,
		PostedBy:    NullableString("user-1"),
	}

	d, err := ToDomainJournalEntry(m)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), d.EntryDate)
	assert.Equal(t, domain.EntryPosted, d.Status)
	assert.Equal(t, domain.RefNone, d.ReferenceType)
	assert.Equal(t, "user-1", d.PostedBy)
	assert.Empty(t, d.VoidedBy)
	assert.NotNil(t, d.Lines)
	assert.Empty(t, d.Lines)

	back := ToModelJournalEntry(d)
	assert.Nil(t, back.ReferenceType)
	assert.Nil(t, back.VoidReason)
	assert.Equal(t, "user-1", StringValue(back.PostedBy))
}

func TestToDomainJournalEntryRejectsUnknownStatus(t *testing.T) {
	_, err := ToDomainJournalEntry(models.JournalEntry{Status: "archived"})
	assert.Error(t, err)
}

func TestNullableString(t *testing.T) {
	assert.Nil(t, NullableString(""))
	assert.Equal(t, "x", *NullableString("x"))
	assert.Equal(t, "", StringValue(nil))
}
