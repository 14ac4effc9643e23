package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalBalanceFollowsType(t *testing.T) {
	cases := map[AccountType]NormalBalance{
		Asset:     DebitSide,
		Expense:   DebitSide,
		Liability: CreditSide,
		Equity:    CreditSide,
		Revenue:   CreditSide,
	}
	for typ, want := range cases {
		assert.Equal(t, want, typ.NormalBalance(), string(typ))
	}
}

func TestParseRejectsUnknownStrings(t *testing.T) {
	_, err := ParseAccountType("ASSET")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = ParseEntryStatus("reversed")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = ParsePeriodStatus("archived")
	assert.Error(t, err)

	_, err = ParseAdvanceStatus("rejected")
	assert.Error(t, err)

	_, err = ParsePayrollStatus("cancelled")
	assert.Error(t, err)

	_, err = ParseAllocationMethod("volume")
	assert.Error(t, err)

	_, err = ParseNormalBalance("left")
	assert.Error(t, err)
}

func TestParseAcceptsPersistedStrings(t *testing.T) {
	st, err := ParseEntryStatus("posted")
	require.NoError(t, err)
	assert.Equal(t, EntryPosted, st)

	typ, err := ParseAccountType("revenue")
	require.NoError(t, err)
	assert.Equal(t, Revenue, typ)

	rt, err := ParseReferenceType("")
	require.NoError(t, err)
	assert.Equal(t, RefNone, rt)

	m, err := ParseAllocationMethod("weight")
	require.NoError(t, err)
	assert.Equal(t, AllocateByWeight, m)
}

func TestFiscalPeriodContainsAndOverlaps(t *testing.T) {
	p := FiscalPeriod{
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:    PeriodOpen,
	}

	assert.True(t, p.Contains(time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))

	assert.True(t, p.Overlaps(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Overlaps(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)))

	assert.True(t, p.AcceptsPostings())
	p.Status = PeriodLocked
	assert.False(t, p.AcceptsPostings())
}
