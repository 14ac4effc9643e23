package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, RegisterValidators(v))
	return v
}

func TestDecimalValidators(t *testing.T) {
	v := newValidator(t)

	ok := CreateExchangeRateRequest{CurrencyCode: "USD", RateToBase: decimal.NewFromInt(2500)}
	assert.NoError(t, v.Struct(ok))

	zero := CreateExchangeRateRequest{CurrencyCode: "USD", RateToBase: decimal.Zero}
	assert.Error(t, v.Struct(zero))

	line := JournalLineRequest{AccountID: "acc", Debit: decimal.NewFromInt(10)}
	assert.NoError(t, v.Struct(line))

	negative := JournalLineRequest{AccountID: "acc", Credit: decimal.NewFromInt(-1)}
	assert.Error(t, v.Struct(negative))
}
