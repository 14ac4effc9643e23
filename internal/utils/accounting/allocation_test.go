package accounting

import (
	"errors"
	"testing"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

func TestSplitEquallySumsToTotal(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 13} {
		for _, total := range []string{"100", "100.01", "0.05", "1000000"} {
			shares, err := SplitEqually(d(total), n, 2)
			require.NoError(t, err)
			require.Len(t, shares, n)
			assert.True(t, d(total).Equal(sum(shares)), "n=%d total=%s got %s", n, total, sum(shares).String())

			minShare, maxShare := shares[0], shares[0]
			for _, s := range shares {
				minShare = decimal.Min(minShare, s)
				maxShare = decimal.Max(maxShare, s)
			}
			assert.True(t, maxShare.Sub(minShare).LessThanOrEqual(d("0.01")))
		}
	}
}

func TestSplitEquallyDistributesRemainder(t *testing.T) {
	shares, err := SplitEqually(d("100"), 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"33.34", "33.33", "33.33"}, []string{shares[0].StringFixed(2), shares[1].StringFixed(2), shares[2].StringFixed(2)})

	zeroScale, err := SplitEqually(d("100"), 7, 0)
	require.NoError(t, err)
	assert.True(t, d("15").Equal(zeroScale[0]))
	assert.True(t, d("14").Equal(zeroScale[6]))
	assert.True(t, d("100").Equal(sum(zeroScale)))
}

func TestSplitEquallyRejectsZeroShipments(t *testing.T) {
	_, err := SplitEqually(d("100"), 0, 2)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestSplitByWeight(t *testing.T) {
	shares, err := SplitByWeight(d("300"), []decimal.Decimal{d("10"), d("20")}, 2)
	require.NoError(t, err)
	assert.True(t, d("100").Equal(shares[0]))
	assert.True(t, d("200").Equal(shares[1]))

	uneven, err := SplitByWeight(d("100"), []decimal.Decimal{d("1"), d("1"), d("1")}, 2)
	require.NoError(t, err)
	assert.True(t, d("100").Equal(sum(uneven)))
	assert.True(t, d("33.34").Equal(uneven[0]))
}

func TestSplitByWeightSmallTotalNeverNegative(t *testing.T) {
	weights := make([]decimal.Decimal, 7)
	for i := range weights {
		weights[i] = d("1")
	}

	shares, err := SplitByWeight(d("0.05"), weights, 2)
	require.NoError(t, err)
	require.Len(t, shares, 7)
	assert.True(t, d("0.05").Equal(sum(shares)))
	cents := 0
	for i, share := range shares {
		assert.False(t, share.IsNegative(), "share %d is %s", i, share)
		if share.Equal(d("0.01")) {
			cents++
		} else {
			assert.True(t, share.IsZero(), "share %d is %s", i, share)
		}
	}
	assert.Equal(t, 5, cents)
}

func TestSplitByWeightLeftoverFollowsLargestFraction(t *testing.T) {
	// exact shares 0.333.., 0.666.. and 0.0; the single leftover cent goes to the 0.66 share
	shares, err := SplitByWeight(d("1"), []decimal.Decimal{d("1"), d("2"), decimal.Zero}, 2)
	require.NoError(t, err)
	assert.True(t, d("0.33").Equal(shares[0]))
	assert.True(t, d("0.67").Equal(shares[1]))
	assert.True(t, shares[2].IsZero())
}

func TestSplitByWeightRejectsZeroTotal(t *testing.T) {
	_, err := SplitByWeight(d("100"), []decimal.Decimal{decimal.Zero, decimal.Zero}, 2)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = SplitByWeight(d("100"), []decimal.Decimal{d("-1"), d("2")}, 2)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}
