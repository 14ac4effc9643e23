package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/logistics_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// SplitEqually divides total into n shares at the given scale. Shares differ by at most one
// minor unit and always sum to total exactly; earlier shares receive the extra units.
func SplitEqually(total decimal.Decimal, n int, scale int32) ([]decimal.Decimal, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: cannot split a cost across zero shipments", apperrors.ErrValidation)
	}
	count := decimal.NewFromInt(int64(n))
	unit := decimal.New(1, -scale)
	base := total.Div(count).Truncate(scale)
	remainder := total.Sub(base.Mul(count))
	extraUnits := remainder.Div(unit).Floor().IntPart()

	shares := make([]decimal.Decimal, n)
	allocated := decimal.Zero
	for i := range shares {
		shares[i] = base
		if int64(i) < extraUnits {
			shares[i] = shares[i].Add(unit)
		}
		allocated = allocated.Add(shares[i])
	}
	// sub-unit residue when total is finer than scale
	if residue := total.Sub(allocated); !residue.IsZero() {
		shares[n-1] = shares[n-1].Add(residue)
	}
	return shares, nil
}

// SplitByWeight divides total proportionally to weights using the largest remainder method.
// Every share is truncated to scale and the leftover minor units go one each to the shares
// with the largest truncated fraction, heavier first on ties. No share is negative and
// the shares sum to total exactly.
func SplitByWeight(total decimal.Decimal, weights []decimal.Decimal, scale int32) ([]decimal.Decimal, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: cannot split a cost across zero shipments", apperrors.ErrValidation)
	}
	sum := decimal.Zero
	heaviest := 0
	for i, w := range weights {
		if w.IsNegative() {
			return nil, fmt.Errorf("%w: shipment weight %s is negative", apperrors.ErrValidation, w.String())
		}
		sum = sum.Add(w)
		if w.GreaterThan(weights[heaviest]) {
			heaviest = i
		}
	}
	if sum.IsZero() {
		return nil, fmt.Errorf("%w: total shipment weight is zero", apperrors.ErrValidation)
	}
	if total.IsNegative() {
		shares, err := SplitByWeight(total.Neg(), weights, scale)
		for i := range shares {
			shares[i] = shares[i].Neg()
		}
		return shares, err
	}

	unit := decimal.New(1, -scale)
	shares := make([]decimal.Decimal, len(weights))
	fractions := make([]decimal.Decimal, len(weights))
	order := make([]int, len(weights))
	allocated := decimal.Zero
	for i, w := range weights {
		exact := total.Mul(w).Div(sum)
		shares[i] = exact.Truncate(scale)
		fractions[i] = exact.Sub(shares[i])
		allocated = allocated.Add(shares[i])
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if c := fractions[ia].Cmp(fractions[ib]); c != 0 {
			return c > 0
		}
		return weights[ia].GreaterThan(weights[ib])
	})
	leftover := total.Sub(allocated).Div(unit).Floor().IntPart()
	for k := int64(0); k < leftover && k < int64(len(order)); k++ {
		idx := order[k]
		shares[idx] = shares[idx].Add(unit)
		allocated = allocated.Add(unit)
	}
	// sub-unit residue when total is finer than scale
	if residue := total.Sub(allocated); !residue.IsZero() {
		shares[heaviest] = shares[heaviest].Add(residue)
	}
	return shares, nil
}
