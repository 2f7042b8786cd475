// Package money holds the monetary arithmetic rules for SplitLedger.
//
// All amounts are shopspring decimals with at most two fractional digits.
// Comparisons are always exact: the split-sum and balance-sum invariants
// are checked with equality, never with a tolerance. Division happens in
// integer minor units (cents) so truncation is exact by construction.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidDivision is returned by DivModCents for a non-positive divisor
// or an amount that does not fit cent precision.
var ErrInvalidDivision = errors.New("money: invalid division")

// HasCentPrecision reports whether d carries at most two fractional digits.
// "10.120" counts as two digits: the check is on the value, not the exponent.
func HasCentPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}

// Cents converts a cent-precision amount to an integer number of minor units.
// The caller must have verified HasCentPrecision first; extra digits would be
// silently truncated here.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).IntPart()
}

// FromCents converts an integer number of minor units back to a decimal.
func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

// Sum adds the given amounts, starting from exact zero.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// DivModCents divides total into n even shares, truncating each share toward
// zero at the cent boundary, and returns the base share plus the leftover
// remainder. The remainder is at most n-1 cents and
// base*n + remainder == total holds exactly.
func DivModCents(total decimal.Decimal, n int64) (base, remainder decimal.Decimal, err error) {
	if n <= 0 || !total.IsPositive() || !HasCentPrecision(total) {
		return decimal.Zero, decimal.Zero, ErrInvalidDivision
	}
	cents := Cents(total)
	return FromCents(cents / n), FromCents(cents % n), nil
}
