// Package core holds the value types shared by the engine and its
// collaborators.
//
// This file contains helpers for canonical amounts. Amounts are plain
// float64 values in the currency's major unit; decimal arithmetic is only
// used where a fixed number of digits must be rendered or compared.
package core

import (
	"math"

	"github.com/shopspring/decimal"
)

// IsValidAmount reports whether a is a finite, strictly positive amount.
func IsValidAmount(a float64) bool {
	return !math.IsNaN(a) && !math.IsInf(a, 0) && a > 0
}

// FixedAmount renders a with exactly precision fraction digits and a '.'
// radix point, rounding half away from zero.
//
// Examples:
//
//	FixedAmount(1234.5, 2)  -> "1234.50"
//	FixedAmount(0.125, 2)   -> "0.13"
//	FixedAmount(-3, 0)      -> "-3"
func FixedAmount(a float64, precision int) string {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return "NaN"
	}
	if precision < 0 {
		precision = 0
	}
	return decimal.NewFromFloat(a).StringFixed(int32(precision))
}

// Balance sums the signed amounts of txs, rounding once at the end.
func Balance(txs []Transaction, precision int) float64 {
	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(decimal.NewFromFloat(t.Signed()))
	}
	f, _ := total.Round(int32(precision)).Float64()
	return f
}
