// Package numeric converts raw integer token amounts into base-10 decimals
// using per-token decimal exponents.
package numeric

import (
	"math/big"

	"github.com/shopspring/decimal"
)

var ten = decimal.NewFromInt(10)

// ExponentToDecimal returns 10^decimals, built by iterative multiplication
// from 1 so that a zero exponent yields exactly 1.
func ExponentToDecimal(decimals uint8) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for i := uint8(0); i < decimals; i++ {
		result = result.Mul(ten)
	}
	return result
}

// ConvertTokenAmount scales a raw integer amount by 10^-decimals. A zero
// decimals count returns the raw amount as an already-integral decimal.
func ConvertTokenAmount(amount *big.Int, decimals uint8) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	raw := decimal.NewFromBigInt(amount, 0)
	if decimals == 0 {
		return raw
	}
	return raw.DivRound(ExponentToDecimal(decimals), int32(decimals))
}

// EqualToZero reports whether the value is exactly zero.
func EqualToZero(value decimal.Decimal) bool {
	return value.IsZero()
}
