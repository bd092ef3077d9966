package numeric

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestExponentToDecimalZero(t *testing.T) {
	got := ExponentToDecimal(0)
	if !got.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("10^0 = %s, want 1", got)
	}
}

func TestExponentToDecimal(t *testing.T) {
	cases := map[uint8]string{
		1:  "10",
		6:  "1000000",
		18: "1000000000000000000",
	}
	for decimals, want := range cases {
		got := ExponentToDecimal(decimals)
		if got.String() != want {
			t.Fatalf("10^%d = %s, want %s", decimals, got, want)
		}
	}
}

func TestConvertTokenAmountZeroDecimals(t *testing.T) {
	amount := big.NewInt(123456789)
	got := ConvertTokenAmount(amount, 0)
	if !got.Equal(decimal.NewFromBigInt(amount, 0)) {
		t.Fatalf("convert(%s, 0) = %s", amount, got)
	}
}

func TestConvertTokenAmountPowersOfTen(t *testing.T) {
	one := decimal.NewFromInt(1)
	for n := uint8(0); n <= 18; n++ {
		amount := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
		got := ConvertTokenAmount(amount, n)
		if !got.Equal(one) {
			t.Fatalf("convert(10^%d, %d) = %s, want 1", n, n, got)
		}
	}
}

func TestConvertTokenAmountFractional(t *testing.T) {
	// 1.5 tokens at 18 decimals
	amount, ok := new(big.Int).SetString("1500000000000000000", 10)
	if !ok {
		t.Fatalf("parse amount")
	}
	got := ConvertTokenAmount(amount, 18)
	want := decimal.RequireFromString("1.5")
	if !got.Equal(want) {
		t.Fatalf("convert = %s, want %s", got, want)
	}
}

func TestConvertTokenAmountNil(t *testing.T) {
	if got := ConvertTokenAmount(nil, 18); !got.IsZero() {
		t.Fatalf("convert(nil) = %s, want 0", got)
	}
}

func TestEqualToZero(t *testing.T) {
	if !EqualToZero(decimal.Zero) {
		t.Fatalf("zero not reported as zero")
	}
	if EqualToZero(decimal.RequireFromString("0.000000000000000001")) {
		t.Fatalf("nonzero reported as zero")
	}
}
