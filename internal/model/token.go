package model

import "github.com/shopspring/decimal"

// Token is an ERC20 token entity keyed by lowercase hex address.
//
// Decimals and TotalSupply are nil while unresolved. A nil Decimals must
// never be read as zero: amount conversion for such a token is refused
// rather than guessed.
type Token struct {
	ID          string          `json:"id"`
	Symbol      string          `json:"symbol"`
	Name        string          `json:"name"`
	Decimals    *uint8          `json:"decimals"`
	TotalSupply *string         `json:"total_supply"`
	DerivedBase decimal.Decimal `json:"derived_base"`
}

// DecimalsResolved reports whether the token's decimals are known.
func (t *Token) DecimalsResolved() bool {
	return t != nil && t.Decimals != nil
}
