package model

import "github.com/shopspring/decimal"

// BundleID is the id of the single global price bundle.
const BundleID = "1"

// Bundle holds the USD price of the base unit all token prices derive from.
type Bundle struct {
	ID        string          `json:"id"`
	BasePrice decimal.Decimal `json:"base_price"`
}
