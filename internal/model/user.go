package model

import "github.com/shopspring/decimal"

// User is a ledger account keyed by lowercase hex address.
type User struct {
	ID                    string          `json:"id"`
	USDSwapped            decimal.Decimal `json:"usd_swapped"`
	LastTransferTimestamp uint64          `json:"last_transfer_timestamp"`
}
