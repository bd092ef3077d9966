package model

import "github.com/shopspring/decimal"

// Pair is a two-token liquidity pool keyed by lowercase hex pool address.
type Pair struct {
	ID                     string          `json:"id"`
	Token0                 string          `json:"token0"`
	Token1                 string          `json:"token1"`
	Reserve0               decimal.Decimal `json:"reserve0"`
	Reserve1               decimal.Decimal `json:"reserve1"`
	TotalSupply            decimal.Decimal `json:"total_supply"`
	ReserveUSD             decimal.Decimal `json:"reserve_usd"`
	LiquidityProviderCount uint64          `json:"liquidity_provider_count"`
	CreatedAtTimestamp     uint64          `json:"created_at_timestamp"`
	CreatedAtBlock         uint64          `json:"created_at_block"`
}
