package model

import "github.com/shopspring/decimal"

// LiquidityPosition tracks one user's share of one pair. Keyed by
// "<pair-address>-<user-address>".
type LiquidityPosition struct {
	ID                    string          `json:"id"`
	Pair                  string          `json:"pair"`
	User                  string          `json:"user"`
	LiquidityTokenBalance decimal.Decimal `json:"liquidity_token_balance"`
}

// LiquidityPositionSnapshot is an append-only capture of a position and its
// pair at one block timestamp. Keyed by "<position-id><unix-seconds>".
type LiquidityPositionSnapshot struct {
	ID                        string          `json:"id"`
	LiquidityPosition         string          `json:"liquidity_position"`
	User                      string          `json:"user"`
	Pair                      string          `json:"pair"`
	Timestamp                 uint64          `json:"timestamp"`
	Block                     uint64          `json:"block"`
	Token0PriceUSD            decimal.Decimal `json:"token0_price_usd"`
	Token1PriceUSD            decimal.Decimal `json:"token1_price_usd"`
	Reserve0                  decimal.Decimal `json:"reserve0"`
	Reserve1                  decimal.Decimal `json:"reserve1"`
	ReserveUSD                decimal.Decimal `json:"reserve_usd"`
	LiquidityTokenTotalSupply decimal.Decimal `json:"liquidity_token_total_supply"`
	LiquidityTokenBalance     decimal.Decimal `json:"liquidity_token_balance"`
}
