package model

// BaseTransfer is the ledger record for one base-token transfer, keyed by
// transaction hash. Amount and balances are raw integer strings; balances
// are the on-chain post-transfer values at processing time.
type BaseTransfer struct {
	ID                string `json:"id"`
	From              string `json:"from"`
	To                string `json:"to"`
	Symbol            string `json:"symbol"`
	AmountTransferred string `json:"amount_transferred"`
	BalanceFrom       string `json:"balance_from"`
	BalanceTo         string `json:"balance_to"`
	Timestamp         uint64 `json:"timestamp"`
	Block             uint64 `json:"block"`
}
