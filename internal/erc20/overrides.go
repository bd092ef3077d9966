package erc20

import "github.com/ethereum/go-ethereum/common"

// Override supplies metadata for a token whose on-chain accessors are
// malformed or missing. An override suppresses all contract calls.
type Override struct {
	Symbol   string
	Name     string
	Decimals uint8
}

// DefaultOverrides returns the compiled-in correction table for known
// non-conformant mainnet tokens.
func DefaultOverrides() map[common.Address]Override {
	return map[common.Address]Override{
		common.HexToAddress("0xe0b7927c4af23765cb51314a0e0521a9645f0e2a"): {Symbol: "DGD", Name: "DGD", Decimals: 9},
		common.HexToAddress("0x7fc66500c84a76ad7e9c93437bfc5ac33e2ddae9"): {Symbol: "AAVE", Name: "Aave Token", Decimals: 18},
		common.HexToAddress("0xeb9951021698b42e4399f9cbb6267aa35f82d59d"): {Symbol: "LIF", Name: "Lif", Decimals: 18},
		common.HexToAddress("0xbdeb4b83251fb146687fa19d1c660f99411eefe3"): {Symbol: "SVD", Name: "savedroid", Decimals: 18},
		common.HexToAddress("0xbb9bc244d798123fde783fcc1c72d3bb8c189413"): {Symbol: "TheDAO", Name: "TheDAO", Decimals: 16},
		common.HexToAddress("0x38c6a68304cdefb9bec48bbfaaba5c5b47818bb2"): {Symbol: "HPB", Name: "HPBCoin", Decimals: 18},
	}
}
