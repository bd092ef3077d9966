// Package erc20 resolves token metadata through a fallback chain: a static
// override table first, then the canonical string ABI, then the legacy
// bytes32 ABI. Reverting calls are recovered locally and never propagated.
package erc20

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Unknown is recorded for a symbol or name no strategy could resolve.
const Unknown = "unknown"

// CallLayer performs read-only contract calls. A revert surfaces as an
// error; it never panics.
type CallLayer interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Metadata is the result of resolving one token address. Decimals and
// TotalSupply stay nil when every strategy failed; they are never defaulted.
type Metadata struct {
	Symbol      string
	Name        string
	Decimals    *uint8
	TotalSupply *big.Int
}

// Resolver fetches token metadata through an injected call layer.
type Resolver struct {
	caller    CallLayer
	overrides map[common.Address]Override
	logger    *zap.Logger
}

// NewResolver builds a Resolver. A nil overrides map disables the override
// strategy; a nil logger is replaced with a no-op logger.
func NewResolver(caller CallLayer, overrides map[common.Address]Override, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{caller: caller, overrides: overrides, logger: logger}
}

// FetchMetadata resolves symbol, name, decimals and total supply.
func (r *Resolver) FetchMetadata(ctx context.Context, token common.Address) Metadata {
	meta := Metadata{
		Symbol: r.FetchSymbol(ctx, token),
		Name:   r.FetchName(ctx, token),
	}
	if decimals, ok := r.FetchDecimals(ctx, token); ok {
		meta.Decimals = &decimals
	}
	if supply, ok := r.FetchTotalSupply(ctx, token); ok {
		meta.TotalSupply = supply
	}
	return meta
}

// FetchSymbol resolves the token symbol, falling back to "unknown".
func (r *Resolver) FetchSymbol(ctx context.Context, token common.Address) string {
	if override, ok := r.overrides[token]; ok {
		return override.Symbol
	}
	return r.fetchString(ctx, token, "symbol")
}

// FetchName resolves the token name, falling back to "unknown".
func (r *Resolver) FetchName(ctx context.Context, token common.Address) string {
	if override, ok := r.overrides[token]; ok {
		return override.Name
	}
	return r.fetchString(ctx, token, "name")
}

// FetchDecimals resolves the token decimals. The second return is false
// when resolution failed; the zero value must not be used in that case.
func (r *Resolver) FetchDecimals(ctx context.Context, token common.Address) (uint8, bool) {
	if override, ok := r.overrides[token]; ok {
		return override.Decimals, true
	}

	parsed, err := StringABI()
	if err != nil {
		return 0, false
	}
	values, err := r.call(ctx, token, parsed, "decimals")
	if err != nil {
		r.logger.Debug("decimals call failed", zap.String("token", token.Hex()), zap.Error(err))
		return 0, false
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		r.logger.Debug("decimals value invalid", zap.String("token", token.Hex()), zap.Error(err))
		return 0, false
	}
	return decimals, true
}

// FetchTotalSupply resolves the token total supply. The second return is
// false when resolution failed; no numeric default is substituted.
func (r *Resolver) FetchTotalSupply(ctx context.Context, token common.Address) (*big.Int, bool) {
	parsed, err := StringABI()
	if err != nil {
		return nil, false
	}
	values, err := r.call(ctx, token, parsed, "totalSupply")
	if err != nil {
		r.logger.Debug("totalSupply call failed", zap.String("token", token.Hex()), zap.Error(err))
		return nil, false
	}
	supply, err := asBigInt(values[0])
	if err != nil {
		r.logger.Debug("totalSupply value invalid", zap.String("token", token.Hex()), zap.Error(err))
		return nil, false
	}
	return supply, true
}

// BalanceOf reads the current token balance of a holder. Unlike metadata
// resolution a revert here is propagated to the caller.
func (r *Resolver) BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error) {
	parsed, err := StringABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	values, err := r.call(ctx, token, parsed, "balanceOf", holder)
	if err != nil {
		return nil, err
	}
	balance, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("balanceOf value: %w", err)
	}
	return balance, nil
}

func (r *Resolver) fetchString(ctx context.Context, token common.Address, method string) string {
	parsed, err := StringABI()
	if err != nil {
		return Unknown
	}

	if values, err := r.call(ctx, token, parsed, method); err == nil {
		if value, ok := values[0].(string); ok {
			return value
		}
	}

	legacy, err := Bytes32ABI()
	if err != nil {
		return Unknown
	}
	values, err := r.call(ctx, token, legacy, method)
	if err != nil {
		r.logger.Debug("legacy call failed", zap.String("token", token.Hex()), zap.String("method", method), zap.Error(err))
		return Unknown
	}
	if value, ok := bytes32ToString(values[0]); ok {
		return value
	}
	return Unknown
}

func (r *Resolver) call(ctx context.Context, token common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	if r.caller == nil {
		return nil, fmt.Errorf("call layer is nil")
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &token, Data: data}
	resp, err := r.caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("empty %s result", method)
	}
	return values, nil
}
