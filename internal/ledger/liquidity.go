package ledger

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"dexledger/internal/model"
	"dexledger/internal/numeric"
)

// handleSync updates pair reserves from the emitted raw reserve values.
// Reserves are normalized with each token's resolved decimals; a token with
// unresolved decimals fails the event instead of producing a miscomputed
// reserve.
func (p *Processor) handleSync(ctx context.Context, event *model.TypedEvent, data model.SyncEventData) error {
	pairAddr, err := parseAddress(event.Address)
	if err != nil {
		return err
	}
	pairID := AddressID(pairAddr)

	pair, err := p.store.LoadPair(ctx, pairID)
	if err != nil {
		return fmt.Errorf("load pair %s: %w", pairID, err)
	}
	if pair == nil {
		return fmt.Errorf("sync %s: %w", pairID, ErrPairNotFound)
	}

	token0, token1, err := p.loadPairTokens(ctx, pair)
	if err != nil {
		return err
	}
	if !token0.DecimalsResolved() {
		return fmt.Errorf("token %s: %w", token0.ID, ErrUnresolvedDecimals)
	}
	if !token1.DecimalsResolved() {
		return fmt.Errorf("token %s: %w", token1.ID, ErrUnresolvedDecimals)
	}

	reserve0, err := parseAmount(data.Reserve0)
	if err != nil {
		return err
	}
	reserve1, err := parseAmount(data.Reserve1)
	if err != nil {
		return err
	}

	pair.Reserve0 = numeric.ConvertTokenAmount(reserve0, *token0.Decimals)
	pair.Reserve1 = numeric.ConvertTokenAmount(reserve1, *token1.Decimals)

	bundle, err := p.store.LoadBundle(ctx, model.BundleID)
	if err != nil {
		return fmt.Errorf("load bundle: %w", err)
	}
	if bundle != nil {
		price0 := token0.DerivedBase.Mul(bundle.BasePrice)
		price1 := token1.DerivedBase.Mul(bundle.BasePrice)
		pair.ReserveUSD = pair.Reserve0.Mul(price0).Add(pair.Reserve1.Mul(price1))
	}

	if err := p.store.SavePair(ctx, pair); err != nil {
		return fmt.Errorf("save pair %s: %w", pairID, err)
	}
	return nil
}

// handleMint touches the minting user's position after liquidity was added.
func (p *Processor) handleMint(ctx context.Context, event *model.TypedEvent, data model.MintEventData) error {
	sender, err := parseAddress(data.Sender)
	if err != nil {
		return err
	}
	pairAddr, err := parseAddress(event.Address)
	if err != nil {
		return err
	}
	return p.refreshPosition(ctx, event, pairAddr, sender)
}

// handleBurn touches the position of the address the withdrawn tokens were
// sent to.
func (p *Processor) handleBurn(ctx context.Context, event *model.TypedEvent, data model.BurnEventData) error {
	to, err := parseAddress(data.To)
	if err != nil {
		return err
	}
	pairAddr, err := parseAddress(event.Address)
	if err != nil {
		return err
	}
	return p.refreshPosition(ctx, event, pairAddr, to)
}

// handlePairTransfer applies a pair share transfer. The zero-address legs
// adjust the pair's share supply; both real endpoints get their position
// balance refreshed from chain and snapshotted.
func (p *Processor) handlePairTransfer(ctx context.Context, event *model.TypedEvent, data model.TransferEventData) error {
	pairAddr, err := parseAddress(event.Address)
	if err != nil {
		return err
	}
	from, err := parseAddress(data.From)
	if err != nil {
		return err
	}
	to, err := parseAddress(data.To)
	if err != nil {
		return err
	}
	value, err := parseAmount(data.Value)
	if err != nil {
		return err
	}

	pairID := AddressID(pairAddr)
	pair, err := p.store.LoadPair(ctx, pairID)
	if err != nil {
		return fmt.Errorf("load pair %s: %w", pairID, err)
	}
	if pair == nil {
		return fmt.Errorf("pair transfer %s: %w", pairID, ErrPairNotFound)
	}

	shares := numeric.ConvertTokenAmount(value, lpTokenDecimals)
	zero := common.Address{}

	if from == zero {
		pair.TotalSupply = pair.TotalSupply.Add(shares)
		if err := p.store.SavePair(ctx, pair); err != nil {
			return fmt.Errorf("save pair %s: %w", pairID, err)
		}
	}
	if to == zero {
		pair.TotalSupply = pair.TotalSupply.Sub(shares)
		if err := p.store.SavePair(ctx, pair); err != nil {
			return fmt.Errorf("save pair %s: %w", pairID, err)
		}
	}

	if from != zero && from != pairAddr {
		if err := p.refreshPosition(ctx, event, pairAddr, from); err != nil {
			return err
		}
	}
	if to != zero && to != pairAddr {
		if err := p.refreshPosition(ctx, event, pairAddr, to); err != nil {
			return err
		}
	}
	return nil
}

// refreshPosition loads or creates the (pair, user) position, re-reads the
// user's share balance from chain and snapshots the result. A reverting
// balance query fails the event.
func (p *Processor) refreshPosition(ctx context.Context, event *model.TypedEvent, pairAddr, user common.Address) error {
	if _, err := p.users.CreateUser(ctx, user); err != nil {
		return err
	}
	position, err := p.positions.CreateOrLoad(ctx, pairAddr, user)
	if err != nil {
		return err
	}

	balance, err := p.resolver.BalanceOf(ctx, pairAddr, user)
	if err != nil {
		return fmt.Errorf("share balance of %s: %w", position.ID, err)
	}
	position.LiquidityTokenBalance = numeric.ConvertTokenAmount(balance, lpTokenDecimals)

	return p.positions.Snapshot(ctx, position, event)
}

func (p *Processor) loadPairTokens(ctx context.Context, pair *model.Pair) (*model.Token, *model.Token, error) {
	token0, err := p.store.LoadToken(ctx, pair.Token0)
	if err != nil {
		return nil, nil, fmt.Errorf("load token %s: %w", pair.Token0, err)
	}
	token1, err := p.store.LoadToken(ctx, pair.Token1)
	if err != nil {
		return nil, nil, fmt.Errorf("load token %s: %w", pair.Token1, err)
	}
	if token0 == nil || token1 == nil {
		return nil, nil, fmt.Errorf("pair %s: %w", pair.ID, ErrTokenNotFound)
	}
	return token0, token1, nil
}
