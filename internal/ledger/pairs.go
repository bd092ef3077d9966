package ledger

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dexledger/internal/model"
)

func (p *Processor) handlePairCreated(ctx context.Context, event *model.TypedEvent, data model.PairCreatedEventData) error {
	token0Addr, err := parseAddress(data.Token0)
	if err != nil {
		return err
	}
	token1Addr, err := parseAddress(data.Token1)
	if err != nil {
		return err
	}
	pairAddr, err := parseAddress(data.Pair)
	if err != nil {
		return err
	}

	if err := p.ensureBundle(ctx); err != nil {
		return err
	}
	token0, err := p.getOrCreateToken(ctx, token0Addr)
	if err != nil {
		return err
	}
	token1, err := p.getOrCreateToken(ctx, token1Addr)
	if err != nil {
		return err
	}

	pairID := AddressID(pairAddr)
	existing, err := p.store.LoadPair(ctx, pairID)
	if err != nil {
		return fmt.Errorf("load pair %s: %w", pairID, err)
	}
	if existing != nil {
		return nil
	}

	pair := &model.Pair{
		ID:                 pairID,
		Token0:             token0.ID,
		Token1:             token1.ID,
		Reserve0:           decimal.Zero,
		Reserve1:           decimal.Zero,
		TotalSupply:        decimal.Zero,
		ReserveUSD:         decimal.Zero,
		CreatedAtTimestamp: event.Timestamp,
		CreatedAtBlock:     event.BlockNumber,
	}
	if err := p.store.SavePair(ctx, pair); err != nil {
		return fmt.Errorf("save pair %s: %w", pairID, err)
	}
	p.logger.Info("pair created",
		zap.String("pair", pairID),
		zap.String("token0", token0.Symbol),
		zap.String("token1", token1.Symbol),
	)
	return nil
}

// getOrCreateToken resolves metadata once per distinct address. An existing
// token is returned unchanged, so re-resolution within a run is idempotent.
func (p *Processor) getOrCreateToken(ctx context.Context, address common.Address) (*model.Token, error) {
	id := AddressID(address)
	token, err := p.store.LoadToken(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load token %s: %w", id, err)
	}
	if token != nil {
		return token, nil
	}

	meta := p.resolver.FetchMetadata(ctx, address)
	token = &model.Token{
		ID:          id,
		Symbol:      meta.Symbol,
		Name:        meta.Name,
		Decimals:    meta.Decimals,
		DerivedBase: decimal.Zero,
	}
	if meta.TotalSupply != nil {
		supply := meta.TotalSupply.String()
		token.TotalSupply = &supply
	}
	if !token.DecimalsResolved() {
		p.logger.Warn("token decimals unresolved", zap.String("token", id))
	}
	if err := p.store.SaveToken(ctx, token); err != nil {
		return nil, fmt.Errorf("save token %s: %w", id, err)
	}
	return token, nil
}

func (p *Processor) ensureBundle(ctx context.Context) error {
	bundle, err := p.store.LoadBundle(ctx, model.BundleID)
	if err != nil {
		return fmt.Errorf("load bundle: %w", err)
	}
	if bundle != nil {
		return nil
	}
	bundle = &model.Bundle{ID: model.BundleID, BasePrice: decimal.Zero}
	if err := p.store.SaveBundle(ctx, bundle); err != nil {
		return fmt.Errorf("save bundle: %w", err)
	}
	return nil
}
