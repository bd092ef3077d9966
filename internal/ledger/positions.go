package ledger

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dexledger/internal/model"
	"dexledger/internal/store"
)

// Positions manages liquidity position lifecycle and snapshotting.
type Positions struct {
	store  store.EntityStore
	logger *zap.Logger
}

func NewPositions(entityStore store.EntityStore, logger *zap.Logger) *Positions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Positions{store: entityStore, logger: logger}
}

// CreateOrLoad returns the position for (pair, user). On first creation the
// owning pair's provider count is incremented exactly once; the pair must
// already exist. Reloading an existing position never touches the count.
func (p *Positions) CreateOrLoad(ctx context.Context, pair, user common.Address) (*model.LiquidityPosition, error) {
	id := PositionID(pair, user)
	position, err := p.store.LoadPosition(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load position %s: %w", id, err)
	}
	if position != nil {
		return position, nil
	}

	pairID := AddressID(pair)
	owner, err := p.store.LoadPair(ctx, pairID)
	if err != nil {
		return nil, fmt.Errorf("load pair %s: %w", pairID, err)
	}
	if owner == nil {
		return nil, fmt.Errorf("position %s: %w", id, ErrPairNotFound)
	}

	owner.LiquidityProviderCount++
	position = &model.LiquidityPosition{
		ID:                    id,
		Pair:                  pairID,
		User:                  AddressID(user),
		LiquidityTokenBalance: decimal.Zero,
	}
	if err := p.store.SavePosition(ctx, position); err != nil {
		return nil, fmt.Errorf("save position %s: %w", id, err)
	}
	if err := p.store.SavePair(ctx, owner); err != nil {
		return nil, fmt.Errorf("save pair %s: %w", pairID, err)
	}
	p.logger.Debug("position created",
		zap.String("id", id),
		zap.Uint64("provider_count", owner.LiquidityProviderCount),
	)
	return position, nil
}

// Snapshot captures the position and its pair at the event's block
// timestamp, then re-persists the position. The caller updates the
// position's balance before snapshotting.
func (p *Positions) Snapshot(ctx context.Context, position *model.LiquidityPosition, event *model.TypedEvent) error {
	bundle, err := p.store.LoadBundle(ctx, model.BundleID)
	if err != nil {
		return fmt.Errorf("load bundle: %w", err)
	}
	if bundle == nil {
		return ErrBundleNotFound
	}

	pair, err := p.store.LoadPair(ctx, position.Pair)
	if err != nil {
		return fmt.Errorf("load pair %s: %w", position.Pair, err)
	}
	if pair == nil {
		return fmt.Errorf("snapshot %s: %w", position.ID, ErrPairNotFound)
	}

	token0, err := p.store.LoadToken(ctx, pair.Token0)
	if err != nil {
		return fmt.Errorf("load token0 %s: %w", pair.Token0, err)
	}
	token1, err := p.store.LoadToken(ctx, pair.Token1)
	if err != nil {
		return fmt.Errorf("load token1 %s: %w", pair.Token1, err)
	}
	if token0 == nil || token1 == nil {
		return fmt.Errorf("snapshot %s: %w", position.ID, ErrTokenNotFound)
	}

	snapshot := &model.LiquidityPositionSnapshot{
		ID:                        SnapshotID(position.ID, event.Timestamp),
		LiquidityPosition:         position.ID,
		User:                      position.User,
		Pair:                      position.Pair,
		Timestamp:                 event.Timestamp,
		Block:                     event.BlockNumber,
		Token0PriceUSD:            token0.DerivedBase.Mul(bundle.BasePrice),
		Token1PriceUSD:            token1.DerivedBase.Mul(bundle.BasePrice),
		Reserve0:                  pair.Reserve0,
		Reserve1:                  pair.Reserve1,
		ReserveUSD:                pair.ReserveUSD,
		LiquidityTokenTotalSupply: pair.TotalSupply,
		LiquidityTokenBalance:     position.LiquidityTokenBalance,
	}
	if err := p.store.SaveSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snapshot.ID, err)
	}
	if err := p.store.SavePosition(ctx, position); err != nil {
		return fmt.Errorf("save position %s: %w", position.ID, err)
	}
	return nil
}
