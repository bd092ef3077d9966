// Package ledger maintains the normalized entity ledger derived from chain
// events. Events are processed one at a time in canonical chain order; each
// handler finishes all loads, contract calls and saves before the next
// event begins.
package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"dexledger/internal/erc20"
	"dexledger/internal/model"
	"dexledger/internal/store"
)

// lpTokenDecimals is the fixed decimal count of pair share tokens.
const lpTokenDecimals = 18

// Processor applies decoded events to the entity store.
type Processor struct {
	store     store.EntityStore
	resolver  *erc20.Resolver
	users     *Registry
	positions *Positions
	baseToken common.Address
	logger    *zap.Logger
}

// NewProcessor wires the ledger components. baseToken is the distinguished
// token whose transfers produce BaseTransfer records.
func NewProcessor(entityStore store.EntityStore, resolver *erc20.Resolver, baseToken common.Address, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		store:     entityStore,
		resolver:  resolver,
		users:     NewRegistry(entityStore, logger),
		positions: NewPositions(entityStore, logger),
		baseToken: baseToken,
		logger:    logger,
	}
}

// Users exposes the user registry.
func (p *Processor) Users() *Registry { return p.users }

// Positions exposes the position manager.
func (p *Processor) Positions() *Positions { return p.positions }

// Process applies one event. An error means the event was not fully
// applied; the caller owns retry or skip policy.
func (p *Processor) Process(ctx context.Context, event *model.TypedEvent) error {
	switch data := event.Decoded.(type) {
	case model.PairCreatedEventData:
		return p.handlePairCreated(ctx, event, data)
	case model.TransferEventData:
		if common.HexToAddress(event.Address) == p.baseToken {
			return p.handleBaseTransfer(ctx, event, data)
		}
		return p.handlePairTransfer(ctx, event, data)
	case model.SyncEventData:
		return p.handleSync(ctx, event, data)
	case model.MintEventData:
		return p.handleMint(ctx, event, data)
	case model.BurnEventData:
		return p.handleBurn(ctx, event, data)
	case model.SwapEventData:
		return p.handleSwap(ctx, event, data)
	default:
		return fmt.Errorf("unsupported event payload %T", event.Decoded)
	}
}

func parseAddress(value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid address: %s", value)
	}
	return common.HexToAddress(value), nil
}

func parseAmount(value string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer amount: %s", value)
	}
	return amount, nil
}
