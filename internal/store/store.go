// Package store defines entity persistence for the ledger. Absence is
// signaled by a nil entity with a nil error; errors are reserved for store
// failures. Each save is durable before the next dependent load.
package store

import (
	"context"

	"dexledger/internal/model"
)

// EntityStore loads and saves ledger entities by their deterministic ids.
type EntityStore interface {
	LoadUser(ctx context.Context, id string) (*model.User, error)
	SaveUser(ctx context.Context, user *model.User) error

	LoadToken(ctx context.Context, id string) (*model.Token, error)
	SaveToken(ctx context.Context, token *model.Token) error

	LoadPair(ctx context.Context, id string) (*model.Pair, error)
	SavePair(ctx context.Context, pair *model.Pair) error

	LoadPosition(ctx context.Context, id string) (*model.LiquidityPosition, error)
	SavePosition(ctx context.Context, position *model.LiquidityPosition) error

	SaveSnapshot(ctx context.Context, snapshot *model.LiquidityPositionSnapshot) error
	SnapshotsByPosition(ctx context.Context, positionID string) ([]model.LiquidityPositionSnapshot, error)

	LoadBundle(ctx context.Context, id string) (*model.Bundle, error)
	SaveBundle(ctx context.Context, bundle *model.Bundle) error

	LoadBaseTransfer(ctx context.Context, id string) (*model.BaseTransfer, error)
	SaveBaseTransfer(ctx context.Context, transfer *model.BaseTransfer) error
}
