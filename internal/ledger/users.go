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

// Registry creates and looks up user entities keyed by address.
type Registry struct {
	store  store.EntityStore
	logger *zap.Logger
}

func NewRegistry(entityStore store.EntityStore, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{store: entityStore, logger: logger}
}

// CreateUser returns the user for an address, creating and persisting it
// with zeroed fields on first reference. Calling it again for the same
// address returns the stored entity unchanged.
func (r *Registry) CreateUser(ctx context.Context, address common.Address) (*model.User, error) {
	id := AddressID(address)
	user, err := r.store.LoadUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", id, err)
	}
	if user != nil {
		return user, nil
	}

	user = &model.User{
		ID:                    id,
		USDSwapped:            decimal.Zero,
		LastTransferTimestamp: 0,
	}
	if err := r.store.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user %s: %w", id, err)
	}
	r.logger.Debug("user created", zap.String("id", id))
	return user, nil
}

// Lookup returns the user for an address or nil when absent. It never
// creates.
func (r *Registry) Lookup(ctx context.Context, address common.Address) (*model.User, error) {
	return r.store.LoadUser(ctx, AddressID(address))
}
