package store

import (
	"context"
	"sort"
	"sync"

	"dexledger/internal/model"
)

// Memory is an in-process EntityStore. Entities are stored by value so a
// caller mutating a loaded entity does not change stored state until it
// saves again.
type Memory struct {
	mu        sync.RWMutex
	users     map[string]model.User
	tokens    map[string]model.Token
	pairs     map[string]model.Pair
	positions map[string]model.LiquidityPosition
	snapshots map[string]model.LiquidityPositionSnapshot
	bundles   map[string]model.Bundle
	transfers map[string]model.BaseTransfer
}

func NewMemory() *Memory {
	return &Memory{
		users:     make(map[string]model.User),
		tokens:    make(map[string]model.Token),
		pairs:     make(map[string]model.Pair),
		positions: make(map[string]model.LiquidityPosition),
		snapshots: make(map[string]model.LiquidityPositionSnapshot),
		bundles:   make(map[string]model.Bundle),
		transfers: make(map[string]model.BaseTransfer),
	}
}

func (m *Memory) LoadUser(_ context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if user, ok := m.users[id]; ok {
		return &user, nil
	}
	return nil, nil
}

func (m *Memory) SaveUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	return nil
}

func (m *Memory) LoadToken(_ context.Context, id string) (*model.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if token, ok := m.tokens[id]; ok {
		return &token, nil
	}
	return nil, nil
}

func (m *Memory) SaveToken(_ context.Context, token *model.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.ID] = *token
	return nil
}

func (m *Memory) LoadPair(_ context.Context, id string) (*model.Pair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if pair, ok := m.pairs[id]; ok {
		return &pair, nil
	}
	return nil, nil
}

func (m *Memory) SavePair(_ context.Context, pair *model.Pair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairs[pair.ID] = *pair
	return nil
}

func (m *Memory) LoadPosition(_ context.Context, id string) (*model.LiquidityPosition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if position, ok := m.positions[id]; ok {
		return &position, nil
	}
	return nil, nil
}

func (m *Memory) SavePosition(_ context.Context, position *model.LiquidityPosition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[position.ID] = *position
	return nil
}

func (m *Memory) SaveSnapshot(_ context.Context, snapshot *model.LiquidityPositionSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapshot.ID] = *snapshot
	return nil
}

func (m *Memory) SnapshotsByPosition(_ context.Context, positionID string) ([]model.LiquidityPositionSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.LiquidityPositionSnapshot, 0)
	for _, snapshot := range m.snapshots {
		if snapshot.LiquidityPosition == positionID {
			out = append(out, snapshot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}

func (m *Memory) LoadBundle(_ context.Context, id string) (*model.Bundle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if bundle, ok := m.bundles[id]; ok {
		return &bundle, nil
	}
	return nil, nil
}

func (m *Memory) SaveBundle(_ context.Context, bundle *model.Bundle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bundles[bundle.ID] = *bundle
	return nil
}

func (m *Memory) LoadBaseTransfer(_ context.Context, id string) (*model.BaseTransfer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if transfer, ok := m.transfers[id]; ok {
		return &transfer, nil
	}
	return nil, nil
}

func (m *Memory) SaveBaseTransfer(_ context.Context, transfer *model.BaseTransfer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers[transfer.ID] = *transfer
	return nil
}
