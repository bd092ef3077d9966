package ledger

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"dexledger/internal/store"
)

func TestCreateUserIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	registry := NewRegistry(mem, nil)
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")

	user, err := registry.CreateUser(ctx, addr)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.ID != AddressID(addr) {
		t.Fatalf("id = %s, want %s", user.ID, AddressID(addr))
	}
	if !user.USDSwapped.IsZero() || user.LastTransferTimestamp != 0 {
		t.Fatalf("new user not zeroed: %+v", user)
	}

	user.USDSwapped = decimal.RequireFromString("42.5")
	user.LastTransferTimestamp = 1700000000
	if err := mem.SaveUser(ctx, user); err != nil {
		t.Fatalf("save: %v", err)
	}

	again, err := registry.CreateUser(ctx, addr)
	if err != nil {
		t.Fatalf("create again: %v", err)
	}
	if !again.USDSwapped.Equal(user.USDSwapped) || again.LastTransferTimestamp != 1700000000 {
		t.Fatalf("existing user was reset: %+v", again)
	}
}

func TestLookupDoesNotCreate(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(store.NewMemory(), nil)
	addr := common.HexToAddress("0x2222222222222222222222222222222222222222")

	user, err := registry.Lookup(ctx, addr)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if user != nil {
		t.Fatalf("lookup created a user: %+v", user)
	}
}
