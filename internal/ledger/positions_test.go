package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"dexledger/internal/model"
	"dexledger/internal/store"
)

var (
	testPairAddr   = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	testToken0Addr = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	testToken1Addr = common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")
)

func seedPair(t *testing.T, mem *store.Memory) *model.Pair {
	t.Helper()
	ctx := context.Background()
	eight := uint8(8)
	eighteen := uint8(18)
	token0 := &model.Token{ID: AddressID(testToken0Addr), Symbol: "WBTC", Name: "Wrapped BTC", Decimals: &eight, DerivedBase: decimal.RequireFromString("14.2")}
	token1 := &model.Token{ID: AddressID(testToken1Addr), Symbol: "WETH", Name: "Wrapped Ether", Decimals: &eighteen, DerivedBase: decimal.NewFromInt(1)}
	if err := mem.SaveToken(ctx, token0); err != nil {
		t.Fatalf("save token0: %v", err)
	}
	if err := mem.SaveToken(ctx, token1); err != nil {
		t.Fatalf("save token1: %v", err)
	}
	pair := &model.Pair{
		ID:          AddressID(testPairAddr),
		Token0:      token0.ID,
		Token1:      token1.ID,
		Reserve0:    decimal.RequireFromString("10"),
		Reserve1:    decimal.RequireFromString("142"),
		TotalSupply: decimal.RequireFromString("37.6"),
		ReserveUSD:  decimal.RequireFromString("568000"),
	}
	if err := mem.SavePair(ctx, pair); err != nil {
		t.Fatalf("save pair: %v", err)
	}
	if err := mem.SaveBundle(ctx, &model.Bundle{ID: model.BundleID, BasePrice: decimal.RequireFromString("2000")}); err != nil {
		t.Fatalf("save bundle: %v", err)
	}
	return pair
}

func TestCreateOrLoadCountsDistinctProviders(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedPair(t, mem)
	positions := NewPositions(mem, nil)

	const providers = 3
	for i := 0; i < providers; i++ {
		user := common.HexToAddress(fmt.Sprintf("0x%040d", i+1))
		if _, err := positions.CreateOrLoad(ctx, testPairAddr, user); err != nil {
			t.Fatalf("create position %d: %v", i, err)
		}
		// Reloading the same position must not bump the count again.
		if _, err := positions.CreateOrLoad(ctx, testPairAddr, user); err != nil {
			t.Fatalf("reload position %d: %v", i, err)
		}
	}

	pair, err := mem.LoadPair(ctx, AddressID(testPairAddr))
	if err != nil {
		t.Fatalf("load pair: %v", err)
	}
	if pair.LiquidityProviderCount != providers {
		t.Fatalf("provider count = %d, want %d", pair.LiquidityProviderCount, providers)
	}
}

func TestCreateOrLoadMissingPair(t *testing.T) {
	ctx := context.Background()
	positions := NewPositions(store.NewMemory(), nil)

	_, err := positions.CreateOrLoad(ctx, testPairAddr, common.HexToAddress("0x1111111111111111111111111111111111111111"))
	if !errors.Is(err, ErrPairNotFound) {
		t.Fatalf("err = %v, want ErrPairNotFound", err)
	}
}

func TestSnapshotDistinctTimestamps(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	pair := seedPair(t, mem)
	positions := NewPositions(mem, nil)

	user := common.HexToAddress("0x1111111111111111111111111111111111111111")
	position, err := positions.CreateOrLoad(ctx, testPairAddr, user)
	if err != nil {
		t.Fatalf("create position: %v", err)
	}
	position.LiquidityTokenBalance = decimal.RequireFromString("1.5")

	for _, ts := range []uint64{1700000000, 1700000013} {
		event := &model.TypedEvent{Timestamp: ts, BlockNumber: 100}
		if err := positions.Snapshot(ctx, position, event); err != nil {
			t.Fatalf("snapshot at %d: %v", ts, err)
		}
	}

	snapshots, err := mem.SnapshotsByPosition(ctx, position.ID)
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("snapshot count = %d, want 2", len(snapshots))
	}
	first := snapshots[0]
	if first.ID != SnapshotID(position.ID, 1700000000) {
		t.Fatalf("snapshot id = %s", first.ID)
	}
	wantPrice0 := decimal.RequireFromString("28400") // 14.2 * 2000
	if !first.Token0PriceUSD.Equal(wantPrice0) {
		t.Fatalf("token0 price = %s, want %s", first.Token0PriceUSD, wantPrice0)
	}
	if !first.Reserve0.Equal(pair.Reserve0) || !first.LiquidityTokenTotalSupply.Equal(pair.TotalSupply) {
		t.Fatalf("snapshot did not capture pair state: %+v", first)
	}
	if !first.LiquidityTokenBalance.Equal(position.LiquidityTokenBalance) {
		t.Fatalf("snapshot balance = %s", first.LiquidityTokenBalance)
	}
}

func TestSnapshotSameTimestampOverwrites(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedPair(t, mem)
	positions := NewPositions(mem, nil)

	user := common.HexToAddress("0x1111111111111111111111111111111111111111")
	position, err := positions.CreateOrLoad(ctx, testPairAddr, user)
	if err != nil {
		t.Fatalf("create position: %v", err)
	}

	event := &model.TypedEvent{Timestamp: 1700000000, BlockNumber: 100}
	position.LiquidityTokenBalance = decimal.NewFromInt(1)
	if err := positions.Snapshot(ctx, position, event); err != nil {
		t.Fatalf("first snapshot: %v", err)
	}
	position.LiquidityTokenBalance = decimal.NewFromInt(2)
	if err := positions.Snapshot(ctx, position, event); err != nil {
		t.Fatalf("second snapshot: %v", err)
	}

	snapshots, err := mem.SnapshotsByPosition(ctx, position.ID)
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("snapshot count = %d, want 1", len(snapshots))
	}
	if !snapshots[0].LiquidityTokenBalance.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("overwrite kept stale balance: %s", snapshots[0].LiquidityTokenBalance)
	}
}
