package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"dexledger/internal/model"
)

func TestMemoryAbsenceIsNilNil(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	user, err := m.LoadUser(ctx, "0x1111111111111111111111111111111111111111")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil for absent user, got %+v", user)
	}
}

func TestMemoryLoadReturnsCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	saved := &model.User{ID: "0xaaaa", USDSwapped: decimal.Zero}
	if err := m.SaveUser(ctx, saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := m.LoadUser(ctx, "0xaaaa")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	loaded.LastTransferTimestamp = 42

	again, err := m.LoadUser(ctx, "0xaaaa")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.LastTransferTimestamp != 0 {
		t.Fatalf("mutation leaked into the store: %+v", again)
	}
}

func TestMemorySnapshotsByPosition(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for _, ts := range []uint64{300, 100, 200} {
		snapshot := &model.LiquidityPositionSnapshot{
			ID:                fmt.Sprintf("pos-a%d", ts),
			LiquidityPosition: "pos-a",
			Timestamp:         ts,
		}
		if err := m.SaveSnapshot(ctx, snapshot); err != nil {
			t.Fatalf("save snapshot: %v", err)
		}
	}
	if err := m.SaveSnapshot(ctx, &model.LiquidityPositionSnapshot{ID: "pos-b100", LiquidityPosition: "pos-b", Timestamp: 100}); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	got, err := m.SnapshotsByPosition(ctx, "pos-a")
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(got))
	}
	if got[0].Timestamp != 100 || got[2].Timestamp != 300 {
		t.Fatalf("snapshots not ordered by timestamp: %+v", got)
	}
}
