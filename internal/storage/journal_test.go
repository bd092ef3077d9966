package storage

import (
	"path/filepath"
	"testing"

	"dexledger/internal/model"
)

func TestJournalRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	journal := NewJsonlJournal(path)

	events := []*model.TypedEvent{
		{
			BlockNumber: 100,
			TxHash:      "0xabc",
			LogIndex:    0,
			Address:     "0x1111111111111111111111111111111111111111",
			EventName:   "Sync",
			Timestamp:   1700000000,
			Decoded:     model.SyncEventData{Reserve0: "1", Reserve1: "2"},
		},
		{
			BlockNumber: 100,
			TxHash:      "0xabc",
			LogIndex:    1,
			Address:     "0x1111111111111111111111111111111111111111",
			EventName:   "Swap",
			Timestamp:   1700000000,
			Decoded: model.SwapEventData{
				Sender:     "0x2222222222222222222222222222222222222222",
				To:         "0x3333333333333333333333333333333333333333",
				Amount0In:  "10",
				Amount1In:  "0",
				Amount0Out: "0",
				Amount1Out: "20",
			},
		},
	}
	if err := journal.PutEventBatch(events); err != nil {
		t.Fatalf("put batch: %v", err)
	}
	// Appending an empty batch is a no-op.
	if err := journal.PutEventBatch(nil); err != nil {
		t.Fatalf("put empty batch: %v", err)
	}

	var replayed []*model.TypedEvent
	err := ScanJournal(path, func(event *model.TypedEvent) error {
		replayed = append(replayed, event)
		return nil
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(replayed) != 2 {
		t.Fatalf("replayed %d events, want 2", len(replayed))
	}

	sync, ok := replayed[0].Decoded.(model.SyncEventData)
	if !ok {
		t.Fatalf("first decoded type %T", replayed[0].Decoded)
	}
	if sync.Reserve0 != "1" || sync.Reserve1 != "2" {
		t.Fatalf("sync mismatch: %+v", sync)
	}

	swap, ok := replayed[1].Decoded.(model.SwapEventData)
	if !ok {
		t.Fatalf("second decoded type %T", replayed[1].Decoded)
	}
	if swap.Amount0In != "10" || swap.Amount1Out != "20" {
		t.Fatalf("swap mismatch: %+v", swap)
	}
	if replayed[1].LogIndex != 1 {
		t.Fatalf("log index mismatch: %d", replayed[1].LogIndex)
	}
}
