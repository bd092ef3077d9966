package model

import (
	"encoding/json"
	"testing"
)

func TestTypedEventRecordToTypedEvent(t *testing.T) {
	payload, err := json.Marshal(TransferEventData{
		From:  "0x1111111111111111111111111111111111111111",
		To:    "0x2222222222222222222222222222222222222222",
		Value: "1000000000000000000",
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	record := TypedEventRecord{
		ChainID:     1,
		BlockNumber: 100,
		TxHash:      "0xabc",
		LogIndex:    3,
		Address:     "0x2260fac5e5542a773aa44fbcfedf7c193bc2c599",
		EventName:   "Transfer",
		Timestamp:   1700000000,
		Decoded:     payload,
	}

	event, err := record.ToTypedEvent()
	if err != nil {
		t.Fatalf("to typed event: %v", err)
	}

	transfer, ok := event.Decoded.(TransferEventData)
	if !ok {
		t.Fatalf("decoded type mismatch: %T", event.Decoded)
	}
	if transfer.Value != "1000000000000000000" {
		t.Fatalf("value mismatch: %s", transfer.Value)
	}
	if event.Timestamp != 1700000000 || event.BlockNumber != 100 {
		t.Fatalf("context mismatch: %+v", event)
	}
}

func TestTypedEventRecordUnknownName(t *testing.T) {
	record := TypedEventRecord{EventName: "Approval", Decoded: json.RawMessage(`{}`)}
	if _, err := record.ToTypedEvent(); err == nil {
		t.Fatalf("expected error for unknown event name")
	}
}
