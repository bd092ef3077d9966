package model

import (
	"encoding/json"
	"fmt"
)

// LogRecord is the normalized representation of a chain log.
type LogRecord struct {
	ChainID     uint64   `json:"chain_id"`
	BlockNumber uint64   `json:"block_number"`
	BlockHash   string   `json:"block_hash"`
	TxHash      string   `json:"tx_hash"`
	TxIndex     uint64   `json:"tx_index"`
	LogIndex    uint64   `json:"log_index"`
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	Removed     bool     `json:"removed"`
	Timestamp   uint64   `json:"timestamp"`
}

// TypedEvent is a decoded chain event with its block context. Events arrive
// in canonical order (block number, tx index, log index) and are processed
// one at a time.
type TypedEvent struct {
	ChainID     uint64      `json:"chain_id"`
	BlockNumber uint64      `json:"block_number"`
	BlockHash   string      `json:"block_hash"`
	TxHash      string      `json:"tx_hash"`
	TxIndex     uint64      `json:"tx_index"`
	LogIndex    uint64      `json:"log_index"`
	Address     string      `json:"address"`
	EventName   string      `json:"event_name"`
	Timestamp   uint64      `json:"timestamp"`
	Decoded     interface{} `json:"decoded"`
}

// TypedEventRecord is the JSON journal form of TypedEvent; Decoded stays raw
// until the event name selects a concrete payload.
type TypedEventRecord struct {
	ChainID     uint64          `json:"chain_id"`
	BlockNumber uint64          `json:"block_number"`
	BlockHash   string          `json:"block_hash"`
	TxHash      string          `json:"tx_hash"`
	TxIndex     uint64          `json:"tx_index"`
	LogIndex    uint64          `json:"log_index"`
	Address     string          `json:"address"`
	EventName   string          `json:"event_name"`
	Timestamp   uint64          `json:"timestamp"`
	Decoded     json.RawMessage `json:"decoded"`
}

// ToTypedEvent decodes the raw payload according to the event name.
func (r TypedEventRecord) ToTypedEvent() (*TypedEvent, error) {
	event := &TypedEvent{
		ChainID:     r.ChainID,
		BlockNumber: r.BlockNumber,
		BlockHash:   r.BlockHash,
		TxHash:      r.TxHash,
		TxIndex:     r.TxIndex,
		LogIndex:    r.LogIndex,
		Address:     r.Address,
		EventName:   r.EventName,
		Timestamp:   r.Timestamp,
	}

	var err error
	switch r.EventName {
	case "PairCreated":
		var data PairCreatedEventData
		err = json.Unmarshal(r.Decoded, &data)
		event.Decoded = data
	case "Transfer":
		var data TransferEventData
		err = json.Unmarshal(r.Decoded, &data)
		event.Decoded = data
	case "Mint":
		var data MintEventData
		err = json.Unmarshal(r.Decoded, &data)
		event.Decoded = data
	case "Burn":
		var data BurnEventData
		err = json.Unmarshal(r.Decoded, &data)
		event.Decoded = data
	case "Swap":
		var data SwapEventData
		err = json.Unmarshal(r.Decoded, &data)
		event.Decoded = data
	case "Sync":
		var data SyncEventData
		err = json.Unmarshal(r.Decoded, &data)
		event.Decoded = data
	default:
		return nil, fmt.Errorf("unknown event name: %s", r.EventName)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", r.EventName, err)
	}
	return event, nil
}
