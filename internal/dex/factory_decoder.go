package dex

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"dexledger/internal/model"
)

// FactoryDecoder decodes V2 factory PairCreated events.
type FactoryDecoder struct {
	factoryABI       abi.ABI
	pairCreatedTopic string
}

// NewFactoryDecoder builds a factory decoder.
func NewFactoryDecoder() (*FactoryDecoder, error) {
	factoryABI, err := FactoryABI()
	if err != nil {
		return nil, err
	}
	return &FactoryDecoder{
		factoryABI:       factoryABI,
		pairCreatedTopic: strings.ToLower(factoryABI.Events["PairCreated"].ID.Hex()),
	}, nil
}

// CanDecode checks if the topic0 is supported.
func (d *FactoryDecoder) CanDecode(topic0 string) bool {
	return topic0 != "" && strings.ToLower(topic0) == d.pairCreatedTopic
}

// Decode converts a LogRecord into a TypedEvent.
func (d *FactoryDecoder) Decode(log model.LogRecord) (*model.TypedEvent, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("missing topics")
	}
	if !d.CanDecode(log.Topics[0]) {
		return nil, fmt.Errorf("unsupported topic0: %s", log.Topics[0])
	}

	event := d.factoryABI.Events["PairCreated"]
	indexedTopics, err := parseIndexedTopics(event, log.Topics)
	if err != nil {
		return nil, err
	}

	var indexed struct {
		Token0 common.Address
		Token1 common.Address
	}
	if err := abi.ParseTopics(&indexed, indexedArguments(event.Inputs), indexedTopics); err != nil {
		return nil, fmt.Errorf("parse topics: %w", err)
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected pair created values: %d", len(values))
	}

	pair, err := asAddress(values[0])
	if err != nil {
		return nil, err
	}

	decoded := model.PairCreatedEventData{
		Token0: indexed.Token0.Hex(),
		Token1: indexed.Token1.Hex(),
		Pair:   pair.Hex(),
	}
	return buildTypedEvent(log, "PairCreated", decoded), nil
}
