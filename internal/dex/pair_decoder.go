package dex

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"dexledger/internal/model"
)

// PairDecoder decodes V2 pair events: share transfers, liquidity changes,
// swaps and reserve syncs.
type PairDecoder struct {
	pairABI     abi.ABI
	topicToName map[string]string
}

// NewPairDecoder builds a pair decoder.
func NewPairDecoder() (*PairDecoder, error) {
	pairABI, err := PairABI()
	if err != nil {
		return nil, err
	}

	topicToName := map[string]string{
		strings.ToLower(pairABI.Events["Transfer"].ID.Hex()): "Transfer",
		strings.ToLower(pairABI.Events["Mint"].ID.Hex()):     "Mint",
		strings.ToLower(pairABI.Events["Burn"].ID.Hex()):     "Burn",
		strings.ToLower(pairABI.Events["Swap"].ID.Hex()):     "Swap",
		strings.ToLower(pairABI.Events["Sync"].ID.Hex()):     "Sync",
	}

	return &PairDecoder{
		pairABI:     pairABI,
		topicToName: topicToName,
	}, nil
}

// CanDecode checks if the topic0 is supported.
func (d *PairDecoder) CanDecode(topic0 string) bool {
	if topic0 == "" {
		return false
	}
	_, ok := d.topicToName[strings.ToLower(topic0)]
	return ok
}

// Decode converts a LogRecord into a TypedEvent.
func (d *PairDecoder) Decode(log model.LogRecord) (*model.TypedEvent, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("missing topics")
	}
	name, ok := d.topicToName[strings.ToLower(log.Topics[0])]
	if !ok {
		return nil, fmt.Errorf("unsupported topic0: %s", log.Topics[0])
	}

	if !common.IsHexAddress(log.Address) {
		return nil, fmt.Errorf("invalid pair address: %s", log.Address)
	}

	switch name {
	case "Transfer":
		decoded, err := d.decodeTransfer(log)
		if err != nil {
			return nil, err
		}
		return buildTypedEvent(log, name, decoded), nil
	case "Mint":
		decoded, err := d.decodeMint(log)
		if err != nil {
			return nil, err
		}
		return buildTypedEvent(log, name, decoded), nil
	case "Burn":
		decoded, err := d.decodeBurn(log)
		if err != nil {
			return nil, err
		}
		return buildTypedEvent(log, name, decoded), nil
	case "Swap":
		decoded, err := d.decodeSwap(log)
		if err != nil {
			return nil, err
		}
		return buildTypedEvent(log, name, decoded), nil
	case "Sync":
		decoded, err := d.decodeSync(log)
		if err != nil {
			return nil, err
		}
		return buildTypedEvent(log, name, decoded), nil
	default:
		return nil, fmt.Errorf("unsupported event name: %s", name)
	}
}

func (d *PairDecoder) decodeTransfer(log model.LogRecord) (model.TransferEventData, error) {
	event := d.pairABI.Events["Transfer"]
	indexedTopics, err := parseIndexedTopics(event, log.Topics)
	if err != nil {
		return model.TransferEventData{}, err
	}

	var indexed struct {
		From common.Address
		To   common.Address
	}
	if err := abi.ParseTopics(&indexed, indexedArguments(event.Inputs), indexedTopics); err != nil {
		return model.TransferEventData{}, fmt.Errorf("parse topics: %w", err)
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return model.TransferEventData{}, err
	}
	if len(values) != 1 {
		return model.TransferEventData{}, fmt.Errorf("unexpected transfer values: %d", len(values))
	}

	value, err := asBigInt(values[0])
	if err != nil {
		return model.TransferEventData{}, err
	}

	return model.TransferEventData{
		From:  indexed.From.Hex(),
		To:    indexed.To.Hex(),
		Value: value.String(),
	}, nil
}

func (d *PairDecoder) decodeMint(log model.LogRecord) (model.MintEventData, error) {
	event := d.pairABI.Events["Mint"]
	indexedTopics, err := parseIndexedTopics(event, log.Topics)
	if err != nil {
		return model.MintEventData{}, err
	}

	var indexed struct {
		Sender common.Address
	}
	if err := abi.ParseTopics(&indexed, indexedArguments(event.Inputs), indexedTopics); err != nil {
		return model.MintEventData{}, fmt.Errorf("parse topics: %w", err)
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return model.MintEventData{}, err
	}
	if len(values) != 2 {
		return model.MintEventData{}, fmt.Errorf("unexpected mint values: %d", len(values))
	}

	amount0, err := asBigInt(values[0])
	if err != nil {
		return model.MintEventData{}, err
	}
	amount1, err := asBigInt(values[1])
	if err != nil {
		return model.MintEventData{}, err
	}

	return model.MintEventData{
		Sender:  indexed.Sender.Hex(),
		Amount0: amount0.String(),
		Amount1: amount1.String(),
	}, nil
}

func (d *PairDecoder) decodeBurn(log model.LogRecord) (model.BurnEventData, error) {
	event := d.pairABI.Events["Burn"]
	indexedTopics, err := parseIndexedTopics(event, log.Topics)
	if err != nil {
		return model.BurnEventData{}, err
	}

	var indexed struct {
		Sender common.Address
		To     common.Address
	}
	if err := abi.ParseTopics(&indexed, indexedArguments(event.Inputs), indexedTopics); err != nil {
		return model.BurnEventData{}, fmt.Errorf("parse topics: %w", err)
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return model.BurnEventData{}, err
	}
	if len(values) != 2 {
		return model.BurnEventData{}, fmt.Errorf("unexpected burn values: %d", len(values))
	}

	amount0, err := asBigInt(values[0])
	if err != nil {
		return model.BurnEventData{}, err
	}
	amount1, err := asBigInt(values[1])
	if err != nil {
		return model.BurnEventData{}, err
	}

	return model.BurnEventData{
		Sender:  indexed.Sender.Hex(),
		To:      indexed.To.Hex(),
		Amount0: amount0.String(),
		Amount1: amount1.String(),
	}, nil
}

func (d *PairDecoder) decodeSwap(log model.LogRecord) (model.SwapEventData, error) {
	event := d.pairABI.Events["Swap"]
	indexedTopics, err := parseIndexedTopics(event, log.Topics)
	if err != nil {
		return model.SwapEventData{}, err
	}

	var indexed struct {
		Sender common.Address
		To     common.Address
	}
	if err := abi.ParseTopics(&indexed, indexedArguments(event.Inputs), indexedTopics); err != nil {
		return model.SwapEventData{}, fmt.Errorf("parse topics: %w", err)
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return model.SwapEventData{}, err
	}
	if len(values) != 4 {
		return model.SwapEventData{}, fmt.Errorf("unexpected swap values: %d", len(values))
	}

	amounts := make([]string, 0, 4)
	for _, value := range values {
		amount, err := asBigInt(value)
		if err != nil {
			return model.SwapEventData{}, err
		}
		amounts = append(amounts, amount.String())
	}

	return model.SwapEventData{
		Sender:     indexed.Sender.Hex(),
		To:         indexed.To.Hex(),
		Amount0In:  amounts[0],
		Amount1In:  amounts[1],
		Amount0Out: amounts[2],
		Amount1Out: amounts[3],
	}, nil
}

func (d *PairDecoder) decodeSync(log model.LogRecord) (model.SyncEventData, error) {
	event := d.pairABI.Events["Sync"]
	if _, err := parseIndexedTopics(event, log.Topics); err != nil {
		return model.SyncEventData{}, err
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return model.SyncEventData{}, err
	}
	if len(values) != 2 {
		return model.SyncEventData{}, fmt.Errorf("unexpected sync values: %d", len(values))
	}

	reserve0, err := asBigInt(values[0])
	if err != nil {
		return model.SyncEventData{}, err
	}
	reserve1, err := asBigInt(values[1])
	if err != nil {
		return model.SyncEventData{}, err
	}

	return model.SyncEventData{
		Reserve0: reserve0.String(),
		Reserve1: reserve1.String(),
	}, nil
}
