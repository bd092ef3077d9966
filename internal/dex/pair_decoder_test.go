package dex

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"dexledger/internal/model"
)

func TestPairDecoderTransfer(t *testing.T) {
	pairABI, err := PairABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder, err := NewPairDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	pair := common.HexToAddress("0x1111111111111111111111111111111111111111")
	from := common.HexToAddress("0x2222222222222222222222222222222222222222")
	to := common.HexToAddress("0x3333333333333333333333333333333333333333")

	data, err := pairABI.Events["Transfer"].Inputs.NonIndexed().Pack(
		big.NewInt(1000),
	)
	if err != nil {
		t.Fatalf("pack transfer: %v", err)
	}

	logRecord := buildLogRecord(pair, pairABI.Events["Transfer"].ID, data, []common.Hash{
		topicFromAddress(from),
		topicFromAddress(to),
	})

	event, err := decoder.Decode(logRecord)
	if err != nil {
		t.Fatalf("decode transfer: %v", err)
	}
	if event.EventName != "Transfer" {
		t.Fatalf("event name: %s", event.EventName)
	}

	transfer, ok := event.Decoded.(model.TransferEventData)
	if !ok {
		t.Fatalf("decoded type mismatch")
	}
	if transfer.From != from.Hex() || transfer.To != to.Hex() {
		t.Fatalf("address mismatch: %+v", transfer)
	}
	if transfer.Value != "1000" {
		t.Fatalf("value mismatch: %s", transfer.Value)
	}
}

func TestPairDecoderMintBurnSwapSync(t *testing.T) {
	pairABI, err := PairABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder, err := NewPairDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	pair := common.HexToAddress("0x9999999999999999999999999999999999999999")
	sender := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	to := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	mintData, err := pairABI.Events["Mint"].Inputs.NonIndexed().Pack(
		big.NewInt(100),
		big.NewInt(200),
	)
	if err != nil {
		t.Fatalf("pack mint: %v", err)
	}

	mintLog := buildLogRecord(pair, pairABI.Events["Mint"].ID, mintData, []common.Hash{
		topicFromAddress(sender),
	})

	mintEvent, err := decoder.Decode(mintLog)
	if err != nil {
		t.Fatalf("decode mint: %v", err)
	}
	mint, ok := mintEvent.Decoded.(model.MintEventData)
	if !ok {
		t.Fatalf("mint type mismatch")
	}
	if mint.Sender != sender.Hex() || mint.Amount0 != "100" || mint.Amount1 != "200" {
		t.Fatalf("mint mismatch: %+v", mint)
	}

	burnData, err := pairABI.Events["Burn"].Inputs.NonIndexed().Pack(
		big.NewInt(300),
		big.NewInt(400),
	)
	if err != nil {
		t.Fatalf("pack burn: %v", err)
	}

	burnLog := buildLogRecord(pair, pairABI.Events["Burn"].ID, burnData, []common.Hash{
		topicFromAddress(sender),
		topicFromAddress(to),
	})

	burnEvent, err := decoder.Decode(burnLog)
	if err != nil {
		t.Fatalf("decode burn: %v", err)
	}
	burn, ok := burnEvent.Decoded.(model.BurnEventData)
	if !ok {
		t.Fatalf("burn type mismatch")
	}
	if burn.To != to.Hex() || burn.Amount0 != "300" || burn.Amount1 != "400" {
		t.Fatalf("burn mismatch: %+v", burn)
	}

	swapData, err := pairABI.Events["Swap"].Inputs.NonIndexed().Pack(
		big.NewInt(1000),
		big.NewInt(0),
		big.NewInt(0),
		big.NewInt(2000),
	)
	if err != nil {
		t.Fatalf("pack swap: %v", err)
	}

	swapLog := buildLogRecord(pair, pairABI.Events["Swap"].ID, swapData, []common.Hash{
		topicFromAddress(sender),
		topicFromAddress(to),
	})

	swapEvent, err := decoder.Decode(swapLog)
	if err != nil {
		t.Fatalf("decode swap: %v", err)
	}
	swap, ok := swapEvent.Decoded.(model.SwapEventData)
	if !ok {
		t.Fatalf("swap type mismatch")
	}
	if swap.Amount0In != "1000" || swap.Amount1Out != "2000" {
		t.Fatalf("swap amounts mismatch: %+v", swap)
	}
	if swap.Amount1In != "0" || swap.Amount0Out != "0" {
		t.Fatalf("swap zero legs mismatch: %+v", swap)
	}

	syncData, err := pairABI.Events["Sync"].Inputs.NonIndexed().Pack(
		big.NewInt(150000000),
		big.NewInt(3000000),
	)
	if err != nil {
		t.Fatalf("pack sync: %v", err)
	}

	syncLog := buildLogRecord(pair, pairABI.Events["Sync"].ID, syncData, nil)

	syncEvent, err := decoder.Decode(syncLog)
	if err != nil {
		t.Fatalf("decode sync: %v", err)
	}
	sync, ok := syncEvent.Decoded.(model.SyncEventData)
	if !ok {
		t.Fatalf("sync type mismatch")
	}
	if sync.Reserve0 != "150000000" || sync.Reserve1 != "3000000" {
		t.Fatalf("sync mismatch: %+v", sync)
	}
}

func TestPairDecoderRejectsUnknownTopic(t *testing.T) {
	decoder, err := NewPairDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	if decoder.CanDecode("0xdeadbeef") {
		t.Fatal("unknown topic0 accepted")
	}
	if decoder.CanDecode("") {
		t.Fatal("empty topic0 accepted")
	}
}

func buildLogRecord(address common.Address, topic0 common.Hash, data []byte, indexed []common.Hash) model.LogRecord {
	topics := make([]string, 0, len(indexed)+1)
	topics = append(topics, topic0.Hex())
	for _, topic := range indexed {
		topics = append(topics, topic.Hex())
	}

	return model.LogRecord{
		ChainID:     1,
		BlockNumber: 12345,
		BlockHash:   "0xabc",
		TxHash:      "0xdef",
		LogIndex:    1,
		Address:     address.Hex(),
		Topics:      topics,
		Data:        hexutil.Encode(data),
		Timestamp:   1700000000,
	}
}

func topicFromAddress(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}
