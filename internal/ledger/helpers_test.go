package ledger

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"dexledger/internal/erc20"
)

// fakeChain answers contract calls from a fixed (address, calldata) table
// and reverts everything else.
type fakeChain struct {
	responses map[common.Address]map[string][]byte
	calls     int
}

func newFakeChain() *fakeChain {
	return &fakeChain{responses: make(map[common.Address]map[string][]byte)}
}

func (f *fakeChain) stub(t *testing.T, target common.Address, method string, response []byte, args ...interface{}) {
	t.Helper()
	parsed, err := erc20.StringABI()
	if err != nil {
		t.Fatalf("string abi: %v", err)
	}
	calldata, err := parsed.Pack(method, args...)
	if err != nil {
		t.Fatalf("pack %s: %v", method, err)
	}
	if f.responses[target] == nil {
		f.responses[target] = make(map[string][]byte)
	}
	f.responses[target][hexutil.Encode(calldata)] = response
}

func (f *fakeChain) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls++
	if msg.To == nil {
		return nil, errors.New("missing target")
	}
	byCalldata, ok := f.responses[*msg.To]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	resp, ok := byCalldata[hexutil.Encode(msg.Data)]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return resp, nil
}

func packOutput(t *testing.T, method string, values ...interface{}) []byte {
	t.Helper()
	parsed, err := erc20.StringABI()
	if err != nil {
		t.Fatalf("string abi: %v", err)
	}
	data, err := parsed.Methods[method].Outputs.Pack(values...)
	if err != nil {
		t.Fatalf("pack %s output: %v", method, err)
	}
	return data
}

// stubToken wires symbol, name, decimals and totalSupply for one token.
func stubToken(t *testing.T, chain *fakeChain, token common.Address, symbol, name string, decimals uint8, supply *big.Int) {
	t.Helper()
	chain.stub(t, token, "symbol", packOutput(t, "symbol", symbol))
	chain.stub(t, token, "name", packOutput(t, "name", name))
	chain.stub(t, token, "decimals", packOutput(t, "decimals", decimals))
	chain.stub(t, token, "totalSupply", packOutput(t, "totalSupply", supply))
}
