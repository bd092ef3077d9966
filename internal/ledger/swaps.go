package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"dexledger/internal/model"
	"dexledger/internal/numeric"
)

var two = decimal.NewFromInt(2)

// handleSwap accrues the swap's USD volume onto the originating user. The
// USD value is the average of both sides priced through each token's
// derived base price and the bundle.
func (p *Processor) handleSwap(ctx context.Context, event *model.TypedEvent, data model.SwapEventData) error {
	sender, err := parseAddress(data.Sender)
	if err != nil {
		return err
	}
	pairAddr, err := parseAddress(event.Address)
	if err != nil {
		return err
	}
	pairID := AddressID(pairAddr)

	pair, err := p.store.LoadPair(ctx, pairID)
	if err != nil {
		return fmt.Errorf("load pair %s: %w", pairID, err)
	}
	if pair == nil {
		return fmt.Errorf("swap %s: %w", pairID, ErrPairNotFound)
	}

	token0, token1, err := p.loadPairTokens(ctx, pair)
	if err != nil {
		return err
	}
	if !token0.DecimalsResolved() {
		return fmt.Errorf("token %s: %w", token0.ID, ErrUnresolvedDecimals)
	}
	if !token1.DecimalsResolved() {
		return fmt.Errorf("token %s: %w", token1.ID, ErrUnresolvedDecimals)
	}

	amount0, err := sumAmounts(data.Amount0In, data.Amount0Out)
	if err != nil {
		return err
	}
	amount1, err := sumAmounts(data.Amount1In, data.Amount1Out)
	if err != nil {
		return err
	}

	bundle, err := p.store.LoadBundle(ctx, model.BundleID)
	if err != nil {
		return fmt.Errorf("load bundle: %w", err)
	}
	if bundle == nil {
		return ErrBundleNotFound
	}

	total0 := numeric.ConvertTokenAmount(amount0, *token0.Decimals)
	total1 := numeric.ConvertTokenAmount(amount1, *token1.Decimals)
	price0 := token0.DerivedBase.Mul(bundle.BasePrice)
	price1 := token1.DerivedBase.Mul(bundle.BasePrice)
	volumeUSD := total0.Mul(price0).Add(total1.Mul(price1)).Div(two)

	user, err := p.users.CreateUser(ctx, sender)
	if err != nil {
		return err
	}
	user.USDSwapped = user.USDSwapped.Add(volumeUSD)
	if err := p.store.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("save user %s: %w", user.ID, err)
	}
	return nil
}

func sumAmounts(in, out string) (*big.Int, error) {
	inAmount, err := parseAmount(in)
	if err != nil {
		return nil, err
	}
	outAmount, err := parseAmount(out)
	if err != nil {
		return nil, err
	}
	return inAmount.Add(inAmount, outAmount), nil
}
