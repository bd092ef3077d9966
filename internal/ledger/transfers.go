package ledger

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dexledger/internal/model"
)

// handleBaseTransfer records a ledger entry for a base-token transfer. The
// sender and receiver balances are read from chain at processing time; a
// reverting balance query fails the whole event rather than recording a
// fabricated zero.
func (p *Processor) handleBaseTransfer(ctx context.Context, event *model.TypedEvent, data model.TransferEventData) error {
	from, err := parseAddress(data.From)
	if err != nil {
		return err
	}
	to, err := parseAddress(data.To)
	if err != nil {
		return err
	}

	userFrom, err := p.users.CreateUser(ctx, from)
	if err != nil {
		return err
	}
	userTo, err := p.users.CreateUser(ctx, to)
	if err != nil {
		return err
	}

	symbol := p.resolver.FetchSymbol(ctx, p.baseToken)

	balanceFrom, err := p.resolver.BalanceOf(ctx, p.baseToken, from)
	if err != nil {
		return fmt.Errorf("balance of %s: %w", userFrom.ID, err)
	}
	balanceTo, err := p.resolver.BalanceOf(ctx, p.baseToken, to)
	if err != nil {
		return fmt.Errorf("balance of %s: %w", userTo.ID, err)
	}

	transfer := &model.BaseTransfer{
		ID:                TransferID(event.TxHash),
		From:              userFrom.ID,
		To:                userTo.ID,
		Symbol:            symbol,
		AmountTransferred: data.Value,
		BalanceFrom:       balanceFrom.String(),
		BalanceTo:         balanceTo.String(),
		Timestamp:         event.Timestamp,
		Block:             event.BlockNumber,
	}
	if err := p.store.SaveBaseTransfer(ctx, transfer); err != nil {
		return fmt.Errorf("save base transfer %s: %w", transfer.ID, err)
	}

	userFrom.LastTransferTimestamp = event.Timestamp
	if err := p.store.SaveUser(ctx, userFrom); err != nil {
		return fmt.Errorf("save user %s: %w", userFrom.ID, err)
	}
	userTo.LastTransferTimestamp = event.Timestamp
	if err := p.store.SaveUser(ctx, userTo); err != nil {
		return fmt.Errorf("save user %s: %w", userTo.ID, err)
	}

	p.logger.Debug("base transfer recorded",
		zap.String("tx", transfer.ID),
		zap.String("from", userFrom.ID),
		zap.String("to", userTo.ID),
	)
	return nil
}
