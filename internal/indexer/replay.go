package indexer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dexledger/internal/ledger"
	"dexledger/internal/model"
	"dexledger/internal/storage"
)

// Replay re-applies a journal file to the entity ledger in write order.
// Balance reads still go to chain, so a replay against a different RPC node
// reflects that node's current state.
func Replay(ctx context.Context, path string, processor *ledger.Processor, logger *zap.Logger) error {
	if processor == nil {
		return fmt.Errorf("processor is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	count := 0
	err := storage.ScanJournal(path, func(event *model.TypedEvent) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := processor.Process(ctx, event); err != nil {
			return fmt.Errorf("process %s at block %d: %w", event.EventName, event.BlockNumber, err)
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("replay complete", zap.Int("events", count))
	return nil
}
