package indexer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"dexledger/internal/chain"
	"dexledger/internal/dex"
	"dexledger/internal/ledger"
	"dexledger/internal/model"
	"dexledger/internal/storage"
	"dexledger/internal/store"
)

// RunConfig holds runtime settings for the indexer.
type RunConfig struct {
	Factory      common.Address
	BaseToken    common.Address
	FromBlock    uint64
	ToBlock      uint64
	BatchSize    uint64
	MaxRetries   int
	RetryBackoff time.Duration
}

// Runner streams logs from the chain, decodes them and applies them to the
// entity ledger in canonical chain order. Decoded events are appended to the
// journal after the batch is applied, so the journal only ever contains
// events the ledger has seen.
type Runner struct {
	cfg            RunConfig
	chain          *chain.Client
	factoryDecoder *dex.FactoryDecoder
	pairDecoder    *dex.PairDecoder
	processor      *ledger.Processor
	entities       store.EntityStore
	journal        storage.Journal
	checkpoint     Checkpointer
	logger         *zap.Logger
	seen           map[string]struct{}
}

// NewRunner builds a Runner with its dependencies. The journal and
// checkpoint may be nil to disable them.
func NewRunner(
	cfg RunConfig,
	chainClient *chain.Client,
	processor *ledger.Processor,
	entities store.EntityStore,
	journal storage.Journal,
	checkpoint Checkpointer,
	logger *zap.Logger,
) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	factoryDecoder, err := dex.NewFactoryDecoder()
	if err != nil {
		return nil, err
	}
	pairDecoder, err := dex.NewPairDecoder()
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:            cfg,
		chain:          chainClient,
		factoryDecoder: factoryDecoder,
		pairDecoder:    pairDecoder,
		processor:      processor,
		entities:       entities,
		journal:        journal,
		checkpoint:     checkpoint,
		logger:         logger,
		seen:           make(map[string]struct{}),
	}, nil
}

// Run executes the indexing loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.chain == nil {
		return fmt.Errorf("chain client is nil")
	}
	if r.processor == nil {
		return fmt.Errorf("processor is nil")
	}
	if r.entities == nil {
		return fmt.Errorf("entity store is nil")
	}
	if r.cfg.BatchSize == 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}
	if r.cfg.Factory == (common.Address{}) {
		return fmt.Errorf("factory address is required")
	}

	chainID, err := r.chain.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}
	if !chainID.IsUint64() {
		return fmt.Errorf("chain id does not fit in uint64: %s", chainID)
	}
	chainIDValue := chainID.Uint64()

	from := r.cfg.FromBlock
	to := r.cfg.ToBlock
	if to == 0 {
		latest, err := r.chain.LatestBlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("get latest block: %w", err)
		}
		to = latest
	}

	if r.checkpoint != nil {
		last, ok, err := r.checkpoint.Load(ctx)
		if err != nil {
			return err
		}
		if ok && last >= from {
			from = last + 1
			r.logger.Info("resume from checkpoint", zap.Uint64("last_processed", last), zap.Uint64("from", from))
		}
	}

	if from > to {
		r.logger.Info("nothing to sync", zap.Uint64("from", from), zap.Uint64("to", to))
		return nil
	}

	ranges, err := SplitRange(from, to, r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, blockRange := range ranges {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.logger.Info("fetch logs", zap.Uint64("from", blockRange.From), zap.Uint64("to", blockRange.To))

		logs, err := r.filterLogsWithRetry(ctx, blockRange.From, blockRange.To)
		if err != nil {
			return fmt.Errorf("filter logs: %w", err)
		}
		sortLogs(logs)

		events := make([]*model.TypedEvent, 0, len(logs))
		for _, log := range logs {
			if log.Removed || r.isDuplicate(log) {
				continue
			}

			decoder, err := r.selectDecoder(ctx, log)
			if err != nil {
				return err
			}
			if decoder == nil {
				continue
			}

			ts, err := r.blockTimestampWithRetry(ctx, log.BlockNumber)
			if err != nil {
				return fmt.Errorf("block timestamp %d: %w", log.BlockNumber, err)
			}

			event, err := decoder.Decode(buildLogRecord(chainIDValue, log, ts))
			if err != nil {
				r.logger.Warn("decode log failed",
					zap.Error(err),
					zap.String("tx", log.TxHash.Hex()),
					zap.Uint64("block", log.BlockNumber),
				)
				continue
			}

			if err := r.processor.Process(ctx, event); err != nil {
				return fmt.Errorf("process %s at block %d: %w", event.EventName, event.BlockNumber, err)
			}
			events = append(events, event)
		}

		if r.journal != nil {
			if err := r.journal.PutEventBatch(events); err != nil {
				return fmt.Errorf("journal events: %w", err)
			}
		}

		if r.checkpoint != nil {
			if err := r.checkpoint.Save(ctx, blockRange.To); err != nil {
				return err
			}
		}

		r.logger.Info("batch complete",
			zap.Int("events", len(events)),
			zap.Uint64("from", blockRange.From),
			zap.Uint64("to", blockRange.To),
		)
	}

	return nil
}

// selectDecoder routes a log to the decoder for its emitting contract. Logs
// from contracts the ledger does not track yield a nil decoder and are
// skipped.
func (r *Runner) selectDecoder(ctx context.Context, log types.Log) (dex.Decoder, error) {
	topic0 := ""
	if len(log.Topics) > 0 {
		topic0 = log.Topics[0].Hex()
	}

	switch log.Address {
	case r.cfg.Factory:
		if r.factoryDecoder.CanDecode(topic0) {
			return r.factoryDecoder, nil
		}
		return nil, nil
	case r.cfg.BaseToken:
		if r.pairDecoder.CanDecode(topic0) {
			return r.pairDecoder, nil
		}
		return nil, nil
	}

	if !r.pairDecoder.CanDecode(topic0) {
		return nil, nil
	}

	// Pair events only count once the factory has announced the pair.
	pair, err := r.entities.LoadPair(ctx, ledger.AddressID(log.Address))
	if err != nil {
		return nil, fmt.Errorf("load pair %s: %w", log.Address.Hex(), err)
	}
	if pair == nil {
		return nil, nil
	}
	return r.pairDecoder, nil
}

// topicFilter lists every topic0 the runner decodes, narrowing the RPC query
// when no address filter is possible.
func topicFilter() ([]common.Hash, error) {
	factoryABI, err := dex.FactoryABI()
	if err != nil {
		return nil, err
	}
	pairABI, err := dex.PairABI()
	if err != nil {
		return nil, err
	}
	return []common.Hash{
		factoryABI.Events["PairCreated"].ID,
		pairABI.Events["Transfer"].ID,
		pairABI.Events["Mint"].ID,
		pairABI.Events["Burn"].ID,
		pairABI.Events["Swap"].ID,
		pairABI.Events["Sync"].ID,
	}, nil
}

func (r *Runner) filterLogsWithRetry(ctx context.Context, fromBlock, toBlock uint64) ([]types.Log, error) {
	topics, err := topicFilter()
	if err != nil {
		return nil, err
	}

	var logs []types.Log
	err = withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		logs, err = r.chain.FilterLogs(ctx, fromBlock, toBlock, nil, topics)
		if err != nil {
			r.logger.Warn("filter logs failed", zap.Error(err), zap.Uint64("from", fromBlock), zap.Uint64("to", toBlock))
		}
		return err
	})
	return logs, err
}

func (r *Runner) blockTimestampWithRetry(ctx context.Context, blockNumber uint64) (uint64, error) {
	var ts uint64
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		ts, err = r.chain.BlockTimestamp(ctx, blockNumber)
		if err != nil {
			r.logger.Warn("block timestamp fetch failed", zap.Error(err), zap.Uint64("block_number", blockNumber))
		}
		return err
	})
	return ts, err
}

func (r *Runner) isDuplicate(log types.Log) bool {
	id := fmt.Sprintf("%d:%s:%d", log.BlockNumber, log.TxHash.Hex(), log.Index)
	if _, ok := r.seen[id]; ok {
		return true
	}
	r.seen[id] = struct{}{}
	return false
}

func sortLogs(logs []types.Log) {
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		return logs[i].Index < logs[j].Index
	})
}
