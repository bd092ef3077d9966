package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dexledger/internal/chain"
	"dexledger/internal/config"
	"dexledger/internal/erc20"
	"dexledger/internal/indexer"
	"dexledger/internal/ledger"
	"dexledger/internal/storage"
	"dexledger/internal/store"
	"dexledger/internal/store/postgres"
)

const cursorName = "dexledger"

func main() {
	root := &cobra.Command{
		Use:          "dexledger",
		Short:        "Event-sourced DEX entity ledger",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Index chain events into the ledger",
		RunE:  runLedger,
	}

	addCommonFlags(runCmd)
	runCmd.Flags().Uint64("from", 0, "start block (inclusive)")
	runCmd.Flags().Uint64("to", 0, "end block (inclusive), 0 means latest")
	runCmd.Flags().Uint64("batch-size", 2000, "blocks per batch")
	runCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	runCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	runCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	runCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")

	root.AddCommand(runCmd)

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Rebuild the ledger from a journal file",
		RunE:  runReplay,
	}

	addCommonFlags(replayCmd)

	root.AddCommand(replayCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "RPC URL")
	cmd.Flags().String("factory", "", "V2 factory address")
	cmd.Flags().String("base-token", "", "base token address for transfer tracking")
	cmd.Flags().String("journal", "./data/events.jsonl", "decoded event journal path")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN (empty keeps entities in memory)")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func runLedger(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, processor, entities, pgStore, err := buildLedger(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer chainClient.Close()
	if pgStore != nil {
		defer pgStore.Close()
	}

	factory, err := indexer.ParseAddress(cfg.Factory)
	if err != nil {
		return fmt.Errorf("factory: %w", err)
	}
	baseToken, err := indexer.ParseAddress(cfg.BaseToken)
	if err != nil {
		return fmt.Errorf("base token: %w", err)
	}

	var checkpoint indexer.Checkpointer
	if pgStore != nil {
		checkpoint = indexer.NewCursorCheckpoint(pgStore, cursorName)
	} else {
		checkpoint = indexer.NewFileCheckpoint(cfg.Checkpoint, cfg.CheckpointEnabled)
	}

	var journal storage.Journal
	if cfg.Journal != "" {
		journal = storage.NewJsonlJournal(cfg.Journal)
	}

	runner, err := indexer.NewRunner(indexer.RunConfig{
		Factory:      factory,
		BaseToken:    baseToken,
		FromBlock:    cfg.FromBlock,
		ToBlock:      cfg.ToBlock,
		BatchSize:    cfg.BatchSize,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, chainClient, processor, entities, journal, checkpoint, logger)
	if err != nil {
		return err
	}

	logger.Info("ledger start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("factory", cfg.Factory),
		zap.String("base_token", cfg.BaseToken),
		zap.Uint64("from", cfg.FromBlock),
		zap.Uint64("to", cfg.ToBlock),
		zap.Uint64("batch_size", cfg.BatchSize),
		zap.String("journal", cfg.Journal),
		zap.Bool("postgres", pgStore != nil),
	)

	return runner.Run(ctx)
}

func runReplay(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Journal == "" {
		return fmt.Errorf("journal path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, processor, _, pgStore, err := buildLedger(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer chainClient.Close()
	if pgStore != nil {
		defer pgStore.Close()
	}

	logger.Info("replay start",
		zap.String("journal", cfg.Journal),
		zap.Bool("postgres", pgStore != nil),
	)

	return indexer.Replay(ctx, cfg.Journal, processor, logger)
}

// buildLedger wires the chain client, entity store and processor shared by
// both commands. The returned postgres store is nil when entities are kept
// in memory.
func buildLedger(ctx context.Context, cfg config.Config, logger *zap.Logger) (*chain.Client, *ledger.Processor, store.EntityStore, *postgres.Store, error) {
	if cfg.RPCURL == "" {
		return nil, nil, nil, nil, fmt.Errorf("rpc url is required")
	}

	baseToken, err := indexer.ParseAddress(cfg.BaseToken)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("base token: %w", err)
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("connect rpc: %w", err)
	}

	var entities store.EntityStore
	var pgStore *postgres.Store
	if cfg.PGDSN != "" {
		pgStore, err = postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			chainClient.Close()
			return nil, nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		entities = pgStore
	} else {
		entities = store.NewMemory()
	}

	resolver := erc20.NewResolver(chainClient, erc20.DefaultOverrides(), logger)
	processor := ledger.NewProcessor(entities, resolver, baseToken, logger)
	return chainClient, processor, entities, pgStore, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
