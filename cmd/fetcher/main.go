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

	"poolScope/internal/chain"
	"poolScope/internal/config"
	"poolScope/internal/dex"
	"poolScope/internal/model"
	"poolScope/internal/storage"
	"poolScope/internal/storage/postgres"
	"poolScope/internal/syncer"
)

func main() {
	root := &cobra.Command{
		Use:          "fetcher",
		Short:        "Batched on-chain pool state fetcher",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Poll the chain and snapshot pool states continuously",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetcher(cmd, false)
		},
	}
	addFetchFlags(runCmd)
	root.AddCommand(runCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Take a single pool state snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetcher(cmd, true)
		},
	}
	addFetchFlags(snapshotCmd)
	root.AddCommand(snapshotCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "RPC URL")
	cmd.Flags().StringSlice("pool", nil, "pool addresses (comma-separated)")
	cmd.Flags().String("deploy-code", "", "path to batch-read contract init bytecode (hex)")
	cmd.Flags().Uint64("block", 0, "pin reads to this block, 0 means latest")
	cmd.Flags().Int("batch-size", 100, "pools per batch call")
	cmd.Flags().Duration("poll-interval", 12*time.Second, "delay between snapshots")
	cmd.Flags().String("out", "./data/pool_states.jsonl", "output JSONL path")
	cmd.Flags().String("pg-dsn", "", "optional Postgres DSN")
	cmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	cmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	cmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	cmd.Flags().Bool("continue-on-error", false, "apply healthy records when one record fails")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func runFetcher(cmd *cobra.Command, oneShot bool) error {
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

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	addresses, err := syncer.ParseAddresses(cfg.Pools)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		return fmt.Errorf("pool list is required")
	}

	deployCode, err := syncer.LoadDeployCode(cfg.DeployCodePath)
	if err != nil {
		return err
	}

	pools := make([]model.Pool, 0, len(addresses))
	for _, addr := range addresses {
		pools = append(pools, model.NewV3Pool(addr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	reader, err := dex.NewBatchReader(deployCode, chainClient)
	if err != nil {
		return err
	}

	sinks := storage.Multi{storage.NewJsonlStorage(cfg.Out)}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		sinks = append(sinks, store)
	}

	pollInterval := cfg.PollInterval
	if oneShot {
		pollInterval = 0
	}

	runner := syncer.NewRunner(syncer.RunConfig{
		BlockNumber:           cfg.Block,
		BatchSize:             cfg.BatchSize,
		PollInterval:          pollInterval,
		CheckpointPath:        cfg.Checkpoint,
		CheckpointEnabled:     cfg.CheckpointEnabled && !oneShot,
		MaxRetries:            cfg.MaxRetries,
		RetryBackoff:          cfg.RetryBackoff,
		ContinueOnRecordError: cfg.ContinueOnError,
	}, chainClient, reader, pools, sinks, logger)

	logger.Info("fetcher start",
		zap.String("rpc", cfg.RPCURL),
		zap.Int("pools", len(pools)),
		zap.Uint64("block", cfg.Block),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Duration("poll_interval", pollInterval),
		zap.String("out", cfg.Out),
		zap.Bool("postgres", cfg.PGDSN != ""),
	)

	return runner.Run(ctx)
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
