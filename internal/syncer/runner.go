package syncer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"poolScope/internal/chain"
	"poolScope/internal/dex"
	"poolScope/internal/model"
	"poolScope/internal/storage"
)

// RunConfig holds runtime settings for the state syncer.
type RunConfig struct {
	// BlockNumber pins every batch call to a fixed block. Zero follows the
	// latest block; a non-zero pin implies a single snapshot.
	BlockNumber           uint64
	BatchSize             int
	PollInterval          time.Duration
	CheckpointPath        string
	CheckpointEnabled     bool
	MaxRetries            int
	RetryBackoff          time.Duration
	ContinueOnRecordError bool
}

// Runner refreshes the pool registry from the chain and snapshots it to
// storage. The runner owns the registry slice for its lifetime; batches
// never overlap because chunks are processed sequentially.
type Runner struct {
	cfg        RunConfig
	chain      *chain.Client
	reader     *dex.BatchReader
	pools      []model.Pool
	storage    storage.Storage
	logger     *zap.Logger
	checkpoint *CheckpointStore
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, chainClient *chain.Client, reader *dex.BatchReader, pools []model.Pool, storageSink storage.Storage, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:        cfg,
		chain:      chainClient,
		reader:     reader,
		pools:      pools,
		storage:    storageSink,
		logger:     logger,
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
	}
}

// Run executes the snapshot loop. With a zero PollInterval or a pinned
// block it takes a single snapshot and returns.
func (r *Runner) Run(ctx context.Context) error {
	if r.chain == nil {
		return fmt.Errorf("chain client is nil")
	}
	if r.reader == nil {
		return fmt.Errorf("batch reader is nil")
	}
	if r.storage == nil {
		return fmt.Errorf("storage is nil")
	}
	if r.cfg.BatchSize <= 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}
	if len(r.pools) == 0 {
		return fmt.Errorf("at least one pool is required")
	}

	chainID, err := r.chain.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}
	if !chainID.IsUint64() {
		return fmt.Errorf("chain id does not fit in uint64: %s", chainID)
	}
	chainIDValue := chainID.Uint64()

	var lastSnapshot uint64
	if r.checkpoint != nil {
		cp, ok, err := r.checkpoint.Load()
		if err != nil {
			return err
		}
		if ok {
			lastSnapshot = cp.LastSnapshotBlock
			r.logger.Info("resume from checkpoint", zap.Uint64("last_snapshot", lastSnapshot))
		}
	}

	oneShot := r.cfg.PollInterval == 0 || r.cfg.BlockNumber != 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		block := r.cfg.BlockNumber
		if block == 0 {
			block, err = r.latestBlockWithRetry(ctx)
			if err != nil {
				return fmt.Errorf("get latest block: %w", err)
			}
		}

		if block <= lastSnapshot {
			if oneShot {
				r.logger.Info("nothing to sync", zap.Uint64("block", block), zap.Uint64("last_snapshot", lastSnapshot))
				return nil
			}
			if err := r.wait(ctx); err != nil {
				return err
			}
			continue
		}

		if err := r.snapshot(ctx, chainIDValue, block); err != nil {
			return err
		}

		lastSnapshot = block
		if r.checkpoint != nil {
			if err := r.checkpoint.Save(block); err != nil {
				return err
			}
		}

		if oneShot {
			return nil
		}
		if err := r.wait(ctx); err != nil {
			return err
		}
	}
}

// snapshot refreshes the registry at the given block and writes one record
// per tracked pool to storage.
func (r *Runner) snapshot(ctx context.Context, chainID, block uint64) error {
	r.logger.Info("fetch pool states", zap.Uint64("block", block), zap.Int("pools", len(r.pools)))

	blockPin := new(big.Int).SetUint64(block)
	chunks, err := SplitPools(r.pools, r.cfg.BatchSize)
	if err != nil {
		return err
	}

	opts := dex.Options{
		ContinueOnRecordError: r.cfg.ContinueOnRecordError,
		Logger:                r.logger,
	}

	for _, chunk := range chunks {
		err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
			err := dex.FetchPoolStates(ctx, r.reader, chunk, blockPin, opts)
			if err != nil {
				r.logger.Warn("pool state fetch failed", zap.Error(err), zap.Uint64("block", block))
			}
			return err
		})
		if err != nil {
			// In continue mode per-record failures come back after the
			// healthy records were applied; keep going.
			var fieldErr *dex.FieldError
			if r.cfg.ContinueOnRecordError && errors.As(err, &fieldErr) {
				continue
			}
			return fmt.Errorf("fetch pool states: %w", err)
		}
	}

	ts, err := r.blockTimestampWithRetry(ctx, block)
	if err != nil {
		return fmt.Errorf("block timestamp %d: %w", block, err)
	}

	fetchedAt := time.Now().UTC().Format(time.RFC3339Nano)
	records := make([]model.StateRecord, 0, len(r.pools))
	for _, pool := range r.pools {
		if pool.Kind != model.PoolKindV3 || pool.V3 == nil {
			continue
		}
		records = append(records, model.NewStateRecord(chainID, block, ts, *pool.V3, fetchedAt))
	}

	if err := r.storage.PutStateBatch(ctx, records); err != nil {
		return fmt.Errorf("store states: %w", err)
	}

	r.logger.Info("snapshot complete", zap.Uint64("block", block), zap.Int("records", len(records)))
	return nil
}

func (r *Runner) latestBlockWithRetry(ctx context.Context) (uint64, error) {
	var block uint64
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		block, err = r.chain.LatestBlockNumber(ctx)
		if err != nil {
			r.logger.Warn("latest block fetch failed", zap.Error(err))
		}
		return err
	})
	return block, err
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

func (r *Runner) wait(ctx context.Context) error {
	timer := time.NewTimer(r.cfg.PollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
