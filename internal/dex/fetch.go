package dex

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"poolScope/internal/model"
)

// Options tunes batch application behavior.
type Options struct {
	// ContinueOnRecordError applies the records that converted cleanly and
	// returns the per-record failures joined. When false (the default), the
	// first bad record aborts the whole batch with the registry unchanged.
	ContinueOnRecordError bool
	Logger                *zap.Logger
}

// FetchPoolState refreshes a single pool in place. A nil blockNumber reads
// at the current block.
func FetchPoolState(ctx context.Context, reader *BatchReader, pool *model.V3PoolState, blockNumber *big.Int) error {
	if reader == nil {
		return fmt.Errorf("batch reader is nil")
	}
	if pool == nil {
		return fmt.Errorf("pool is nil")
	}

	raw, err := reader.Call(ctx, []common.Address{pool.Address}, blockNumber)
	if err != nil {
		return err
	}

	records, err := decodePoolRecords(raw)
	if err != nil {
		return err
	}
	if len(records) < 1 {
		return &BoundsError{Records: 0, Exp: 1}
	}

	state, err := mapPoolRecord(pool.Address, records[0])
	if err != nil {
		return err
	}

	*pool = state
	return nil
}

// FetchPoolStates refreshes every matching pool in the registry slice with
// one network round trip. The response is aligned to pools by position, so
// the slice order must match the order the registry was enumerated in.
//
// Per position: a zero first-address record means the pool was not
// resolvable at the queried block and the entry is left untouched; an entry
// of a different kind is skipped without error. Mutation is staged and only
// committed once the whole response has been mapped, so a transport, decode
// or bounds failure leaves the registry exactly as it was.
//
// The caller owns exclusive access to pools for the duration of the call.
func FetchPoolStates(ctx context.Context, reader *BatchReader, pools []model.Pool, blockNumber *big.Int, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if reader == nil {
		return fmt.Errorf("batch reader is nil")
	}
	if len(pools) == 0 {
		return nil
	}

	addrs := make([]common.Address, len(pools))
	for i := range pools {
		addrs[i] = pools[i].Address()
	}

	raw, err := reader.Call(ctx, addrs, blockNumber)
	if err != nil {
		return err
	}

	records, err := decodePoolRecords(raw)
	if err != nil {
		return err
	}
	if len(records) < len(pools) {
		return &BoundsError{Records: len(records), Exp: len(pools)}
	}

	staged := make([]*model.V3PoolState, len(pools))
	var recordErrs []error
	for i := range pools {
		record := records[i]

		if record.TokenA == (common.Address{}) {
			logger.Debug("pool unresolved at queried block",
				zap.Int("position", i),
				zap.String("pool", addrs[i].Hex()),
			)
			continue
		}

		if pools[i].Kind != model.PoolKindV3 || pools[i].V3 == nil {
			logger.Debug("skipping entry of different kind",
				zap.Int("position", i),
				zap.String("pool", addrs[i].Hex()),
				zap.String("kind", pools[i].Kind.String()),
			)
			continue
		}

		state, err := mapPoolRecord(pools[i].V3.Address, record)
		if err != nil {
			if !opts.ContinueOnRecordError {
				return err
			}
			recordErrs = append(recordErrs, err)
			continue
		}
		staged[i] = &state
	}

	for i, state := range staged {
		if state == nil {
			continue
		}
		*pools[i].V3 = *state
	}

	return errors.Join(recordErrs...)
}
