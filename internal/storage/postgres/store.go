package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"poolScope/internal/model"
)

// Store provides Postgres persistence for pool state snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutStateBatch inserts or updates one snapshot row per pool and block.
func (s *Store) PutStateBatch(ctx context.Context, records []model.StateRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(`
			INSERT INTO pool_states (
				chain_id, block_number, pool_address, token_a, token_a_decimals,
				token_b, token_b_decimals, liquidity, sqrt_price_x96,
				tick, tick_spacing, fee, block_timestamp, fetched_at, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,now(),now())
			ON CONFLICT (chain_id, block_number, pool_address)
			DO UPDATE SET
				token_a = EXCLUDED.token_a,
				token_a_decimals = EXCLUDED.token_a_decimals,
				token_b = EXCLUDED.token_b,
				token_b_decimals = EXCLUDED.token_b_decimals,
				liquidity = EXCLUDED.liquidity,
				sqrt_price_x96 = EXCLUDED.sqrt_price_x96,
				tick = EXCLUDED.tick,
				tick_spacing = EXCLUDED.tick_spacing,
				fee = EXCLUDED.fee,
				block_timestamp = EXCLUDED.block_timestamp,
				fetched_at = EXCLUDED.fetched_at,
				updated_at = now()
		`,
			int64(r.ChainID),
			int64(r.BlockNumber),
			r.Address,
			r.TokenA,
			int16(r.TokenADecimals),
			r.TokenB,
			int16(r.TokenBDecimals),
			r.Liquidity,
			r.SqrtPriceX96,
			r.Tick,
			r.TickSpacing,
			int64(r.Fee),
			int64(r.Timestamp),
			r.FetchedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
