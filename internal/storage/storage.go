package storage

import (
	"context"

	"poolScope/internal/model"
)

// Storage defines a sink for pool state records.
type Storage interface {
	PutStateBatch(ctx context.Context, records []model.StateRecord) error
}

// Multi fans a batch out to several sinks, stopping at the first failure.
type Multi []Storage

func (m Multi) PutStateBatch(ctx context.Context, records []model.StateRecord) error {
	for _, sink := range m {
		if err := sink.PutStateBatch(ctx, records); err != nil {
			return err
		}
	}
	return nil
}
