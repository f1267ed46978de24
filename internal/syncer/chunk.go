package syncer

import (
	"fmt"

	"poolScope/internal/model"
)

// SplitPools splits the registry into chunks of at most batchSize entries.
// Chunks alias the original slice so updates land in the registry itself,
// and chunk order preserves registry order.
func SplitPools(pools []model.Pool, batchSize int) ([][]model.Pool, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}

	chunks := make([][]model.Pool, 0, (len(pools)+batchSize-1)/batchSize)
	for start := 0; start < len(pools); start += batchSize {
		end := start + batchSize
		if end > len(pools) {
			end = len(pools)
		}
		chunks = append(chunks, pools[start:end])
	}

	return chunks, nil
}
