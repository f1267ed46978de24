package model

// StateRecord is the flattened representation of a fetched pool state for
// storage. Wide integers are carried as decimal strings so the record
// survives JSON and SQL without precision loss.
type StateRecord struct {
	ChainID        uint64 `json:"chain_id"`
	BlockNumber    uint64 `json:"block_number"`
	Address        string `json:"address"`
	TokenA         string `json:"token_a"`
	TokenADecimals uint8  `json:"token_a_decimals"`
	TokenB         string `json:"token_b"`
	TokenBDecimals uint8  `json:"token_b_decimals"`
	Liquidity      string `json:"liquidity"`
	SqrtPriceX96   string `json:"sqrt_price_x96"`
	Tick           int32  `json:"tick"`
	TickSpacing    int32  `json:"tick_spacing"`
	Fee            uint32 `json:"fee"`
	Timestamp      uint64 `json:"timestamp"`
	FetchedAt      string `json:"fetched_at"`
}

// NewStateRecord flattens a V3 pool state into a storage record.
func NewStateRecord(chainID, blockNumber, timestamp uint64, state V3PoolState, fetchedAt string) StateRecord {
	return StateRecord{
		ChainID:        chainID,
		BlockNumber:    blockNumber,
		Address:        state.Address.Hex(),
		TokenA:         state.TokenA.Hex(),
		TokenADecimals: state.TokenADecimals,
		TokenB:         state.TokenB.Hex(),
		TokenBDecimals: state.TokenBDecimals,
		Liquidity:      state.Liquidity.String(),
		SqrtPriceX96:   state.SqrtPriceX96.String(),
		Tick:           state.Tick,
		TickSpacing:    state.TickSpacing,
		Fee:            state.Fee,
		Timestamp:      timestamp,
		FetchedAt:      fetchedAt,
	}
}
