package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolKind tags the variant held by a Pool.
type PoolKind uint8

const (
	PoolKindUnknown PoolKind = iota
	PoolKindV2
	PoolKindV3
)

// String returns a short kind label for logs.
func (k PoolKind) String() string {
	switch k {
	case PoolKindV2:
		return "v2"
	case PoolKindV3:
		return "v3"
	default:
		return "unknown"
	}
}

// V3PoolState holds the full on-chain state of a concentrated-liquidity
// pool. Updates are atomic: either every field is replaced together or the
// state is left untouched.
type V3PoolState struct {
	Address        common.Address `json:"address"`
	TokenA         common.Address `json:"token_a"`
	TokenADecimals uint8          `json:"token_a_decimals"`
	TokenB         common.Address `json:"token_b"`
	TokenBDecimals uint8          `json:"token_b_decimals"`
	Liquidity      *big.Int       `json:"liquidity"`
	SqrtPriceX96   *big.Int       `json:"sqrt_price_x96"`
	Tick           int32          `json:"tick"`
	TickSpacing    int32          `json:"tick_spacing"`
	Fee            uint32         `json:"fee"`
}

// V2PoolState holds the state of a constant-product pool. It is not updated
// by the batch reader; it exists so registries holding both kinds stay valid.
type V2PoolState struct {
	Address  common.Address `json:"address"`
	Token0   common.Address `json:"token0"`
	Token1   common.Address `json:"token1"`
	Reserve0 *big.Int       `json:"reserve0"`
	Reserve1 *big.Int       `json:"reserve1"`
}

// Pool is a tagged variant over the supported pool kinds. Exactly the field
// matching Kind is non-nil.
type Pool struct {
	Kind PoolKind     `json:"kind"`
	V2   *V2PoolState `json:"v2,omitempty"`
	V3   *V3PoolState `json:"v3,omitempty"`
}

// NewV3Pool wraps a freshly discovered pool address in a registry entry.
// State fields are filled by the first batch fetch.
func NewV3Pool(address common.Address) Pool {
	return Pool{
		Kind: PoolKindV3,
		V3: &V3PoolState{
			Address:      address,
			Liquidity:    new(big.Int),
			SqrtPriceX96: new(big.Int),
		},
	}
}

// Address returns the contract address of whichever variant is set.
func (p Pool) Address() common.Address {
	switch p.Kind {
	case PoolKindV2:
		if p.V2 != nil {
			return p.V2.Address
		}
	case PoolKindV3:
		if p.V3 != nil {
			return p.V3.Address
		}
	}
	return common.Address{}
}
