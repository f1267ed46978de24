package dex

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"poolScope/internal/model"
)

const (
	minInt24  = -1 << 23
	maxInt24  = 1<<23 - 1
	maxUint24 = 1<<24 - 1
)

var (
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	maxUint160 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1))
)

// mapPoolRecord converts one decoded record into a typed pool state. The
// pool address identifies the registry entry being refreshed; it is kept as
// the state's identity and attached to any conversion failure. The mapper
// never defaults a field: any value outside its declared width fails the
// whole record.
func mapPoolRecord(pool common.Address, raw rawPoolRecord) (model.V3PoolState, error) {
	liquidity, err := uint128FromBig(raw.Liquidity)
	if err != nil {
		return model.V3PoolState{}, &FieldError{Pool: pool, Field: "liquidity", Err: err}
	}

	sqrtPrice, err := uint160FromBig(raw.SqrtPrice)
	if err != nil {
		return model.V3PoolState{}, &FieldError{Pool: pool, Field: "sqrtPrice", Err: err}
	}

	tick, err := int24FromBig(raw.Tick)
	if err != nil {
		return model.V3PoolState{}, &FieldError{Pool: pool, Field: "tick", Err: err}
	}

	tickSpacing, err := int24FromBig(raw.TickSpacing)
	if err != nil {
		return model.V3PoolState{}, &FieldError{Pool: pool, Field: "tickSpacing", Err: err}
	}

	fee, err := uint24FromBig(raw.Fee)
	if err != nil {
		return model.V3PoolState{}, &FieldError{Pool: pool, Field: "fee", Err: err}
	}

	return model.V3PoolState{
		Address:        pool,
		TokenA:         raw.TokenA,
		TokenADecimals: raw.TokenADecimals,
		TokenB:         raw.TokenB,
		TokenBDecimals: raw.TokenBDecimals,
		Liquidity:      liquidity,
		SqrtPriceX96:   sqrtPrice,
		Tick:           tick,
		TickSpacing:    tickSpacing,
		Fee:            fee,
	}, nil
}

// int24FromBig narrows a sign-extended 24-bit two's-complement value into an
// int32. The abi layer already interprets the sign bit; values outside the
// 24-bit signed range mean the word was not a valid int24.
func int24FromBig(value *big.Int) (int32, error) {
	if value == nil {
		return 0, fmt.Errorf("nil value")
	}
	if value.Cmp(big.NewInt(minInt24)) < 0 || value.Cmp(big.NewInt(maxInt24)) > 0 {
		return 0, fmt.Errorf("int24 overflow: %s", value.String())
	}
	return int32(value.Int64()), nil
}

// uint24FromBig narrows a 24-bit unsigned wire value into a uint32.
func uint24FromBig(value *big.Int) (uint32, error) {
	if value == nil {
		return 0, fmt.Errorf("nil value")
	}
	if value.Sign() < 0 || value.Cmp(big.NewInt(maxUint24)) > 0 {
		return 0, fmt.Errorf("uint24 overflow: %s", value.String())
	}
	return uint32(value.Uint64()), nil
}

func uint128FromBig(value *big.Int) (*big.Int, error) {
	if value == nil {
		return nil, fmt.Errorf("nil value")
	}
	if value.Sign() < 0 || value.Cmp(maxUint128) > 0 {
		return nil, fmt.Errorf("uint128 overflow: %s", value.String())
	}
	return new(big.Int).Set(value), nil
}

func uint160FromBig(value *big.Int) (*big.Int, error) {
	if value == nil {
		return nil, fmt.Errorf("nil value")
	}
	if value.Sign() < 0 || value.Cmp(maxUint160) > 0 {
		return nil, fmt.Errorf("uint160 overflow: %s", value.String())
	}
	return new(big.Int).Set(value), nil
}
