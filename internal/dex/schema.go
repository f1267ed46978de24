package dex

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// rawPoolRecord mirrors one element of the batch-read contract's return
// array. Field order and widths are fixed by the contract and must not
// change: address, uint8, address, uint8, uint128, uint160, int24, int24,
// uint24, int128. The trailing per-tick net liquidity is part of the wire
// layout but is not carried into the pool state.
type rawPoolRecord struct {
	TokenA         common.Address
	TokenADecimals uint8
	TokenB         common.Address
	TokenBDecimals uint8
	Liquidity      *big.Int
	SqrtPrice      *big.Int
	Tick           *big.Int
	TickSpacing    *big.Int
	Fee            *big.Int
	LiquidityNet   *big.Int
}

var (
	schemaArgs     abi.Arguments
	schemaArgsOnce sync.Once
	schemaArgsErr  error

	constructorArgs     abi.Arguments
	constructorArgsOnce sync.Once
	constructorArgsErr  error
)

// batchSchema returns the positional return-data schema of the batch-read
// contract as a single tuple[] argument.
func batchSchema() (abi.Arguments, error) {
	schemaArgsOnce.Do(func() {
		recordType, err := abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
			{Name: "tokenA", Type: "address"},
			{Name: "tokenADecimals", Type: "uint8"},
			{Name: "tokenB", Type: "address"},
			{Name: "tokenBDecimals", Type: "uint8"},
			{Name: "liquidity", Type: "uint128"},
			{Name: "sqrtPrice", Type: "uint160"},
			{Name: "tick", Type: "int24"},
			{Name: "tickSpacing", Type: "int24"},
			{Name: "fee", Type: "uint24"},
			{Name: "liquidityNet", Type: "int128"},
		})
		if err != nil {
			schemaArgsErr = fmt.Errorf("build record type: %w", err)
			return
		}
		schemaArgs = abi.Arguments{{Name: "pools", Type: recordType}}
	})
	return schemaArgs, schemaArgsErr
}

// batchConstructorArgs returns the schema of the batch-read contract's only
// constructor argument, an address array.
func batchConstructorArgs() (abi.Arguments, error) {
	constructorArgsOnce.Do(func() {
		addressesType, err := abi.NewType("address[]", "", nil)
		if err != nil {
			constructorArgsErr = fmt.Errorf("build address array type: %w", err)
			return
		}
		constructorArgs = abi.Arguments{{Name: "pools", Type: addressesType}}
	})
	return constructorArgs, constructorArgsErr
}

// decodePoolRecords decodes a raw batch response into the ordered record
// sequence. Decoding is all-or-nothing: any shape mismatch fails the whole
// blob.
func decodePoolRecords(blob []byte) ([]rawPoolRecord, error) {
	args, err := batchSchema()
	if err != nil {
		return nil, err
	}

	values, err := args.Unpack(blob)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if len(values) != 1 {
		return nil, &DecodeError{Err: fmt.Errorf("expected 1 return value, got %d", len(values))}
	}

	records := *abi.ConvertType(values[0], new([]rawPoolRecord)).(*[]rawPoolRecord)
	return records, nil
}

// encodePoolRecords packs records back into the wire layout. The fetch path
// never encodes; this is the fixture side of the codec.
func encodePoolRecords(records []rawPoolRecord) ([]byte, error) {
	args, err := batchSchema()
	if err != nil {
		return nil, err
	}
	return args.Pack(records)
}
