package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// ContractCaller is the slice of an Ethereum client the batch reader needs.
// chain.Client satisfies it; tests feed synthetic blobs through a fake.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// BatchReader drives the batch-read contract: an eth_call that simulates
// deploying a throwaway contract whose constructor reads every target pool
// and returns the aggregated state as its return data. Nothing is persisted
// on chain. The init bytecode is an external artifact and is injected.
type BatchReader struct {
	deployCode []byte
	caller     ContractCaller
}

// NewBatchReader builds a BatchReader around the injected contract init
// bytecode and client.
func NewBatchReader(deployCode []byte, caller ContractCaller) (*BatchReader, error) {
	if len(deployCode) == 0 {
		return nil, fmt.Errorf("deploy code is required")
	}
	if caller == nil {
		return nil, fmt.Errorf("contract caller is nil")
	}
	code := make([]byte, len(deployCode))
	copy(code, deployCode)
	return &BatchReader{deployCode: code, caller: caller}, nil
}

// Call issues the single batched read for the given pools and returns the
// raw return data. A nil blockNumber reads at the current block. Transport
// failures are returned as *TransportError and are not retried here; retry
// policy belongs to the caller.
func (b *BatchReader) Call(ctx context.Context, pools []common.Address, blockNumber *big.Int) ([]byte, error) {
	if len(pools) == 0 {
		return nil, fmt.Errorf("at least one pool address is required")
	}

	args, err := batchConstructorArgs()
	if err != nil {
		return nil, err
	}
	packed, err := args.Pack(pools)
	if err != nil {
		return nil, fmt.Errorf("pack constructor argument: %w", err)
	}

	data := make([]byte, 0, len(b.deployCode)+len(packed))
	data = append(data, b.deployCode...)
	data = append(data, packed...)

	// To is left nil: a creation call returns the constructor's return
	// data without deploying anything.
	raw, err := b.caller.CallContract(ctx, ethereum.CallMsg{Data: data}, blockNumber)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return raw, nil
}
