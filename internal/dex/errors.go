package dex

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// TransportError wraps a network or provider failure. The batch call never
// completed, so no address-level detail is available.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("batch call failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError indicates the response blob does not match the batch schema.
// The whole batch is abandoned and no registry entry is touched.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("batch response decode failed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FieldError indicates a single record carried a value that does not fit its
// target field. Pool identifies the affected entry when known.
type FieldError struct {
	Pool  common.Address
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("pool %s: field %s: %v", e.Pool.Hex(), e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// BoundsError indicates the response held fewer records than pools were
// queried. The batch is abandoned with the registry unchanged.
type BoundsError struct {
	Records int
	Exp     int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("batch returned %d records for %d pools", e.Records, e.Exp)
}
