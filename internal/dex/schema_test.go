package dex

import (
	"math/big"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func maxUintBits(bits uint) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits), big.NewInt(1))
}

func sampleRecord(pool byte) rawPoolRecord {
	return rawPoolRecord{
		TokenA:         common.BytesToAddress([]byte{pool, 0x01}),
		TokenADecimals: 18,
		TokenB:         common.BytesToAddress([]byte{pool, 0x02}),
		TokenBDecimals: 6,
		Liquidity:      big.NewInt(1_000_000),
		SqrtPrice:      big.NewInt(79_228_162_514),
		Tick:           big.NewInt(-887_220),
		TickSpacing:    big.NewInt(60),
		Fee:            big.NewInt(3000),
		LiquidityNet:   big.NewInt(-42),
	}
}

func TestSchemaRoundTrip(t *testing.T) {
	records := []rawPoolRecord{sampleRecord(0xaa), sampleRecord(0xbb)}

	blob, err := encodePoolRecords(records)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := decodePoolRecords(blob)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if !reflect.DeepEqual(records, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", records, decoded)
	}
}

func TestSchemaRoundTripBoundaryValues(t *testing.T) {
	record := rawPoolRecord{
		TokenA:         common.HexToAddress("0xffffffffffffffffffffffffffffffffffffffff"),
		TokenADecimals: 255,
		TokenB:         common.HexToAddress("0x0000000000000000000000000000000000000001"),
		TokenBDecimals: 0,
		Liquidity:      maxUintBits(128),
		SqrtPrice:      maxUintBits(160),
		Tick:           big.NewInt(-8388608),
		TickSpacing:    big.NewInt(8388607),
		Fee:            big.NewInt(16777215),
		LiquidityNet:   new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127)),
	}

	blob, err := encodePoolRecords([]rawPoolRecord{record})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := decodePoolRecords(blob)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 record, got %d", len(decoded))
	}

	got := decoded[0]
	if got.Tick.Cmp(record.Tick) != 0 {
		t.Fatalf("tick mismatch: %s != %s", got.Tick, record.Tick)
	}
	if got.TickSpacing.Cmp(record.TickSpacing) != 0 {
		t.Fatalf("tick spacing mismatch: %s != %s", got.TickSpacing, record.TickSpacing)
	}
	if got.Fee.Cmp(record.Fee) != 0 {
		t.Fatalf("fee mismatch: %s != %s", got.Fee, record.Fee)
	}
	if got.Liquidity.Cmp(record.Liquidity) != 0 {
		t.Fatalf("liquidity mismatch: %s != %s", got.Liquidity, record.Liquidity)
	}
	if got.SqrtPrice.Cmp(record.SqrtPrice) != 0 {
		t.Fatalf("sqrt price mismatch: %s != %s", got.SqrtPrice, record.SqrtPrice)
	}
	if got.LiquidityNet.Cmp(record.LiquidityNet) != 0 {
		t.Fatalf("liquidity net mismatch: %s != %s", got.LiquidityNet, record.LiquidityNet)
	}
	if got.TokenADecimals != 255 || got.TokenBDecimals != 0 {
		t.Fatalf("decimals mismatch: %d/%d", got.TokenADecimals, got.TokenBDecimals)
	}
}

func TestSchemaDecodeEmptyArray(t *testing.T) {
	blob, err := encodePoolRecords(nil)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := decodePoolRecords(blob)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("expected no records, got %d", len(decoded))
	}
}

func TestSchemaDecodeTruncated(t *testing.T) {
	blob, err := encodePoolRecords([]rawPoolRecord{sampleRecord(0xaa), sampleRecord(0xbb)})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	// Cut mid-record.
	if _, err := decodePoolRecords(blob[:len(blob)-17]); err == nil {
		t.Fatalf("expected decode error for truncated blob")
	} else if _, ok := err.(*DecodeError); !ok {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
}

func TestSchemaDecodeGarbage(t *testing.T) {
	if _, err := decodePoolRecords([]byte{0x01, 0x02, 0x03}); err == nil {
		t.Fatalf("expected decode error for garbage blob")
	}
}
