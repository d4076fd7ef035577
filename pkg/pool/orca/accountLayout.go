package orca

import (
	"bytes"
	"fmt"
	"math/big"

	cosmath "cosmossdk.io/math"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"
)

var two128 = new(big.Int).Lsh(big.NewInt(1), 128)

// layoutReader reads little-endian Anchor account fields and keeps the first error.
type layoutReader struct {
	dec *bin.Decoder
	err error
}

// newLayoutReader checks size and discriminator and positions the reader after it.
func newLayoutReader(data []byte, discriminator [8]byte, size int, account string) (*layoutReader, error) {
	if len(data) < size {
		return nil, fmt.Errorf("%s: got %d bytes, want %d: %w", account, len(data), size, ErrInvalidAccountData)
	}
	if !bytes.Equal(data[:8], discriminator[:]) {
		return nil, fmt.Errorf("%s: discriminator mismatch: %w", account, ErrInvalidAccountData)
	}
	return &layoutReader{dec: bin.NewBinDecoder(data[8:])}, nil
}

func (r *layoutReader) fail(field string, err error) {
	if r.err == nil && err != nil {
		r.err = fmt.Errorf("failed to decode %s: %w", field, err)
	}
}

// decode reads the next value into v; v's Go type fixes the width.
func (r *layoutReader) decode(field string, v interface{}) {
	if r.err != nil {
		return
	}
	r.fail(field, r.dec.Decode(v))
}

func (r *layoutReader) pubkey(field string) solana.PublicKey {
	var key solana.PublicKey
	r.decode(field, &key)
	return key
}

func (r *layoutReader) boolean(field string) bool {
	var v bool
	r.decode(field, &v)
	return v
}

func (r *layoutReader) u16(field string) uint16 {
	var v uint16
	r.decode(field, &v)
	return v
}

func (r *layoutReader) i32(field string) int32 {
	var v int32
	r.decode(field, &v)
	return v
}

func (r *layoutReader) u64(field string) uint64 {
	var v uint64
	r.decode(field, &v)
	return v
}

func (r *layoutReader) u128(field string) uint128.Uint128 {
	lo := r.u64(field)
	hi := r.u64(field)
	return uint128.New(lo, hi)
}

// i128 reads a two's complement signed 128-bit integer.
func (r *layoutReader) i128(field string) cosmath.Int {
	u := r.u128(field)
	v := u.Big()
	if u.Hi>>63 == 1 {
		v.Sub(v, two128)
	}
	return cosmath.NewIntFromBigInt(v)
}
