package orca

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func TestMul(t *testing.T) {
	max64 := uint256.NewInt(^uint64(0))

	got, err := Mul(max64, max64, 128)
	require.NoError(t, err)
	assert.Equal(t, "340282366920938463426481119284349108225", got.Dec())

	_, err = Mul(max64, uint256.NewInt(2), 64)
	assert.ErrorIs(t, err, ErrMultiplicationOverflow)

	huge := new(uint256.Int).Lsh(uint256.NewInt(1), 200)
	_, err = Mul(huge, huge, 256)
	assert.ErrorIs(t, err, ErrMultiplicationOverflow)
}

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name     string
		a, b, d  uint64
		rounding Rounding
		want     uint64
	}{
		{"exact", 10, 10, 5, RoundingDown, 20},
		{"floor", 10, 10, 3, RoundingDown, 33},
		{"ceil", 10, 10, 3, RoundingUp, 34},
		{"ceil exact", 9, 10, 3, RoundingUp, 30},
		{"fee deduction", 10000, 997000, 1000000, RoundingDown, 9970},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MulDiv(uint256.NewInt(tt.a), uint256.NewInt(tt.b), uint256.NewInt(tt.d), 128, tt.rounding)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Uint64())
		})
	}

	_, err := MulDiv(uint256.NewInt(1), uint256.NewInt(1), uint256.NewInt(0), 128, RoundingDown)
	assert.ErrorIs(t, err, ErrDivideByZero)

	max64 := uint256.NewInt(^uint64(0))
	_, err = MulDiv(max64, max64, uint256.NewInt(1), 64, RoundingDown)
	assert.ErrorIs(t, err, ErrMulDivOverflow)
}

func TestMulShiftRight64(t *testing.T) {
	one := U128ToU256(uint128.New(0, 1))

	got, err := MulShiftRight64(one, uint256.NewInt(7), RoundingDown)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got.Uint64())

	// 3 * 2^63 >> 64 = 1.5
	half := uint256.NewInt(1 << 63)
	got, err = MulShiftRight64(half, uint256.NewInt(3), RoundingDown)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Uint64())
	got, err = MulShiftRight64(half, uint256.NewInt(3), RoundingUp)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.Uint64())

	got, err = MulShiftRight64(uint256.NewInt(0), one, RoundingUp)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = MulShiftRight64(one, one, RoundingDown)
	assert.ErrorIs(t, err, ErrMultiplicationOverflow)
}

func TestSubUnderflowU128(t *testing.T) {
	tests := []struct {
		name string
		a, b uint128.Uint128
		want uint128.Uint128
	}{
		{"no wrap", uint128.From64(10), uint128.From64(3), uint128.From64(7)},
		{"zero", uint128.From64(10), uint128.Zero, uint128.From64(10)},
		{"wrap", uint128.From64(3), uint128.From64(10), uint128.Max.Sub64(6)},
		{"max", uint128.Zero, uint128.Max, uint128.From64(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubUnderflowU128(tt.a, tt.b))
		})
	}

	assert.Equal(t, uint128.From64(1), AddWrapU128(uint128.Max, uint128.From64(2)))
}

func TestX64Conversions(t *testing.T) {
	x64, err := ToX64(uint256.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), FromX64(x64).Uint64())

	// 1.5 in Q64.64
	onePointFive := uint128.New(1<<63, 1)
	assert.True(t, decimal.RequireFromString("1.5").Equal(X64ToDecimal(onePointFive)))

	back, err := DecimalToX64(decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	assert.Equal(t, onePointFive, back)

	// 2^-64 is exact
	assert.True(t, decimal.RequireFromString("0.0000000000000000000542101086242752217003726400434970855712890625").
		Equal(X64ToDecimal(uint128.From64(1))))

	_, err = DecimalToX64(decimal.RequireFromString("-1"))
	assert.Error(t, err)
}

func TestU256Narrowing(t *testing.T) {
	_, err := U256ToU64(new(uint256.Int).Lsh(uint256.NewInt(1), 64))
	assert.ErrorIs(t, err, ErrTokenMaxExceeded)

	_, err = U256ToU128(new(uint256.Int).Lsh(uint256.NewInt(1), 128))
	assert.ErrorIs(t, err, ErrMultiplicationOverflow)

	v, err := U256ToU128(U128ToU256(MAX_SQRT_PRICE_X64))
	require.NoError(t, err)
	assert.Equal(t, MAX_SQRT_PRICE_X64, v)
}
