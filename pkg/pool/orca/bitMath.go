package orca

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"
)

// Rounding represents the rounding mode for mathematical operations
type Rounding int

const (
	RoundingDown Rounding = iota
	RoundingUp
)

// roundUpIf maps a boolean rounding flag onto Rounding.
func roundUpIf(up bool) Rounding {
	if up {
		return RoundingUp
	}
	return RoundingDown
}

var (
	u256One = uint256.NewInt(1)

	// x64Scale is 2^64 as a decimal, used by the Q64.64 <-> decimal conversions
	x64Scale = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 64), 0)
)

// U128ToU256 widens a 128-bit word.
func U128ToU256(v uint128.Uint128) *uint256.Int {
	return &uint256.Int{v.Lo, v.Hi, 0, 0}
}

// U256ToU128 narrows a 256-bit word, failing if the value does not fit.
func U256ToU128(v *uint256.Int) (uint128.Uint128, error) {
	if v[2] != 0 || v[3] != 0 {
		return uint128.Zero, ErrMultiplicationOverflow
	}
	return uint128.New(v[0], v[1]), nil
}

// U256ToU64 narrows a 256-bit token amount, failing with ErrTokenMaxExceeded
// when it does not fit in u64.
func U256ToU64(v *uint256.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, ErrTokenMaxExceeded
	}
	return v.Uint64(), nil
}

// isOverLimit reports whether n > 2^limit - 1.
func isOverLimit(n *uint256.Int, limit int) bool {
	return n.BitLen() > limit
}

// Mul multiplies a and b, failing when the product needs more than limit bits.
// limit may not exceed 256.
func Mul(a, b *uint256.Int, limit int) (*uint256.Int, error) {
	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow || isOverLimit(product, limit) {
		return nil, fmt.Errorf("mul %s * %s over %d bits: %w", a.Dec(), b.Dec(), limit, ErrMultiplicationOverflow)
	}
	return product, nil
}

// MulDiv computes a * b / d with the requested rounding. The product is checked
// against limit before dividing.
func MulDiv(a, b, d *uint256.Int, limit int, rounding Rounding) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivideByZero
	}
	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow || isOverLimit(product, limit) {
		return nil, fmt.Errorf("mul div %s * %s over %d bits: %w", a.Dec(), b.Dec(), limit, ErrMulDivOverflow)
	}
	return DivRoundUpIf(product, d, rounding == RoundingUp)
}

// DivRoundUpIf divides n by d, rounding up when roundUp is set and the division
// leaves a remainder.
func DivRoundUpIf(n, d *uint256.Int, roundUp bool) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivideByZero
	}
	quotient, remainder := new(uint256.Int).DivMod(n, d, new(uint256.Int))
	if roundUp && !remainder.IsZero() {
		quotient.Add(quotient, u256One)
	}
	return quotient, nil
}

// DivRoundUp is DivRoundUpIf(n, d, true).
func DivRoundUp(n, d *uint256.Int) (*uint256.Int, error) {
	return DivRoundUpIf(n, d, true)
}

// MulShiftRight64 returns (a * b) >> 64. The product must fit in 128 bits,
// which mirrors checked_mul_shift_right in the program.
func MulShiftRight64(a, b *uint256.Int, rounding Rounding) (*uint256.Int, error) {
	if a.IsZero() || b.IsZero() {
		return new(uint256.Int), nil
	}
	product, err := Mul(a, b, 128)
	if err != nil {
		return nil, err
	}
	result := new(uint256.Int).Rsh(product, 64)
	remainder := new(uint256.Int).And(product, U128ToU256(U64_MAX))
	if rounding == RoundingUp && !remainder.IsZero() {
		if result.Eq(U128ToU256(U64_MAX)) {
			return nil, fmt.Errorf("mul shift right rounding: %w", ErrMultiplicationOverflow)
		}
		result.Add(result, u256One)
	}
	return result, nil
}

// ShiftLeft64 returns n << 64, failing if the result would not fit in 256 bits.
func ShiftLeft64(n *uint256.Int) (*uint256.Int, error) {
	if n[3] != 0 {
		return nil, fmt.Errorf("shift left 64: %w", ErrMultiplicationOverflow)
	}
	return new(uint256.Int).Lsh(n, 64), nil
}

// ToX64 converts an integer into Q64.64.
func ToX64(n *uint256.Int) (*uint256.Int, error) {
	return ShiftLeft64(n)
}

// FromX64 truncates a Q64.64 value to its integer part.
func FromX64(n *uint256.Int) *uint256.Int {
	return new(uint256.Int).Rsh(n, 64)
}

// X64ToDecimal converts a Q64.64 value into an exact decimal.
func X64ToDecimal(n uint128.Uint128) decimal.Decimal {
	// 2^-64 has exactly 64 decimal places: n / 2^64 == n * 5^64 / 10^64
	scaled := new(big.Int).Mul(n.Big(), new(big.Int).Exp(big.NewInt(5), big.NewInt(64), nil))
	return decimal.NewFromBigInt(scaled, -64)
}

// DecimalToX64 converts a non-negative decimal into Q64.64, flooring.
func DecimalToX64(d decimal.Decimal) (uint128.Uint128, error) {
	if d.IsNegative() {
		return uint128.Zero, fmt.Errorf("negative value %s: %w", d.String(), ErrMultiplicationOverflow)
	}
	v := d.Mul(x64Scale).Floor().BigInt()
	if v.BitLen() > 128 {
		return uint128.Zero, fmt.Errorf("value %s exceeds Q64.64: %w", d.String(), ErrMultiplicationOverflow)
	}
	return uint128.FromBig(v), nil
}

// SubUnderflowU128 is the wrapping subtraction used by fee and reward growth
// counters: (a + (2^128 - b)) mod 2^128.
func SubUnderflowU128(a, b uint128.Uint128) uint128.Uint128 {
	// 2^128 - b, itself reduced mod 2^128 so that b == 0 yields 0
	complement := uint128.Max.Sub(b).AddWrap64(1)
	return a.AddWrap(complement)
}

// AddWrapU128 adds two growth counters modulo 2^128.
func AddWrapU128(a, b uint128.Uint128) uint128.Uint128 {
	return a.AddWrap(b)
}
