package orca

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"
)

var (
	// 2^-128 == 5^128 / 10^128
	fivePow128 = new(big.Int).Exp(big.NewInt(5), big.NewInt(128), nil)
	x128Scale  = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 128), 0)
)

// SqrtPriceX64ToPrice returns the exact price of token A in token B,
// (sqrtPrice / 2^64)^2 scaled by 10^(decimalsA - decimalsB).
func SqrtPriceX64ToPrice(sqrtPrice uint128.Uint128, decimalsA, decimalsB uint8) decimal.Decimal {
	sq := sqrtPrice.Big()
	sq.Mul(sq, sq)
	sq.Mul(sq, fivePow128)
	return decimal.NewFromBigInt(sq, -128).Shift(int32(decimalsA) - int32(decimalsB))
}

// PriceToSqrtPriceX64 is the inverse of SqrtPriceX64ToPrice:
// isqrt(floor(price * 10^(decimalsB - decimalsA) * 2^128)).
func PriceToSqrtPriceX64(price decimal.Decimal, decimalsA, decimalsB uint8) (uint128.Uint128, error) {
	if price.IsNegative() {
		return uint128.Zero, fmt.Errorf("negative price %s: %w", price, ErrSqrtPriceOutOfBounds)
	}
	scaled := price.Shift(int32(decimalsB) - int32(decimalsA)).Mul(x128Scale).Floor().BigInt()
	root := new(big.Int).Sqrt(scaled)
	if root.BitLen() > 128 {
		return uint128.Zero, fmt.Errorf("price %s: %w", price, ErrSqrtPriceOutOfBounds)
	}
	return uint128.FromBig(root), nil
}

// TickIndexToPrice returns the decimal price at tick.
func TickIndexToPrice(tick int32, decimalsA, decimalsB uint8) (decimal.Decimal, error) {
	sqrtPrice, err := TickIndexToSqrtPriceX64(tick)
	if err != nil {
		return decimal.Zero, err
	}
	return SqrtPriceX64ToPrice(sqrtPrice, decimalsA, decimalsB), nil
}

// PriceToTickIndex returns the tick whose range holds price.
func PriceToTickIndex(price decimal.Decimal, decimalsA, decimalsB uint8) (int32, error) {
	sqrtPrice, err := PriceToSqrtPriceX64(price, decimalsA, decimalsB)
	if err != nil {
		return 0, err
	}
	return SqrtPriceX64ToTickIndex(sqrtPrice)
}

// PriceToInitializableTickIndex returns the initializable tick nearest to price.
func PriceToInitializableTickIndex(price decimal.Decimal, decimalsA, decimalsB uint8, tickSpacing uint16) (int32, error) {
	tick, err := PriceToTickIndex(price, decimalsA, decimalsB)
	if err != nil {
		return 0, err
	}
	return GetInitializableTickIndex(tick, tickSpacing), nil
}

// InvertPrice returns the price of token B in token A at the mirrored tick.
func InvertPrice(price decimal.Decimal, decimalsA, decimalsB uint8) (decimal.Decimal, error) {
	tick, err := PriceToTickIndex(price, decimalsA, decimalsB)
	if err != nil {
		return decimal.Zero, err
	}
	return TickIndexToPrice(-tick, decimalsB, decimalsA)
}

// InvertSqrtPriceX64 returns the sqrt price of the mirrored tick.
func InvertSqrtPriceX64(sqrtPrice uint128.Uint128) (uint128.Uint128, error) {
	tick, err := SqrtPriceX64ToTickIndex(sqrtPrice)
	if err != nil {
		return uint128.Zero, err
	}
	return TickIndexToSqrtPriceX64(-tick)
}
