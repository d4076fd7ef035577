package orca

import (
	"fmt"

	"github.com/holiman/uint256"
	"lukechampine.com/uint128"
)

// increasingPriceOrder returns the two prices ordered low, high.
func increasingPriceOrder(a, b uint128.Uint128) (lower, upper uint128.Uint128) {
	if a.Cmp(b) > 0 {
		return b, a
	}
	return a, b
}

// GetAmountDeltaA returns the amount of token A between two sqrt prices at
// the given liquidity: L * (√Pu - √Pl) * 2^64 / (√Pl * √Pu).
func GetAmountDeltaA(sqrtPrice0, sqrtPrice1, liquidity uint128.Uint128, rounding Rounding) (uint64, error) {
	lower, upper := increasingPriceOrder(sqrtPrice0, sqrtPrice1)
	diff := U128ToU256(upper.Sub(lower))

	product, err := Mul(U128ToU256(liquidity), diff, 256)
	if err != nil {
		return 0, fmt.Errorf("amount delta a: %w", err)
	}
	numerator, err := ShiftLeft64(product)
	if err != nil {
		return 0, fmt.Errorf("amount delta a: %w", err)
	}
	denominator, err := Mul(U128ToU256(upper), U128ToU256(lower), 256)
	if err != nil {
		return 0, fmt.Errorf("amount delta a: %w", err)
	}
	result, err := DivRoundUpIf(numerator, denominator, rounding == RoundingUp)
	if err != nil {
		return 0, fmt.Errorf("amount delta a: %w", err)
	}
	return U256ToU64(result)
}

// GetAmountDeltaB returns the amount of token B between two sqrt prices at
// the given liquidity: L * (√Pu - √Pl) >> 64.
func GetAmountDeltaB(sqrtPrice0, sqrtPrice1, liquidity uint128.Uint128, rounding Rounding) (uint64, error) {
	lower, upper := increasingPriceOrder(sqrtPrice0, sqrtPrice1)
	diff := U128ToU256(upper.Sub(lower))

	result, err := MulShiftRight64(U128ToU256(liquidity), diff, rounding)
	if err != nil {
		return 0, fmt.Errorf("amount delta b: %w", err)
	}
	return U256ToU64(result)
}

// GetNextSqrtPrice returns the sqrt price reached after trading amount from
// sqrtPrice. Token A moves the price with the A formula, rounding up; token B
// with the B formula, rounding down.
func GetNextSqrtPrice(sqrtPrice, liquidity uint128.Uint128, amount uint64, kind AmountKind, direction SwapDirection) (uint128.Uint128, error) {
	if kind.IsSwapInput() == direction.IsAToB() {
		return GetNextSqrtPriceFromARoundUp(sqrtPrice, liquidity, amount, kind)
	}
	return GetNextSqrtPriceFromBRoundDown(sqrtPrice, liquidity, amount, kind)
}

// GetNextSqrtPriceFromARoundUp computes L·√P·2^64 / (L·2^64 ± amount·√P),
// adding when amount is an input.
func GetNextSqrtPriceFromARoundUp(sqrtPrice, liquidity uint128.Uint128, amount uint64, kind AmountKind) (uint128.Uint128, error) {
	if amount == 0 {
		return sqrtPrice, nil
	}
	sqrtPrice256 := U128ToU256(sqrtPrice)

	product, err := Mul(sqrtPrice256, uint256.NewInt(amount), 256)
	if err != nil {
		return uint128.Zero, fmt.Errorf("next sqrt price from a: %w", err)
	}
	liquidityPrice, err := Mul(U128ToU256(liquidity), sqrtPrice256, 256)
	if err != nil {
		return uint128.Zero, fmt.Errorf("next sqrt price from a: %w", err)
	}
	numerator, err := ShiftLeft64(liquidityPrice)
	if err != nil {
		return uint128.Zero, fmt.Errorf("next sqrt price from a: numerator: %w", err)
	}

	liquidityX64 := new(uint256.Int).Lsh(U128ToU256(liquidity), 64)
	var denominator *uint256.Int
	if kind.IsSwapInput() {
		var overflow bool
		denominator, overflow = new(uint256.Int).AddOverflow(liquidityX64, product)
		if overflow {
			return uint128.Zero, fmt.Errorf("next sqrt price from a: denominator: %w", ErrMultiplicationOverflow)
		}
	} else {
		if liquidityX64.Cmp(product) <= 0 {
			return uint128.Zero, fmt.Errorf("next sqrt price from a: liquidity cannot cover output: %w", ErrDivideByZero)
		}
		denominator = new(uint256.Int).Sub(liquidityX64, product)
	}

	price, err := DivRoundUp(numerator, denominator)
	if err != nil {
		return uint128.Zero, fmt.Errorf("next sqrt price from a: %w", err)
	}
	if price.Lt(U128ToU256(MIN_SQRT_PRICE_X64)) {
		return uint128.Zero, fmt.Errorf("next sqrt price from a: %w", ErrSqrtPriceMinSubceeded)
	}
	if price.Gt(U128ToU256(MAX_SQRT_PRICE_X64)) {
		return uint128.Zero, fmt.Errorf("next sqrt price from a: %w", ErrSqrtPriceMaxExceeded)
	}
	return U256ToU128(price)
}

// GetNextSqrtPriceFromBRoundDown computes √P ± amount·2^64 / L. Inputs round
// the delta down; outputs round it up so the price never overshoots.
func GetNextSqrtPriceFromBRoundDown(sqrtPrice, liquidity uint128.Uint128, amount uint64, kind AmountKind) (uint128.Uint128, error) {
	amountX64 := new(uint256.Int).Lsh(uint256.NewInt(amount), 64)
	delta, err := DivRoundUpIf(amountX64, U128ToU256(liquidity), !kind.IsSwapInput())
	if err != nil {
		return uint128.Zero, fmt.Errorf("next sqrt price from b: %w", err)
	}

	sqrtPrice256 := U128ToU256(sqrtPrice)
	var next *uint256.Int
	if kind.IsSwapInput() {
		next = new(uint256.Int).Add(sqrtPrice256, delta)
	} else {
		if sqrtPrice256.Lt(delta) {
			return uint128.Zero, fmt.Errorf("next sqrt price from b: %w", ErrSqrtPriceMinSubceeded)
		}
		next = new(uint256.Int).Sub(sqrtPrice256, delta)
	}
	if next.Gt(U128ToU256(MAX_SQRT_PRICE_X64)) {
		return uint128.Zero, fmt.Errorf("next sqrt price from b: %w", ErrSqrtPriceMaxExceeded)
	}
	if next.Lt(U128ToU256(MIN_SQRT_PRICE_X64)) {
		return uint128.Zero, fmt.Errorf("next sqrt price from b: %w", ErrSqrtPriceMinSubceeded)
	}
	return U256ToU128(next)
}
