package orca

import (
	"fmt"

	"github.com/holiman/uint256"
	"lukechampine.com/uint128"
)

// GetLiquidityFromTokenA returns the liquidity amount of token A provides
// over [sqrtPrice0, sqrtPrice1]: amount * √Pl * √Pu / (√Pu - √Pl) >> 64.
func GetLiquidityFromTokenA(amount uint64, sqrtPrice0, sqrtPrice1 uint128.Uint128, rounding Rounding) (uint128.Uint128, error) {
	lower, upper := increasingPriceOrder(sqrtPrice0, sqrtPrice1)
	diff := U128ToU256(upper.Sub(lower))
	if diff.IsZero() {
		return uint128.Zero, fmt.Errorf("liquidity from a: %w", ErrDivideByZero)
	}

	product, err := Mul(U128ToU256(lower), U128ToU256(upper), 256)
	if err != nil {
		return uint128.Zero, fmt.Errorf("liquidity from a: %w", err)
	}
	numerator, err := Mul(uint256.NewInt(amount), product, 256)
	if err != nil {
		return uint128.Zero, fmt.Errorf("liquidity from a: %w", err)
	}
	liquidityX64, err := DivRoundUpIf(numerator, diff, false)
	if err != nil {
		return uint128.Zero, fmt.Errorf("liquidity from a: %w", err)
	}
	liquidity := FromX64(liquidityX64)
	if rounding == RoundingUp && !new(uint256.Int).And(liquidityX64, U128ToU256(U64_MAX)).IsZero() {
		liquidity.AddUint64(liquidity, 1)
	}
	return U256ToU128(liquidity)
}

// GetLiquidityFromTokenB returns the liquidity amount of token B provides
// over [sqrtPrice0, sqrtPrice1]: (amount << 64) / (√Pu - √Pl).
func GetLiquidityFromTokenB(amount uint64, sqrtPrice0, sqrtPrice1 uint128.Uint128, rounding Rounding) (uint128.Uint128, error) {
	lower, upper := increasingPriceOrder(sqrtPrice0, sqrtPrice1)
	diff := U128ToU256(upper.Sub(lower))
	amountX64 := new(uint256.Int).Lsh(uint256.NewInt(amount), 64)

	liquidity, err := DivRoundUpIf(amountX64, diff, rounding == RoundingUp)
	if err != nil {
		return uint128.Zero, fmt.Errorf("liquidity from b: %w", err)
	}
	return U256ToU128(liquidity)
}

// GetTokenAFromLiquidity is the token A amount backing liquidity over the range.
func GetTokenAFromLiquidity(liquidity, sqrtPrice0, sqrtPrice1 uint128.Uint128, rounding Rounding) (uint64, error) {
	return GetAmountDeltaA(sqrtPrice0, sqrtPrice1, liquidity, rounding)
}

// GetTokenBFromLiquidity is the token B amount backing liquidity over the range.
func GetTokenBFromLiquidity(liquidity, sqrtPrice0, sqrtPrice1 uint128.Uint128, rounding Rounding) (uint64, error) {
	return GetAmountDeltaB(sqrtPrice0, sqrtPrice1, liquidity, rounding)
}

// TokenAmounts is a pair of token amounts.
type TokenAmounts struct {
	TokenA uint64
	TokenB uint64
}

// GetTokenEstimatesFromLiquidity splits liquidity over [tickLower, tickUpper)
// into token amounts at the current sqrt price.
func GetTokenEstimatesFromLiquidity(liquidity, sqrtPrice uint128.Uint128, tickLower, tickUpper int32, rounding Rounding) (TokenAmounts, error) {
	if liquidity.IsZero() {
		return TokenAmounts{}, nil
	}
	lower, err := TickIndexToSqrtPriceX64(tickLower)
	if err != nil {
		return TokenAmounts{}, err
	}
	upper, err := TickIndexToSqrtPriceX64(tickUpper)
	if err != nil {
		return TokenAmounts{}, err
	}

	var amounts TokenAmounts
	switch {
	case sqrtPrice.Cmp(lower) < 0:
		amounts.TokenA, err = GetTokenAFromLiquidity(liquidity, lower, upper, rounding)
	case sqrtPrice.Cmp(upper) < 0:
		amounts.TokenA, err = GetTokenAFromLiquidity(liquidity, sqrtPrice, upper, rounding)
		if err == nil {
			amounts.TokenB, err = GetTokenBFromLiquidity(liquidity, lower, sqrtPrice, rounding)
		}
	default:
		amounts.TokenB, err = GetTokenBFromLiquidity(liquidity, lower, upper, rounding)
	}
	if err != nil {
		return TokenAmounts{}, err
	}
	return amounts, nil
}

// EstimateLiquidityFromTokenAmounts returns the most liquidity both amounts can
// fund over [tickLower, tickUpper) at tickCurrentIndex.
func EstimateLiquidityFromTokenAmounts(tickCurrentIndex, tickLower, tickUpper int32, amounts TokenAmounts) (uint128.Uint128, error) {
	if err := checkTickRange(tickLower, tickUpper); err != nil {
		return uint128.Zero, err
	}
	current, err := TickIndexToSqrtPriceX64(tickCurrentIndex)
	if err != nil {
		return uint128.Zero, err
	}
	lower, err := TickIndexToSqrtPriceX64(tickLower)
	if err != nil {
		return uint128.Zero, err
	}
	upper, err := TickIndexToSqrtPriceX64(tickUpper)
	if err != nil {
		return uint128.Zero, err
	}

	switch {
	case tickCurrentIndex >= tickUpper:
		return GetLiquidityFromTokenB(amounts.TokenB, lower, upper, RoundingDown)
	case tickCurrentIndex < tickLower:
		return GetLiquidityFromTokenA(amounts.TokenA, lower, upper, RoundingDown)
	}
	fromA, err := GetLiquidityFromTokenA(amounts.TokenA, current, upper, RoundingDown)
	if err != nil {
		return uint128.Zero, err
	}
	if current.Equals(lower) {
		// no token B is needed at the lower bound
		return fromA, nil
	}
	fromB, err := GetLiquidityFromTokenB(amounts.TokenB, lower, current, RoundingDown)
	if err != nil {
		return uint128.Zero, err
	}
	if fromA.Cmp(fromB) < 0 {
		return fromA, nil
	}
	return fromB, nil
}
