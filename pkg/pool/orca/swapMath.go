package orca

import (
	"errors"

	"github.com/holiman/uint256"
	"lukechampine.com/uint128"
)

// SwapStep is the outcome of trading across one monotonic price segment.
type SwapStep struct {
	AmountIn      uint64
	AmountOut     uint64
	NextSqrtPrice uint128.Uint128
	FeeAmount     uint64
}

// ComputeSwapStep trades amountRemaining between sqrtPrice and
// targetSqrtPrice at constant liquidity.
// Reference: whirlpools/programs/whirlpool/src/math/swap_math.rs
func ComputeSwapStep(
	amountRemaining uint64,
	feeRate uint16,
	liquidity uint128.Uint128,
	sqrtPrice uint128.Uint128,
	targetSqrtPrice uint128.Uint128,
	kind AmountKind,
	direction SwapDirection,
) (SwapStep, error) {
	// a delta to the target that does not fit in u64 can never be covered
	amountFixedDelta, err := getAmountFixedDelta(sqrtPrice, targetSqrtPrice, liquidity, kind, direction)
	fixedDeltaExceedsMax := errors.Is(err, ErrTokenMaxExceeded)
	if err != nil && !fixedDeltaExceedsMax {
		return SwapStep{}, err
	}

	// deduct the fee up front when the amount is an input
	amountCalc := amountRemaining
	if kind.IsSwapInput() {
		calc, err := MulDiv(
			uint256.NewInt(amountRemaining),
			uint256.NewInt(FEE_RATE_DENOMINATOR-uint64(feeRate)),
			uint256.NewInt(FEE_RATE_DENOMINATOR),
			128,
			RoundingDown,
		)
		if err != nil {
			return SwapStep{}, err
		}
		amountCalc = calc.Uint64()
	}

	nextSqrtPrice := targetSqrtPrice
	if fixedDeltaExceedsMax || amountCalc < amountFixedDelta {
		nextSqrtPrice, err = GetNextSqrtPrice(sqrtPrice, liquidity, amountCalc, kind, direction)
		if err != nil {
			return SwapStep{}, err
		}
	}
	isMaxSwap := nextSqrtPrice.Equals(targetSqrtPrice)

	amountUnfixedDelta, err := getAmountUnfixedDelta(sqrtPrice, nextSqrtPrice, liquidity, kind, direction)
	if err != nil {
		return SwapStep{}, err
	}
	if !isMaxSwap || fixedDeltaExceedsMax {
		amountFixedDelta, err = getAmountFixedDelta(sqrtPrice, nextSqrtPrice, liquidity, kind, direction)
		if err != nil {
			return SwapStep{}, err
		}
	}

	var amountIn, amountOut uint64
	if kind.IsSwapInput() {
		amountIn, amountOut = amountFixedDelta, amountUnfixedDelta
	} else {
		amountIn, amountOut = amountUnfixedDelta, amountFixedDelta
	}
	if !kind.IsSwapInput() && amountOut > amountRemaining {
		amountOut = amountRemaining
	}

	var feeAmount uint64
	if kind.IsSwapInput() && !isMaxSwap {
		// the residual of the up-front deduction is the fee
		feeAmount = amountRemaining - amountIn
	} else {
		fee, err := MulDiv(
			uint256.NewInt(amountIn),
			uint256.NewInt(uint64(feeRate)),
			uint256.NewInt(FEE_RATE_DENOMINATOR-uint64(feeRate)),
			128,
			RoundingUp,
		)
		if err != nil {
			return SwapStep{}, err
		}
		feeAmount, err = U256ToU64(fee)
		if err != nil {
			return SwapStep{}, err
		}
	}

	return SwapStep{
		AmountIn:      amountIn,
		AmountOut:     amountOut,
		NextSqrtPrice: nextSqrtPrice,
		FeeAmount:     feeAmount,
	}, nil
}

// getAmountFixedDelta returns the delta of the token the request fixes.
// Inputs round up, outputs round down.
func getAmountFixedDelta(currSqrtPrice, targetSqrtPrice, liquidity uint128.Uint128, kind AmountKind, direction SwapDirection) (uint64, error) {
	if direction.IsAToB() == kind.IsSwapInput() {
		return GetAmountDeltaA(currSqrtPrice, targetSqrtPrice, liquidity, roundUpIf(kind.IsSwapInput()))
	}
	return GetAmountDeltaB(currSqrtPrice, targetSqrtPrice, liquidity, roundUpIf(kind.IsSwapInput()))
}

// getAmountUnfixedDelta returns the delta of the other token, rounded the
// opposite way.
func getAmountUnfixedDelta(currSqrtPrice, targetSqrtPrice, liquidity uint128.Uint128, kind AmountKind, direction SwapDirection) (uint64, error) {
	if direction.IsAToB() == kind.IsSwapInput() {
		return GetAmountDeltaB(currSqrtPrice, targetSqrtPrice, liquidity, roundUpIf(!kind.IsSwapInput()))
	}
	return GetAmountDeltaA(currSqrtPrice, targetSqrtPrice, liquidity, roundUpIf(!kind.IsSwapInput()))
}
