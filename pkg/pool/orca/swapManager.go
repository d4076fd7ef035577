package orca

import (
	"fmt"
	"math/big"

	cosmath "cosmossdk.io/math"
	"github.com/holiman/uint256"
	"lukechampine.com/uint128"
)

// SwapResult is the pool state a swap would leave behind together with the
// traded amounts.
type SwapResult struct {
	AmountA       uint64
	AmountB       uint64
	NextTickIndex int32
	NextSqrtPrice uint128.Uint128
	NextLiquidity uint128.Uint128
	TotalFee      uint64

	// ProtocolFee is the part of TotalFee kept by the protocol.
	ProtocolFee uint64
	// NextFeeGrowthGlobal is the fee growth global of the input token.
	NextFeeGrowthGlobal uint128.Uint128
}

// ComputeSwap runs the swap loop over the tick array sequence until the amount
// is used up or sqrtPriceLimit is reached.
// Reference: whirlpools/programs/whirlpool/src/manager/swap_manager.rs
func ComputeSwap(
	pool *WhirlpoolPool,
	sequence *TickArraySequence,
	amount uint64,
	sqrtPriceLimit uint128.Uint128,
	kind AmountKind,
	direction SwapDirection,
) (SwapResult, error) {
	if amount == 0 {
		return SwapResult{}, ErrZeroTradableAmount
	}

	amountRemaining := amount
	var amountCalculated, totalFee, protocolFee uint64

	currSqrtPrice := pool.SqrtPrice
	currTickIndex := pool.TickCurrentIndex
	currLiquidity := pool.Liquidity
	feeGrowthGlobal := pool.FeeGrowthGlobalB
	if direction.IsAToB() {
		feeGrowthGlobal = pool.FeeGrowthGlobalA
	}

	for amountRemaining > 0 && !currSqrtPrice.Equals(sqrtPriceLimit) {
		nextTickIndex, err := sequence.GetNextInitializedTickIndex(currTickIndex)
		if err != nil {
			return SwapResult{}, err
		}
		nextTickSqrtPrice, err := TickIndexToSqrtPriceX64(nextTickIndex)
		if err != nil {
			return SwapResult{}, err
		}

		targetSqrtPrice := nextTickSqrtPrice
		if direction.IsAToB() && sqrtPriceLimit.Cmp(targetSqrtPrice) > 0 {
			targetSqrtPrice = sqrtPriceLimit
		} else if !direction.IsAToB() && sqrtPriceLimit.Cmp(targetSqrtPrice) < 0 {
			targetSqrtPrice = sqrtPriceLimit
		}

		step, err := ComputeSwapStep(amountRemaining, pool.FeeRate, currLiquidity, currSqrtPrice, targetSqrtPrice, kind, direction)
		if err != nil {
			return SwapResult{}, fmt.Errorf("swap step at tick %d: %w", currTickIndex, err)
		}

		if kind.IsSwapInput() {
			if amountRemaining, err = checkedSub(amountRemaining, step.AmountIn, step.FeeAmount); err != nil {
				return SwapResult{}, err
			}
			if amountCalculated, err = checkedAdd(amountCalculated, step.AmountOut); err != nil {
				return SwapResult{}, err
			}
		} else {
			if amountRemaining, err = checkedSub(amountRemaining, step.AmountOut); err != nil {
				return SwapResult{}, err
			}
			if amountCalculated, err = checkedAdd(amountCalculated, step.AmountIn, step.FeeAmount); err != nil {
				return SwapResult{}, err
			}
		}

		stepProtocolFee, growthDelta := splitFee(step.FeeAmount, pool.ProtocolFeeRate, currLiquidity)
		if totalFee, err = checkedAdd(totalFee, step.FeeAmount); err != nil {
			return SwapResult{}, err
		}
		protocolFee += stepProtocolFee
		feeGrowthGlobal = AddWrapU128(feeGrowthGlobal, growthDelta)

		if step.NextSqrtPrice.Equals(nextTickSqrtPrice) {
			tick, err := sequence.GetTick(nextTickIndex)
			if err != nil {
				return SwapResult{}, err
			}
			if tick.Initialized {
				if currLiquidity, err = crossTick(currLiquidity, tick.LiquidityNet, direction); err != nil {
					return SwapResult{}, fmt.Errorf("cross tick %d: %w", nextTickIndex, err)
				}
			}
			if direction.IsAToB() {
				currTickIndex = nextTickIndex - 1
			} else {
				currTickIndex = nextTickIndex
			}
		} else if !step.NextSqrtPrice.Equals(currSqrtPrice) {
			if currTickIndex, err = SqrtPriceX64ToTickIndex(step.NextSqrtPrice); err != nil {
				return SwapResult{}, err
			}
		}
		currSqrtPrice = step.NextSqrtPrice
		sequence.touch(currTickIndex)
	}

	// derive the final amounts from the totals so per-step rounding does not drift
	swapped := amount - amountRemaining
	result := SwapResult{
		NextTickIndex:       currTickIndex,
		NextSqrtPrice:       currSqrtPrice,
		NextLiquidity:       currLiquidity,
		TotalFee:            totalFee,
		ProtocolFee:         protocolFee,
		NextFeeGrowthGlobal: feeGrowthGlobal,
	}
	if direction.IsAToB() == kind.IsSwapInput() {
		result.AmountA, result.AmountB = swapped, amountCalculated
	} else {
		result.AmountA, result.AmountB = amountCalculated, swapped
	}
	return result, nil
}

// splitFee returns the protocol's share of fee and the fee growth increment
// for liquidity providers. No growth accrues when liquidity is zero.
func splitFee(fee uint64, protocolFeeRate uint16, liquidity uint128.Uint128) (protocolFee uint64, growthDelta uint128.Uint128) {
	lpFee := fee
	if protocolFeeRate > 0 {
		// fee * rate / 10_000 < fee, so it fits in u64
		protocolFee = uint128.From64(fee).Mul64(uint64(protocolFeeRate)).Div64(PROTOCOL_FEE_RATE_DENOMINATOR).Lo
		lpFee -= protocolFee
	}
	if liquidity.IsZero() {
		return protocolFee, uint128.Zero
	}
	growth := new(uint256.Int).Lsh(uint256.NewInt(lpFee), 64)
	growth.Div(growth, U128ToU256(liquidity))
	// lpFee < 2^64 so the quotient fits in 128 bits
	return protocolFee, uint128.New(growth[0], growth[1])
}

// crossTick applies a tick's liquidity net. Moving the price down removes it,
// moving up adds it.
func crossTick(liquidity uint128.Uint128, liquidityNet cosmath.Int, direction SwapDirection) (uint128.Uint128, error) {
	if liquidityNet.IsNil() || liquidityNet.IsZero() {
		return liquidity, nil
	}
	delta := liquidityNet.BigInt()
	if direction.IsAToB() {
		delta.Neg(delta)
	}
	next := new(big.Int).Add(liquidity.Big(), delta)
	if next.Sign() < 0 {
		return uint128.Zero, ErrLiquidityUnderflow
	}
	if next.BitLen() > 128 {
		return uint128.Zero, ErrLiquidityOverflow
	}
	return uint128.FromBig(next), nil
}

func checkedAdd(base uint64, values ...uint64) (uint64, error) {
	for _, v := range values {
		sum := base + v
		if sum < base {
			return 0, fmt.Errorf("amount calculated: %w", ErrTokenMaxExceeded)
		}
		base = sum
	}
	return base, nil
}

func checkedSub(base uint64, values ...uint64) (uint64, error) {
	for _, v := range values {
		if v > base {
			return 0, fmt.Errorf("amount remaining: %w", ErrTokenMaxExceeded)
		}
		base -= v
	}
	return base, nil
}
