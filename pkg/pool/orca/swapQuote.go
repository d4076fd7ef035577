package orca

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"
)

// SwapQuoteParams is a fully specified swap simulation request.
type SwapQuoteParams struct {
	Pool       *WhirlpoolPool
	TickArrays []*WhirlpoolTickArray

	TokenAmount uint64
	AmountKind  AmountKind
	Direction   SwapDirection

	// SqrtPriceLimit of zero selects the bound in the swap direction.
	SqrtPriceLimit       uint128.Uint128
	OtherAmountThreshold uint64

	TickArrayReduction TickArrayReduction
}

// SwapQuote is the simulated outcome of a swap.
type SwapQuote struct {
	EstimatedAmountIn     uint64
	EstimatedAmountOut    uint64
	EstimatedEndTickIndex int32
	EstimatedEndSqrtPrice uint128.Uint128
	EstimatedEndLiquidity uint128.Uint128
	EstimatedFeeAmount    uint64

	EstimatedProtocolFee uint64
	// EstimatedFeeGrowthGlobal is the input token's fee growth global after the swap.
	EstimatedFeeGrowthGlobal uint128.Uint128

	Amount               uint64
	AmountKind           AmountKind
	Direction            SwapDirection
	SqrtPriceLimit       uint128.Uint128
	OtherAmountThreshold uint64

	TickArrays []solana.PublicKey
}

// DefaultSqrtPriceLimit is the price bound a swap in direction may run to.
func DefaultSqrtPriceLimit(direction SwapDirection) uint128.Uint128 {
	if direction.IsAToB() {
		return MIN_SQRT_PRICE_X64
	}
	return MAX_SQRT_PRICE_X64
}

// DefaultOtherAmountThreshold is the threshold that never trips the guard.
func DefaultOtherAmountThreshold(kind AmountKind) uint64 {
	if kind.IsSwapInput() {
		return 0
	}
	return ^uint64(0)
}

// SimulateSwap validates params and runs the swap. The caller's
// OtherAmountThreshold is enforced and returned unchanged.
func SimulateSwap(params SwapQuoteParams) (SwapQuote, error) {
	pool := params.Pool
	if pool == nil {
		return SwapQuote{}, fmt.Errorf("nil pool: %w", ErrInvalidAccountData)
	}

	limit := params.SqrtPriceLimit
	if limit.IsZero() {
		limit = DefaultSqrtPriceLimit(params.Direction)
	}
	if !IsSqrtPriceInBounds(limit) {
		return SwapQuote{}, fmt.Errorf("sqrt price limit %s: %w", limit, ErrSqrtPriceOutOfBounds)
	}
	if params.Direction.IsAToB() && limit.Cmp(pool.SqrtPrice) >= 0 ||
		!params.Direction.IsAToB() && limit.Cmp(pool.SqrtPrice) <= 0 {
		return SwapQuote{}, fmt.Errorf("sqrt price limit %s vs price %s (%s): %w",
			limit, pool.SqrtPrice, params.Direction, ErrInvalidSqrtPriceLimitDirection)
	}
	if params.TokenAmount == 0 {
		return SwapQuote{}, ErrZeroTradableAmount
	}

	sequence, err := NewTickArraySequence(params.TickArrays, pool.TickCurrentIndex, pool.TickSpacing, params.Direction)
	if err != nil {
		return SwapQuote{}, err
	}
	result, err := ComputeSwap(pool, sequence, params.TokenAmount, limit, params.AmountKind, params.Direction)
	if err != nil {
		return SwapQuote{}, err
	}

	amountIn, amountOut := result.AmountB, result.AmountA
	if params.Direction.IsAToB() {
		amountIn, amountOut = result.AmountA, result.AmountB
	}
	if params.AmountKind.IsSwapInput() && amountOut < params.OtherAmountThreshold {
		return SwapQuote{}, fmt.Errorf("out %d < minimum %d: %w", amountOut, params.OtherAmountThreshold, ErrAmountOutBelowMinimum)
	}
	if !params.AmountKind.IsSwapInput() && amountIn > params.OtherAmountThreshold {
		return SwapQuote{}, fmt.Errorf("in %d > maximum %d: %w", amountIn, params.OtherAmountThreshold, ErrAmountInAboveMaximum)
	}

	return SwapQuote{
		EstimatedAmountIn:        amountIn,
		EstimatedAmountOut:       amountOut,
		EstimatedEndTickIndex:    result.NextTickIndex,
		EstimatedEndSqrtPrice:    result.NextSqrtPrice,
		EstimatedEndLiquidity:    result.NextLiquidity,
		EstimatedFeeAmount:       result.TotalFee,
		EstimatedProtocolFee:     result.ProtocolFee,
		EstimatedFeeGrowthGlobal: result.NextFeeGrowthGlobal,
		Amount:                   params.TokenAmount,
		AmountKind:               params.AmountKind,
		Direction:                params.Direction,
		SqrtPriceLimit:           limit,
		OtherAmountThreshold:     params.OtherAmountThreshold,
		TickArrays:               sequence.GetTouchedTickArrayAddresses(params.TickArrayReduction),
	}, nil
}

// SwapQuoteWithParams simulates the swap and replaces OtherAmountThreshold
// with the simulated other side adjusted by slippage: a minimum output for
// exact input, a maximum input for exact output.
func SwapQuoteWithParams(params SwapQuoteParams, slippage Percentage) (SwapQuote, error) {
	quote, err := SimulateSwap(params)
	if err != nil {
		return SwapQuote{}, err
	}
	if quote.AmountKind.IsSwapInput() {
		quote.OtherAmountThreshold, err = AdjustForSlippage(quote.EstimatedAmountOut, slippage, RoundingDown)
	} else {
		quote.OtherAmountThreshold, err = AdjustForSlippage(quote.EstimatedAmountIn, slippage, RoundingUp)
	}
	if err != nil {
		return SwapQuote{}, fmt.Errorf("adjust for slippage: %w", err)
	}
	return quote, nil
}

// SwapQuoteByInputToken quotes selling amount of inputMint.
func SwapQuoteByInputToken(pool *WhirlpoolPool, inputMint solana.PublicKey, amount uint64, slippage Percentage, tickArrays []*WhirlpoolTickArray) (SwapQuote, error) {
	direction, err := pool.Direction(inputMint)
	if err != nil {
		return SwapQuote{}, err
	}
	return SwapQuoteWithParams(SwapQuoteParams{
		Pool:                 pool,
		TickArrays:           tickArrays,
		TokenAmount:          amount,
		AmountKind:           AmountKindSwapInput,
		Direction:            direction,
		OtherAmountThreshold: DefaultOtherAmountThreshold(AmountKindSwapInput),
	}, slippage)
}

// SwapQuoteByOutputToken quotes buying amount of outputMint.
func SwapQuoteByOutputToken(pool *WhirlpoolPool, outputMint solana.PublicKey, amount uint64, slippage Percentage, tickArrays []*WhirlpoolTickArray) (SwapQuote, error) {
	var direction SwapDirection
	switch {
	case outputMint.Equals(pool.TokenMintA):
		direction = SwapDirectionBToA
	case outputMint.Equals(pool.TokenMintB):
		direction = SwapDirectionAToB
	default:
		return SwapQuote{}, fmt.Errorf("mint %s not in pool %s: %w", outputMint, pool.PoolId, ErrInvalidInputTokenMint)
	}
	return SwapQuoteWithParams(SwapQuoteParams{
		Pool:                 pool,
		TickArrays:           tickArrays,
		TokenAmount:          amount,
		AmountKind:           AmountKindSwapOutput,
		Direction:            direction,
		OtherAmountThreshold: DefaultOtherAmountThreshold(AmountKindSwapOutput),
	}, slippage)
}
