package orca

import "lukechampine.com/uint128"

// DecreaseLiquidityQuoteParam describes removing liquidity from a range.
type DecreaseLiquidityQuoteParam struct {
	Liquidity      uint128.Uint128
	SqrtPrice      uint128.Uint128
	TickLowerIndex int32
	TickUpperIndex int32
	Slippage       Percentage
}

// DecreaseLiquidityQuote is what withdrawing liquidity returns.
type DecreaseLiquidityQuote struct {
	LiquidityAmount uint128.Uint128
	TokenEstA       uint64
	TokenEstB       uint64
	TokenMinA       uint64
	TokenMinB       uint64
}

// DecreaseLiquidityQuoteByLiquidity estimates the tokens returned for
// removing liquidity. Estimates round down and minimums are narrowed by the
// slippage tolerance.
func DecreaseLiquidityQuoteByLiquidity(param DecreaseLiquidityQuoteParam) (DecreaseLiquidityQuote, error) {
	if err := checkTickRange(param.TickLowerIndex, param.TickUpperIndex); err != nil {
		return DecreaseLiquidityQuote{}, err
	}
	if param.Liquidity.IsZero() {
		return DecreaseLiquidityQuote{}, nil
	}

	est, err := GetTokenEstimatesFromLiquidity(param.Liquidity, param.SqrtPrice, param.TickLowerIndex, param.TickUpperIndex, RoundingDown)
	if err != nil {
		return DecreaseLiquidityQuote{}, err
	}
	minA, err := AdjustForSlippage(est.TokenA, param.Slippage, RoundingDown)
	if err != nil {
		return DecreaseLiquidityQuote{}, err
	}
	minB, err := AdjustForSlippage(est.TokenB, param.Slippage, RoundingDown)
	if err != nil {
		return DecreaseLiquidityQuote{}, err
	}
	return DecreaseLiquidityQuote{
		LiquidityAmount: param.Liquidity,
		TokenEstA:       est.TokenA,
		TokenEstB:       est.TokenB,
		TokenMinA:       minA,
		TokenMinB:       minB,
	}, nil
}

// DecreaseLiquidityQuoteByLiquidityWithPool quotes removing liquidity from
// position at the pool's current price.
func DecreaseLiquidityQuoteByLiquidityWithPool(pool *WhirlpoolPool, position *WhirlpoolPosition, liquidity uint128.Uint128, slippage Percentage) (DecreaseLiquidityQuote, error) {
	return DecreaseLiquidityQuoteByLiquidity(DecreaseLiquidityQuoteParam{
		Liquidity:      liquidity,
		SqrtPrice:      pool.SqrtPrice,
		TickLowerIndex: position.TickLowerIndex,
		TickUpperIndex: position.TickUpperIndex,
		Slippage:       slippage,
	})
}
