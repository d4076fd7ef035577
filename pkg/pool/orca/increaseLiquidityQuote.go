package orca

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"
)

// IncreaseLiquidityQuoteParam describes a deposit of one token into a range.
type IncreaseLiquidityQuoteParam struct {
	InputTokenMint   solana.PublicKey
	InputTokenAmount uint64
	TokenMintA       solana.PublicKey
	TokenMintB       solana.PublicKey
	SqrtPrice        uint128.Uint128
	TickLowerIndex   int32
	TickUpperIndex   int32
	Slippage         Percentage
}

// IncreaseLiquidityQuote is the liquidity a deposit mints and what it costs.
type IncreaseLiquidityQuote struct {
	LiquidityAmount uint128.Uint128
	TokenEstA       uint64
	TokenEstB       uint64
	TokenMaxA       uint64
	TokenMaxB       uint64
}

// IncreaseLiquidityQuoteByInputTokenWithPool quotes depositing amount of
// inputMint into pool over [tickLower, tickUpper). Both ticks must be on the
// pool's tick spacing grid.
func IncreaseLiquidityQuoteByInputTokenWithPool(pool *WhirlpoolPool, inputMint solana.PublicKey, amount uint64, tickLower, tickUpper int32, slippage Percentage) (IncreaseLiquidityQuote, error) {
	if !IsTickInitializable(tickLower, pool.TickSpacing) || !IsTickInitializable(tickUpper, pool.TickSpacing) {
		return IncreaseLiquidityQuote{}, fmt.Errorf("range [%d, %d] not on spacing %d: %w",
			tickLower, tickUpper, pool.TickSpacing, ErrInvalidTickRange)
	}
	return IncreaseLiquidityQuoteByInputToken(IncreaseLiquidityQuoteParam{
		InputTokenMint:   inputMint,
		InputTokenAmount: amount,
		TokenMintA:       pool.TokenMintA,
		TokenMintB:       pool.TokenMintB,
		SqrtPrice:        pool.SqrtPrice,
		TickLowerIndex:   tickLower,
		TickUpperIndex:   tickUpper,
		Slippage:         slippage,
	})
}

// IncreaseLiquidityQuoteByInputToken converts a single token amount into
// liquidity and the token amounts needed to mint it. Estimates round up and
// maximums are widened by the slippage tolerance.
// Reference: whirlpools/legacy-sdk/whirlpool/src/quotes/public/increase-liquidity-quote.ts
func IncreaseLiquidityQuoteByInputToken(param IncreaseLiquidityQuoteParam) (IncreaseLiquidityQuote, error) {
	if !param.InputTokenMint.Equals(param.TokenMintA) && !param.InputTokenMint.Equals(param.TokenMintB) {
		return IncreaseLiquidityQuote{}, fmt.Errorf("mint %s: %w", param.InputTokenMint, ErrInvalidInputTokenMint)
	}
	if err := checkTickRange(param.TickLowerIndex, param.TickUpperIndex); err != nil {
		return IncreaseLiquidityQuote{}, err
	}

	status, err := GetStrictPositionStatus(param.SqrtPrice, param.TickLowerIndex, param.TickUpperIndex)
	if err != nil {
		return IncreaseLiquidityQuote{}, err
	}
	lower := mustTickIndexToSqrtPriceX64(param.TickLowerIndex)
	upper := mustTickIndexToSqrtPriceX64(param.TickUpperIndex)
	inputIsA := param.InputTokenMint.Equals(param.TokenMintA)

	var quote IncreaseLiquidityQuote
	switch status {
	case PositionStatusBelowRange:
		if !inputIsA {
			return IncreaseLiquidityQuote{}, nil
		}
		quote.LiquidityAmount, err = GetLiquidityFromTokenA(param.InputTokenAmount, lower, upper, RoundingDown)
		if err != nil {
			return IncreaseLiquidityQuote{}, err
		}
		quote.TokenEstA, err = GetTokenAFromLiquidity(quote.LiquidityAmount, lower, upper, RoundingUp)

	case PositionStatusAboveRange:
		if inputIsA {
			return IncreaseLiquidityQuote{}, nil
		}
		quote.LiquidityAmount, err = GetLiquidityFromTokenB(param.InputTokenAmount, lower, upper, RoundingDown)
		if err != nil {
			return IncreaseLiquidityQuote{}, err
		}
		quote.TokenEstB, err = GetTokenBFromLiquidity(quote.LiquidityAmount, lower, upper, RoundingUp)

	default:
		if inputIsA {
			quote.LiquidityAmount, err = GetLiquidityFromTokenA(param.InputTokenAmount, param.SqrtPrice, upper, RoundingDown)
		} else {
			quote.LiquidityAmount, err = GetLiquidityFromTokenB(param.InputTokenAmount, lower, param.SqrtPrice, RoundingDown)
		}
		if err != nil {
			return IncreaseLiquidityQuote{}, err
		}
		quote.TokenEstA, err = GetTokenAFromLiquidity(quote.LiquidityAmount, param.SqrtPrice, upper, RoundingUp)
		if err != nil {
			return IncreaseLiquidityQuote{}, err
		}
		quote.TokenEstB, err = GetTokenBFromLiquidity(quote.LiquidityAmount, lower, param.SqrtPrice, RoundingUp)
	}
	if err != nil {
		return IncreaseLiquidityQuote{}, err
	}

	if quote.TokenMaxA, err = AdjustForSlippage(quote.TokenEstA, param.Slippage, RoundingUp); err != nil {
		return IncreaseLiquidityQuote{}, err
	}
	if quote.TokenMaxB, err = AdjustForSlippage(quote.TokenEstB, param.Slippage, RoundingUp); err != nil {
		return IncreaseLiquidityQuote{}, err
	}
	return quote, nil
}
