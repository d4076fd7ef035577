package orca

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

const (
	rangeLower = -113280
	rangeUpper = -112640
)

func TestIncreaseLiquidityQuoteByInputToken(t *testing.T) {
	tests := []struct {
		name         string
		inputMint    bool // true for token A
		lower, upper int32
		want         IncreaseLiquidityQuote
	}{
		{
			name: "in range token a", inputMint: true, lower: rangeLower, upper: rangeUpper,
			want: IncreaseLiquidityQuote{LiquidityAmount: uint128.From64(224397), TokenEstA: 999997, TokenEstB: 13, TokenMaxA: 1009997, TokenMaxB: 14},
		},
		{
			name: "in range token b", inputMint: false, lower: rangeLower, upper: rangeUpper,
			want: IncreaseLiquidityQuote{LiquidityAmount: uint128.From64(17691631737), TokenEstA: 78840503790, TokenEstB: 1_000_000, TokenMaxA: 79628908828, TokenMaxB: 1_010_000},
		},
		{
			name: "range above price takes token a", inputMint: true, lower: -112640, upper: -112000,
			want: IncreaseLiquidityQuote{LiquidityAmount: uint128.From64(113756), TokenEstA: 999994, TokenMaxA: 1009994},
		},
		{
			name: "range below price takes token b", inputMint: false, lower: -113920, upper: -113280,
			want: IncreaseLiquidityQuote{LiquidityAmount: uint128.From64(9152137440), TokenEstB: 1_000_000, TokenMaxB: 1_010_000},
		},
		{
			name: "range above price ignores token b", inputMint: false, lower: -112640, upper: -112000,
			want: IncreaseLiquidityQuote{},
		},
		{
			name: "range below price ignores token a", inputMint: true, lower: -113920, upper: -113280,
			want: IncreaseLiquidityQuote{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mint := testMintB
			if tt.inputMint {
				mint = testMintA
			}
			got, err := IncreaseLiquidityQuoteByInputToken(IncreaseLiquidityQuoteParam{
				InputTokenMint:   mint,
				InputTokenAmount: 1_000_000,
				TokenMintA:       testMintA,
				TokenMintB:       testMintB,
				SqrtPrice:        uint128.From64(testSqrtPrice),
				TickLowerIndex:   tt.lower,
				TickUpperIndex:   tt.upper,
				Slippage:         onePercent,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIncreaseLiquidityQuoteErrors(t *testing.T) {
	pool := newTestPool(1_000_000_000)

	_, err := IncreaseLiquidityQuoteByInputTokenWithPool(pool, testPoolID, 1, rangeLower, rangeUpper, onePercent)
	assert.ErrorIs(t, err, ErrInvalidInputTokenMint)

	_, err = IncreaseLiquidityQuoteByInputTokenWithPool(pool, testMintA, 1, rangeLower+1, rangeUpper, onePercent)
	assert.ErrorIs(t, err, ErrInvalidTickRange)

	_, err = IncreaseLiquidityQuoteByInputTokenWithPool(pool, testMintA, 1, rangeUpper, rangeLower, onePercent)
	assert.ErrorIs(t, err, ErrInvalidTickRange)

	_, err = IncreaseLiquidityQuoteByInputTokenWithPool(pool, testMintA, 1, rangeLower, rangeUpper, Percentage{Numerator: 1})
	assert.ErrorIs(t, err, ErrInvalidPercentage)

	quote, err := IncreaseLiquidityQuoteByInputTokenWithPool(pool, testMintA, 1_000_000, rangeLower, rangeUpper, onePercent)
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(224397), quote.LiquidityAmount)
}

func TestDecreaseLiquidityQuoteByLiquidity(t *testing.T) {
	tests := []struct {
		name         string
		lower, upper int32
		want         DecreaseLiquidityQuote
	}{
		{
			name: "in range", lower: rangeLower, upper: rangeUpper,
			want: DecreaseLiquidityQuote{TokenEstA: 4456372649, TokenEstB: 56523, TokenMinA: 4412250147, TokenMinB: 55963},
		},
		{
			name: "range above price", lower: -112640, upper: -112000,
			want: DecreaseLiquidityQuote{TokenEstA: 8790683844, TokenMinA: 8703647370},
		},
		{
			name: "range below price", lower: -113920, upper: -113280,
			want: DecreaseLiquidityQuote{TokenEstB: 109264, TokenMinB: 108182},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want.LiquidityAmount = uint128.From64(1_000_000_000)
			got, err := DecreaseLiquidityQuoteByLiquidity(DecreaseLiquidityQuoteParam{
				Liquidity:      uint128.From64(1_000_000_000),
				SqrtPrice:      uint128.From64(testSqrtPrice),
				TickLowerIndex: tt.lower,
				TickUpperIndex: tt.upper,
				Slippage:       onePercent,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecreaseLiquidityQuoteWithPool(t *testing.T) {
	pool := newTestPool(1_000_000_000)
	position := &WhirlpoolPosition{TickLowerIndex: rangeLower, TickUpperIndex: rangeUpper}

	quote, err := DecreaseLiquidityQuoteByLiquidityWithPool(pool, position, uint128.From64(1_000_000_000), onePercent)
	require.NoError(t, err)
	assert.Equal(t, uint64(4456372649), quote.TokenEstA)
	assert.Equal(t, uint64(56523), quote.TokenEstB)

	zero, err := DecreaseLiquidityQuoteByLiquidityWithPool(pool, position, uint128.Zero, onePercent)
	require.NoError(t, err)
	assert.Equal(t, DecreaseLiquidityQuote{}, zero)

	position.TickLowerIndex = rangeUpper
	_, err = DecreaseLiquidityQuoteByLiquidityWithPool(pool, position, uint128.From64(1), onePercent)
	assert.ErrorIs(t, err, ErrInvalidTickRange)
}

func TestEstimateLiquidityFromTokenAmounts(t *testing.T) {
	tests := []struct {
		name                  string
		current, lower, upper int32
		amounts               TokenAmounts
		want                  uint64
	}{
		{"limited by token a", testTickIndex, rangeLower, rangeUpper, TokenAmounts{TokenA: 1_000_000, TokenB: 1_000_000}, 224244},
		{"limited by token b", testTickIndex, rangeLower, rangeUpper, TokenAmounts{TokenA: 1_000_000_000, TokenB: 1000}, 17703481},
		{"range above current", testTickIndex, -112640, -112000, TokenAmounts{TokenA: 1_000_000}, 113756},
		{"range below current", testTickIndex, -113920, -113280, TokenAmounts{TokenB: 1_000_000}, 9152137440},
		{"current on lower bound", rangeLower, rangeLower, rangeUpper, TokenAmounts{TokenA: 1_000_000}, 110174},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EstimateLiquidityFromTokenAmounts(tt.current, tt.lower, tt.upper, tt.amounts)
			require.NoError(t, err)
			assert.Equal(t, uint128.From64(tt.want), got)
		})
	}

	_, err := EstimateLiquidityFromTokenAmounts(testTickIndex, rangeUpper, rangeLower, TokenAmounts{})
	assert.ErrorIs(t, err, ErrInvalidTickRange)
}

func TestGetLiquidityFromTokenRoundTrip(t *testing.T) {
	lower := mustTickIndexToSqrtPriceX64(rangeLower)
	upper := mustTickIndexToSqrtPriceX64(rangeUpper)

	liquidity, err := GetLiquidityFromTokenB(1_000_000, lower, upper, RoundingDown)
	require.NoError(t, err)
	amount, err := GetTokenBFromLiquidity(liquidity, lower, upper, RoundingUp)
	require.NoError(t, err)
	assert.LessOrEqual(t, amount, uint64(1_000_000))

	up, err := GetLiquidityFromTokenA(1_000_000, lower, upper, RoundingUp)
	require.NoError(t, err)
	down, err := GetLiquidityFromTokenA(1_000_000, lower, upper, RoundingDown)
	require.NoError(t, err)
	assert.Equal(t, down.Add64(1), up)

	_, err = GetLiquidityFromTokenA(1, lower, lower, RoundingDown)
	assert.ErrorIs(t, err, ErrDivideByZero)
}
