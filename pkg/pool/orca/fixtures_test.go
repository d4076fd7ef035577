package orca

import (
	"testing"

	cosmath "cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

const (
	testTickSpacing = 64
	testTickIndex   = -112957
	testSqrtPrice   = 65045450509082362
)

var (
	testPoolID = solana.MustPublicKeyFromBase58("HJPjoWUrhoZzkNfRpHuieeFk9WcZWjwy6PBjZ81ngndJ")
	testMintA  = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	testMintB  = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	// start indexes of the swap windows around testTickIndex
	bToAStarts = []int32{-118272, -112640, -107008}
	aToBStarts = []int32{-118272, -123904, -129536}
)

// newTestPool returns a SOL/USDC style pool at testTickIndex.
func newTestPool(liquidity uint64) *WhirlpoolPool {
	return &WhirlpoolPool{
		PoolId:           testPoolID,
		TickSpacing:      testTickSpacing,
		FeeRate:          3000,
		ProtocolFeeRate:  300,
		Liquidity:        uint128.From64(liquidity),
		SqrtPrice:        uint128.From64(testSqrtPrice),
		TickCurrentIndex: testTickIndex,
		TokenMintA:       testMintA,
		TokenMintB:       testMintB,
	}
}

// newTestTickArray builds a tick array whose listed ticks are initialized
// with the given liquidity net.
func newTestTickArray(t *testing.T, start int32, liquidityNet map[int32]int64) *WhirlpoolTickArray {
	t.Helper()
	address, err := DeriveWhirlpoolTickArrayPDA(testPoolID, start)
	require.NoError(t, err)

	ta := NewEmptyTickArray(address, testPoolID, start)
	for tick, net := range liquidityNet {
		offset := ta.TickOffset(tick, testTickSpacing)
		require.GreaterOrEqual(t, offset, 0, "tick %d not in array %d", tick, start)
		gross := net
		if gross < 0 {
			gross = -gross
		}
		ta.Ticks[offset] = WhirlpoolTick{
			Initialized:    true,
			LiquidityNet:   cosmath.NewInt(net),
			LiquidityGross: uint128.From64(uint64(gross)),
		}
	}
	return ta
}

func newTestTickArrays(t *testing.T, starts []int32, liquidityNet map[int32]int64) []*WhirlpoolTickArray {
	t.Helper()
	width := TicksInArray(testTickSpacing)
	arrays := make([]*WhirlpoolTickArray, len(starts))
	for i, start := range starts {
		inArray := make(map[int32]int64)
		for tick, net := range liquidityNet {
			if tick >= start && tick < start+width {
				inArray[tick] = net
			}
		}
		arrays[i] = newTestTickArray(t, start, inArray)
	}
	return arrays
}

func u128(t *testing.T, s string) uint128.Uint128 {
	t.Helper()
	v, err := uint128.FromString(s)
	require.NoError(t, err)
	return v
}
