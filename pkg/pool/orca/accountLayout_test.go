package orca

import (
	"bytes"
	"encoding/binary"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

// accountWriter lays out account fields the way the program stores them.
type accountWriter struct {
	t   *testing.T
	buf bytes.Buffer
	enc *bin.Encoder
}

func newAccountWriter(t *testing.T, discriminator [8]byte) *accountWriter {
	w := &accountWriter{t: t}
	w.enc = bin.NewBinEncoder(&w.buf)
	w.bytes(discriminator[:])
	return w
}

func (w *accountWriter) bytes(b []byte) *accountWriter {
	require.NoError(w.t, w.enc.WriteBytes(b, false))
	return w
}

func (w *accountWriter) pubkey(k solana.PublicKey) *accountWriter { return w.bytes(k[:]) }

func (w *accountWriter) u8(v uint8) *accountWriter { return w.bytes([]byte{v}) }

func (w *accountWriter) boolean(v bool) *accountWriter {
	require.NoError(w.t, w.enc.WriteBool(v))
	return w
}

func (w *accountWriter) u16(v uint16) *accountWriter {
	require.NoError(w.t, w.enc.WriteUint16(v, bin.LE))
	return w
}

func (w *accountWriter) i32(v int32) *accountWriter {
	require.NoError(w.t, w.enc.WriteInt32(v, bin.LE))
	return w
}

func (w *accountWriter) u64(v uint64) *accountWriter {
	require.NoError(w.t, w.enc.WriteUint64(v, bin.LE))
	return w
}

func (w *accountWriter) u128(v uint128.Uint128) *accountWriter {
	return w.u64(v.Lo).u64(v.Hi)
}

func (w *accountWriter) i128(v int64) *accountWriter {
	hi := uint64(0)
	if v < 0 {
		hi = ^uint64(0)
	}
	return w.u64(uint64(v)).u64(hi)
}

func (w *accountWriter) data() []byte { return w.buf.Bytes() }

var (
	testConfig     = solana.MustPublicKeyFromBase58("2LecshUwdy9xi7meFgHtFJQNSKk4KdTrcpvaB56dP2NQ")
	testVaultA     = solana.MustPublicKeyFromBase58("3YQm7ujtXWJU2e9jhp2QGHpnn1ShXn12QjvzMvDgabpX")
	testVaultB     = solana.MustPublicKeyFromBase58("2JTw1fE2wz1SymWUQ7UqpVtrTuKjcd6mWwYwUJUCh2rq")
	testRewardMint = solana.MustPublicKeyFromBase58("orcaEKTdK7LKz57vaAYr9QeNsVEPfiu6QeMU1kektZE")
)

func encodeTestWhirlpool(t *testing.T) []byte {
	w := newAccountWriter(t, WhirlpoolDiscriminator).
		pubkey(testConfig).
		u8(255).
		u16(testTickSpacing).
		bytes([]byte{64, 0}).
		u16(3000).
		u16(300).
		u128(uint128.From64(1_000_000_000)).
		u128(uint128.From64(testSqrtPrice)).
		i32(testTickIndex).
		u64(11).
		u64(12).
		pubkey(testMintA).
		pubkey(testVaultA).
		u128(uint128.New(1, 2)).
		pubkey(testMintB).
		pubkey(testVaultB).
		u128(uint128.New(3, 4)).
		u64(1_700_000_000)
	w.pubkey(testRewardMint).pubkey(testVaultA).pubkey(testConfig).u128(uint128.New(0, 2)).u128(uint128.From64(99))
	for i := 1; i < NUM_REWARDS; i++ {
		w.pubkey(solana.PublicKey{}).pubkey(solana.PublicKey{}).pubkey(testConfig).u128(uint128.Zero).u128(uint128.Zero)
	}
	return w.data()
}

func TestWhirlpoolPoolDecode(t *testing.T) {
	data := encodeTestWhirlpool(t)
	require.Len(t, data, WHIRLPOOL_SIZE)

	var pool WhirlpoolPool
	require.NoError(t, pool.Decode(data))

	assert.Equal(t, testConfig, pool.WhirlpoolsConfig)
	assert.Equal(t, [1]uint8{255}, pool.WhirlpoolBump)
	assert.Equal(t, uint16(testTickSpacing), pool.TickSpacing)
	assert.Equal(t, [2]uint8{64, 0}, pool.FeeTierIndexSeed)
	assert.Equal(t, uint16(3000), pool.FeeRate)
	assert.Equal(t, uint16(300), pool.ProtocolFeeRate)
	assert.Equal(t, uint128.From64(1_000_000_000), pool.Liquidity)
	assert.Equal(t, uint128.From64(testSqrtPrice), pool.SqrtPrice)
	assert.Equal(t, int32(testTickIndex), pool.TickCurrentIndex)
	assert.Equal(t, uint64(11), pool.ProtocolFeeOwedA)
	assert.Equal(t, uint64(12), pool.ProtocolFeeOwedB)
	assert.Equal(t, testMintA, pool.TokenMintA)
	assert.Equal(t, testVaultA, pool.TokenVaultA)
	assert.Equal(t, uint128.New(1, 2), pool.FeeGrowthGlobalA)
	assert.Equal(t, testMintB, pool.TokenMintB)
	assert.Equal(t, testVaultB, pool.TokenVaultB)
	assert.Equal(t, uint128.New(3, 4), pool.FeeGrowthGlobalB)
	assert.Equal(t, uint64(1_700_000_000), pool.RewardLastUpdatedTimestamp)

	assert.True(t, pool.RewardInfos[0].IsInitialized())
	assert.Equal(t, testRewardMint, pool.RewardInfos[0].Mint)
	assert.Equal(t, uint128.New(0, 2), pool.RewardInfos[0].EmissionsPerSecondX64)
	assert.Equal(t, uint128.From64(99), pool.RewardInfos[0].GrowthGlobalX64)
	assert.False(t, pool.RewardInfos[1].IsInitialized())
	assert.Equal(t, testConfig, pool.RewardInfos[2].Authority)

	base, quote := pool.GetTokens()
	assert.Equal(t, testMintA.String(), base)
	assert.Equal(t, testMintB.String(), quote)
}

func TestWhirlpoolPoolOffsets(t *testing.T) {
	data := encodeTestWhirlpool(t)
	var pool WhirlpoolPool

	assert.Equal(t, uint16(testTickSpacing), binary.LittleEndian.Uint16(data[pool.Offset("TickSpacing"):]))
	assert.Equal(t, uint16(3000), binary.LittleEndian.Uint16(data[pool.Offset("FeeRate"):]))
	assert.Equal(t, uint64(testSqrtPrice), binary.LittleEndian.Uint64(data[pool.Offset("SqrtPrice"):]))
	assert.Equal(t, int32(testTickIndex), int32(binary.LittleEndian.Uint32(data[pool.Offset("TickCurrentIndex"):])))
	assert.Equal(t, testMintA[:], data[pool.Offset("TokenMintA"):pool.Offset("TokenMintA")+32])
	assert.Equal(t, testMintB[:], data[pool.Offset("TokenMintB"):pool.Offset("TokenMintB")+32])
	assert.Equal(t, uint64(WHIRLPOOL_SIZE), pool.Span())
}

func TestDecodeRejectsBadData(t *testing.T) {
	data := encodeTestWhirlpool(t)

	var pool WhirlpoolPool
	assert.ErrorIs(t, pool.Decode(data[:WHIRLPOOL_SIZE-1]), ErrInvalidAccountData)

	wrong := append([]byte(nil), data...)
	copy(wrong, TickArrayDiscriminator[:])
	assert.ErrorIs(t, pool.Decode(wrong), ErrInvalidAccountData)

	var ta WhirlpoolTickArray
	assert.ErrorIs(t, ta.Decode(data), ErrInvalidAccountData)

	var position WhirlpoolPosition
	assert.ErrorIs(t, position.Decode(nil), ErrInvalidAccountData)
}

func TestWhirlpoolTickArrayDecode(t *testing.T) {
	start := int32(-118272)
	w := newAccountWriter(t, TickArrayDiscriminator).i32(start)
	for i := 0; i < TICK_ARRAY_SIZE; i++ {
		switch i {
		case 5:
			w.boolean(true).i128(-2_000_000_000).u128(uint128.From64(2_000_000_000)).
				u128(uint128.From64(7)).u128(uint128.From64(8)).
				u128(uint128.From64(9)).u128(uint128.Zero).u128(uint128.Max)
		case 6:
			w.boolean(true).i128(3).u128(uint128.From64(3)).
				u128(uint128.Zero).u128(uint128.Zero).u128(uint128.Zero).u128(uint128.Zero).u128(uint128.Zero)
		default:
			w.boolean(false).i128(0).u128(uint128.Zero).
				u128(uint128.Zero).u128(uint128.Zero).u128(uint128.Zero).u128(uint128.Zero).u128(uint128.Zero)
		}
	}
	w.pubkey(testPoolID)
	data := w.data()
	require.Len(t, data, TICK_ARRAY_SIZE_BYTES)

	var ta WhirlpoolTickArray
	require.NoError(t, ta.Decode(data))
	assert.Equal(t, start, ta.StartTickIndex)
	assert.Equal(t, testPoolID, ta.Whirlpool)

	tick := ta.Ticks[5]
	assert.True(t, tick.Initialized)
	assert.Equal(t, "-2000000000", tick.LiquidityNet.String())
	assert.Equal(t, uint128.From64(2_000_000_000), tick.LiquidityGross)
	assert.Equal(t, uint128.From64(7), tick.FeeGrowthOutsideA)
	assert.Equal(t, uint128.From64(8), tick.FeeGrowthOutsideB)
	assert.Equal(t, [NUM_REWARDS]uint128.Uint128{uint128.From64(9), uint128.Zero, uint128.Max}, tick.RewardGrowthsOutside)

	assert.Equal(t, "3", ta.Ticks[6].LiquidityNet.String())
	assert.False(t, ta.Ticks[7].Initialized)
	assert.True(t, ta.Ticks[7].LiquidityNet.IsZero())

	assert.Equal(t, 5, ta.TickOffset(start+5*testTickSpacing, testTickSpacing))
	assert.Equal(t, -1, ta.TickOffset(start+1, testTickSpacing))
	assert.Equal(t, -1, ta.TickOffset(start+TICK_ARRAY_SIZE*testTickSpacing, testTickSpacing))
	assert.Equal(t, -1, ta.TickOffset(start-testTickSpacing, testTickSpacing))
}

func TestWhirlpoolPositionDecode(t *testing.T) {
	w := newAccountWriter(t, PositionDiscriminator).
		pubkey(testPoolID).
		pubkey(testRewardMint).
		u128(uint128.From64(1_000_000_000)).
		i32(rangeLower).
		i32(rangeUpper).
		u128(uint128.New(1, 2)).
		u64(3).
		u128(uint128.New(4, 5)).
		u64(6)
	for i := 0; i < NUM_REWARDS; i++ {
		w.u128(uint128.From64(uint64(10 + i))).u64(uint64(20 + i))
	}
	data := w.data()
	require.Len(t, data, POSITION_SIZE)

	var position WhirlpoolPosition
	require.NoError(t, position.Decode(data))
	assert.Equal(t, testPoolID, position.Whirlpool)
	assert.Equal(t, testRewardMint, position.PositionMint)
	assert.Equal(t, uint128.From64(1_000_000_000), position.Liquidity)
	assert.Equal(t, int32(rangeLower), position.TickLowerIndex)
	assert.Equal(t, int32(rangeUpper), position.TickUpperIndex)
	assert.Equal(t, uint128.New(1, 2), position.FeeGrowthCheckpointA)
	assert.Equal(t, uint64(3), position.FeeOwedA)
	assert.Equal(t, uint128.New(4, 5), position.FeeGrowthCheckpointB)
	assert.Equal(t, uint64(6), position.FeeOwedB)
	assert.Equal(t, PositionRewardInfo{GrowthInsideCheckpoint: uint128.From64(12), AmountOwed: 22}, position.RewardInfos[2])
}

func TestDeriveTickArrayPDAs(t *testing.T) {
	addresses, err := DeriveMultipleWhirlpoolTickArrayPDAs(testPoolID, testTickIndex, testTickSpacing, SwapDirectionBToA)
	require.NoError(t, err)
	require.Len(t, addresses, 3)
	for i, a := range addresses {
		assert.Equal(t, bToAStarts[i], a.StartTickIndex)
		pda, err := DeriveWhirlpoolTickArrayPDA(testPoolID, a.StartTickIndex)
		require.NoError(t, err)
		assert.Equal(t, pda, a.Address)
	}
	assert.NotEqual(t, addresses[0].Address, addresses[1].Address)

	down, err := DeriveMultipleWhirlpoolTickArrayPDAs(testPoolID, testTickIndex, testTickSpacing, SwapDirectionAToB)
	require.NoError(t, err)
	assert.Equal(t, addresses[0].Address, down[0].Address)
	assert.Equal(t, aToBStarts[2], down[2].StartTickIndex)

	position, err := DeriveWhirlpoolPositionPDA(testRewardMint)
	require.NoError(t, err)
	again, err := DeriveWhirlpoolPositionPDA(testRewardMint)
	require.NoError(t, err)
	assert.Equal(t, position, again)
	assert.False(t, position.IsOnCurve())
}
