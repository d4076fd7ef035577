package orca

import (
	"fmt"

	cosmath "cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"
)

// WhirlpoolTick - one 113-byte tick slot of a tick array
type WhirlpoolTick struct {
	Initialized          bool
	LiquidityNet         cosmath.Int // i128
	LiquidityGross       uint128.Uint128
	FeeGrowthOutsideA    uint128.Uint128
	FeeGrowthOutsideB    uint128.Uint128
	RewardGrowthsOutside [NUM_REWARDS]uint128.Uint128
}

// zeroTick is what an uninitialized slot or a sequence sentinel reads as.
func zeroTick() WhirlpoolTick {
	return WhirlpoolTick{LiquidityNet: cosmath.ZeroInt()}
}

// WhirlpoolTickArray - 88 consecutive tick slots starting at StartTickIndex
//
// Covers [StartTickIndex, StartTickIndex + tickSpacing*88).
type WhirlpoolTickArray struct {
	Address        solana.PublicKey // account address, not part of the data
	StartTickIndex int32
	Ticks          [TICK_ARRAY_SIZE]WhirlpoolTick
	Whirlpool      solana.PublicKey
}

// NewEmptyTickArray returns a tick array with every slot uninitialized.
func NewEmptyTickArray(address solana.PublicKey, whirlpool solana.PublicKey, startTickIndex int32) *WhirlpoolTickArray {
	ta := &WhirlpoolTickArray{
		Address:        address,
		StartTickIndex: startTickIndex,
		Whirlpool:      whirlpool,
	}
	for i := range ta.Ticks {
		ta.Ticks[i] = zeroTick()
	}
	return ta
}

// Decode parses Whirlpool tick array data
func (t *WhirlpoolTickArray) Decode(data []byte) error {
	r, err := newLayoutReader(data, TickArrayDiscriminator, TICK_ARRAY_SIZE_BYTES, "tick array")
	if err != nil {
		return err
	}

	t.StartTickIndex = r.i32("start_tick_index")
	for i := 0; i < TICK_ARRAY_SIZE; i++ {
		tick := WhirlpoolTick{
			Initialized:       r.boolean("tick.initialized"),
			LiquidityNet:      r.i128("tick.liquidity_net"),
			LiquidityGross:    r.u128("tick.liquidity_gross"),
			FeeGrowthOutsideA: r.u128("tick.fee_growth_outside_a"),
			FeeGrowthOutsideB: r.u128("tick.fee_growth_outside_b"),
		}
		for j := 0; j < NUM_REWARDS; j++ {
			tick.RewardGrowthsOutside[j] = r.u128("tick.reward_growths_outside")
		}
		t.Ticks[i] = tick
	}
	t.Whirlpool = r.pubkey("whirlpool")
	if r.err != nil {
		return fmt.Errorf("tick array %s: %w", t.Address, r.err)
	}
	return nil
}

// TickOffset returns the slot of tickIndex in this array, or -1 when the tick
// is outside the array or not a multiple of tickSpacing.
func (t *WhirlpoolTickArray) TickOffset(tickIndex int32, tickSpacing uint16) int {
	spacing := int32(tickSpacing)
	diff := tickIndex - t.StartTickIndex
	if diff < 0 || diff%spacing != 0 {
		return -1
	}
	offset := diff / spacing
	if offset >= TICK_ARRAY_SIZE {
		return -1
	}
	return int(offset)
}

// Contains reports whether tickIndex falls in [start, start+width).
func (t *WhirlpoolTickArray) Contains(tickIndex int32, tickSpacing uint16) bool {
	return tickIndex >= t.StartTickIndex && tickIndex < t.StartTickIndex+TicksInArray(tickSpacing)
}

// DeriveWhirlpoolTickArrayPDA derives PDA address for Whirlpool tick array
// Based on Whirlpool source code implementation: seeds = ["tick_array", whirlpool_pubkey, start_tick_index.to_string()]
func DeriveWhirlpoolTickArrayPDA(whirlpoolPubkey solana.PublicKey, startTickIndex int32) (solana.PublicKey, error) {
	seeds := [][]byte{
		[]byte(TICK_ARRAY_SEED),
		whirlpoolPubkey.Bytes(),
		[]byte(fmt.Sprintf("%d", startTickIndex)),
	}

	pda, _, err := solana.FindProgramAddress(seeds, ORCA_WHIRLPOOL_PROGRAM_ID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to find program address for tick array: %w", err)
	}
	return pda, nil
}

// TickArrayAddress pairs a derived tick array address with its start index.
type TickArrayAddress struct {
	Address        solana.PublicKey
	StartTickIndex int32
}

// DeriveMultipleWhirlpoolTickArrayPDAs derives the tick array window a swap in
// the given direction needs. It returns between one and three addresses.
// Reference: whirlpools/legacy-sdk/whirlpool/src/utils/swap-utils.ts:getTickArrayPublicKeysWithStartTickIndex
func DeriveMultipleWhirlpoolTickArrayPDAs(whirlpoolPubkey solana.PublicKey, currentTick int32, tickSpacing uint16, direction SwapDirection) ([]TickArrayAddress, error) {
	starts := TickArrayStartIndexes(currentTick, tickSpacing, direction)
	if len(starts) == 0 {
		return nil, fmt.Errorf("no tick array window for tick %d: %w", currentTick, ErrTickIndexOutOfBounds)
	}

	addresses := make([]TickArrayAddress, 0, len(starts))
	for i, start := range starts {
		pda, err := DeriveWhirlpoolTickArrayPDA(whirlpoolPubkey, start)
		if err != nil {
			return nil, fmt.Errorf("failed to derive tick_array%d: %w", i, err)
		}
		addresses = append(addresses, TickArrayAddress{Address: pda, StartTickIndex: start})
	}
	return addresses, nil
}
