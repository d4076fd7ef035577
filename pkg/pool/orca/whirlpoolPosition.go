package orca

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"
)

// WhirlpoolPosition - liquidity position account (216 bytes)
type WhirlpoolPosition struct {
	Address        solana.PublicKey // account address, not part of the data
	Whirlpool      solana.PublicKey
	PositionMint   solana.PublicKey
	Liquidity      uint128.Uint128
	TickLowerIndex int32
	TickUpperIndex int32

	FeeGrowthCheckpointA uint128.Uint128
	FeeOwedA             uint64
	FeeGrowthCheckpointB uint128.Uint128
	FeeOwedB             uint64

	RewardInfos [NUM_REWARDS]PositionRewardInfo
}

// PositionRewardInfo is the per-position reward checkpoint.
type PositionRewardInfo struct {
	GrowthInsideCheckpoint uint128.Uint128
	AmountOwed             uint64
}

// Decode parses Whirlpool position data
func (p *WhirlpoolPosition) Decode(data []byte) error {
	r, err := newLayoutReader(data, PositionDiscriminator, POSITION_SIZE, "position")
	if err != nil {
		return err
	}

	p.Whirlpool = r.pubkey("whirlpool")
	p.PositionMint = r.pubkey("position_mint")
	p.Liquidity = r.u128("liquidity")
	p.TickLowerIndex = r.i32("tick_lower_index")
	p.TickUpperIndex = r.i32("tick_upper_index")
	p.FeeGrowthCheckpointA = r.u128("fee_growth_checkpoint_a")
	p.FeeOwedA = r.u64("fee_owed_a")
	p.FeeGrowthCheckpointB = r.u128("fee_growth_checkpoint_b")
	p.FeeOwedB = r.u64("fee_owed_b")
	for i := 0; i < NUM_REWARDS; i++ {
		p.RewardInfos[i] = PositionRewardInfo{
			GrowthInsideCheckpoint: r.u128("reward_info.growth_inside_checkpoint"),
			AmountOwed:             r.u64("reward_info.amount_owed"),
		}
	}
	return r.err
}

// DeriveWhirlpoolPositionPDA derives the position address from its mint:
// seeds = ["position", position_mint]
func DeriveWhirlpoolPositionPDA(positionMint solana.PublicKey) (solana.PublicKey, error) {
	seeds := [][]byte{
		[]byte(POSITION_SEED),
		positionMint.Bytes(),
	}
	pda, _, err := solana.FindProgramAddress(seeds, ORCA_WHIRLPOOL_PROGRAM_ID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to find program address for position: %w", err)
	}
	return pda, nil
}
