package orca

import (
	"fmt"

	"github.com/holiman/uint256"
	"lukechampine.com/uint128"
)

// RewardOwed is the amount of one reward slot a position could collect.
type RewardOwed struct {
	Initialized bool
	Amount      uint64
}

// CollectRewardsQuote holds one entry per reward slot.
type CollectRewardsQuote [NUM_REWARDS]RewardOwed

// GetCollectRewardsQuote computes the rewards owed to position. When timestamp
// is later than the pool's last update the global growth is first extrapolated
// with the emission rate; the result is then an estimate, not a value the
// program has checkpointed.
// Reference: whirlpools/legacy-sdk/whirlpool/src/quotes/public/collect-rewards-quote.ts
func GetCollectRewardsQuote(pool *WhirlpoolPool, position *WhirlpoolPosition, tickLower, tickUpper WhirlpoolTick, timestamp uint64) (CollectRewardsQuote, error) {
	var quote CollectRewardsQuote
	if err := checkTickRange(position.TickLowerIndex, position.TickUpperIndex); err != nil {
		return quote, err
	}
	status := GetPositionStatus(pool.TickCurrentIndex, position.TickLowerIndex, position.TickUpperIndex)

	elapsed := uint64(0)
	if timestamp > pool.RewardLastUpdatedTimestamp {
		elapsed = timestamp - pool.RewardLastUpdatedTimestamp
	}

	for i, info := range pool.RewardInfos {
		if !info.IsInitialized() {
			continue
		}

		global, err := extrapolateRewardGrowth(info, elapsed, pool.Liquidity)
		if err != nil {
			return quote, fmt.Errorf("reward %d: %w", i, err)
		}
		inside := growthInside(status, global, tickLower.RewardGrowthsOutside[i], tickUpper.RewardGrowthsOutside[i])

		delta, err := accruedSinceCheckpoint(inside, position.RewardInfos[i].GrowthInsideCheckpoint, position.Liquidity)
		if err != nil {
			return quote, fmt.Errorf("reward %d: %w", i, err)
		}
		quote[i] = RewardOwed{
			Initialized: true,
			Amount:      position.RewardInfos[i].AmountOwed + delta,
		}
	}
	return quote, nil
}

// extrapolateRewardGrowth adds emissions * elapsed / liquidity to the reward's
// global growth. Nothing accrues while the pool has no liquidity.
func extrapolateRewardGrowth(info WhirlpoolRewardInfo, elapsed uint64, liquidity uint128.Uint128) (uint128.Uint128, error) {
	if liquidity.IsZero() || elapsed == 0 {
		return info.GrowthGlobalX64, nil
	}
	growthDelta, err := MulDiv(
		uint256.NewInt(elapsed),
		U128ToU256(info.EmissionsPerSecondX64),
		U128ToU256(liquidity),
		128,
		RoundingDown,
	)
	if err != nil {
		return uint128.Zero, err
	}
	delta, err := U256ToU128(growthDelta)
	if err != nil {
		return uint128.Zero, err
	}
	return AddWrapU128(info.GrowthGlobalX64, delta), nil
}
