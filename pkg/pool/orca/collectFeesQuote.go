package orca

import "fmt"

// CollectFeesQuote is the fee a position could collect right now.
type CollectFeesQuote struct {
	FeeOwedA uint64
	FeeOwedB uint64
}

// GetCollectFeesQuote computes the fees owed to position from the pool's fee
// growth and the growth outside its two boundary ticks.
// Reference: whirlpools/legacy-sdk/whirlpool/src/quotes/public/collect-fees-quote.ts
func GetCollectFeesQuote(pool *WhirlpoolPool, position *WhirlpoolPosition, tickLower, tickUpper WhirlpoolTick) (CollectFeesQuote, error) {
	if err := checkTickRange(position.TickLowerIndex, position.TickUpperIndex); err != nil {
		return CollectFeesQuote{}, err
	}
	status := GetPositionStatus(pool.TickCurrentIndex, position.TickLowerIndex, position.TickUpperIndex)

	insideA := growthInside(status, pool.FeeGrowthGlobalA, tickLower.FeeGrowthOutsideA, tickUpper.FeeGrowthOutsideA)
	insideB := growthInside(status, pool.FeeGrowthGlobalB, tickLower.FeeGrowthOutsideB, tickUpper.FeeGrowthOutsideB)

	deltaA, err := accruedSinceCheckpoint(insideA, position.FeeGrowthCheckpointA, position.Liquidity)
	if err != nil {
		return CollectFeesQuote{}, fmt.Errorf("fee a: %w", err)
	}
	deltaB, err := accruedSinceCheckpoint(insideB, position.FeeGrowthCheckpointB, position.Liquidity)
	if err != nil {
		return CollectFeesQuote{}, fmt.Errorf("fee b: %w", err)
	}

	// the program adds owed fees with wrapping_add
	return CollectFeesQuote{
		FeeOwedA: position.FeeOwedA + deltaA,
		FeeOwedB: position.FeeOwedB + deltaB,
	}, nil
}
