package orca

import "lukechampine.com/uint128"

// PositionStatus is where the pool price sits relative to a position range.
type PositionStatus uint8

const (
	PositionStatusBelowRange PositionStatus = iota
	PositionStatusInRange
	PositionStatusAboveRange
)

func (s PositionStatus) String() string {
	switch s {
	case PositionStatusBelowRange:
		return "below"
	case PositionStatusAboveRange:
		return "above"
	}
	return "in-range"
}

// GetPositionStatus compares the current tick to [tickLower, tickUpper).
func GetPositionStatus(tickCurrentIndex, tickLower, tickUpper int32) PositionStatus {
	if tickCurrentIndex < tickLower {
		return PositionStatusBelowRange
	}
	if tickCurrentIndex < tickUpper {
		return PositionStatusInRange
	}
	return PositionStatusAboveRange
}

// GetStrictPositionStatus compares the sqrt price to the range bounds. A price
// sitting exactly on a bound is outside the range.
func GetStrictPositionStatus(sqrtPrice uint128.Uint128, tickLower, tickUpper int32) (PositionStatus, error) {
	lower, err := TickIndexToSqrtPriceX64(tickLower)
	if err != nil {
		return 0, err
	}
	upper, err := TickIndexToSqrtPriceX64(tickUpper)
	if err != nil {
		return 0, err
	}
	switch {
	case sqrtPrice.Cmp(lower) <= 0:
		return PositionStatusBelowRange, nil
	case sqrtPrice.Cmp(upper) >= 0:
		return PositionStatusAboveRange, nil
	}
	return PositionStatusInRange, nil
}

// growthInside returns global - below - above in the wrapping 128-bit ring.
// A boundary not yet crossed contributes its outside value directly, a crossed
// one contributes global - outside.
func growthInside(status PositionStatus, global, outsideLower, outsideUpper uint128.Uint128) uint128.Uint128 {
	var below, above uint128.Uint128
	switch status {
	case PositionStatusBelowRange:
		below = SubUnderflowU128(global, outsideLower)
		above = outsideUpper
	case PositionStatusInRange:
		below = outsideLower
		above = outsideUpper
	default:
		below = outsideLower
		above = SubUnderflowU128(global, outsideUpper)
	}
	return SubUnderflowU128(SubUnderflowU128(global, below), above)
}

// accruedSinceCheckpoint returns ((inside - checkpoint) * liquidity) >> 64,
// which must fit in u64.
func accruedSinceCheckpoint(inside, checkpoint, liquidity uint128.Uint128) (uint64, error) {
	delta := SubUnderflowU128(inside, checkpoint)
	product, err := Mul(U128ToU256(delta), U128ToU256(liquidity), 256)
	if err != nil {
		return 0, err
	}
	accrued := FromX64(product)
	if !accrued.IsUint64() {
		return 0, ErrMultiplicationOverflow
	}
	return accrued.Uint64(), nil
}
