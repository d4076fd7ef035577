package orca

import "fmt"

// TicksInArray returns the tick index width covered by one tick array.
func TicksInArray(tickSpacing uint16) int32 {
	return int32(tickSpacing) * TICK_ARRAY_SIZE
}

// floorDivision implements integer division (floor), consistent with floor_division in Whirlpool source code
func floorDivision(dividend, divisor int32) int32 {
	if (dividend < 0) != (divisor < 0) && dividend%divisor != 0 {
		return dividend/divisor - 1
	}
	return dividend / divisor
}

// GetStartTickIndex returns the start index of the tick array containing
// tickIndex, moved by offset whole arrays.
// Reference: whirlpools/legacy-sdk/whirlpool/src/utils/public/tick-utils.ts
func GetStartTickIndex(tickIndex int32, tickSpacing uint16, offset int32) (int32, error) {
	ticksInArray := TicksInArray(tickSpacing)
	realIndex := floorDivision(tickIndex, ticksInArray)
	startTickIndex := (realIndex + offset) * ticksInArray

	minTickIndex := MIN_TICK - ((MIN_TICK % ticksInArray) + ticksInArray)
	if startTickIndex < minTickIndex {
		return 0, fmt.Errorf("start tick index %d below %d: %w", startTickIndex, minTickIndex, ErrTickIndexOutOfBounds)
	}
	if startTickIndex > MAX_TICK {
		return 0, fmt.Errorf("start tick index %d above %d: %w", startTickIndex, MAX_TICK, ErrTickIndexOutOfBounds)
	}
	return startTickIndex, nil
}

// TickArrayStartIndexes returns the start indexes of the tick array window a
// swap in the given direction walks through. When price rises the window is
// anchored one tick spacing ahead of the current tick.
func TickArrayStartIndexes(tickCurrentIndex int32, tickSpacing uint16, direction SwapDirection) []int32 {
	shift := int32(0)
	step := int32(-1)
	if !direction.IsAToB() {
		shift = int32(tickSpacing)
		step = 1
	}
	starts := make([]int32, 0, MAX_SWAP_TICK_ARRAYS)
	for i := int32(0); i < MAX_SWAP_TICK_ARRAYS; i++ {
		start, err := GetStartTickIndex(tickCurrentIndex+shift, tickSpacing, i*step)
		if err != nil {
			break
		}
		starts = append(starts, start)
	}
	return starts
}

// IsTickInitializable reports whether tick is a multiple of tickSpacing.
func IsTickInitializable(tick int32, tickSpacing uint16) bool {
	return tick%int32(tickSpacing) == 0
}

// GetInitializableTickIndex rounds tick to the nearest multiple of
// tickSpacing. Ties round toward positive infinity. The result is clamped to
// the full range, so it never leaves [MIN_TICK, MAX_TICK].
func GetInitializableTickIndex(tick int32, tickSpacing uint16) int32 {
	spacing := int32(tickSpacing)
	floor := floorDivision(tick, spacing) * spacing
	rounded := floor
	if (tick-floor)*2 >= spacing {
		rounded = floor + spacing
	}

	lower, upper := GetFullRangeTickIndexes(tickSpacing)
	switch {
	case rounded > upper:
		return upper
	case rounded < lower:
		return lower
	}
	return rounded
}

// GetNextInitializableTickIndex returns the next multiple of tickSpacing strictly above tick.
func GetNextInitializableTickIndex(tick int32, tickSpacing uint16) int32 {
	spacing := int32(tickSpacing)
	return floorDivision(tick, spacing)*spacing + spacing
}

// GetPrevInitializableTickIndex returns the previous multiple of tickSpacing strictly below tick.
func GetPrevInitializableTickIndex(tick int32, tickSpacing uint16) int32 {
	spacing := int32(tickSpacing)
	floor := floorDivision(tick, spacing) * spacing
	if floor == tick {
		return tick - spacing
	}
	return floor
}

// GetFullRangeTickIndexes returns the widest initializable range for tickSpacing.
func GetFullRangeTickIndexes(tickSpacing uint16) (lower, upper int32) {
	spacing := int32(tickSpacing)
	upper = (MAX_TICK / spacing) * spacing
	return -upper, upper
}

// checkTickRange validates a position range.
func checkTickRange(tickLower, tickUpper int32) error {
	if !CheckTickInBounds(tickLower) || !CheckTickInBounds(tickUpper) {
		return fmt.Errorf("range [%d, %d]: %w", tickLower, tickUpper, ErrTickIndexOutOfBounds)
	}
	if tickLower >= tickUpper {
		return fmt.Errorf("lower %d >= upper %d: %w", tickLower, tickUpper, ErrInvalidTickRange)
	}
	return nil
}
