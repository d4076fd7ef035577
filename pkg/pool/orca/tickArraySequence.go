package orca

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// TickArrayReduction controls how many touched tick arrays a quote reports.
type TickArrayReduction uint8

const (
	// TickArrayReductionNone reports every supplied array, padding with the
	// last one.
	TickArrayReductionNone TickArrayReduction = iota
	// TickArrayReductionConservative keeps one array past the last touched.
	TickArrayReductionConservative
	// TickArrayReductionAggressive stops at the last touched array.
	TickArrayReductionAggressive
)

func (r TickArrayReduction) String() string {
	switch r {
	case TickArrayReductionConservative:
		return "conservative"
	case TickArrayReductionAggressive:
		return "aggressive"
	}
	return "none"
}

type sequenceTick struct {
	index int32
	tick  WhirlpoolTick
}

// TickArraySequence walks the initialized ticks of up to three consecutive
// tick arrays in swap order.
type TickArraySequence struct {
	arrays      []*WhirlpoolTickArray
	tickSpacing uint16
	direction   SwapDirection

	ticks       []sequenceTick
	lastTouched int
}

// NewTickArraySequence validates the arrays against the current tick and
// builds the traversal list. Arrays after the first nil entry are ignored.
func NewTickArraySequence(tickArrays []*WhirlpoolTickArray, tickCurrentIndex int32, tickSpacing uint16, direction SwapDirection) (*TickArraySequence, error) {
	if len(tickArrays) == 0 || tickArrays[0] == nil {
		return nil, ErrTickArray0MustBeInitialized
	}
	if tickSpacing == 0 {
		return nil, fmt.Errorf("tick spacing 0: %w", ErrTickArraySequenceInvalid)
	}
	if len(tickArrays) > MAX_SWAP_TICK_ARRAYS {
		tickArrays = tickArrays[:MAX_SWAP_TICK_ARRAYS]
	}

	arrays := make([]*WhirlpoolTickArray, 0, len(tickArrays))
	for _, ta := range tickArrays {
		if ta == nil {
			break
		}
		arrays = append(arrays, ta)
	}

	width := TicksInArray(tickSpacing)
	bracketTick := tickCurrentIndex
	if !direction.IsAToB() {
		bracketTick += int32(tickSpacing)
	}
	if !arrays[0].Contains(bracketTick, tickSpacing) {
		return nil, fmt.Errorf("tick array %d does not hold tick %d (%s): %w",
			arrays[0].StartTickIndex, tickCurrentIndex, direction, ErrTickArraySequenceInvalid)
	}

	step := width
	if direction.IsAToB() {
		step = -width
	}
	for i := 1; i < len(arrays); i++ {
		if arrays[i].StartTickIndex != arrays[i-1].StartTickIndex+step {
			return nil, fmt.Errorf("tick array %d is not consecutive to %d (%s): %w",
				arrays[i].StartTickIndex, arrays[i-1].StartTickIndex, direction, ErrTickArraySequenceInvalid)
		}
	}

	seq := &TickArraySequence{
		arrays:      arrays,
		tickSpacing: tickSpacing,
		direction:   direction,
	}
	seq.ticks = seq.collectTicks()
	return seq, nil
}

// collectTicks lists the initialized ticks in traversal order and closes the
// list with a sentinel at the outer edge of the last array.
func (s *TickArraySequence) collectTicks() []sequenceTick {
	spacing := int32(s.tickSpacing)
	ticks := make([]sequenceTick, 0)
	for _, ta := range s.arrays {
		for k := 0; k < TICK_ARRAY_SIZE; k++ {
			slot := k
			if s.direction.IsAToB() {
				slot = TICK_ARRAY_SIZE - 1 - k
			}
			if !ta.Ticks[slot].Initialized {
				continue
			}
			ticks = append(ticks, sequenceTick{
				index: ta.StartTickIndex + int32(slot)*spacing,
				tick:  ta.Ticks[slot],
			})
		}
	}

	last := s.arrays[len(s.arrays)-1]
	var sentinel int32
	if s.direction.IsAToB() {
		sentinel = last.StartTickIndex
		if sentinel < MIN_TICK {
			sentinel = MIN_TICK
		}
	} else {
		sentinel = last.StartTickIndex + TicksInArray(s.tickSpacing) - 1
		if sentinel > MAX_TICK {
			sentinel = MAX_TICK
		}
	}
	if n := len(ticks); n > 0 && ticks[n-1].index == sentinel {
		return ticks
	}
	return append(ticks, sequenceTick{index: sentinel, tick: zeroTick()})
}

// GetNextInitializedTickIndex returns the next tick the swap stops at. Price
// down is inclusive of currentTick; price up is exclusive.
func (s *TickArraySequence) GetNextInitializedTickIndex(currentTick int32) (int32, error) {
	for _, t := range s.ticks {
		var ahead bool
		if s.direction.IsAToB() {
			ahead = t.index <= currentTick
		} else {
			ahead = t.index > currentTick
		}
		if ahead {
			return t.index, nil
		}
	}
	return 0, fmt.Errorf("no tick after %d (%s): %w", currentTick, s.direction, ErrTickArraySequenceInvalid)
}

// touch records that the swap price reached the array holding tick. Only the
// swap loop calls it. Price up uses the same one-spacing shift as the first
// array check.
func (s *TickArraySequence) touch(tick int32) {
	if !s.direction.IsAToB() {
		tick += int32(s.tickSpacing)
	}
	for i := s.lastTouched + 1; i < len(s.arrays); i++ {
		if s.arrays[i].Contains(tick, s.tickSpacing) {
			s.lastTouched = i
			return
		}
	}
}

// GetTick returns the tick stored at tickIndex. Sentinels and ticks that are
// not on the spacing grid read as uninitialized.
func (s *TickArraySequence) GetTick(tickIndex int32) (WhirlpoolTick, error) {
	for _, ta := range s.arrays {
		if !ta.Contains(tickIndex, s.tickSpacing) {
			continue
		}
		offset := ta.TickOffset(tickIndex, s.tickSpacing)
		if offset < 0 {
			return zeroTick(), nil
		}
		return ta.Ticks[offset], nil
	}
	if n := len(s.ticks); n > 0 && s.ticks[n-1].index == tickIndex {
		return s.ticks[n-1].tick, nil
	}
	return WhirlpoolTick{}, fmt.Errorf("tick %d outside sequence: %w", tickIndex, ErrTickArraySequenceInvalid)
}

// Len returns the number of usable tick arrays.
func (s *TickArraySequence) Len() int {
	return len(s.arrays)
}

// GetTouchedTickArrayAddresses returns the addresses of the arrays the swap
// needs, trimmed according to reduction. Without reduction every supplied
// array is listed, so the result always covers the reduced ones.
func (s *TickArraySequence) GetTouchedTickArrayAddresses(reduction TickArrayReduction) []solana.PublicKey {
	end := s.lastTouched
	switch reduction {
	case TickArrayReductionAggressive:
	case TickArrayReductionConservative:
		if end+1 < len(s.arrays) {
			end++
		}
	default:
		addresses := make([]solana.PublicKey, 0, MAX_SWAP_TICK_ARRAYS)
		for _, ta := range s.arrays {
			addresses = append(addresses, ta.Address)
		}
		last := s.arrays[len(s.arrays)-1].Address
		for len(addresses) < MAX_SWAP_TICK_ARRAYS {
			addresses = append(addresses, last)
		}
		return addresses
	}

	addresses := make([]solana.PublicKey, 0, end+1)
	for i := 0; i <= end; i++ {
		addresses = append(addresses, s.arrays[i].Address)
	}
	return addresses
}
