package orca

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"lukechampine.com/uint128"
)

// Bit magnitude constants for the forward conversion.
// Reference: whirlpools/programs/whirlpool/src/math/tick_math.rs
//
// positiveTickRatios[i] = sqrt(1.0001^(2^i)) in Q32.96
// negativeTickRatios[i] = sqrt(1.0001^-(2^i)) in Q64.64
var (
	positiveTickRatios = mustDecimals(
		"79232123823359799118286999567",
		"79236085330515764027303304731",
		"79244008939048815603706035061",
		"79259858533276714757314932305",
		"79291567232598584799939703904",
		"79355022692464371645785046466",
		"79482085999252804386437311141",
		"79736823300114093921829183326",
		"80248749790819932309965073892",
		"81282483887344747381513967011",
		"83390072131320151908154831281",
		"87770609709833776024991924138",
		"97234110755111693312479820773",
		"119332217159966728226237229890",
		"179736315981702064433883588727",
		"407748233172238350107850275304",
		"2098478828474011932436660412517",
		"55581415166113811149459800483533",
		"38992368544603139932233054999993551",
	)
	negativeTickRatios = mustDecimals(
		"18445821805675392311",
		"18444899583751176498",
		"18443055278223354162",
		"18439367220385604838",
		"18431993317065449817",
		"18417254355718160513",
		"18387811781193591352",
		"18329067761203520168",
		"18212142134806087854",
		"17980523815641551639",
		"17526086738831147013",
		"16651378430235024244",
		"15030750278693429944",
		"12247334978882834399",
		"8131365268884726200",
		"3584323654723342297",
		"696457651847595233",
		"26294789957452057",
		"37481735321082",
	)

	q96 = new(uint256.Int).Lsh(uint256.NewInt(1), 96)
	q64 = new(uint256.Int).Lsh(uint256.NewInt(1), 64)
)

func mustDecimals(values ...string) []*uint256.Int {
	out := make([]*uint256.Int, len(values))
	for i, v := range values {
		out[i] = uint256.MustFromDecimal(v)
	}
	return out
}

// CheckTickInBounds reports whether tick lies in [MIN_TICK, MAX_TICK].
func CheckTickInBounds(tick int32) bool {
	return tick >= MIN_TICK && tick <= MAX_TICK
}

// IsSqrtPriceInBounds reports whether sqrtPrice lies in [MIN_SQRT_PRICE_X64, MAX_SQRT_PRICE_X64].
func IsSqrtPriceInBounds(sqrtPrice uint128.Uint128) bool {
	return sqrtPrice.Cmp(MIN_SQRT_PRICE_X64) >= 0 && sqrtPrice.Cmp(MAX_SQRT_PRICE_X64) <= 0
}

// TickIndexToSqrtPriceX64 returns sqrt(1.0001^tick) in Q64.64.
func TickIndexToSqrtPriceX64(tick int32) (uint128.Uint128, error) {
	if !CheckTickInBounds(tick) {
		return uint128.Zero, fmt.Errorf("tick %d: %w", tick, ErrTickIndexOutOfBounds)
	}
	var ratio *uint256.Int
	if tick > 0 {
		ratio = sqrtPricePositiveTick(uint32(tick))
	} else {
		ratio = sqrtPriceNegativeTick(uint32(-tick))
	}
	return U256ToU128(ratio)
}

// mustTickIndexToSqrtPriceX64 is used where the tick has already been bounds checked.
func mustTickIndexToSqrtPriceX64(tick int32) uint128.Uint128 {
	sqrtPrice, err := TickIndexToSqrtPriceX64(tick)
	if err != nil {
		panic(err)
	}
	return sqrtPrice
}

func sqrtPricePositiveTick(tick uint32) *uint256.Int {
	ratio := new(uint256.Int).Set(q96)
	if tick&1 != 0 {
		ratio.Set(positiveTickRatios[0])
	}
	for i := 1; i < len(positiveTickRatios); i++ {
		if tick&(1<<uint(i)) != 0 {
			// ratio < 2^129 and every constant < 2^116, so the product fits in 256 bits
			ratio.Mul(ratio, positiveTickRatios[i])
			ratio.Rsh(ratio, 96)
		}
	}
	return ratio.Rsh(ratio, 32)
}

func sqrtPriceNegativeTick(tick uint32) *uint256.Int {
	ratio := new(uint256.Int).Set(q64)
	if tick&1 != 0 {
		ratio.Set(negativeTickRatios[0])
	}
	for i := 1; i < len(negativeTickRatios); i++ {
		if tick&(1<<uint(i)) != 0 {
			ratio.Mul(ratio, negativeTickRatios[i])
			ratio.Rsh(ratio, 64)
		}
	}
	return ratio
}

// SqrtPriceX64ToTickIndex returns the greatest tick whose sqrt price is <= sqrtPrice.
//
// log2(sqrtPrice) is approximated with BIT_PRECISION fractional bits, converted to
// log_1.0001, and bracketed by the known error margins. When the bracket spans two
// ticks the forward conversion picks the right one.
func SqrtPriceX64ToTickIndex(sqrtPrice uint128.Uint128) (int32, error) {
	if !IsSqrtPriceInBounds(sqrtPrice) {
		return 0, fmt.Errorf("sqrt price %s: %w", sqrtPrice.String(), ErrSqrtPriceOutOfBounds)
	}

	msb := sqrtPrice.Len() - 1
	// signed integer part of log2, as Q32
	log2pIntegerX32 := new(big.Int).Lsh(big.NewInt(int64(msb-64)), 32)

	// normalise into [2^63, 2^64)
	var r uint128.Uint128
	if msb >= 64 {
		r = sqrtPrice.Rsh(uint(msb - 63))
	} else {
		r = sqrtPrice.Lsh(uint(63 - msb))
	}

	rr := U128ToU256(r)
	bit := uint64(0x8000000000000000)
	var log2pFractionX64 uint64
	for precision := 0; bit > 0 && precision < BIT_PRECISION; precision++ {
		rr.Mul(rr, rr)
		rMoreThanTwo := uint(rr[1] >> 63) // bit 127
		rr.Rsh(rr, 63+rMoreThanTwo)
		if rMoreThanTwo == 1 {
			log2pFractionX64 += bit
		}
		bit >>= 1
	}

	log2pFractionX32 := new(big.Int).SetUint64(log2pFractionX64 >> 32)
	log2pX32 := new(big.Int).Add(log2pIntegerX32, log2pFractionX32)
	logbpX64 := new(big.Int).Mul(log2pX32, LOG_B_2_X32.ToBig())

	// big.Int.Rsh rounds toward negative infinity, matching an arithmetic shift
	tickLow := new(big.Int).Rsh(new(big.Int).Sub(logbpX64, LOG_B_P_ERR_MARGIN_LOWER_X64.ToBig()), 64).Int64()
	tickHigh := new(big.Int).Rsh(new(big.Int).Add(logbpX64, LOG_B_P_ERR_MARGIN_UPPER_X64.ToBig()), 64).Int64()

	if tickLow == tickHigh {
		return int32(tickLow), nil
	}
	highSqrtPrice, err := TickIndexToSqrtPriceX64(int32(tickHigh))
	if err != nil {
		return int32(tickLow), nil
	}
	if highSqrtPrice.Cmp(sqrtPrice) <= 0 {
		return int32(tickHigh), nil
	}
	return int32(tickLow), nil
}
