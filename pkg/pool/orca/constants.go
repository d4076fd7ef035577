package orca

import (
	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"lukechampine.com/uint128"
)

// Program IDs
var (
	// Orca Whirlpool Program ID
	ORCA_WHIRLPOOL_PROGRAM_ID = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")
)

// Tick Array Configuration - Based on Orca Whirlpool specification
const (
	TICK_ARRAY_SIZE = 88
	MAX_TICK        = 443636
	MIN_TICK        = -443636

	// MAX_SWAP_TICK_ARRAYS is the number of tick array accounts a swap instruction takes
	MAX_SWAP_TICK_ARRAYS = 3

	// NUM_REWARDS is the number of reward slots on a pool and a position
	NUM_REWARDS = 3
)

// Fee Constants
const (
	// FEE_RATE_DENOMINATOR: fee_rate is expressed in hundredths of a basis point
	FEE_RATE_DENOMINATOR = 1_000_000
	// PROTOCOL_FEE_RATE_DENOMINATOR: protocol_fee_rate is expressed in basis points of the fee
	PROTOCOL_FEE_RATE_DENOMINATOR = 10_000
)

// Price Constants - Based on Whirlpool protocol official values
// Reference: whirlpools/programs/whirlpool/src/math/tick_math.rs
var (
	MIN_SQRT_PRICE_X64 = uint128.From64(4295048016)
	MAX_SQRT_PRICE_X64 = uint128.New(0x35bb7f32a81b33af, 0xfffec4b1) // 79226673515401279992447579055

	U64_MAX = uint128.From64(^uint64(0))
)

// Log approximation constants used by SqrtPriceX64ToTickIndex
const (
	BIT_PRECISION = 14
)

var (
	LOG_B_2_X32                  = uint256.MustFromDecimal("59543866431248")
	LOG_B_P_ERR_MARGIN_LOWER_X64 = uint256.MustFromDecimal("184467440737095516")
	LOG_B_P_ERR_MARGIN_UPPER_X64 = uint256.MustFromDecimal("15793534762490258745")
)

// Seeds and Discriminators
var (
	TICK_ARRAY_SEED = "tick_array"
	POSITION_SEED   = "position"

	// Anchor account discriminators: sha256("account:<Name>")[:8]
	WhirlpoolDiscriminator = [8]byte{63, 149, 209, 12, 225, 128, 99, 9}
	TickArrayDiscriminator = [8]byte{69, 97, 189, 190, 110, 7, 66, 187}
	PositionDiscriminator  = [8]byte{170, 188, 143, 228, 122, 64, 247, 208}
)

// Account sizes including the 8-byte discriminator
const (
	WHIRLPOOL_SIZE        = 653
	TICK_SIZE             = 113
	TICK_ARRAY_SIZE_BYTES = 8 + 4 + TICK_ARRAY_SIZE*TICK_SIZE + 32 // 9988
	POSITION_SIZE         = 216
)

// Whirlpool supported tick spacing list
const (
	TICK_SPACING_STABLE   = 1
	TICK_SPACING_STANDARD = 64
	TICK_SPACING_VOLATILE = 128
)
