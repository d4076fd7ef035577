package orca

import (
	"fmt"

	cosmath "cosmossdk.io/math"
	"github.com/Solana-ZH/whirlquote/pkg"
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"
)

// WhirlpoolPool struct - Mapped from Orca Whirlpool account structure
//
// Total account size: 653 bytes (including 8-byte discriminator)
type WhirlpoolPool struct {
	WhirlpoolsConfig solana.PublicKey
	WhirlpoolBump    [1]uint8
	TickSpacing      uint16
	FeeTierIndexSeed [2]uint8
	FeeRate          uint16 // hundredths of a basis point
	ProtocolFeeRate  uint16 // basis points of the fee

	Liquidity        uint128.Uint128
	SqrtPrice        uint128.Uint128 // Q64.64
	TickCurrentIndex int32

	ProtocolFeeOwedA uint64
	ProtocolFeeOwedB uint64

	TokenMintA       solana.PublicKey
	TokenVaultA      solana.PublicKey
	FeeGrowthGlobalA uint128.Uint128 // Q64.64, wraps at 2^128

	TokenMintB       solana.PublicKey
	TokenVaultB      solana.PublicKey
	FeeGrowthGlobalB uint128.Uint128

	RewardLastUpdatedTimestamp uint64
	RewardInfos                [NUM_REWARDS]WhirlpoolRewardInfo

	// PoolId is the account address; it is not part of the account data.
	PoolId solana.PublicKey

	// TickArrayCache holds tick arrays keyed by start tick index. It is filled
	// by the fetch layer and only read by Quote.
	TickArrayCache map[int32]*WhirlpoolTickArray
}

// WhirlpoolRewardInfo reward information structure
type WhirlpoolRewardInfo struct {
	Mint                  solana.PublicKey
	Vault                 solana.PublicKey
	Authority             solana.PublicKey
	EmissionsPerSecondX64 uint128.Uint128
	GrowthGlobalX64       uint128.Uint128
}

// IsInitialized reports whether the reward slot has a mint.
func (r WhirlpoolRewardInfo) IsInitialized() bool {
	return !r.Mint.IsZero()
}

// ProtocolName implements pkg.Pool.
func (pool *WhirlpoolPool) ProtocolName() pkg.ProtocolName {
	return pkg.ProtocolNameOrcaWhirlpool
}

// ProtocolType implements pkg.Pool.
func (pool *WhirlpoolPool) ProtocolType() pkg.ProtocolType {
	return pkg.ProtocolTypeOrcaWhirlpool
}

// GetProgramID implements pkg.Pool.
func (pool *WhirlpoolPool) GetProgramID() solana.PublicKey {
	return ORCA_WHIRLPOOL_PROGRAM_ID
}

// GetID implements pkg.Pool.
func (pool *WhirlpoolPool) GetID() string {
	return pool.PoolId.String()
}

// GetTokens returns token pair
func (pool *WhirlpoolPool) GetTokens() (baseMint, quoteMint string) {
	return pool.TokenMintA.String(), pool.TokenMintB.String()
}

// Decode parses Whirlpool account data
func (pool *WhirlpoolPool) Decode(data []byte) error {
	r, err := newLayoutReader(data, WhirlpoolDiscriminator, WHIRLPOOL_SIZE, "whirlpool")
	if err != nil {
		return err
	}

	pool.WhirlpoolsConfig = r.pubkey("whirlpools_config")
	r.decode("whirlpool_bump", &pool.WhirlpoolBump)
	pool.TickSpacing = r.u16("tick_spacing")
	r.decode("fee_tier_index_seed", &pool.FeeTierIndexSeed)
	pool.FeeRate = r.u16("fee_rate")
	pool.ProtocolFeeRate = r.u16("protocol_fee_rate")
	pool.Liquidity = r.u128("liquidity")
	pool.SqrtPrice = r.u128("sqrt_price")
	pool.TickCurrentIndex = r.i32("tick_current_index")
	pool.ProtocolFeeOwedA = r.u64("protocol_fee_owed_a")
	pool.ProtocolFeeOwedB = r.u64("protocol_fee_owed_b")
	pool.TokenMintA = r.pubkey("token_mint_a")
	pool.TokenVaultA = r.pubkey("token_vault_a")
	pool.FeeGrowthGlobalA = r.u128("fee_growth_global_a")
	pool.TokenMintB = r.pubkey("token_mint_b")
	pool.TokenVaultB = r.pubkey("token_vault_b")
	pool.FeeGrowthGlobalB = r.u128("fee_growth_global_b")
	pool.RewardLastUpdatedTimestamp = r.u64("reward_last_updated_timestamp")
	for i := 0; i < NUM_REWARDS; i++ {
		pool.RewardInfos[i] = WhirlpoolRewardInfo{
			Mint:                  r.pubkey("reward_info.mint"),
			Vault:                 r.pubkey("reward_info.vault"),
			Authority:             r.pubkey("reward_info.authority"),
			EmissionsPerSecondX64: r.u128("reward_info.emissions_per_second_x64"),
			GrowthGlobalX64:       r.u128("reward_info.growth_global_x64"),
		}
	}
	return r.err
}

// Span returns account data size
func (pool *WhirlpoolPool) Span() uint64 {
	return WHIRLPOOL_SIZE
}

// Offset returns field offset - Used for RPC query filters
func (pool *WhirlpoolPool) Offset(field string) uint64 {
	// discriminator(8) + whirlpoolsConfig(32) + whirlpoolBump(1)
	const tickSpacing = 8 + 32 + 1
	switch field {
	case "TickSpacing":
		return tickSpacing // 41
	case "FeeRate":
		// tickSpacing(2) + feeTierIndexSeed(2)
		return tickSpacing + 2 + 2 // 45
	case "SqrtPrice":
		// feeRate(2) + protocolFeeRate(2) + liquidity(16)
		return tickSpacing + 2 + 2 + 2 + 2 + 16 // 65
	case "TickCurrentIndex":
		return tickSpacing + 2 + 2 + 2 + 2 + 16 + 16 // 81
	case "TokenMintA":
		// tickCurrentIndex(4) + protocolFeeOwedA(8) + protocolFeeOwedB(8)
		return tickSpacing + 2 + 2 + 2 + 2 + 16 + 16 + 4 + 8 + 8 // 101
	case "TokenMintB":
		// tokenMintA(32) + tokenVaultA(32) + feeGrowthGlobalA(16)
		return 101 + 32 + 32 + 16 // 181
	}
	return 0
}

// Direction returns the swap direction for selling inputMint into the pool.
func (pool *WhirlpoolPool) Direction(inputMint solana.PublicKey) (SwapDirection, error) {
	switch {
	case inputMint.Equals(pool.TokenMintA):
		return SwapDirectionAToB, nil
	case inputMint.Equals(pool.TokenMintB):
		return SwapDirectionBToA, nil
	}
	return 0, fmt.Errorf("mint %s not in pool %s: %w", inputMint, pool.PoolId, ErrInvalidInputTokenMint)
}

// CachedTickArrays returns the cached tick array window for a swap in the given
// direction. Arrays missing from the cache are nil.
func (pool *WhirlpoolPool) CachedTickArrays(direction SwapDirection) []*WhirlpoolTickArray {
	starts := TickArrayStartIndexes(pool.TickCurrentIndex, pool.TickSpacing, direction)
	arrays := make([]*WhirlpoolTickArray, len(starts))
	for i, start := range starts {
		arrays[i] = pool.TickArrayCache[start]
	}
	return arrays
}

// Quote implements pkg.Pool. It quotes an exact input swap against the cached
// tick arrays with no slippage allowance and returns the estimated output.
func (pool *WhirlpoolPool) Quote(inputMint string, inputAmount cosmath.Int) (cosmath.Int, error) {
	if inputAmount.IsNegative() || !inputAmount.IsUint64() {
		return cosmath.Int{}, fmt.Errorf("input amount %s: %w", inputAmount, ErrTokenMaxExceeded)
	}
	mint, err := solana.PublicKeyFromBase58(inputMint)
	if err != nil {
		return cosmath.Int{}, fmt.Errorf("invalid mint address format: %s, error: %w", inputMint, err)
	}
	direction, err := pool.Direction(mint)
	if err != nil {
		return cosmath.Int{}, err
	}

	quote, err := SwapQuoteByInputToken(pool, mint, inputAmount.Uint64(), ZeroPercentage, pool.CachedTickArrays(direction))
	if err != nil {
		return cosmath.Int{}, fmt.Errorf("quote pool %s: %w", pool.PoolId, err)
	}
	return cosmath.NewIntFromUint64(quote.EstimatedAmountOut), nil
}
