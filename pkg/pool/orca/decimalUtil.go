package orca

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"
)

type decimalUtil struct{}

// DecimalUtil converts raw token amounts to and from decimal UI amounts.
var DecimalUtil decimalUtil

// FromU64 returns amount / 10^decimals exactly.
func (decimalUtil) FromU64(amount uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
}

// FromU128 returns amount / 10^decimals exactly.
func (decimalUtil) FromU128(amount uint128.Uint128, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(amount.Big(), -int32(decimals))
}

// ToU64 returns floor(value * 10^decimals). Negative values and values that
// do not fit in u64 fail.
func (decimalUtil) ToU64(value decimal.Decimal, decimals uint8) (uint64, error) {
	if value.IsNegative() {
		return 0, fmt.Errorf("amount %s: %w", value, ErrNegativeTokenAmount)
	}
	raw := value.Shift(int32(decimals)).Floor().BigInt()
	if !raw.IsUint64() {
		return 0, fmt.Errorf("amount %s with %d decimals: %w", value, decimals, ErrTokenMaxExceeded)
	}
	return raw.Uint64(), nil
}
