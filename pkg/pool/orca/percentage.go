package orca

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Percentage is a slippage tolerance expressed as Numerator/Denominator.
type Percentage struct {
	Numerator   uint64
	Denominator uint64
}

// ZeroPercentage allows no slippage.
var ZeroPercentage = Percentage{Numerator: 0, Denominator: 1}

// NewPercentage builds a fraction; the denominator must be positive.
func NewPercentage(numerator, denominator uint64) (Percentage, error) {
	if denominator == 0 {
		return Percentage{}, fmt.Errorf("denominator 0: %w", ErrInvalidPercentage)
	}
	return Percentage{Numerator: numerator, Denominator: denominator}, nil
}

// PercentageFromBps builds a tolerance in basis points, e.g. 50 for 0.5%.
func PercentageFromBps(bps uint16) Percentage {
	return Percentage{Numerator: uint64(bps), Denominator: 10_000}
}

// PercentageFromDecimal reads d as a percent value, so 0.5 means 0.5%.
func PercentageFromDecimal(d decimal.Decimal) (Percentage, error) {
	if d.IsNegative() {
		return Percentage{}, fmt.Errorf("negative percentage %s: %w", d, ErrInvalidPercentage)
	}
	places := int32(0)
	if d.Exponent() < 0 {
		places = -d.Exponent()
	}
	numerator := d.Shift(places).BigInt()
	denominator := decimal.New(100, places).BigInt()
	if !numerator.IsUint64() || !denominator.IsUint64() {
		return Percentage{}, fmt.Errorf("percentage %s too precise: %w", d, ErrInvalidPercentage)
	}
	return Percentage{Numerator: numerator.Uint64(), Denominator: denominator.Uint64()}, nil
}

// ParsePercentage parses a percent string such as "0.5".
func ParsePercentage(s string) (Percentage, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Percentage{}, fmt.Errorf("parse percentage %q: %w", s, ErrInvalidPercentage)
	}
	return PercentageFromDecimal(d)
}

// Decimal returns the tolerance as a fraction of one.
func (p Percentage) Decimal() decimal.Decimal {
	if p.Denominator == 0 {
		return decimal.Zero
	}
	return decimal.NewFromUint64(p.Numerator).Div(decimal.NewFromUint64(p.Denominator))
}

func (p Percentage) String() string {
	return p.Decimal().Mul(decimal.NewFromInt(100)).String() + "%"
}

// AdjustForSlippage widens amount by the tolerance. Rounding up gives a
// maximum: ceil(n*(den+num)/den). Rounding down gives a minimum:
// floor(n*den/(den+num)).
func AdjustForSlippage(amount uint64, slippage Percentage, rounding Rounding) (uint64, error) {
	if slippage.Denominator == 0 {
		return 0, fmt.Errorf("denominator 0: %w", ErrInvalidPercentage)
	}
	num := uint256.NewInt(slippage.Numerator)
	den := uint256.NewInt(slippage.Denominator)
	widened := new(uint256.Int).Add(den, num)

	var adjusted *uint256.Int
	var err error
	if rounding == RoundingUp {
		adjusted, err = MulDiv(uint256.NewInt(amount), widened, den, 256, RoundingUp)
	} else {
		adjusted, err = MulDiv(uint256.NewInt(amount), den, widened, 256, RoundingDown)
	}
	if err != nil {
		return 0, err
	}
	return U256ToU64(adjusted)
}
