package orca

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePercentage(t *testing.T) {
	tests := []struct {
		in   string
		want Percentage
	}{
		{"1", Percentage{1, 100}},
		{"0.5", Percentage{5, 1000}},
		{"1.50", Percentage{150, 10000}},
		{"0", Percentage{0, 100}},
	}
	for _, tt := range tests {
		got, err := ParsePercentage(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, in := range []string{"-1", "abc", ""} {
		_, err := ParsePercentage(in)
		assert.ErrorIs(t, err, ErrInvalidPercentage, in)
	}
}

func TestPercentageConstructors(t *testing.T) {
	p, err := NewPercentage(3, 1000)
	require.NoError(t, err)
	assert.Equal(t, "0.3%", p.String())

	_, err = NewPercentage(1, 0)
	assert.ErrorIs(t, err, ErrInvalidPercentage)

	bps := PercentageFromBps(50)
	assert.Equal(t, Percentage{50, 10_000}, bps)
	assert.Equal(t, "0.005", bps.Decimal().String())
	assert.Equal(t, "0.5%", bps.String())
	assert.Equal(t, "0%", ZeroPercentage.String())
}

func TestAdjustForSlippage(t *testing.T) {
	tests := []struct {
		name     string
		amount   uint64
		slippage Percentage
		rounding Rounding
		want     uint64
	}{
		{"minimum output", 801637404, onePercent, RoundingDown, 793700400},
		{"maximum input", 101106, onePercent, RoundingUp, 102118},
		{"maximum exact", 100, onePercent, RoundingUp, 101},
		{"zero slippage down", 12345, ZeroPercentage, RoundingDown, 12345},
		{"zero slippage up", 12345, ZeroPercentage, RoundingUp, 12345},
		{"zero amount", 0, onePercent, RoundingUp, 0},
		{"full tolerance", 1000, Percentage{1, 1}, RoundingDown, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AdjustForSlippage(tt.amount, tt.slippage, tt.rounding)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := AdjustForSlippage(^uint64(0), onePercent, RoundingUp)
	assert.ErrorIs(t, err, ErrTokenMaxExceeded)

	_, err = AdjustForSlippage(1, Percentage{Numerator: 1}, RoundingDown)
	assert.ErrorIs(t, err, ErrInvalidPercentage)
}
