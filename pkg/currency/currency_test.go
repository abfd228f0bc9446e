package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBtcToSat(t *testing.T) {
	tests := []struct {
		name string
		btc  float64
		want int64
	}{
		{"one btc", 1.0, 100_000_000},
		{"satoshi", 0.00000001, 1},
		{"half", 0.5, 50_000_000},
		{"zero", 0, 0},
		{"negative", -0.25, -25_000_000},
		{"typical trade", 0.1, 10_000_000},
		{"full precision", 0.12345678, 12_345_678},
		{"float noise rounds", 0.1 + 0.2, 30_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BtcToSat(tt.btc))
		})
	}
}

func TestSatBtcRoundTrip(t *testing.T) {
	sats := []int64{0, 1, 99, 100_000_000, 2_100_000_000_000_000, 12_345_678}
	for _, s := range sats {
		assert.Equal(t, s, BtcToSat(SatToBtc(s)), "satoshi %d must survive the round trip", s)
	}

	// Decimals with at most eight fractional digits survive within epsilon.
	btcs := []float64{0.1, 0.00000001, 1.23456789, 21.0, 0.99999999}
	for _, b := range btcs {
		assert.InDelta(t, b, SatToBtc(BtcToSat(b)), 1e-9)
	}
}

func TestFiatToUnit(t *testing.T) {
	assert.Equal(t, int64(100), FiatToUnit(100.0))
	assert.Equal(t, int64(101), FiatToUnit(100.5))
	assert.Equal(t, int64(100), FiatToUnit(100.4))
	assert.Equal(t, int64(-101), FiatToUnit(-100.5))
}

func TestRateCents(t *testing.T) {
	assert.Equal(t, int64(8312), RateToCents(83.12))
	assert.Equal(t, int64(8300), RateToCents(83))
	assert.InDelta(t, 83.12, CentsToRate(8312), 1e-12)
}

func TestBtcInrPrice(t *testing.T) {
	// $65,000.00 at 83.00 INR/USD → 5,395,000 INR per BTC.
	assert.Equal(t, int64(5_395_000), BtcInrPrice(6_500_000, 8300))
	// Rounding to nearest rupee.
	assert.Equal(t, int64(1), BtcInrPrice(100, 100))
	assert.Equal(t, int64(0), BtcInrPrice(49, 100))
	assert.Equal(t, int64(1), BtcInrPrice(50, 100))
}

func TestDecimalBoundary(t *testing.T) {
	d := DecimalBTC(12_345_678)
	assert.Equal(t, "0.12345678", d.String())
	assert.Equal(t, int64(12_345_678), BtcDecimalToSat(d))

	require.True(t, DecimalFiat(1780).Equal(decimal.NewFromInt(1780)))
	assert.Equal(t, "65000.5", DecimalRate(6_500_050).String())
}

func TestFormatBTC(t *testing.T) {
	tests := []struct {
		sat  int64
		want string
	}{
		{0, "0"},
		{100_000_000, "1"},
		{150_000_000, "1.5"},
		{1, "0.00000001"},
		{12_345_678, "0.12345678"},
		{10_000_000, "0.1"},
		{-50_000_000, "-0.5"},
		{210_000_000_000_000, "2100000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBTC(tt.sat), "sat=%d", tt.sat)
	}
}

func TestFormatFiat(t *testing.T) {
	tests := []struct {
		unit int64
		want string
	}{
		{0, "0"},
		{900, "900"},
		{1780, "1,780"},
		{5_395_000, "5,395,000"},
		{-12_000, "-12,000"},
		{1_000_000_000, "1,000,000,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFiat(tt.unit), "unit=%d", tt.unit)
	}
}
