// Package currency provides the fixed-point conversions every money-touching
// code path in the system must go through. Bitcoin amounts are held as
// satoshis (1 BTC = 100,000,000 sat), fiat amounts as whole rupees, and
// USD prices/rates as integers scaled by 100. All conversions round through
// a single function per unit so ties can never drift between call sites.
package currency

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// SatoshiPerBTC is the number of satoshis in one bitcoin.
	SatoshiPerBTC = 100_000_000

	// CentsScale is the integer scale applied to USD prices and USD→INR
	// rates when persisted (two implied decimal digits).
	CentsScale = 100

	// BTCDecimals is the number of fractional digits a BTC amount carries.
	BTCDecimals = 8
)

var satoshiPerBTCDec = decimal.New(SatoshiPerBTC, 0)

// BtcToSat converts a decimal BTC amount to satoshis, rounding half away
// from zero. Precondition: btc is a finite number; NaN and ±Inf are caller
// contract violations.
func BtcToSat(btc float64) int64 {
	return roundHalfAway(btc * SatoshiPerBTC)
}

// SatToBtc converts satoshis to a decimal BTC amount.
// For any int64 s, BtcToSat(SatToBtc(s)) == s.
func SatToBtc(sat int64) float64 {
	return float64(sat) / SatoshiPerBTC
}

// FiatToUnit converts a decimal fiat amount to whole currency units,
// rounding half away from zero. No sub-unit fiat precision is tracked.
func FiatToUnit(fiat float64) int64 {
	return roundHalfAway(fiat)
}

// UnitToFiat converts whole fiat units to a decimal amount.
func UnitToFiat(unit int64) float64 {
	return float64(unit)
}

// RateToCents converts a decimal USD price or USD→INR rate to its
// cents-scaled integer form.
func RateToCents(rate float64) int64 {
	return roundHalfAway(rate * CentsScale)
}

// CentsToRate converts a cents-scaled integer back to a decimal rate.
func CentsToRate(cents int64) float64 {
	return float64(cents) / CentsScale
}

// DecimalBTC returns the exact decimal representation of a satoshi amount,
// safe to cross any serialization boundary.
func DecimalBTC(sat int64) decimal.Decimal {
	return decimal.New(sat, -BTCDecimals)
}

// DecimalFiat returns the exact decimal representation of a whole-unit fiat
// amount.
func DecimalFiat(unit int64) decimal.Decimal {
	return decimal.New(unit, 0)
}

// DecimalRate returns the exact decimal representation of a cents-scaled
// price or rate.
func DecimalRate(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// BtcDecimalToSat converts an exact decimal BTC amount to satoshis,
// rounding half away from zero beyond eight fractional digits.
func BtcDecimalToSat(btc decimal.Decimal) int64 {
	return btc.Mul(satoshiPerBTCDec).Round(0).IntPart()
}

// BtcInrPrice derives the whole-rupee price of one bitcoin from a
// cents-scaled BTC/USD price and a cents-scaled USD→INR rate, rounding to
// the nearest rupee.
func BtcInrPrice(usdCents, rateCents int64) int64 {
	// usdCents * rateCents carries four implied decimals.
	n := new(big.Int).Mul(big.NewInt(usdCents), big.NewInt(rateCents))
	return DivRound(n, big.NewInt(CentsScale*CentsScale)).Int64()
}

func roundHalfAway(v float64) int64 {
	return int64(math.Round(v))
}

// DivRound divides n by d rounding half away from zero. d must be positive.
func DivRound(n, d *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(n, d, new(big.Int))
	r.Abs(r)
	r.Lsh(r, 1) // 2*|r|
	if r.Cmp(d) >= 0 {
		if n.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	return q
}
