package trading

import (
	"math/big"

	"github.com/yashpatil27/trading-app-sub000/pkg/currency"
)

var (
	// satFiatScale = 1e8 (satoshi) * 1e4 (two cents scales).
	satFiatScale = new(big.Int).Mul(
		big.NewInt(currency.SatoshiPerBTC),
		big.NewInt(currency.CentsScale*currency.CentsScale),
	)
)

// satsForFiat converts a whole-rupee amount to the satoshis it purchases at
// the given BTC/USD price (cents) and USD→INR rate (cents). The result is
// the floor of the exact quotient: a buyer never receives more BTC than the
// fiat covers.
func satsForFiat(fiatUnits, usdCents, rateCents int64) int64 {
	num := new(big.Int).Mul(big.NewInt(fiatUnits), satFiatScale)
	den := new(big.Int).Mul(big.NewInt(usdCents), big.NewInt(rateCents))
	return new(big.Int).Quo(num, den).Int64()
}

// fiatForSats converts a satoshi amount to the whole rupees it is worth at
// the given price and rate, taking the ceiling of the exact quotient so a
// seller is never under-credited.
func fiatForSats(sat, usdCents, rateCents int64) int64 {
	num := new(big.Int).Mul(big.NewInt(sat), big.NewInt(usdCents))
	num.Mul(num, big.NewInt(rateCents))
	q, r := new(big.Int).QuoRem(num, satFiatScale, new(big.Int))
	if r.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Int64()
}

// fiatValueOfSats is the round-to-nearest rupee value of a satoshi amount,
// used for audit fields where neither party is being credited.
func fiatValueOfSats(sat, usdCents, rateCents int64) int64 {
	num := new(big.Int).Mul(big.NewInt(sat), big.NewInt(usdCents))
	num.Mul(num, big.NewInt(rateCents))
	return currency.DivRound(num, satFiatScale).Int64()
}
