package domain

import "time"

// Rates is the platform's singleton USD→INR conversion pair used to price
// trades. Both values are scaled by 100. BuyRate applies when the user buys
// BTC, SellRate when the user sells or when admin adjustments need a
// fiat-equivalent value.
type Rates struct {
	BuyRate   int64     `json:"buy_rate"`
	SellRate  int64     `json:"sell_rate"`
	UpdatedAt time.Time `json:"updated_at"`
}
