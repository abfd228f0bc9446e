// Package provider defines the external inputs the core consumes at
// decision time.
package provider

import (
	"context"
	"time"
)

// PriceQuote is the current BTC/USD price in cents and when the feed last
// updated it.
type PriceQuote struct {
	UsdCents  int64
	UpdatedAt time.Time
}

// BitcoinPriceProvider supplies the current BTC/USD price. The core never
// polls; it asks at read/decision time, and implementations must apply a
// short timeout and return domain.ErrPriceUnavailable (wrapped) rather than
// block.
type BitcoinPriceProvider interface {
	CurrentPrice(ctx context.Context) (PriceQuote, error)
}

// StaticPriceProvider returns a fixed quote. Used in tests and offline
// deployments.
type StaticPriceProvider struct {
	Quote PriceQuote
	Err   error
}

// CurrentPrice implements BitcoinPriceProvider.
func (s StaticPriceProvider) CurrentPrice(context.Context) (PriceQuote, error) {
	if s.Err != nil {
		return PriceQuote{}, s.Err
	}
	return s.Quote, nil
}
