// Package provider implements external service adapters.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yashpatil27/trading-app-sub000/config"
	"github.com/yashpatil27/trading-app-sub000/pkg/currency"
	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
	"github.com/yashpatil27/trading-app-sub000/pkg/provider"
)

// PriceAPIProvider fetches the BTC/USD spot price from a ticker API over
// HTTP. Any transport failure, non-200 status, parse failure, or stale
// quote maps to domain.ErrPriceUnavailable so mutations fail cleanly with
// no side effects.
type PriceAPIProvider struct {
	baseURL    string
	httpClient *http.Client
	maxAge     time.Duration
	logger     *slog.Logger
}

// priceAPIResponse is the ticker payload: {"symbol":"BTCUSD",
// "price":"65000.12","updated_at":"2025-03-01T10:00:00Z"}.
type priceAPIResponse struct {
	Symbol    string    `json:"symbol"`
	Price     string    `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPriceAPIProvider creates a price provider from config.
func NewPriceAPIProvider(cfg config.PriceFeed, logger *slog.Logger) *PriceAPIProvider {
	return &PriceAPIProvider{
		baseURL: cfg.ApiUrl,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		maxAge: cfg.MaxAge,
		logger: logger,
	}
}

// CurrentPrice implements provider.BitcoinPriceProvider.
func (p *PriceAPIProvider) CurrentPrice(ctx context.Context) (provider.PriceQuote, error) {
	url := fmt.Sprintf("%s/ticker/BTCUSD", p.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return provider.PriceQuote{}, fmt.Errorf("%w: %v", domain.ErrPriceUnavailable, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Error("price feed request failed", "url", url, "error", err)
		return provider.PriceQuote{}, fmt.Errorf("%w: %v", domain.ErrPriceUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		p.logger.Error("price feed returned non-200", "status", resp.StatusCode, "body", string(body))
		return provider.PriceQuote{}, fmt.Errorf("%w: status %d", domain.ErrPriceUnavailable, resp.StatusCode)
	}

	var apiResp priceAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return provider.PriceQuote{}, fmt.Errorf("%w: %v", domain.ErrPriceUnavailable, err)
	}

	price, err := decimal.NewFromString(apiResp.Price)
	if err != nil || !price.IsPositive() {
		return provider.PriceQuote{}, fmt.Errorf("%w: bad price %q", domain.ErrPriceUnavailable, apiResp.Price)
	}

	if p.maxAge > 0 && !apiResp.UpdatedAt.IsZero() && time.Since(apiResp.UpdatedAt) > p.maxAge {
		return provider.PriceQuote{}, fmt.Errorf(
			"%w: quote from %s is older than %s",
			domain.ErrPriceUnavailable, apiResp.UpdatedAt, p.maxAge,
		)
	}

	quote := provider.PriceQuote{
		UsdCents:  price.Mul(decimal.New(currency.CentsScale, 0)).Round(0).IntPart(),
		UpdatedAt: apiResp.UpdatedAt,
	}
	p.logger.Debug("price feed quote", "usd_cents", quote.UsdCents, "updated_at", quote.UpdatedAt)
	return quote, nil
}
