package balance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yashpatil27/trading-app-sub000/pkg/currency"
	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
)

// BalanceResponse is the decimal view of a user's current balances.
type BalanceResponse struct {
	FiatBalance decimal.Decimal `json:"fiat_balance"`
	BtcBalance  decimal.Decimal `json:"btc_balance"`
	CacheHit    bool            `json:"cache_hit"`
}

// NewBalanceResponse converts integer balances for transport.
func NewBalanceResponse(b domain.Balances, hit bool) BalanceResponse {
	return BalanceResponse{
		FiatBalance: currency.DecimalFiat(b.Fiat),
		BtcBalance:  currency.DecimalBTC(b.Btc),
		CacheHit:    hit,
	}
}

// TransactionResponse is one history entry with decimal amounts.
type TransactionResponse struct {
	ID          string           `json:"id"`
	Kind        string           `json:"kind"`
	Currency    string           `json:"currency"`
	BtcAmount   *decimal.Decimal `json:"btc_amount,omitempty"`
	FiatAmount  decimal.Decimal  `json:"fiat_amount"`
	BtcUsdPrice *decimal.Decimal `json:"btc_usd_price,omitempty"`
	BtcInrPrice *decimal.Decimal `json:"btc_inr_price,omitempty"`
	UsdInrRate  *decimal.Decimal `json:"usd_inr_rate,omitempty"`
	FiatBalance decimal.Decimal  `json:"fiat_balance"`
	BtcBalance  decimal.Decimal  `json:"btc_balance"`
	Reason      string           `json:"reason,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NewTransactionResponse converts a ledger entry for transport.
func NewTransactionResponse(tx *domain.Transaction) TransactionResponse {
	r := TransactionResponse{
		ID:          tx.ID.String(),
		Kind:        string(tx.Kind),
		Currency:    string(tx.Currency),
		FiatAmount:  currency.DecimalFiat(tx.FiatAmount),
		FiatBalance: currency.DecimalFiat(tx.FiatBalance),
		BtcBalance:  currency.DecimalBTC(tx.BtcBalance),
		Reason:      tx.Reason,
		CreatedAt:   tx.CreatedAt,
	}
	if tx.BtcAmount != nil {
		d := currency.DecimalBTC(*tx.BtcAmount)
		r.BtcAmount = &d
	}
	if tx.BtcUsdPrice != nil {
		d := currency.DecimalRate(*tx.BtcUsdPrice)
		r.BtcUsdPrice = &d
	}
	if tx.BtcInrPrice != nil {
		d := currency.DecimalFiat(*tx.BtcInrPrice)
		r.BtcInrPrice = &d
	}
	if tx.UsdInrRate != nil {
		d := currency.DecimalRate(*tx.UsdInrRate)
		r.UsdInrRate = &d
	}
	return r
}
