package trading

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yashpatil27/trading-app-sub000/pkg/currency"
	"github.com/yashpatil27/trading-app-sub000/pkg/fifo"
)

// TradeRequest is the request body for POST /users/:id/trades. A buy spends
// fiat_amount rupees; a sell disposes btc_amount BTC.
type TradeRequest struct {
	Side       string `json:"side" validate:"required,oneof=buy sell"`
	FiatAmount string `json:"fiat_amount" validate:"required_if=Side buy,omitempty,numeric"`
	BtcAmount  string `json:"btc_amount" validate:"required_if=Side sell,omitempty,numeric"`
}

// TransferRequest is the request body for fiat deposits and withdrawals.
type TransferRequest struct {
	Amount string `json:"amount" validate:"required,numeric"`
	Reason string `json:"reason" validate:"max=200"`
}

// LotResponse is one still-open acquisition lot with decimal amounts.
type LotResponse struct {
	BtcAmount  decimal.Decimal `json:"btc_amount"`
	Price      decimal.Decimal `json:"price"`
	AcquiredAt time.Time       `json:"acquired_at"`
}

// ValuePointResponse is one point of the portfolio value series.
type ValuePointResponse struct {
	At          time.Time       `json:"at"`
	Value       decimal.Decimal `json:"value"`
	FiatBalance decimal.Decimal `json:"fiat_balance"`
	BtcBalance  decimal.Decimal `json:"btc_balance"`
}

// MonthlyStatResponse aggregates one calendar month of activity.
type MonthlyStatResponse struct {
	Month       string          `json:"month"`
	Trades      int             `json:"trades"`
	VolumeFiat  decimal.Decimal `json:"volume_fiat"`
	RealizedPnl decimal.Decimal `json:"realized_pnl"`
}

// PerformanceResponse is the decimal view of a user's performance metrics.
// Satoshi counts and integer rupee amounts never cross this boundary raw.
type PerformanceResponse struct {
	RealizedPnl    decimal.Decimal       `json:"realized_pnl"`
	UnrealizedPnl  decimal.Decimal       `json:"unrealized_pnl"`
	CostBasis      decimal.Decimal       `json:"cost_basis"`
	OpenBtc        decimal.Decimal       `json:"open_btc"`
	TradeCount     int                   `json:"trade_count"`
	VolumeFiat     decimal.Decimal       `json:"volume_fiat"`
	AvgTradeFiat   decimal.Decimal       `json:"avg_trade_fiat"`
	WinRate        float64               `json:"win_rate"`
	NetDeposits    decimal.Decimal       `json:"net_deposits"`
	TotalReturn    decimal.Decimal       `json:"total_return"`
	TotalReturnPct float64               `json:"total_return_pct"`
	Monthly        []MonthlyStatResponse `json:"monthly"`
	History        []ValuePointResponse  `json:"history"`
	OpenLots       []LotResponse         `json:"open_lots"`
}

// NewPerformanceResponse converts a metrics record for transport.
func NewPerformanceResponse(m *fifo.Metrics) PerformanceResponse {
	r := PerformanceResponse{
		RealizedPnl:    currency.DecimalFiat(m.RealizedPnl),
		UnrealizedPnl:  currency.DecimalFiat(m.UnrealizedPnl),
		CostBasis:      currency.DecimalFiat(m.CostBasis),
		OpenBtc:        currency.DecimalBTC(m.OpenSat),
		TradeCount:     m.TradeCount,
		VolumeFiat:     currency.DecimalFiat(m.VolumeFiat),
		AvgTradeFiat:   currency.DecimalFiat(m.AvgTradeFiat),
		WinRate:        m.WinRate,
		NetDeposits:    currency.DecimalFiat(m.NetDeposits),
		TotalReturn:    currency.DecimalFiat(m.TotalReturn),
		TotalReturnPct: m.TotalReturnPct,
		Monthly:        make([]MonthlyStatResponse, 0, len(m.Monthly)),
		History:        make([]ValuePointResponse, 0, len(m.History)),
		OpenLots:       make([]LotResponse, 0, len(m.OpenLots)),
	}
	for _, ms := range m.Monthly {
		r.Monthly = append(r.Monthly, MonthlyStatResponse{
			Month:       ms.Month,
			Trades:      ms.Trades,
			VolumeFiat:  currency.DecimalFiat(ms.VolumeFiat),
			RealizedPnl: currency.DecimalFiat(ms.RealizedPnl),
		})
	}
	for _, vp := range m.History {
		r.History = append(r.History, ValuePointResponse{
			At:          vp.At,
			Value:       currency.DecimalFiat(vp.Value),
			FiatBalance: currency.DecimalFiat(vp.FiatBalance),
			BtcBalance:  currency.DecimalBTC(vp.BtcBalance),
		})
	}
	for _, l := range m.OpenLots {
		r.OpenLots = append(r.OpenLots, LotResponse{
			BtcAmount:  currency.DecimalBTC(l.Sat),
			Price:      currency.DecimalFiat(l.Price),
			AcquiredAt: l.AcquiredAt,
		})
	}
	return r
}
