package fifo

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashpatil27/trading-app-sub000/pkg/currency"
	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
)

var baseTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type txSpec struct {
	kind   domain.TxKind
	sat    int64
	fiat   int64
	price  int64 // rupees per BTC; 0 means no recorded price
	offset time.Duration
}

func buildTxs(specs []txSpec) []*domain.Transaction {
	var (
		out  []*domain.Transaction
		fiat int64
		btc  int64
	)
	for _, s := range specs {
		tx := &domain.Transaction{
			ID:        uuid.New(),
			UserID:    uuid.Nil,
			Kind:      s.kind,
			CreatedAt: baseTime.Add(s.offset),
		}
		switch s.kind {
		case domain.TxBuy:
			btc += s.sat
			fiat -= s.fiat
		case domain.TxSell:
			btc -= s.sat
			fiat += s.fiat
		case domain.TxDepositINR:
			fiat += s.fiat
		case domain.TxWithdrawalINR:
			fiat -= s.fiat
		case domain.TxDepositBTC:
			btc += s.sat
		case domain.TxWithdrawalBTC:
			btc -= s.sat
		}
		if s.sat != 0 {
			sat := s.sat
			tx.BtcAmount = &sat
		}
		if s.price != 0 {
			price := s.price
			tx.BtcInrPrice = &price
		}
		tx.FiatAmount = s.fiat
		tx.FiatBalance = fiat
		tx.BtcBalance = btc
		out = append(out, tx)
	}
	return out
}

func TestCalculateEmptyHistory(t *testing.T) {
	m := Calculate(nil, 5_000_000)
	assert.Zero(t, m.RealizedPnl)
	assert.Zero(t, m.UnrealizedPnl)
	assert.Zero(t, m.CostBasis)
	assert.Zero(t, m.TradeCount)
	assert.Zero(t, m.WinRate)
	assert.Zero(t, m.TotalReturnPct)
	assert.Empty(t, m.History)
	assert.Empty(t, m.OpenLots)
}

func TestCalculateFIFOOrdering(t *testing.T) {
	// BUY 1 BTC @ 100, BUY 1 BTC @ 200, SELL 1.5 BTC @ 300.
	// Realized = 1×(300−100) + 0.5×(300−200) = 250.
	// Remaining lot = 0.5 BTC @ 200.
	txs := buildTxs([]txSpec{
		{kind: domain.TxBuy, sat: currency.SatoshiPerBTC, fiat: 100, price: 100},
		{kind: domain.TxBuy, sat: currency.SatoshiPerBTC, fiat: 200, price: 200, offset: time.Minute},
		{kind: domain.TxSell, sat: currency.SatoshiPerBTC * 3 / 2, fiat: 450, price: 300, offset: 2 * time.Minute},
	})

	m := Calculate(txs, 300)

	assert.Equal(t, int64(250), m.RealizedPnl)
	require.Len(t, m.OpenLots, 1)
	assert.Equal(t, int64(currency.SatoshiPerBTC/2), m.OpenLots[0].Sat)
	assert.Equal(t, int64(200), m.OpenLots[0].Price)
	assert.Equal(t, int64(200), m.CostBasis)
	// Current price 300 against basis 200 on 0.5 BTC → unrealized 50.
	assert.Equal(t, int64(50), m.UnrealizedPnl)
	assert.Equal(t, 3, m.TradeCount)
}

func TestCalculatePartialLotConsumption(t *testing.T) {
	txs := buildTxs([]txSpec{
		{kind: domain.TxBuy, sat: currency.SatoshiPerBTC, fiat: 1000, price: 1000},
		{kind: domain.TxSell, sat: currency.SatoshiPerBTC / 4, fiat: 300, price: 1200, offset: time.Minute},
		{kind: domain.TxSell, sat: currency.SatoshiPerBTC / 4, fiat: 200, price: 800, offset: 2 * time.Minute},
	})

	m := Calculate(txs, 1000)

	// 0.25×(1200−1000) + 0.25×(800−1000) = 50 − 50 = 0.
	assert.Equal(t, int64(0), m.RealizedPnl)
	assert.Equal(t, int64(currency.SatoshiPerBTC/2), m.OpenSat)
	assert.Equal(t, int64(1000), m.CostBasis)
	// One of two sells beat the cost basis at its time.
	assert.InDelta(t, 0.5, m.WinRate, 1e-9)
}

func TestCalculateOversellTruncates(t *testing.T) {
	txs := buildTxs([]txSpec{
		{kind: domain.TxBuy, sat: currency.SatoshiPerBTC, fiat: 100, price: 100},
		{kind: domain.TxSell, sat: 2 * currency.SatoshiPerBTC, fiat: 400, price: 200, offset: time.Minute},
	})

	m := Calculate(txs, 200)

	// Only the held 1 BTC is matched; consumption truncates at zero.
	assert.Equal(t, int64(100), m.RealizedPnl)
	assert.Zero(t, m.OpenSat)
	assert.Zero(t, m.CostBasis)
	assert.Zero(t, m.UnrealizedPnl)
}

func TestCalculateSyntheticLotFromBTCDeposit(t *testing.T) {
	// Admin-credited BTC carries a price and must enter the lot queue, or
	// the later sell would have no cost basis.
	txs := buildTxs([]txSpec{
		{kind: domain.TxDepositBTC, sat: currency.SatoshiPerBTC / 2, fiat: 250, price: 500},
		{kind: domain.TxSell, sat: currency.SatoshiPerBTC / 2, fiat: 350, price: 700, offset: time.Minute},
	})

	m := Calculate(txs, 700)

	assert.Equal(t, int64(100), m.RealizedPnl)
	assert.Zero(t, m.OpenSat)
	assert.InDelta(t, 1.0, m.WinRate, 1e-9)
	// The deposit is not a trade; only the sell counts.
	assert.Equal(t, 1, m.TradeCount)
	assert.Equal(t, int64(350), m.VolumeFiat)
	// The deposit's fiat-equivalent counts toward net deposits.
	assert.Equal(t, int64(250), m.NetDeposits)
}

func TestCalculateBTCWithdrawalConsumesWithoutPnl(t *testing.T) {
	txs := buildTxs([]txSpec{
		{kind: domain.TxBuy, sat: currency.SatoshiPerBTC, fiat: 100, price: 100},
		{kind: domain.TxWithdrawalBTC, sat: currency.SatoshiPerBTC / 2, fiat: 60, price: 120, offset: time.Minute},
	})

	m := Calculate(txs, 120)

	assert.Zero(t, m.RealizedPnl)
	assert.Equal(t, int64(currency.SatoshiPerBTC/2), m.OpenSat)
	assert.Equal(t, int64(100), m.CostBasis)
}

func TestCalculateTotalReturnPct(t *testing.T) {
	txs := buildTxs([]txSpec{
		{kind: domain.TxDepositINR, fiat: 10_000},
		{kind: domain.TxBuy, sat: currency.SatoshiPerBTC, fiat: 5_000, price: 5_000, offset: time.Minute},
	})

	m := Calculate(txs, 6_000)

	assert.Equal(t, int64(10_000), m.NetDeposits)
	assert.Equal(t, int64(1_000), m.UnrealizedPnl)
	assert.InDelta(t, 10.0, m.TotalReturnPct, 1e-9)
}

func TestCalculateZeroInvestedYieldsZeroPct(t *testing.T) {
	txs := buildTxs([]txSpec{
		{kind: domain.TxDepositBTC, sat: currency.SatoshiPerBTC, fiat: 0, price: 100},
	})

	m := Calculate(txs, 200)

	assert.Equal(t, int64(100), m.UnrealizedPnl)
	assert.Zero(t, m.NetDeposits)
	assert.Zero(t, m.TotalReturnPct, "zero invested must yield 0%%, not a division error")
}

func TestCalculateValueHistory(t *testing.T) {
	txs := buildTxs([]txSpec{
		{kind: domain.TxDepositINR, fiat: 1_000},
		{kind: domain.TxBuy, sat: currency.SatoshiPerBTC / 2, fiat: 500, price: 1_000, offset: time.Minute},
	})

	m := Calculate(txs, 1_200)

	require.Len(t, m.History, 2)
	// Deposit carries no price: valued at current price, zero BTC held.
	assert.Equal(t, int64(1_000), m.History[0].Value)
	// After the buy: 500 fiat + 0.5 BTC at the recorded 1000/BTC = 1000.
	assert.Equal(t, int64(1_000), m.History[1].Value)
	assert.Equal(t, int64(500), m.History[1].FiatBalance)
}

func TestCalculateMonthlyStats(t *testing.T) {
	txs := buildTxs([]txSpec{
		{kind: domain.TxBuy, sat: currency.SatoshiPerBTC, fiat: 100, price: 100},
		{kind: domain.TxSell, sat: currency.SatoshiPerBTC, fiat: 150, price: 150, offset: 40 * 24 * time.Hour},
	})

	m := Calculate(txs, 150)

	require.Len(t, m.Monthly, 2)
	assert.Equal(t, "2025-03", m.Monthly[0].Month)
	assert.Equal(t, 1, m.Monthly[0].Trades)
	assert.Equal(t, "2025-04", m.Monthly[1].Month)
	assert.Equal(t, int64(50), m.Monthly[1].RealizedPnl)
}
