// Package fifo computes realized and unrealized profit-and-loss over a
// user's ordered transaction history using FIFO cost-basis matching: each
// unit sold is matched against the oldest still-open purchase lot. The
// package is pure computation over fixed-point integers; it performs no I/O
// and never touches the balance cache.
package fifo

import (
	"math/big"
	"time"

	"github.com/yashpatil27/trading-app-sub000/pkg/currency"
	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
)

// Lot is a discrete acquisition still open for FIFO matching: a satoshi
// amount, the whole-rupee price per BTC it was acquired at, and when.
type Lot struct {
	Sat        int64     `json:"sat"`
	Price      int64     `json:"price"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// MonthlyStat aggregates trading activity for one calendar month.
type MonthlyStat struct {
	Month       string `json:"month"` // "2006-01"
	Trades      int    `json:"trades"`
	VolumeFiat  int64  `json:"volume_fiat"`
	RealizedPnl int64  `json:"realized_pnl"`
}

// ValuePoint is one point of the portfolio value series: total value in
// rupees immediately after a transaction, priced at that transaction's
// recorded trade price or the current price when it carries none.
type ValuePoint struct {
	At          time.Time `json:"at"`
	Value       int64     `json:"value"`
	FiatBalance int64     `json:"fiat_balance"`
	BtcBalance  int64     `json:"btc_balance"`
}

// Metrics is the full performance record derived from one replay.
type Metrics struct {
	RealizedPnl    int64         `json:"realized_pnl"`
	UnrealizedPnl  int64         `json:"unrealized_pnl"`
	CostBasis      int64         `json:"cost_basis"` // rupees per BTC, 0 with no open lots
	OpenSat        int64         `json:"open_sat"`
	TradeCount     int           `json:"trade_count"`
	VolumeFiat     int64         `json:"volume_fiat"`
	AvgTradeFiat   int64         `json:"avg_trade_fiat"`
	WinRate        float64       `json:"win_rate"`
	NetDeposits    int64         `json:"net_deposits"`
	TotalReturn    int64         `json:"total_return"`
	TotalReturnPct float64       `json:"total_return_pct"`
	Monthly        []MonthlyStat `json:"monthly"`
	History        []ValuePoint  `json:"history"`
	OpenLots       []Lot         `json:"open_lots"`
}

type lotQueue struct {
	lots []Lot
}

func (q *lotQueue) push(l Lot) {
	q.lots = append(q.lots, l)
}

// consume removes up to sat satoshis from the front of the queue and returns
// the consumed (amount, price) pairs. Consuming more than the queue holds
// truncates at zero rather than going negative.
func (q *lotQueue) consume(sat int64) []Lot {
	var out []Lot
	for sat > 0 && len(q.lots) > 0 {
		front := &q.lots[0]
		take := sat
		if take > front.Sat {
			take = front.Sat
		}
		out = append(out, Lot{Sat: take, Price: front.Price, AcquiredAt: front.AcquiredAt})
		front.Sat -= take
		sat -= take
		if front.Sat == 0 {
			q.lots = q.lots[1:]
		}
	}
	return out
}

func (q *lotQueue) openSat() int64 {
	var total int64
	for _, l := range q.lots {
		total += l.Sat
	}
	return total
}

// costBasis is the weighted-average acquisition price of the open lots in
// rupees per BTC, zero when no lots remain.
func (q *lotQueue) costBasis() int64 {
	totalSat := q.openSat()
	if totalSat == 0 {
		return 0
	}
	weighted := new(big.Int)
	for _, l := range q.lots {
		weighted.Add(weighted, new(big.Int).Mul(big.NewInt(l.Sat), big.NewInt(l.Price)))
	}
	return currency.DivRound(weighted, big.NewInt(totalSat)).Int64()
}

// Calculate replays txs (ascending by creation time) and derives the full
// metrics record. currentPrice is the present whole-rupee price of one BTC.
// An empty history yields all-zero metrics.
func Calculate(txs []*domain.Transaction, currentPrice int64) Metrics {
	var (
		queue    lotQueue
		realized = new(big.Int) // rupee-satoshi product scale until the end
		m        Metrics
		wins     int
		sells    int
		monthly  = map[string]*MonthlyStat{}
		order    []string
	)

	monthOf := func(ts time.Time) *MonthlyStat {
		key := ts.Format("2006-01")
		ms, ok := monthly[key]
		if !ok {
			ms = &MonthlyStat{Month: key}
			monthly[key] = ms
			order = append(order, key)
		}
		return ms
	}

	for _, tx := range txs {
		price := tradePrice(tx, currentPrice)

		switch tx.Kind {
		case domain.TxBuy:
			if tx.BtcAmount != nil && *tx.BtcAmount > 0 {
				queue.push(Lot{Sat: *tx.BtcAmount, Price: price, AcquiredAt: tx.CreatedAt})
			}

		case domain.TxDepositBTC:
			// Admin-injected BTC enters the queue as a synthetic lot at its
			// recorded price so later sells have a defined cost basis.
			if tx.BtcAmount != nil && *tx.BtcAmount > 0 {
				queue.push(Lot{Sat: *tx.BtcAmount, Price: price, AcquiredAt: tx.CreatedAt})
			}

		case domain.TxSell:
			if tx.BtcAmount != nil && *tx.BtcAmount > 0 {
				sells++
				basis := queue.costBasis()
				if basis > 0 && price > basis {
					wins++
				}
				txPnl := new(big.Int)
				for _, consumed := range queue.consume(*tx.BtcAmount) {
					diff := big.NewInt(price - consumed.Price)
					txPnl.Add(txPnl, diff.Mul(diff, big.NewInt(consumed.Sat)))
				}
				realized.Add(realized, txPnl)
				monthOf(tx.CreatedAt).RealizedPnl += toRupees(txPnl)
			}

		case domain.TxWithdrawalBTC:
			// Withdrawn coins leave the queue without realizing a gain or
			// loss; the cost basis of what remains stays aligned with the
			// user's actual holdings.
			if tx.BtcAmount != nil && *tx.BtcAmount > 0 {
				queue.consume(*tx.BtcAmount)
			}
		}

		if tx.IsTrade() {
			m.TradeCount++
			m.VolumeFiat += tx.FiatAmount
			ms := monthOf(tx.CreatedAt)
			ms.Trades++
			ms.VolumeFiat += tx.FiatAmount
		}

		switch tx.Kind {
		case domain.TxDepositINR:
			m.NetDeposits += tx.FiatAmount
		case domain.TxDepositBTC:
			m.NetDeposits += tx.FiatAmount
		case domain.TxWithdrawalINR:
			m.NetDeposits -= tx.FiatAmount
		case domain.TxWithdrawalBTC:
			m.NetDeposits -= tx.FiatAmount
		}

		m.History = append(m.History, ValuePoint{
			At:          tx.CreatedAt,
			Value:       tx.FiatBalance + valueAt(tx.BtcBalance, price),
			FiatBalance: tx.FiatBalance,
			BtcBalance:  tx.BtcBalance,
		})
	}

	m.RealizedPnl = toRupees(realized)
	m.OpenSat = queue.openSat()
	m.CostBasis = queue.costBasis()
	m.OpenLots = append([]Lot(nil), queue.lots...)

	if m.OpenSat > 0 {
		unrealized := new(big.Int).Mul(
			big.NewInt(m.OpenSat),
			big.NewInt(currentPrice-m.CostBasis),
		)
		m.UnrealizedPnl = toRupees(unrealized)
	}

	if m.TradeCount > 0 {
		m.AvgTradeFiat = m.VolumeFiat / int64(m.TradeCount)
	}
	if sells > 0 {
		m.WinRate = float64(wins) / float64(sells)
	}

	m.TotalReturn = m.RealizedPnl + m.UnrealizedPnl
	if m.NetDeposits > 0 {
		m.TotalReturnPct = float64(m.TotalReturn) / float64(m.NetDeposits) * 100
	}

	for _, key := range order {
		m.Monthly = append(m.Monthly, *monthly[key])
	}
	return m
}

// tradePrice picks the whole-rupee BTC price a transaction was valued at:
// its recorded BTC/INR price, a price derived from its BTC/USD price and
// rate, or the current price when the entry carries none.
func tradePrice(tx *domain.Transaction, currentPrice int64) int64 {
	if tx.BtcInrPrice != nil && *tx.BtcInrPrice > 0 {
		return *tx.BtcInrPrice
	}
	if tx.BtcUsdPrice != nil && tx.UsdInrRate != nil {
		return currency.BtcInrPrice(*tx.BtcUsdPrice, *tx.UsdInrRate)
	}
	return currentPrice
}

func valueAt(sat, price int64) int64 {
	v := new(big.Int).Mul(big.NewInt(sat), big.NewInt(price))
	return toRupees(v)
}

// toRupees collapses a satoshi × rupee product down to whole rupees.
func toRupees(v *big.Int) int64 {
	return currency.DivRound(v, big.NewInt(currency.SatoshiPerBTC)).Int64()
}
