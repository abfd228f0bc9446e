// Package domain holds the ledger entities and the error taxonomy. The
// ledger is the single source of truth: a user's current balance is defined
// as the balance-after fields of their most recent transaction, and nothing
// else stores a balance that could drift from it.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TxKind classifies a ledger entry by the operation that produced it.
type TxKind string

const (
	TxBuy           TxKind = "BUY"
	TxSell          TxKind = "SELL"
	TxDepositINR    TxKind = "DEPOSIT_INR"
	TxDepositBTC    TxKind = "DEPOSIT_BTC"
	TxWithdrawalINR TxKind = "WITHDRAWAL_INR"
	TxWithdrawalBTC TxKind = "WITHDRAWAL_BTC"
	// TxAdmin is a zero-value audit marker for non-monetary admin actions
	// such as account initialization or a credential reset.
	TxAdmin TxKind = "ADMIN"
)

// CurrencyKind tags which currency a transaction moves. It is stored
// explicitly on every record instead of being reconstructed from which
// numeric fields happen to be nonzero.
type CurrencyKind string

const (
	CurrencyBTC  CurrencyKind = "BTC"
	CurrencyINR  CurrencyKind = "INR"
	CurrencyNone CurrencyKind = "NONE"
)

// Transaction is one immutable ledger entry. Amounts are fixed-point
// integers: satoshis for BTC, whole rupees for fiat, cents scale for USD
// prices and rates. BtcAmount and the price fields are nil for entries that
// do not involve them.
//
// Invariants:
//   - Created exactly once per mutating operation, inside the same atomic
//     unit as every other side effect of that operation.
//   - FiatBalance and BtcBalance are mandatory snapshots of the user's total
//     balance immediately after this entry, never deltas.
//   - Never updated; deleted only by cascading user deletion.
type Transaction struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Kind     TxKind
	Currency CurrencyKind

	// BtcAmount is the satoshi amount moved; nil for pure-fiat entries.
	BtcAmount *int64
	// FiatAmount is the whole-rupee amount moved.
	FiatAmount int64

	// BtcUsdPrice is the BTC/USD price in cents at trade time, if any.
	BtcUsdPrice *int64
	// BtcInrPrice is the whole-rupee price of one BTC at trade time, if any.
	BtcInrPrice *int64
	// UsdInrRate is the USD→INR rate scaled by 100 at trade time, if any.
	UsdInrRate *int64

	// FiatBalance and BtcBalance are the user's balances after this entry.
	FiatBalance int64
	BtcBalance  int64

	Reason    string
	CreatedAt time.Time
}

// IsTrade reports whether the entry participates in FIFO lot matching.
func (t *Transaction) IsTrade() bool {
	return t.Kind == TxBuy || t.Kind == TxSell
}

// Balances is a (fiat, BTC) balance pair derived from the ledger.
type Balances struct {
	Fiat int64 `json:"fiat"`
	Btc  int64 `json:"btc"`
}

// IsZero reports whether both balances are exactly zero.
func (b Balances) IsZero() bool {
	return b.Fiat == 0 && b.Btc == 0
}

// BalancesOf derives the balance pair a transaction snapshot carries.
func BalancesOf(t *Transaction) Balances {
	return Balances{Fiat: t.FiatBalance, Btc: t.BtcBalance}
}
