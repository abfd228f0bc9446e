// Package trading is the balance mutation service: the only code path
// permitted to change a user's derived balance. Every operation follows the
// same shape — lock the user row, re-derive balances from the ledger,
// compute the new balances in integer arithmetic, validate non-negativity,
// append the new ledger entry inside the same transaction, then overwrite
// the cache. A cache failure after commit is tolerable (the next read
// rebuilds from the ledger); the reverse ordering is impossible because the
// cache write only happens after the transaction commits.
package trading

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yashpatil27/trading-app-sub000/pkg/currency"
	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
	"github.com/yashpatil27/trading-app-sub000/pkg/provider"
	"github.com/yashpatil27/trading-app-sub000/pkg/repository"
	"github.com/yashpatil27/trading-app-sub000/pkg/service/balance"
	ratessvc "github.com/yashpatil27/trading-app-sub000/pkg/service/rates"
)

// sellToleranceSat is how far a SELL may overshoot the available balance
// and still be clamped down to it. Float-originated requests lose up to one
// satoshi in conversion; anything beyond that is a genuine oversell.
const sellToleranceSat = 1

// Result is the caller-facing outcome of a successful mutation. Balances
// are decimals safe for any transport; satoshi counts never cross this
// boundary.
type Result struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	FiatBalance   decimal.Decimal `json:"fiat_balance"`
	BtcBalance    decimal.Decimal `json:"btc_balance"`
}

// Service executes balance mutations.
type Service struct {
	uow      repository.UnitOfWork
	balances *balance.Service
	prices   provider.BitcoinPriceProvider
	rates    *ratessvc.Service
	logger   *slog.Logger
}

// New creates a trading service.
func New(
	uow repository.UnitOfWork,
	balances *balance.Service,
	prices provider.BitcoinPriceProvider,
	rates *ratessvc.Service,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:      uow,
		balances: balances,
		prices:   prices,
		rates:    rates,
		logger:   logger,
	}
}

// pricing is the quote + platform rate pair a BTC-involving operation is
// executed at.
type pricing struct {
	usdCents  int64
	rateCents int64
}

func (p pricing) btcInr() int64 {
	return currency.BtcInrPrice(p.usdCents, p.rateCents)
}

// Buy spends fiatAmount rupees on BTC at the current price and the
// platform's buy rate.
func (s *Service) Buy(ctx context.Context, userID uuid.UUID, fiatAmount int64) (*Result, error) {
	if fiatAmount <= 0 {
		return nil, domain.ErrAmountMustBePositive
	}
	p, err := s.buyPricing(ctx)
	if err != nil {
		return nil, err
	}
	sats := satsForFiat(fiatAmount, p.usdCents, p.rateCents)
	if sats <= 0 {
		return nil, fmt.Errorf("%w: amount buys less than one satoshi", domain.ErrValidation)
	}

	return s.mutate(ctx, userID, func(cur domain.Balances, at time.Time) (*domain.Transaction, error) {
		newFiat := cur.Fiat - fiatAmount
		if newFiat < 0 {
			return nil, domain.ErrInsufficientFunds
		}
		return s.newTransaction(userID, domain.TxBuy, domain.CurrencyBTC, at, txFields{
			sat:     sats,
			fiat:    fiatAmount,
			pricing: &p,
			fiatBal: newFiat,
			btcBal:  cur.Btc + sats,
		}), nil
	})
}

// Sell converts satAmount satoshis to fiat at the current price and the
// platform's sell rate, rounding the credit up in the user's favor. A
// request at most one satoshi over the available balance is clamped down to
// it; beyond that the sell is rejected.
func (s *Service) Sell(ctx context.Context, userID uuid.UUID, satAmount int64) (*Result, error) {
	if satAmount <= 0 {
		return nil, domain.ErrAmountMustBePositive
	}
	p, err := s.sellPricing(ctx)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, userID, func(cur domain.Balances, at time.Time) (*domain.Transaction, error) {
		sat := satAmount
		if sat > cur.Btc {
			if sat > cur.Btc+sellToleranceSat {
				return nil, domain.ErrInsufficientFunds
			}
			sat = cur.Btc
		}
		if sat <= 0 {
			return nil, domain.ErrInsufficientFunds
		}
		credit := fiatForSats(sat, p.usdCents, p.rateCents)
		return s.newTransaction(userID, domain.TxSell, domain.CurrencyBTC, at, txFields{
			sat:     sat,
			fiat:    credit,
			pricing: &p,
			fiatBal: cur.Fiat + credit,
			btcBal:  cur.Btc - sat,
		}), nil
	})
}

// DepositFiat credits whole rupees.
func (s *Service) DepositFiat(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
	reason string,
) (*Result, error) {
	if amount <= 0 {
		return nil, domain.ErrAmountMustBePositive
	}
	return s.mutate(ctx, userID, func(cur domain.Balances, at time.Time) (*domain.Transaction, error) {
		tx := s.newTransaction(userID, domain.TxDepositINR, domain.CurrencyINR, at, txFields{
			fiat:    amount,
			fiatBal: cur.Fiat + amount,
			btcBal:  cur.Btc,
		})
		tx.Reason = reason
		return tx, nil
	})
}

// WithdrawFiat debits whole rupees, rejecting anything that would take the
// balance below zero.
func (s *Service) WithdrawFiat(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
	reason string,
) (*Result, error) {
	if amount <= 0 {
		return nil, domain.ErrAmountMustBePositive
	}
	return s.mutate(ctx, userID, func(cur domain.Balances, at time.Time) (*domain.Transaction, error) {
		newFiat := cur.Fiat - amount
		if newFiat < 0 {
			return nil, domain.ErrInsufficientFunds
		}
		tx := s.newTransaction(userID, domain.TxWithdrawalINR, domain.CurrencyINR, at, txFields{
			fiat:    amount,
			fiatBal: newFiat,
			btcBal:  cur.Btc,
		})
		tx.Reason = reason
		return tx, nil
	})
}

// DepositBTC credits satoshis as an admin adjustment. The entry is priced
// at the platform's current sell rate so it enters the FIFO lot queue as a
// synthetic acquisition; without a price, later profit math would silently
// break.
func (s *Service) DepositBTC(
	ctx context.Context,
	userID uuid.UUID,
	sat int64,
	reason string,
) (*Result, error) {
	if sat <= 0 {
		return nil, domain.ErrAmountMustBePositive
	}
	p, err := s.sellPricing(ctx)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, func(cur domain.Balances, at time.Time) (*domain.Transaction, error) {
		tx := s.newTransaction(userID, domain.TxDepositBTC, domain.CurrencyBTC, at, txFields{
			sat:     sat,
			fiat:    fiatValueOfSats(sat, p.usdCents, p.rateCents),
			pricing: &p,
			fiatBal: cur.Fiat,
			btcBal:  cur.Btc + sat,
		})
		tx.Reason = reason
		return tx, nil
	})
}

// WithdrawBTC debits satoshis as an admin adjustment, recording the
// fiat-equivalent value at the current sell rate for audit.
func (s *Service) WithdrawBTC(
	ctx context.Context,
	userID uuid.UUID,
	sat int64,
	reason string,
) (*Result, error) {
	if sat <= 0 {
		return nil, domain.ErrAmountMustBePositive
	}
	p, err := s.sellPricing(ctx)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, func(cur domain.Balances, at time.Time) (*domain.Transaction, error) {
		newBtc := cur.Btc - sat
		if newBtc < 0 {
			return nil, domain.ErrInsufficientFunds
		}
		tx := s.newTransaction(userID, domain.TxWithdrawalBTC, domain.CurrencyBTC, at, txFields{
			sat:     sat,
			fiat:    fiatValueOfSats(sat, p.usdCents, p.rateCents),
			pricing: &p,
			fiatBal: cur.Fiat,
			btcBal:  newBtc,
		})
		tx.Reason = reason
		return tx, nil
	})
}

// AdminNote appends a zero-value ADMIN audit marker, e.g. for a credential
// reset. Balances carry over unchanged.
func (s *Service) AdminNote(
	ctx context.Context,
	userID uuid.UUID,
	reason string,
) (*Result, error) {
	return s.mutate(ctx, userID, func(cur domain.Balances, at time.Time) (*domain.Transaction, error) {
		tx := s.newTransaction(userID, domain.TxAdmin, domain.CurrencyNone, at, txFields{
			fiatBal: cur.Fiat,
			btcBal:  cur.Btc,
		})
		tx.Reason = reason
		return tx, nil
	})
}

// InitialTransaction builds the zero-balance ADMIN marker appended when an
// account is created. Exposed so user creation can include it in its own
// atomic unit.
func InitialTransaction(userID uuid.UUID, at time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      domain.TxAdmin,
		Currency:  domain.CurrencyNone,
		Reason:    "account initialized",
		CreatedAt: at,
	}
}

// mutate runs one balance mutation: user row lock, balance re-derivation
// from the ledger, the operation-specific computation, and the ledger
// append — all inside one transaction. The cache is overwritten only after
// the commit succeeds.
func (s *Service) mutate(
	ctx context.Context,
	userID uuid.UUID,
	build func(cur domain.Balances, at time.Time) (*domain.Transaction, error),
) (*Result, error) {
	var created *domain.Transaction

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := repository.Get[repository.UserRepository](uow)
		if err != nil {
			return err
		}
		if _, err := users.GetForUpdate(ctx, userID); err != nil {
			return err
		}

		txRepo, err := repository.Get[repository.TransactionRepository](uow)
		if err != nil {
			return err
		}
		cur := domain.Balances{}
		latest, err := txRepo.LatestByUser(ctx, userID)
		if err != nil {
			return err
		}
		if latest != nil {
			cur = domain.BalancesOf(latest)
		}

		tx, err := build(cur, time.Now().UTC())
		if err != nil {
			return err
		}
		if tx.FiatBalance < 0 || tx.BtcBalance < 0 {
			return domain.ErrInsufficientFunds
		}

		if err := txRepo.Create(ctx, tx); err != nil {
			return err
		}
		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.balances.Refresh(ctx, userID, domain.BalancesOf(created))
	s.logger.Info("balance mutated",
		"user_id", userID,
		"kind", created.Kind,
		"fiat_balance", created.FiatBalance,
		"btc_balance", created.BtcBalance,
	)
	return resultOf(created), nil
}

type txFields struct {
	sat     int64
	fiat    int64
	pricing *pricing
	fiatBal int64
	btcBal  int64
}

func (s *Service) newTransaction(
	userID uuid.UUID,
	kind domain.TxKind,
	ck domain.CurrencyKind,
	at time.Time,
	f txFields,
) *domain.Transaction {
	tx := &domain.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        kind,
		Currency:    ck,
		FiatAmount:  f.fiat,
		FiatBalance: f.fiatBal,
		BtcBalance:  f.btcBal,
		CreatedAt:   at,
	}
	if f.sat != 0 {
		sat := f.sat
		tx.BtcAmount = &sat
	}
	if f.pricing != nil {
		usd, rate, inr := f.pricing.usdCents, f.pricing.rateCents, f.pricing.btcInr()
		tx.BtcUsdPrice = &usd
		tx.UsdInrRate = &rate
		tx.BtcInrPrice = &inr
	}
	return tx
}

func (s *Service) buyPricing(ctx context.Context) (pricing, error) {
	return s.pricing(ctx, func(r *domain.Rates) int64 { return r.BuyRate })
}

func (s *Service) sellPricing(ctx context.Context) (pricing, error) {
	return s.pricing(ctx, func(r *domain.Rates) int64 { return r.SellRate })
}

func (s *Service) pricing(
	ctx context.Context,
	pick func(*domain.Rates) int64,
) (pricing, error) {
	quote, err := s.prices.CurrentPrice(ctx)
	if err != nil {
		return pricing{}, err
	}
	r, err := s.rates.Current(ctx)
	if err != nil {
		return pricing{}, err
	}
	return pricing{usdCents: quote.UsdCents, rateCents: pick(r)}, nil
}

func resultOf(tx *domain.Transaction) *Result {
	return &Result{
		TransactionID: tx.ID,
		FiatBalance:   currency.DecimalFiat(tx.FiatBalance),
		BtcBalance:    currency.DecimalBTC(tx.BtcBalance),
	}
}
