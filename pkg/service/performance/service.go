// Package performance derives trading analytics from a user's full ledger
// history. It reads the ledger directly — never the balance cache — and
// runs the FIFO calculator synchronously over the bounded per-user history.
package performance

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/yashpatil27/trading-app-sub000/pkg/currency"
	"github.com/yashpatil27/trading-app-sub000/pkg/fifo"
	"github.com/yashpatil27/trading-app-sub000/pkg/provider"
	"github.com/yashpatil27/trading-app-sub000/pkg/repository"
	ratessvc "github.com/yashpatil27/trading-app-sub000/pkg/service/rates"
)

// Service computes performance metrics.
type Service struct {
	uow    repository.UnitOfWork
	prices provider.BitcoinPriceProvider
	rates  *ratessvc.Service
	logger *slog.Logger
}

// New creates a performance service.
func New(
	uow repository.UnitOfWork,
	prices provider.BitcoinPriceProvider,
	rates *ratessvc.Service,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, prices: prices, rates: rates, logger: logger}
}

// Metrics replays the user's history against the current market price.
func (s *Service) Metrics(ctx context.Context, userID uuid.UUID) (*fifo.Metrics, error) {
	users, err := repository.Get[repository.UserRepository](s.uow)
	if err != nil {
		return nil, err
	}
	if _, err := users.Get(ctx, userID); err != nil {
		return nil, err
	}

	quote, err := s.prices.CurrentPrice(ctx)
	if err != nil {
		return nil, err
	}
	r, err := s.rates.Current(ctx)
	if err != nil {
		return nil, err
	}
	currentPrice := currency.BtcInrPrice(quote.UsdCents, r.SellRate)

	txRepo, err := repository.Get[repository.TransactionRepository](s.uow)
	if err != nil {
		return nil, err
	}
	txs, err := txRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	m := fifo.Calculate(txs, currentPrice)
	s.logger.Debug("performance computed",
		"user_id", userID,
		"transactions", len(txs),
		"realized_pnl", m.RealizedPnl,
	)
	return &m, nil
}
