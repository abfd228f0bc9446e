// Package rates manages the platform's singleton USD→INR buy/sell rates,
// persisted in the store and mirrored into the cache for low-latency reads.
package rates

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yashpatil27/trading-app-sub000/pkg/cache"
	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
	"github.com/yashpatil27/trading-app-sub000/pkg/repository"
)

// Service reads and updates the platform rates.
type Service struct {
	uow    repository.UnitOfWork
	cache  cache.RatesCache
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a rates service.
func New(
	uow repository.UnitOfWork,
	c cache.RatesCache,
	ttl time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, cache: c, ttl: ttl, logger: logger}
}

// Current returns the platform rates, preferring the cache mirror. Returns
// domain.ErrStaleRates when rates were never configured.
func (s *Service) Current(ctx context.Context) (*domain.Rates, error) {
	cached, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn("rates cache unavailable, falling back to store", "error", err)
	} else if cached != nil {
		return cached, nil
	}

	repo, err := repository.Get[repository.RatesRepository](s.uow)
	if err != nil {
		return nil, err
	}
	stored, err := repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domain.ErrStaleRates
	}

	if err := s.cache.Set(ctx, stored, s.ttl); err != nil {
		s.logger.Warn("rates cache write-through failed", "error", err)
	}
	return stored, nil
}

// Update persists new buy/sell rates (cents-scaled) and refreshes the cache
// mirror.
func (s *Service) Update(ctx context.Context, buyCents, sellCents int64) (*domain.Rates, error) {
	if buyCents <= 0 || sellCents <= 0 {
		return nil, fmt.Errorf("%w: rates must be positive", domain.ErrValidation)
	}

	rates := &domain.Rates{
		BuyRate:   buyCents,
		SellRate:  sellCents,
		UpdatedAt: time.Now().UTC(),
	}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Get[repository.RatesRepository](uow)
		if err != nil {
			return err
		}
		return repo.Put(ctx, rates)
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, rates, s.ttl); err != nil {
		s.logger.Warn("rates cache refresh failed", "error", err)
	}
	s.logger.Info("platform rates updated", "buy", buyCents, "sell", sellCents)
	return rates, nil
}
