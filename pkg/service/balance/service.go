// Package balance provides read-through access to derived balances: cache
// hit returns the cached pair verbatim, a miss rebuilds it from the user's
// latest ledger entry and writes it through. A failing cache backend
// degrades to ledger reads and is never surfaced to the caller.
package balance

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yashpatil27/trading-app-sub000/pkg/cache"
	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
	"github.com/yashpatil27/trading-app-sub000/pkg/repository"
)

// Service reads balances through the cache with ledger fallback.
type Service struct {
	uow    repository.UnitOfWork
	cache  cache.BalanceCache
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a balance read service.
func New(
	uow repository.UnitOfWork,
	c cache.BalanceCache,
	ttl time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, cache: c, ttl: ttl, logger: logger}
}

// Get returns the user's current balances and whether they came from the
// cache. A user with no ledger rows reads as zero balances.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (domain.Balances, bool, error) {
	b, hit, err := s.cache.Get(ctx, userID)
	if err != nil {
		// Cache trouble is a miss, not a failure.
		s.logger.Warn("balance cache unavailable, falling back to ledger",
			"user_id", userID, "error", err)
	} else if hit {
		return b, true, nil
	}

	derived, err := s.derive(ctx, userID)
	if err != nil {
		return domain.Balances{}, false, err
	}

	if err := s.cache.Set(ctx, userID, derived, s.ttl); err != nil {
		s.logger.Warn("balance cache write-through failed", "user_id", userID, "error", err)
	}
	return derived, false, nil
}

// GetBulk returns balances for many users with one batched cache lookup and
// at most one ledger query covering every miss.
func (s *Service) GetBulk(
	ctx context.Context,
	userIDs []uuid.UUID,
) (map[uuid.UUID]domain.Balances, error) {
	result, err := s.cache.GetBulk(ctx, userIDs)
	if err != nil {
		s.logger.Warn("bulk balance cache unavailable, falling back to ledger", "error", err)
		result = make(map[uuid.UUID]domain.Balances, len(userIDs))
	}

	var missed []uuid.UUID
	for _, id := range userIDs {
		if _, ok := result[id]; !ok {
			missed = append(missed, id)
		}
	}
	if len(missed) == 0 {
		return result, nil
	}

	txRepo, err := repository.Get[repository.TransactionRepository](s.uow)
	if err != nil {
		return nil, err
	}
	latest, err := txRepo.LatestByUsers(ctx, missed)
	if err != nil {
		return nil, err
	}

	for _, id := range missed {
		b := domain.Balances{}
		if tx, ok := latest[id]; ok {
			b = domain.BalancesOf(tx)
		}
		result[id] = b
		if err := s.cache.Set(ctx, id, b, s.ttl); err != nil {
			s.logger.Warn("balance cache write-through failed", "user_id", id, "error", err)
		}
	}
	return result, nil
}

// Refresh overwrites the cached entry, called after a successful mutation.
func (s *Service) Refresh(ctx context.Context, userID uuid.UUID, b domain.Balances) {
	if err := s.cache.Set(ctx, userID, b, s.ttl); err != nil {
		// Tolerable: the next read misses and rebuilds from the ledger.
		s.logger.Warn("balance cache refresh failed", "user_id", userID, "error", err)
	}
}

// Invalidate drops the cached entry, called on account deletion.
func (s *Service) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("balance cache invalidation failed", "user_id", userID, "error", err)
	}
}

func (s *Service) derive(ctx context.Context, userID uuid.UUID) (domain.Balances, error) {
	txRepo, err := repository.Get[repository.TransactionRepository](s.uow)
	if err != nil {
		return domain.Balances{}, err
	}
	latest, err := txRepo.LatestByUser(ctx, userID)
	if err != nil {
		return domain.Balances{}, err
	}
	if latest == nil {
		return domain.Balances{}, nil
	}
	return domain.BalancesOf(latest), nil
}
