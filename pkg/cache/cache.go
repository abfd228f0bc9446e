// Package cache defines the cache contracts. Implementations may be backed
// by redis or an in-process map; either way the cache is an optimization
// only — every value it holds is reconstructible from the ledger, and a
// failing cache backend must degrade to a ledger read, never to a
// user-visible error.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
)

// BalanceCache mirrors "latest balance per user" with a bounded TTL.
// It is not a lock: mutation correctness comes from the ledger write path.
type BalanceCache interface {
	// Get returns the cached balances and whether the key was present.
	Get(ctx context.Context, userID uuid.UUID) (domain.Balances, bool, error)

	// GetBulk returns cached balances for every present key in one batched
	// lookup. Absent keys are simply missing from the result.
	GetBulk(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]domain.Balances, error)

	// Set unconditionally overwrites the entry with a fresh TTL.
	Set(ctx context.Context, userID uuid.UUID, b domain.Balances, ttl time.Duration) error

	// Invalidate removes the entry; called on account deletion.
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// RatesCache mirrors the platform's singleton USD→INR rates for
// low-latency reads.
type RatesCache interface {
	Get(ctx context.Context) (*domain.Rates, error)
	Set(ctx context.Context, r *domain.Rates, ttl time.Duration) error
}
