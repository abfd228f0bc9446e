package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
)

type balanceEntry struct {
	balances  domain.Balances
	expiresAt time.Time
}

// MemoryBalanceCache implements cache.BalanceCache and cache.RatesCache with
// an in-process map. Used in tests and cache-less deployments.
type MemoryBalanceCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]balanceEntry
	rates   *domain.Rates
	ratesAt time.Time
}

// NewMemoryBalanceCache creates a new in-memory cache.
func NewMemoryBalanceCache() *MemoryBalanceCache {
	c := &MemoryBalanceCache{
		entries: make(map[uuid.UUID]balanceEntry),
	}

	go c.cleanup()

	return c
}

// Get implements cache.BalanceCache.
func (c *MemoryBalanceCache) Get(
	_ context.Context,
	userID uuid.UUID,
) (domain.Balances, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[userID]
	if !exists || time.Now().After(entry.expiresAt) {
		return domain.Balances{}, false, nil
	}
	return entry.balances, true, nil
}

// GetBulk implements cache.BalanceCache.
func (c *MemoryBalanceCache) GetBulk(
	_ context.Context,
	userIDs []uuid.UUID,
) (map[uuid.UUID]domain.Balances, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[uuid.UUID]domain.Balances, len(userIDs))
	now := time.Now()
	for _, id := range userIDs {
		if entry, exists := c.entries[id]; exists && now.Before(entry.expiresAt) {
			result[id] = entry.balances
		}
	}
	return result, nil
}

// Set implements cache.BalanceCache.
func (c *MemoryBalanceCache) Set(
	_ context.Context,
	userID uuid.UUID,
	b domain.Balances,
	ttl time.Duration,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[userID] = balanceEntry{
		balances:  b,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Invalidate implements cache.BalanceCache.
func (c *MemoryBalanceCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, userID)
	return nil
}

// GetRates implements cache.RatesCache.Get.
func (c *MemoryBalanceCache) GetRates(_ context.Context) (*domain.Rates, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.rates == nil || time.Now().After(c.ratesAt) {
		return nil, nil
	}
	return c.rates, nil
}

// SetRates implements cache.RatesCache.Set.
func (c *MemoryBalanceCache) SetRates(
	_ context.Context,
	r *domain.Rates,
	ttl time.Duration,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rates = r
	c.ratesAt = time.Now().Add(ttl)
	return nil
}

// cleanup removes expired entries.
func (c *MemoryBalanceCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for id, entry := range c.entries {
			if now.After(entry.expiresAt) {
				delete(c.entries, id)
			}
		}
		c.mu.Unlock()
	}
}

// MemoryRates adapts MemoryBalanceCache to the cache.RatesCache interface.
type MemoryRates struct {
	*MemoryBalanceCache
}

// Get implements cache.RatesCache.
func (r MemoryRates) Get(ctx context.Context) (*domain.Rates, error) {
	return r.GetRates(ctx)
}

// Set implements cache.RatesCache.
func (r MemoryRates) Set(ctx context.Context, rates *domain.Rates, ttl time.Duration) error {
	return r.SetRates(ctx, rates, ttl)
}
