package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
)

func TestMemoryCacheGetSet(t *testing.T) {
	c := NewMemoryBalanceCache()
	ctx := context.Background()
	id := uuid.New()

	_, hit, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, hit)

	want := domain.Balances{Fiat: 900, Btc: 10_000_000}
	require.NoError(t, c.Set(ctx, id, want, time.Minute))

	got, hit, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	c := NewMemoryBalanceCache()
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, c.Set(ctx, id, domain.Balances{Fiat: 1}, time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, hit, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, hit, "expired entry must read as a miss")
}

func TestMemoryCacheInvalidate(t *testing.T) {
	c := NewMemoryBalanceCache()
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, c.Set(ctx, id, domain.Balances{Fiat: 1}, time.Minute))
	require.NoError(t, c.Invalidate(ctx, id))

	_, hit, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCacheGetBulk(t *testing.T) {
	c := NewMemoryBalanceCache()
	ctx := context.Background()
	a, b, missing := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, c.Set(ctx, a, domain.Balances{Fiat: 10}, time.Minute))
	require.NoError(t, c.Set(ctx, b, domain.Balances{Btc: 20}, time.Minute))

	got, err := c.GetBulk(ctx, []uuid.UUID{a, b, missing})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(10), got[a].Fiat)
	assert.Equal(t, int64(20), got[b].Btc)
	_, ok := got[missing]
	assert.False(t, ok)
}

func TestMemoryCacheRates(t *testing.T) {
	c := NewMemoryBalanceCache()
	ctx := context.Background()

	got, err := MemoryRates{c}.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	want := &domain.Rates{BuyRate: 8400, SellRate: 8300, UpdatedAt: time.Now()}
	require.NoError(t, MemoryRates{c}.Set(ctx, want, time.Minute))

	got, err = MemoryRates{c}.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.BuyRate, got.BuyRate)
	assert.Equal(t, want.SellRate, got.SellRate)
}
