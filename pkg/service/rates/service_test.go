package rates_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infracache "github.com/yashpatil27/trading-app-sub000/infra/cache"
	"github.com/yashpatil27/trading-app-sub000/internal/fixtures"
	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
	"github.com/yashpatil27/trading-app-sub000/pkg/service/rates"
)

func newService(store *fixtures.MemoryStore) *rates.Service {
	mem := infracache.NewMemoryBalanceCache()
	return rates.New(
		fixtures.NewUoW(store),
		infracache.MemoryRates{MemoryBalanceCache: mem},
		time.Minute,
		slog.New(slog.DiscardHandler),
	)
}

func TestCurrentWithoutConfiguredRates(t *testing.T) {
	svc := newService(fixtures.NewMemoryStore())

	_, err := svc.Current(context.Background())
	require.ErrorIs(t, err, domain.ErrStaleRates)
}

func TestUpdateThenCurrent(t *testing.T) {
	store := fixtures.NewMemoryStore()
	svc := newService(store)

	updated, err := svc.Update(context.Background(), 9_150, 8_850)
	require.NoError(t, err)
	assert.Equal(t, int64(9_150), updated.BuyRate)
	assert.Equal(t, int64(8_850), updated.SellRate)

	got, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(9_150), got.BuyRate)
	assert.Equal(t, int64(8_850), got.SellRate)

	// A second service over the same store reads through to persistence,
	// not just the first service's cache mirror.
	fresh := newService(store)
	got, err = fresh.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(8_850), got.SellRate)
}

func TestUpdateRejectsNonPositiveRates(t *testing.T) {
	svc := newService(fixtures.NewMemoryStore())

	_, err := svc.Update(context.Background(), 0, 8_800)
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Update(context.Background(), 9_100, -1)
	require.ErrorIs(t, err, domain.ErrValidation)
}
