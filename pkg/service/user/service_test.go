package user_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infracache "github.com/yashpatil27/trading-app-sub000/infra/cache"
	"github.com/yashpatil27/trading-app-sub000/internal/fixtures"
	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
	"github.com/yashpatil27/trading-app-sub000/pkg/provider"
	"github.com/yashpatil27/trading-app-sub000/pkg/service/balance"
	ratessvc "github.com/yashpatil27/trading-app-sub000/pkg/service/rates"
	"github.com/yashpatil27/trading-app-sub000/pkg/service/trading"
	"github.com/yashpatil27/trading-app-sub000/pkg/service/user"
)

type env struct {
	store  *fixtures.MemoryStore
	users  *user.Service
	trades *trading.Service
	reads  *balance.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := fixtures.NewMemoryStore()
	uow := fixtures.NewUoW(store)
	logger := slog.New(slog.DiscardHandler)

	mem := infracache.NewMemoryBalanceCache()
	reads := balance.New(uow, mem, time.Minute, logger)
	rates := ratessvc.New(uow, infracache.MemoryRates{MemoryBalanceCache: mem}, time.Minute, logger)
	prices := provider.StaticPriceProvider{
		Quote: provider.PriceQuote{UsdCents: 100_000, UpdatedAt: time.Now()},
	}
	trades := trading.New(uow, reads, prices, rates, logger)

	store.SeedRates(domain.Rates{BuyRate: 9_100, SellRate: 9_100, UpdatedAt: time.Now()})

	return &env{
		store:  store,
		users:  user.New(uow, reads, trades, logger),
		trades: trades,
		reads:  reads,
	}
}

func TestCreateWritesInitialLedgerMarker(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.users.Create(ctx, "ravi", "ravi@example.com", "1234", false)
	require.NoError(t, err)

	got, err := e.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", got.Email)

	txs := e.store.Transactions(u.ID)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.TxAdmin, txs[0].Kind)
	assert.Equal(t, domain.CurrencyNone, txs[0].Currency)
	assert.Equal(t, int64(0), txs[0].FiatBalance)
	assert.Equal(t, int64(0), txs[0].BtcBalance)

	b, _, err := e.reads.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, b.IsZero())
}

func TestCreateValidatesInput(t *testing.T) {
	e := newEnv(t)

	_, err := e.users.Create(context.Background(), "", "x@example.com", "1234", false)
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = e.users.Create(context.Background(), "x", "", "1234", false)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestResetPinAppendsAuditMarker(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.users.Create(ctx, "meera", "meera@example.com", "1111", false)
	require.NoError(t, err)
	_, err = e.trades.DepositFiat(ctx, u.ID, 5_000, "")
	require.NoError(t, err)

	require.NoError(t, e.users.ResetPin(ctx, u.ID, "9999"))

	got, err := e.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "9999", got.Pin)

	txs := e.store.Transactions(u.ID)
	last := txs[len(txs)-1]
	assert.Equal(t, domain.TxAdmin, last.Kind)
	assert.Equal(t, "pin reset", last.Reason)
	// Balances carry over unchanged through the marker.
	assert.Equal(t, int64(5_000), last.FiatBalance)
	assert.Equal(t, int64(0), last.BtcBalance)

	require.ErrorIs(t, e.users.ResetPin(ctx, u.ID, ""), domain.ErrValidation)
}

func TestDeleteRefusedWithNonzeroBalance(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.users.Create(ctx, "dev", "dev@example.com", "1234", false)
	require.NoError(t, err)
	_, err = e.trades.DepositFiat(ctx, u.ID, 100, "")
	require.NoError(t, err)

	err = e.users.Delete(ctx, u.ID)
	require.ErrorIs(t, err, domain.ErrPreconditionFailed)

	// Nothing was deleted.
	_, err = e.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, e.store.Transactions(u.ID))
}

func TestDeleteZeroBalanceUserRemovesEverything(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.users.Create(ctx, "tara", "tara@example.com", "1234", false)
	require.NoError(t, err)
	_, err = e.trades.DepositFiat(ctx, u.ID, 100, "")
	require.NoError(t, err)
	_, err = e.trades.WithdrawFiat(ctx, u.ID, 100, "")
	require.NoError(t, err)

	require.NoError(t, e.users.Delete(ctx, u.ID))

	_, err = e.users.Get(ctx, u.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, e.store.Transactions(u.ID))

	// The cache entry is gone too: a fresh read derives zero from the
	// now-empty ledger instead of serving a stale pair.
	b, hit, err := e.reads.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, b.IsZero())
}

func TestDeleteUnknownUser(t *testing.T) {
	e := newEnv(t)
	require.ErrorIs(t, e.users.Delete(context.Background(), uuid.New()), domain.ErrNotFound)
}
