// Package testutils builds a fully wired fiber app over in-memory
// infrastructure for handler tests.
package testutils

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/yashpatil27/trading-app-sub000/config"
	infracache "github.com/yashpatil27/trading-app-sub000/infra/cache"
	"github.com/yashpatil27/trading-app-sub000/internal/fixtures"
	"github.com/yashpatil27/trading-app-sub000/pkg/app"
	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
	"github.com/yashpatil27/trading-app-sub000/pkg/provider"
)

// Default test pricing: $1000.00/BTC at ₹91.00/USD both ways, making the
// BTC/INR price a round ₹91,000.
const (
	UsdCents  = 100_000
	RateCents = 9_100
)

// E2ETestSuite wires the full route surface over the in-memory store.
type E2ETestSuite struct {
	suite.Suite
	App   *fiber.App
	Store *fixtures.MemoryStore
}

// SetupTest rebuilds the app with a fresh store before every test.
func (s *E2ETestSuite) SetupTest() {
	s.Store = fixtures.NewMemoryStore()
	s.Store.SeedRates(domain.Rates{
		BuyRate:   RateCents,
		SellRate:  RateCents,
		UpdatedAt: time.Now(),
	})

	mem := infracache.NewMemoryBalanceCache()
	cfg := &config.App{}
	cfg.BalanceCache.TTL = time.Minute
	cfg.RatesCache.TTL = time.Minute
	cfg.RateLimit.MaxRequests = 10_000
	cfg.RateLimit.Window = time.Second

	s.App = app.New(app.Deps{
		Uow:          fixtures.NewUoW(s.Store),
		BalanceCache: mem,
		RatesCache:   infracache.MemoryRates{MemoryBalanceCache: mem},
		PriceProvider: provider.StaticPriceProvider{
			Quote: provider.PriceQuote{UsdCents: UsdCents, UpdatedAt: time.Now()},
		},
		Logger: slog.New(slog.DiscardHandler),
		Config: cfg,
	})
}

// SeedUser inserts a user with an initial zero-balance ledger marker.
func (s *E2ETestSuite) SeedUser() uuid.UUID {
	id := uuid.New()
	s.Store.SeedUser(domain.User{
		ID:        id,
		Name:      "test",
		Email:     id.String() + "@example.com",
		Pin:       "1234",
		CreatedAt: time.Now().UTC(),
	})
	s.Store.SeedTransaction(domain.Transaction{
		ID:        uuid.New(),
		UserID:    id,
		Kind:      domain.TxAdmin,
		Currency:  domain.CurrencyNone,
		Reason:    "account initialized",
		CreatedAt: time.Now().UTC(),
	})
	return id
}

// MakeRequest performs an in-process request against the app.
func (s *E2ETestSuite) MakeRequest(method, path, body string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	s.Require().NoError(err)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := s.App.Test(req, -1)
	s.Require().NoError(err)
	return resp
}
