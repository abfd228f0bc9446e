// Package app builds the service graph and the fiber application on top of
// explicitly injected infrastructure.
package app

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/yashpatil27/trading-app-sub000/config"
	"github.com/yashpatil27/trading-app-sub000/pkg/cache"
	"github.com/yashpatil27/trading-app-sub000/pkg/provider"
	"github.com/yashpatil27/trading-app-sub000/pkg/repository"
	balancesvc "github.com/yashpatil27/trading-app-sub000/pkg/service/balance"
	"github.com/yashpatil27/trading-app-sub000/pkg/service/performance"
	ratessvc "github.com/yashpatil27/trading-app-sub000/pkg/service/rates"
	tradingsvc "github.com/yashpatil27/trading-app-sub000/pkg/service/trading"
	usersvc "github.com/yashpatil27/trading-app-sub000/pkg/service/user"
	"github.com/yashpatil27/trading-app-sub000/webapi/admin"
	"github.com/yashpatil27/trading-app-sub000/webapi/balance"
	"github.com/yashpatil27/trading-app-sub000/webapi/common"
	"github.com/yashpatil27/trading-app-sub000/webapi/trading"
)

// Deps is the infrastructure the application is wired from, constructed at
// process start and passed down explicitly.
type Deps struct {
	Uow           repository.UnitOfWork
	BalanceCache  cache.BalanceCache
	RatesCache    cache.RatesCache
	PriceProvider provider.BitcoinPriceProvider
	Logger        *slog.Logger
	Config        *config.App
}

// New builds all services and returns the fiber app with every route
// registered.
func New(deps Deps) *fiber.App {
	balances := balancesvc.New(deps.Uow, deps.BalanceCache, deps.Config.BalanceCache.TTL, deps.Logger)
	rates := ratessvc.New(deps.Uow, deps.RatesCache, deps.Config.RatesCache.TTL, deps.Logger)
	trades := tradingsvc.New(deps.Uow, balances, deps.PriceProvider, rates, deps.Logger)
	users := usersvc.New(deps.Uow, balances, trades, deps.Logger)
	perf := performance.New(deps.Uow, deps.PriceProvider, rates, deps.Logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
			return common.ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	app.Use(limiter.New(limiter.Config{
		Max:        deps.Config.RateLimit.MaxRequests,
		Expiration: deps.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			// Prefer the proxy-provided client IP when present.
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(
				c, fiber.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded",
			)
		},
	}))
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("App is working! 🚀")
	})

	balance.Routes(app, balances, deps.Uow)
	trading.Routes(app, trades, perf)
	admin.Routes(app, users, balances, trades, rates)
	return app
}
