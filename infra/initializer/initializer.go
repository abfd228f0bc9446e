// Package initializer constructs the process-wide infrastructure: logger,
// database connection, unit of work, caches, and the price feed. Everything
// downstream receives these as explicit dependencies.
package initializer

import (
	"fmt"

	"github.com/yashpatil27/trading-app-sub000/config"
	"github.com/yashpatil27/trading-app-sub000/infra"
	infracache "github.com/yashpatil27/trading-app-sub000/infra/cache"
	infraprovider "github.com/yashpatil27/trading-app-sub000/infra/provider"
	infrarepository "github.com/yashpatil27/trading-app-sub000/infra/repository"
	"github.com/yashpatil27/trading-app-sub000/pkg/app"
)

// InitializeDependencies builds the full dependency set from configuration.
// When the redis backend cannot be reached at startup the caches fall back
// to the in-process implementation; the ledger stays authoritative either
// way.
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	deps := &app.Deps{Config: cfg}
	logger := SetupLogger(cfg.Log)
	deps.Logger = logger

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	deps.Uow = infrarepository.NewUoW(db)

	redisCache, err := infracache.NewRedisBalanceCacheFromURL(
		cfg.Redis.URL, cfg.Redis.KeyPrefix, logger,
	)
	if err != nil {
		logger.Warn("redis unavailable, using in-process cache", "error", err)
		mem := infracache.NewMemoryBalanceCache()
		deps.BalanceCache = mem
		deps.RatesCache = infracache.MemoryRates{MemoryBalanceCache: mem}
	} else {
		deps.BalanceCache = redisCache
		deps.RatesCache = infracache.Rates{RedisBalanceCache: redisCache}
	}

	deps.PriceProvider = infraprovider.NewPriceAPIProvider(cfg.PriceFeed, logger)

	return deps, nil
}
