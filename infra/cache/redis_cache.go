// Package cache provides the redis and in-memory cache backends.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/yashpatil27/trading-app-sub000/pkg/domain"
)

const ratesKey = "rates:usd_inr"

// RedisBalanceCache implements cache.BalanceCache and cache.RatesCache on a
// redis backend. Values are JSON payloads under a configurable key prefix.
type RedisBalanceCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisBalanceCache creates a cache on an already-configured redis client.
func NewRedisBalanceCache(
	client *redis.Client,
	prefix string,
	logger *slog.Logger,
) *RedisBalanceCache {
	return &RedisBalanceCache{client: client, prefix: prefix, logger: logger}
}

// NewRedisBalanceCacheFromURL creates a cache by parsing a redis URL.
func NewRedisBalanceCacheFromURL(
	url, prefix string,
	logger *slog.Logger,
) (*RedisBalanceCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewRedisBalanceCache(redis.NewClient(opt), prefix, logger), nil
}

func (r *RedisBalanceCache) key(userID uuid.UUID) string {
	return r.prefix + "balance:" + userID.String()
}

// Get implements cache.BalanceCache.
func (r *RedisBalanceCache) Get(
	ctx context.Context,
	userID uuid.UUID,
) (domain.Balances, bool, error) {
	val, err := r.client.Get(ctx, r.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("balance cache miss", "user_id", userID)
		return domain.Balances{}, false, nil
	}
	if err != nil {
		r.logger.Error("balance cache get error", "user_id", userID, "error", err)
		return domain.Balances{}, false, err
	}
	var b domain.Balances
	if err := json.Unmarshal([]byte(val), &b); err != nil {
		r.logger.Error("balance cache unmarshal error", "user_id", userID, "error", err)
		return domain.Balances{}, false, err
	}
	r.logger.Debug("balance cache hit", "user_id", userID)
	return b, true, nil
}

// GetBulk implements cache.BalanceCache with a single MGET.
func (r *RedisBalanceCache) GetBulk(
	ctx context.Context,
	userIDs []uuid.UUID,
) (map[uuid.UUID]domain.Balances, error) {
	result := make(map[uuid.UUID]domain.Balances, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = r.key(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		r.logger.Error("balance cache mget error", "keys", len(keys), "error", err)
		return nil, err
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // miss
		}
		var b domain.Balances
		if err := json.Unmarshal([]byte(s), &b); err != nil {
			r.logger.Error("balance cache unmarshal error", "user_id", userIDs[i], "error", err)
			continue
		}
		result[userIDs[i]] = b
	}
	return result, nil
}

// Set implements cache.BalanceCache.
func (r *RedisBalanceCache) Set(
	ctx context.Context,
	userID uuid.UUID,
	b domain.Balances,
	ttl time.Duration,
) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(userID), data, ttl).Err(); err != nil {
		r.logger.Error("balance cache set error", "user_id", userID, "error", err)
		return err
	}
	r.logger.Debug("balance cache set", "user_id", userID, "ttl", ttl)
	return nil
}

// Invalidate implements cache.BalanceCache.
func (r *RedisBalanceCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		r.logger.Error("balance cache delete error", "user_id", userID, "error", err)
		return err
	}
	r.logger.Debug("balance cache delete", "user_id", userID)
	return nil
}

// GetRates implements cache.RatesCache.Get.
func (r *RedisBalanceCache) GetRates(ctx context.Context) (*domain.Rates, error) {
	val, err := r.client.Get(ctx, r.prefix+ratesKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("rates cache get error", "error", err)
		return nil, err
	}
	var rates domain.Rates
	if err := json.Unmarshal([]byte(val), &rates); err != nil {
		return nil, err
	}
	return &rates, nil
}

// SetRates implements cache.RatesCache.Set.
func (r *RedisBalanceCache) SetRates(
	ctx context.Context,
	rates *domain.Rates,
	ttl time.Duration,
) error {
	data, err := json.Marshal(rates)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefix+ratesKey, data, ttl).Err(); err != nil {
		r.logger.Error("rates cache set error", "error", err)
		return err
	}
	return nil
}

// Rates adapts the combined client to the cache.RatesCache interface.
type Rates struct {
	*RedisBalanceCache
}

// Get implements cache.RatesCache.
func (r Rates) Get(ctx context.Context) (*domain.Rates, error) {
	return r.GetRates(ctx)
}

// Set implements cache.RatesCache.
func (r Rates) Set(ctx context.Context, rates *domain.Rates, ttl time.Duration) error {
	return r.SetRates(ctx, rates, ttl)
}
