// Package config loads the application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"log/slog"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type DB struct {
	Url string `envconfig:"URL"`
}

type Redis struct {
	URL          string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"ledger:"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type BalanceCache struct {
	TTL time.Duration `envconfig:"TTL" default:"5m"`
}

type RatesCache struct {
	TTL time.Duration `envconfig:"TTL" default:"15m"`
}

type PriceFeed struct {
	ApiUrl      string        `envconfig:"API_URL" default:"https://api.exchange.example.com"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"5s"`
	MaxAge      time.Duration `envconfig:"MAX_AGE" default:"10m"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[ledger]"`
}

type App struct {
	Env          string       `envconfig:"APP_ENV" default:"development"`
	Host         string       `envconfig:"APP_HOST" default:"localhost"`
	Port         int          `envconfig:"APP_PORT" default:"3000"`
	DB           DB           `envconfig:"DATABASE"`
	Redis        Redis        `envconfig:"REDIS"`
	BalanceCache BalanceCache `envconfig:"BALANCE_CACHE"`
	RatesCache   RatesCache   `envconfig:"RATES_CACHE"`
	PriceFeed    PriceFeed    `envconfig:"PRICE_FEED"`
	RateLimit    RateLimit    `envconfig:"RATE_LIMIT"`
	Log          Log          `envconfig:"LOG"`
}

func maskCredentialsInUrl(url string) string {
	re := regexp.MustCompile(`(//[^:/@]+:)[^@]+@`)
	return re.ReplaceAllString(url, `${1}[MASKED]@`)
}

// Load reads the configuration, trying the provided .env path first when
// given.
func Load(logger *slog.Logger, envFilePath ...string) (*App, error) {
	var err error
	if len(envFilePath) > 0 && envFilePath[0] != "" {
		err = godotenv.Load(envFilePath[0])
	} else {
		err = godotenv.Load()
	}

	if err != nil {
		logger.Warn("No .env file found or specified, using system environment variables")
	} else {
		logger.Info("Environment variables loaded from .env file")
	}
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	logger.Info("App config loaded",
		"env", cfg.Env,
		"db", maskCredentialsInUrl(cfg.DB.Url),
		"redis", maskCredentialsInUrl(cfg.Redis.URL),
		"balance_cache_ttl", cfg.BalanceCache.TTL,
		"price_feed_url", cfg.PriceFeed.ApiUrl,
		"price_feed_timeout", cfg.PriceFeed.HTTPTimeout,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
	)
	return &cfg, nil
}
