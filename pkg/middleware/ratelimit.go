package middleware

import (
	"github.com/go-faster/errors"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const rateLimitPrefix = "order_explorer_rate_limit"

type RateLimitConfig struct {
	// Rate in limiter's formatted notation, e.g. "10-S" or "1000-H".
	Rate  string
	Store limiter.Store
}

func NewMemoryStore() limiter.Store {
	return memory.NewStore()
}

// NewRedisStore shares rate limit counters between processes through redis.
func NewRedisStore(redisURL string) (limiter.Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	client := redis.NewClient(opts)
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: rateLimitPrefix})
	if err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "redis rate limit store")
	}
	return store, nil
}

// RateLimit throttles requests per client IP. Requests over the limit get
// 429 Too Many Requests.
func RateLimit(cfg RateLimitConfig) (mux.MiddlewareFunc, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		return nil, errors.Wrapf(err, "parse rate %q", cfg.Rate)
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	mw := stdlib.NewMiddleware(limiter.New(store, rate))
	return mw.Handler, nil
}
