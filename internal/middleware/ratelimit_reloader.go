package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"

	"github.com/enablementhq/tracker-api/internal/database"
	"github.com/enablementhq/tracker-api/internal/models"
	"github.com/enablementhq/tracker-api/internal/request"
)

// RateLimitReloader throttles API traffic per client IP, rereading the
// limit from the ratelimit_config table on an interval. Operators tune the
// rate with `tracker-configure ratelimit set`; the running server picks the
// change up on the next reload tick without a restart.
type RateLimitReloader struct {
	store    limiter.Store
	repo     *database.RatelimitConfigRepository
	fallback string
	log      *zap.Logger
	interval time.Duration
	next     http.Handler
	mu       sync.RWMutex
	limited  http.Handler
}

// NewRateLimitReloader builds the reloader on a Redis-backed limiter store.
// fallback is the rate used when the table is empty or unreadable; empty
// means the package default. Returns nil if the Redis store cannot be
// created.
func NewRateLimitReloader(redisClient *redis.Client, repo *database.RatelimitConfigRepository, fallback string, log *zap.Logger, reloadInterval time.Duration) *RateLimitReloader {
	if fallback == "" {
		fallback = defaultRatelimitRate
	}
	store, err := redisstore.NewStore(redisClient)
	if err != nil {
		log.Error("failed_to_create_redis_store_for_rate_limiter", zap.Error(err))
		return nil
	}
	return &RateLimitReloader{
		store:    store,
		repo:     repo,
		fallback: fallback,
		log:      log,
		interval: reloadInterval,
	}
}

// Middleware wraps next with the rate limiter and performs the initial load.
func (rl *RateLimitReloader) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		rl.next = next
		rl.reload(context.Background())
		return rl
	}
}

// Start runs the reload loop until ctx is cancelled. Call after
// Middleware() has been applied; reloads before that are no-ops.
func (rl *RateLimitReloader) Start(ctx context.Context) {
	if rl.interval <= 0 {
		return
	}
	ticker := time.NewTicker(rl.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.reload(ctx)
		}
	}
}

func (rl *RateLimitReloader) reload(ctx context.Context) {
	if rl.next == nil {
		return
	}

	rate, err := limiter.NewRateFromFormatted(rl.resolveRate(ctx))
	if err != nil {
		rl.log.Error("stored_rate_limit_unparseable_using_fallback",
			zap.Error(err),
			zap.String("fallback", rl.fallback),
		)
		rate, err = limiter.NewRateFromFormatted(rl.fallback)
		if err != nil {
			rl.log.Error("fallback_rate_limit_unparseable",
				zap.Error(err),
				zap.String("fallback", rl.fallback),
			)
			return
		}
	}

	// The store survives reloads; only the limiter instance is rebuilt
	// around the new rate.
	instance := limiter.New(rl.store, rate)
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(func(req *http.Request) string {
		return request.ClientIP(req)
	}))
	limited := mw.Handler(rl.next)

	rl.mu.Lock()
	rl.limited = limited
	rl.mu.Unlock()
}

// resolveRate reads the configured rate string, seeding the table with the
// fallback when no row exists yet.
func (rl *RateLimitReloader) resolveRate(ctx context.Context) string {
	cfg, err := rl.repo.Get(ctx)
	if err != nil {
		rl.log.Warn("failed_to_read_ratelimit_config_using_fallback",
			zap.Error(err),
			zap.String("fallback", rl.fallback),
		)
		return rl.fallback
	}
	if cfg != nil && cfg.Rate != "" {
		return cfg.Rate
	}
	if err := rl.repo.Set(ctx, &models.RatelimitConfig{Rate: rl.fallback}); err != nil {
		rl.log.Error("failed_to_seed_ratelimit_config",
			zap.Error(err),
			zap.String("fallback", rl.fallback),
		)
	}
	return rl.fallback
}

// ServeHTTP implements http.Handler. Before the first successful reload the
// request passes through unthrottled rather than being rejected.
func (rl *RateLimitReloader) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rl.mu.RLock()
	h := rl.limited
	rl.mu.RUnlock()
	if h != nil {
		h.ServeHTTP(w, req)
		return
	}
	if rl.next != nil {
		rl.next.ServeHTTP(w, req)
	}
}
