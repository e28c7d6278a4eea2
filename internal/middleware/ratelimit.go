// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/templates/tiered-events/internal/tier"
)

// limiterBackend prefers the shared Redis GCRA limiter and degrades to an
// in-process token bucket per key when Redis is unavailable.
type limiterBackend struct {
	redis    *redis_rate.Limiter
	fallback *localLimiter
}

func newLimiterBackend(rdb *redis.Client) *limiterBackend {
	return &limiterBackend{
		redis:    redis_rate.NewLimiter(rdb),
		fallback: newLocalLimiter(),
	}
}

func (b *limiterBackend) allow(
	ctx context.Context,
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, error) {
	res, err := b.redis.Allow(ctx, key, limit)
	if err != nil {
		slog.Debug("redis rate limiter unavailable, using local limiter",
			"key", key,
			"error", err,
		)
		return b.fallback.allow(key, limit)
	}
	return res, nil
}

type RateLimitConfig struct {
	Limit    redis_rate.Limit
	KeyFunc  func(*http.Request) string
	FailOpen bool
}

type RateLimiter struct {
	backend *limiterBackend
	config  RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	return &RateLimiter{
		backend: newLimiterBackend(rdb),
		config:  cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.config.KeyFunc(r)

		res, err := rl.backend.allow(r.Context(), key, rl.config.Limit)
		if err != nil {
			if rl.config.FailOpen {
				slog.Warn("rate limiter error, failing open",
					"error", err,
					"key", key,
				)
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}

		setRateLimitHeaders(w, res, rl.config.Limit)

		if res.Allowed == 0 {
			writeRateLimitExceeded(w, res)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// TierQuota is the per-minute allowance for one membership tier.
type TierQuota struct {
	RequestsPerMinute int
	Burst             int
}

func DefaultTierQuotas() map[tier.Tier]TierQuota {
	return map[tier.Tier]TierQuota{
		tier.Free:     {RequestsPerMinute: 60, Burst: 10},
		tier.Silver:   {RequestsPerMinute: 120, Burst: 20},
		tier.Gold:     {RequestsPerMinute: 300, Burst: 50},
		tier.Platinum: {RequestsPerMinute: 600, Burst: 100},
	}
}

// TieredRateLimiter limits authenticated requests per user, sized by the
// tier claim on the session. Must run after Authenticator. Unknown or
// missing tiers get the free quota.
func TieredRateLimiter(
	rdb *redis.Client,
	quotas map[tier.Tier]TierQuota,
) func(http.Handler) http.Handler {
	backend := newLimiterBackend(rdb)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userTier := tier.Tier(GetUserTier(r.Context()))
			quota, ok := quotas[userTier]
			if !ok {
				userTier = tier.Free
				quota = quotas[tier.Free]
			}

			limit := PerMinute(quota.RequestsPerMinute, quota.Burst)
			key := "ratelimit:user:" + GetUserID(r.Context())

			res, err := backend.allow(r.Context(), key, limit)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Tier", userTier.String())
			setRateLimitHeaders(w, res, limit)

			if res.Allowed == 0 {
				writeRateLimitExceeded(w, res)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func KeyByIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return "ratelimit:ip:" + strings.TrimSpace(ips[len(ips)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "ratelimit:ip:" + xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	return "ratelimit:ip:" + ip
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: time.Minute,
	}
}

func setRateLimitHeaders(
	w http.ResponseWriter,
	res *redis_rate.Result,
	limit redis_rate.Limit,
) {
	h := w.Header()

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(
		time.Now().Add(res.ResetAfter).Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, res *redis_rate.Result) {
	retryAfter := max(int(res.RetryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error": map[string]any{
			"code": "RATE_LIMITED",
			"message": fmt.Sprintf(
				"Rate limit exceeded. Retry after %d seconds.",
				retryAfter,
			),
		},
	})
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

type localLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
}

const (
	cleanupInterval = 5 * time.Minute
	entryTTL        = 10 * time.Minute
)

func newLocalLimiter() *localLimiter {
	l := &localLimiter{limiters: make(map[string]*limiterEntry)}
	go l.cleanup()
	return l
}

func (l *localLimiter) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-entryTTL)

		l.mu.Lock()
		for key, entry := range l.limiters {
			if entry.lastAccess.Before(cutoff) {
				delete(l.limiters, key)
			}
		}
		l.mu.Unlock()
	}
}

func (l *localLimiter) allow(
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, error) {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return nil, fmt.Errorf("invalid limit %+v", limit)
	}

	perSec := float64(limit.Rate) / limit.Period.Seconds()
	interval := time.Duration(float64(time.Second) / perSec)

	l.mu.Lock()
	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(perSec), limit.Burst),
		}
		l.limiters[key] = entry
	}
	entry.lastAccess = time.Now()
	l.mu.Unlock()

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  max(int(entry.limiter.Tokens()), 0),
		RetryAfter: -1,
		ResetAfter: interval,
	}

	if entry.limiter.Allow() {
		res.Allowed = 1
		res.Remaining = max(int(entry.limiter.Tokens()), 0)
	} else {
		res.RetryAfter = interval
	}

	return res, nil
}
