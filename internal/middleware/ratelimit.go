package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/serenify-engagement/pkg/clientip"
)

// RateLimitKeyPrefix is the Redis key prefix for per-IP request counters
const RateLimitKeyPrefix = "ratelimit:"

// RedisRateLimiter counts requests per IP in a fixed Redis window. When Redis
// is unreachable requests are let through.
type RedisRateLimiter struct {
	client *redis.Client
	window time.Duration
	max    int
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewRedisRateLimiter(client *redis.Client, window time.Duration, max int, logger logrus.FieldLogger) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		window: window,
		max:    max,
		logger: logger,
		now:    time.Now,
	}
}

func (l *RedisRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientip.RealClientIP(r)

		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		count, ttl, err := l.hit(ctx, RateLimitKeyPrefix+ip)
		cancel()
		if err != nil {
			l.logger.WithError(err).WithField("ip", ip).Warn("rate limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		remaining := max(l.max-int(count), 0)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.max))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(l.now().Add(ttl).Unix(), 10))

		if int(count) > l.max {
			w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			writeTooManyRequests(w, "Rate limit exceeded. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// hit increments the counter and starts the window on the first request.
func (l *RedisRateLimiter) hit(ctx context.Context, key string) (int64, time.Duration, error) {
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}
	if ttl.Val() < 0 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return 0, 0, err
		}
		return incr.Val(), l.window, nil
	}
	return incr.Val(), ttl.Val(), nil
}
