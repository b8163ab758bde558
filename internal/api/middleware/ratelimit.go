package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kindapp/marketplace/internal/pkg/metrics"
)

// RateLimitStore is the sliding-window backend, implemented over Redis.
type RateLimitStore interface {
	// Window trims expired attempts and returns the count and oldest attempt left.
	Window(ctx context.Context, identifier string, window time.Duration, now time.Time) (int, time.Time, error)
	Record(ctx context.Context, identifier string, at time.Time, window time.Duration) error
}

// RateLimitRule limits one route per client IP.
type RateLimitRule struct {
	Name   string
	Limit  int
	Window time.Duration
}

type RateLimiter struct {
	store RateLimitStore
	log   zerolog.Logger
	now   func() time.Time
}

func NewRateLimiter(store RateLimitStore, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{store: store, log: log, now: time.Now}
}

// WithClock replaces the clock, for tests.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	if now != nil {
		rl.now = now
	}
	return rl
}

// Limit enforces rule. Store failures let the request through.
func (rl *RateLimiter) Limit(rule RateLimitRule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if rl == nil || rl.store == nil || rule.Limit <= 0 || rule.Window <= 0 {
			return next
		}

		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			now := rl.now()
			key := rule.Name + ":" + ip

			count, oldest, err := rl.store.Window(ctx, key, rule.Window, now)
			if err != nil {
				rl.log.Warn().Err(err).Str("rule", rule.Name).Str("ip", ip).Msg("rate limit check failed")
				return next(c)
			}

			reset := now.Add(rule.Window)
			if !oldest.IsZero() {
				reset = oldest.Add(rule.Window)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if count >= rule.Limit {
				retry := int(math.Ceil(reset.Sub(now).Seconds()))
				if retry < 0 {
					retry = 0
				}
				h.Set("X-RateLimit-Remaining", "0")
				h.Set("Retry-After", strconv.Itoa(retry))
				metrics.RateLimitedTotal.WithLabelValues(rule.Name).Inc()
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
			}

			if err := rl.store.Record(ctx, key, now, rule.Window); err != nil {
				rl.log.Warn().Err(err).Str("rule", rule.Name).Str("ip", ip).Msg("rate limit record failed")
				return next(c)
			}
			h.Set("X-RateLimit-Remaining", strconv.Itoa(rule.Limit-count-1))

			return next(c)
		}
	}
}
