package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRateLimitPrefix = "ratelimit"

var errBadWindow = errors.New("window must be positive")

// RateLimitStore keeps request timestamps per identifier in a sorted set,
// scored by Unix nanoseconds, for sliding-window limiting.
type RateLimitStore struct {
	client *redis.Client
	prefix string
}

// NewRateLimitStore wraps client. An empty prefix falls back to "ratelimit".
func NewRateLimitStore(client *redis.Client, prefix string) *RateLimitStore {
	if prefix == "" {
		prefix = defaultRateLimitPrefix
	}
	return &RateLimitStore{client: client, prefix: prefix}
}

// Record stores an attempt at the given instant. The key expires one window
// after the latest attempt.
func (s *RateLimitStore) Record(ctx context.Context, identifier string, at time.Time, window time.Duration) error {
	key := s.key(identifier)
	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(at.UnixNano()), Member: at.UnixNano()})
	if window > 0 {
		pipe.Expire(ctx, key, window)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rate limit record: %w", err)
	}
	return nil
}

// Window drops attempts older than window and reports how many remain, along
// with the oldest one still inside it.
func (s *RateLimitStore) Window(ctx context.Context, identifier string, window time.Duration, now time.Time) (int, time.Time, error) {
	if window <= 0 {
		return 0, time.Time{}, errBadWindow
	}

	key := s.key(identifier)
	floor := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", "("+floor)
	count := pipe.ZCard(ctx, key)
	oldest := pipe.ZRangeWithScores(ctx, key, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit window: %w", err)
	}

	var first time.Time
	if zs := oldest.Val(); len(zs) > 0 {
		first = time.Unix(0, int64(zs[0].Score))
	}
	return int(count.Val()), first, nil
}

func (s *RateLimitStore) key(identifier string) string {
	return fmt.Sprintf("%s:%s", s.prefix, identifier)
}
