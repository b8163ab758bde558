package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// SeenStore persists notification badge watermarks in Redis so that every
// device of the same user shares one "last seen" value.
type SeenStore struct {
	client *redis.Client
	prefix string
}

func NewSeenStore(client *redis.Client, userID string) *SeenStore {
	return &SeenStore{client: client, prefix: "seen:" + userID}
}

// Get returns the stored value and whether it exists.
func (s *SeenStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("seen get: %w", err)
	}
	return v, true, nil
}

func (s *SeenStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("seen set: %w", err)
	}
	return nil
}

// Close releases the underlying client. The store owns it once constructed.
func (s *SeenStore) Close() error {
	return s.client.Close()
}

func (s *SeenStore) key(k string) string {
	return s.prefix + ":" + k
}
