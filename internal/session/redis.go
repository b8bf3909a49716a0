package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/go-redis/redis/v8"
)

// RedisStore shares sessions between server instances.
type RedisStore struct {
	c      *redis.Client
	prefix string
}

func NewRedisStore(c *redis.Client, prefix string) *RedisStore {
	return &RedisStore{c: c, prefix: prefix}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Save(ctx context.Context, id string, ident identity.Identity, ttl time.Duration) error {
	payload, err := json.Marshal(ident)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.c.Set(ctx, s.key(id), payload, ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, id string) (identity.Identity, error) {
	val, err := s.c.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return identity.Identity{}, ErrSessionNotFound
		}
		return identity.Identity{}, err
	}

	var ident identity.Identity
	if err := json.Unmarshal(val, &ident); err != nil {
		return identity.Identity{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return ident, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.c.Del(ctx, s.key(id)).Err()
}

func (s *RedisStore) Count(ctx context.Context) (int, error) {
	count := 0
	var cursor uint64
	for {
		keys, next, err := s.c.Scan(ctx, cursor, s.prefix+"*", 200).Result()
		if err != nil {
			return 0, err
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return count, nil
}

// Ping is used by the readiness check.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.c.Ping(ctx).Err()
}
