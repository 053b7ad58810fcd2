package logins

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository implements Repository using Redis as the backing store.
// Logins are stored as JSON under key: "login:<state>" with TTL = expiresAt - now
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository creates a Redis-based login-state repository. Prefix may be empty.
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "login:"
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(state string) string {
	return r.prefix + state
}

func (r *RedisRepository) Create(ctx context.Context, l *Login) error {
	b, err := json.Marshal(l)
	if err != nil {
		return err
	}
	exp := time.Until(l.ExpiresAt)
	if exp <= 0 {
		// ensure a minimal TTL so Redis won't store expired logins
		exp = time.Second
	}
	return r.client.Set(ctx, r.key(l.State), b, exp).Err()
}

func (r *RedisRepository) Consume(ctx context.Context, state string) (*Login, error) {
	// GETDEL makes the read-and-invalidate atomic under concurrent callbacks
	b, err := r.client.GetDel(ctx, r.key(state)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var l Login
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, err
	}
	if time.Now().UTC().After(l.ExpiresAt) {
		return nil, nil
	}
	return &l, nil
}
