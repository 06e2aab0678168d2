// Package tokens keeps the one live access token per user in Redis, so a
// token can be revoked before it expires.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/diarify/internal/common"
	"github.com/redis/go-redis/v9"
)

type Registry interface {
	Save(ctx context.Context, userID int64, token string, ttl time.Duration) error
	Get(ctx context.Context, userID int64) (string, error)
	Delete(ctx context.Context, userID int64) error
}

type RedisRegistry struct {
	client redis.Cmdable
}

func NewRedisRegistry(client redis.Cmdable) *RedisRegistry {
	return &RedisRegistry{client: client}
}

// Connect creates a client and pings it.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func Key(userID int64) string {
	return fmt.Sprintf("user:%d:token", userID)
}

// Save replaces the user's token. A non-positive ttl is rejected since the
// key would never expire.
func (r *RedisRegistry) Save(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	if err := r.client.Set(ctx, Key(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

// Get returns common.ErrorNotFound when no token is registered.
func (r *RedisRegistry) Get(ctx context.Context, userID int64) (string, error) {
	token, err := r.client.Get(ctx, Key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("redis error: %w", err)
	}
	return token, nil
}

func (r *RedisRegistry) Delete(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, Key(userID)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
