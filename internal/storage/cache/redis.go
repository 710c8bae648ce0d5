package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/tuanvumaihuynh/catalog-admin/internal/config"
)

var _ Cache = (*RedisCache)(nil)

// NewRedisClient connects to Redis and pings it.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	cl := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := cl.Ping(pingCtx).Err(); err != nil {
		//nolint:errcheck
		cl.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return cl, nil
}

type RedisCache struct {
	cl  *redis.Client
	ttl time.Duration
}

func NewRedisCache(cl *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{cl: cl, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string, dst any) error {
	b, err := c.cl.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("redis get: %w", err)
	}

	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("unmarshal cached value: %w", err)
	}

	return nil
}

func (c *RedisCache) Set(ctx context.Context, tag, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}

	tagKey := tagKey(tag)
	pipe := c.cl.TxPipeline()
	pipe.Set(ctx, key, b, c.ttl)
	pipe.SAdd(ctx, tagKey, key)
	pipe.Expire(ctx, tagKey, c.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, tag string) error {
	tagKey := tagKey(tag)

	keys, err := c.cl.SMembers(ctx, tagKey).Result()
	if err != nil {
		return fmt.Errorf("redis smembers: %w", err)
	}

	pipe := c.cl.TxPipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, tagKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis invalidate: %w", err)
	}

	return nil
}

func tagKey(tag string) string {
	return "tag:" + tag
}
