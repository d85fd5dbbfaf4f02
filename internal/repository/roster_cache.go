package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RosterCache 教师端花名册快照缓存，数据库不可用时作为离线兜底
type RosterCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

const (
	RosterSnapshotKey   = "roster:latest"
	OverviewSnapshotKey = "roster:overview"
)

type RedisRosterCache struct {
	client *redis.Client
}

func NewRedisRosterCache(rdb *redis.Client) *RedisRosterCache {
	return &RedisRosterCache{client: rdb}
}

func (c *RedisRosterCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *RedisRosterCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}
