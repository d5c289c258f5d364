// Package cache 提供进程共享的键值缓存。启用 redis 时使用 redis，否则退回进程内缓存。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
)

// ErrMiss 键不存在或已过期
var ErrMiss = errors.New("cache: miss")

// Cache 是插件可见的缓存句柄
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix 删除所有以 prefix 开头的键
	DeletePrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
	Close() error
}

// Open 按配置创建缓存并检查连通性
func Open(ctx context.Context, cfg fbaconf.RedisConfig) (Cache, error) {
	if !cfg.Enabled {
		return NewMemory(), nil
	}
	c := NewRedis(cfg)
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// GetJSON 读取并反序列化 JSON 值
func GetJSON[T any](ctx context.Context, c Cache, key string) (*T, error) {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SetJSON 序列化为 JSON 后写入
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, string(data), ttl)
}
