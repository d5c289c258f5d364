// file: internal/cache/cache_test.go
package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exercise 对任意实现运行同一组断言
func exercise(t *testing.T, c Cache) {
	ctx := context.Background()

	_, err := c.Get(ctx, "fba:test:missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "fba:test:a", "1", time.Minute))
	require.NoError(t, c.Set(ctx, "fba:test:b", "2", 0))
	require.NoError(t, c.Set(ctx, "fba:other", "3", 0))

	v, err := c.Get(ctx, "fba:test:a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	require.NoError(t, c.DeletePrefix(ctx, "fba:test:"))
	_, err = c.Get(ctx, "fba:test:b")
	assert.ErrorIs(t, err, ErrMiss)
	v, err = c.Get(ctx, "fba:other")
	require.NoError(t, err)
	assert.Equal(t, "3", v)

	require.NoError(t, c.Delete(ctx, "fba:other"))
	_, err = c.Get(ctx, "fba:other")
	assert.ErrorIs(t, err, ErrMiss)

	type payload struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	require.NoError(t, SetJSON(ctx, c, "fba:test:json", payload{Key: "k", Value: "v"}, time.Minute))
	got, err := GetJSON[payload](ctx, c, "fba:test:json")
	require.NoError(t, err)
	assert.Equal(t, "v", got.Value)
	require.NoError(t, c.Delete(ctx, "fba:test:json"))
}

func TestMemory(t *testing.T) {
	c := NewMemory()
	defer c.Close()
	exercise(t, c)
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestOpen_DisabledRedisFallsBackToMemory(t *testing.T) {
	c, err := Open(context.Background(), fbaconf.RedisConfig{Enabled: false})
	require.NoError(t, err)
	_, ok := c.(*Memory)
	assert.True(t, ok)
}

// TestRedis 需要真实的 redis，通过 REDIS_ADDR 指定
func TestRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR 未设置，跳过 redis 集成测试")
	}
	c, err := Open(context.Background(), fbaconf.RedisConfig{Enabled: true, Addr: addr, Timeout: time.Second})
	require.NoError(t, err)
	defer c.Close()
	exercise(t, c)
}
