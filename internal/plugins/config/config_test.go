package config_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/eginner01/rFBA-sub002/internal/cache"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/plugins/config"
	"github.com/eginner01/rFBA-sub002/internal/plugins/plugintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "/api/v1/sys/configs"

func newEnv(t *testing.T) *plugintest.Env {
	return plugintest.New(t, []port.Plugin{config.New()})
}

func create(t *testing.T, env *plugintest.Env, key, value string) config.Config {
	t.Helper()
	res := env.Admin(http.MethodPost, base, map[string]any{"name": "名称 " + key, "key": key, "value": value, "type": "EMAIL"})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	var c config.Config
	res.Into(t, &c)
	return c
}

func TestConfig_NotFound(t *testing.T) {
	env := newEnv(t)
	res := env.Admin(http.MethodGet, base+"/999999", nil)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, 404, res.Code)
	assert.Equal(t, "配置不存在", res.Msg)

	res = env.Admin(http.MethodGet, base+"/key/site.missing", nil)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "配置键 site.missing 不存在", res.Msg)
}

func TestConfig_DuplicateKey(t *testing.T) {
	env := newEnv(t)
	create(t, env, "site.name", "FBA")

	res := env.Admin(http.MethodPost, base, map[string]any{"name": "again", "key": "site.name", "value": "x"})
	assert.Equal(t, http.StatusConflict, res.Status)
	assert.Equal(t, 409, res.Code)
	assert.Equal(t, "配置键 site.name 已存在", res.Msg)
}

func TestConfig_Validation(t *testing.T) {
	env := newEnv(t)
	res := env.Admin(http.MethodPost, base, map[string]any{"name": "n", "key": "bad-key", "value": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Equal(t, "配置键只能包含字母、数字、点和下划线", res.Msg)
}

func TestConfig_KeyLookupUsesCache(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	c := create(t, env, "site.title", "旧值")

	res := env.Admin(http.MethodGet, base+"/key/site.title", nil)
	require.Equal(t, http.StatusOK, res.Status)
	cached, err := cache.GetJSON[config.Config](ctx, env.Cache, config.CachePrefix+"site.title")
	require.NoError(t, err)
	assert.Equal(t, "旧值", cached.Value)

	// 直接改库，缓存仍返回旧值
	require.NoError(t, env.DB.Model(&config.Config{}).Where("id = ?", c.ID).Update("value", "库内值").Error)
	var got config.Config
	env.Admin(http.MethodGet, base+"/key/site.title", nil).Into(t, &got)
	assert.Equal(t, "旧值", got.Value)

	// 通过接口更新会清除缓存
	res = env.Admin(http.MethodPut, fmt.Sprintf("%s/%d", base, c.ID), map[string]any{"name": "标题", "value": "新值", "is_frontend": true})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	_, err = env.Cache.Get(ctx, config.CachePrefix+"site.title")
	assert.ErrorIs(t, err, cache.ErrMiss)

	env.Admin(http.MethodGet, base+"/key/site.title", nil).Into(t, &got)
	assert.Equal(t, "新值", got.Value)
	assert.True(t, got.IsFrontend)
	assert.Nil(t, got.Type)
	require.NotNil(t, got.UpdatedTime)
}

func TestConfig_DeleteEvictsAndRefresh(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := create(t, env, "a.key", "1")
	create(t, env, "b.key", "2")

	env.Admin(http.MethodGet, base+"/key/a.key", nil)
	res := env.Admin(http.MethodDelete, base, map[string]any{"ids": []int64{a.ID}})
	require.Equal(t, http.StatusOK, res.Status)
	_, err := env.Cache.Get(ctx, config.CachePrefix+"a.key")
	assert.ErrorIs(t, err, cache.ErrMiss)

	require.NoError(t, env.Cache.Set(ctx, config.CachePrefix+"stale", "{}", 0))
	res = env.Admin(http.MethodPost, base+"/refresh", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "缓存刷新成功", res.Msg)
	_, err = env.Cache.Get(ctx, config.CachePrefix+"stale")
	assert.ErrorIs(t, err, cache.ErrMiss)
	_, err = env.Cache.Get(ctx, config.CachePrefix+"b.key")
	assert.NoError(t, err)
}

func TestConfig_ListAndFilter(t *testing.T) {
	env := newEnv(t)
	create(t, env, "mail.host", "smtp")
	create(t, env, "mail.port", "25")
	res := env.Admin(http.MethodPost, base, map[string]any{"name": "站点", "key": "site.logo", "value": "logo.png", "is_frontend": true})
	require.Equal(t, http.StatusOK, res.Status)

	var rows []config.Config
	env.Admin(http.MethodGet, base+"/all?type=EMAIL", nil).Into(t, &rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "mail.host", rows[0].Key, "按 ID 升序")

	var p response.Page[config.Config]
	env.Admin(http.MethodGet, base+"?key=mail", nil).Into(t, &p)
	assert.EqualValues(t, 2, p.Total)
	env.Admin(http.MethodGet, base+"?is_frontend=true", nil).Into(t, &p)
	require.EqualValues(t, 1, p.Total)
	assert.Equal(t, "site.logo", p.Items[0].Key)
}

func TestConfig_RequiresCache(t *testing.T) {
	assert.Equal(t, []port.Dependency{port.DepCache}, config.New().Requires())
}
