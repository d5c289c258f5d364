package logs_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/auditlog"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/plugins/logs"
	"github.com/eginner01/rFBA-sub002/internal/plugins/plugintest"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T) *plugintest.Env {
	return plugintest.New(t, []port.Plugin{logs.New()})
}

func seedLogins(t *testing.T, env *plugintest.Env, n int) []int64 {
	t.Helper()
	repo := store.NewRepo[auditlog.LoginLog](env.DB)
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		row := &auditlog.LoginLog{
			Username:  fmt.Sprintf("user-%d", i%3),
			Status:    i % 2,
			IP:        fmt.Sprintf("10.0.0.%d", i),
			Msg:       "登录",
			LoginTime: time.Now(),
		}
		require.NoError(t, repo.Insert(context.Background(), row))
		ids = append(ids, row.ID)
	}
	return ids
}

func TestLoginLog_PageAndFilter(t *testing.T) {
	env := newEnv(t)
	ids := seedLogins(t, env, 12)

	res := env.Admin(http.MethodGet, "/api/v1/logs/login?page=1&size=5", nil)
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	var p response.Page[auditlog.LoginLog]
	res.Into(t, &p)
	assert.EqualValues(t, 12, p.Total)
	assert.EqualValues(t, 3, p.Pages)
	require.Len(t, p.Items, 5)
	assert.Equal(t, ids[11], p.Items[0].ID, "最新的在前")

	res = env.Admin(http.MethodGet, "/api/v1/logs/login?username=user-1&status=1", nil)
	require.Equal(t, http.StatusOK, res.Status)
	res.Into(t, &p)
	// i = 1, 7
	assert.EqualValues(t, 2, p.Total)

	res = env.Admin(http.MethodGet, "/api/v1/logs/login?status=3", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Equal(t, "登录状态必须是0或1", res.Msg)
}

func TestLoginLog_DeleteAndClear(t *testing.T) {
	env := newEnv(t)
	ids := seedLogins(t, env, 4)

	res := env.Admin(http.MethodDelete, "/api/v1/logs/login", map[string]any{"ids": []int64{ids[0], ids[1], ids[0]}})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	assert.Equal(t, "删除成功", res.Msg)
	var n int64
	require.NoError(t, env.DB.Model(&auditlog.LoginLog{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)

	res = env.Admin(http.MethodDelete, "/api/v1/logs/login/all", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "清空成功", res.Msg)
	require.NoError(t, env.DB.Model(&auditlog.LoginLog{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestAccessLog_RecordedByMiddleware(t *testing.T) {
	env := newEnv(t)
	env.Admin(http.MethodGet, "/api/v1/logs/opera", nil)
	env.Do(http.MethodGet, "/api/v1/logs/opera", nil, "")
	env.FlushAudit()

	var rows []auditlog.AccessLog
	require.NoError(t, env.DB.Where("path = ?", "/api/v1/logs/opera").Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.False(t, rows[0].IsError)
	require.NotNil(t, rows[0].Username)
	assert.Equal(t, "admin", *rows[0].Username)
	assert.True(t, rows[1].IsError)
	assert.Equal(t, http.StatusForbidden, rows[1].Status)

	res := env.Admin(http.MethodGet, "/api/v1/logs/access?is_error=true", nil)
	require.Equal(t, http.StatusOK, res.Status)
	var p response.Page[auditlog.AccessLog]
	res.Into(t, &p)
	assert.EqualValues(t, 1, p.Total)
}

func TestLogs_DeleteRequiresPermission(t *testing.T) {
	env := newEnv(t)
	id := env.SeedUser("viewer", "secret1", false)
	token := env.TokenFor(id)

	res := env.Do(http.MethodGet, "/api/v1/logs/opera", nil, token)
	assert.Equal(t, http.StatusOK, res.Status)
	res = env.Do(http.MethodDelete, "/api/v1/logs/opera/all", nil, token)
	assert.Equal(t, http.StatusForbidden, res.Status)

	env.Grant(id, logs.PermOperaDel)
	res = env.Do(http.MethodDelete, "/api/v1/logs/opera/all", nil, token)
	assert.Equal(t, http.StatusOK, res.Status)
}
