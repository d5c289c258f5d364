package authn_test

import (
	"net/http"
	"testing"

	"github.com/eginner01/rFBA-sub002/internal/auditlog"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"github.com/eginner01/rFBA-sub002/internal/plugins/authn"
	"github.com/eginner01/rFBA-sub002/internal/plugins/plugintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	login = "/api/v1/auth/login"
	me    = "/api/v1/auth/me"
)

func newEnv(t *testing.T, opts ...plugintest.Option) *plugintest.Env {
	return plugintest.New(t, []port.Plugin{authn.New()}, opts...)
}

func TestLogin_Success(t *testing.T) {
	env := newEnv(t)

	res := env.Do(http.MethodPost, login, map[string]any{"username": "admin", "password": plugintest.AdminPassword}, "")
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	assert.Equal(t, "登录成功", res.Msg)
	var out authn.LoginResult
	res.Into(t, &out)
	require.NotEmpty(t, out.AccessToken)
	require.NotNil(t, out.User)
	assert.Equal(t, "admin", out.User.Username)
	assert.NotNil(t, out.User.LastLoginTime)

	res = env.Do(http.MethodGet, me, nil, out.AccessToken)
	require.Equal(t, http.StatusOK, res.Status)
	var u struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}
	res.Into(t, &u)
	assert.Equal(t, env.AdminID, u.ID)
}

func TestLogin_Failures(t *testing.T) {
	env := newEnv(t)
	id := env.SeedUser("disabled", "secret1", false)
	require.NoError(t, env.DB.Table("sys_user").Where("id = ?", id).Update("status", 0).Error)

	testCases := []struct {
		name   string
		body   map[string]any
		status int
		msg    string
	}{
		{"wrong password", map[string]any{"username": "admin", "password": "nope"}, http.StatusBadRequest, "用户名或密码有误"},
		{"unknown user", map[string]any{"username": "ghost", "password": "nope"}, http.StatusBadRequest, "用户名或密码有误"},
		{"disabled user", map[string]any{"username": "disabled", "password": "secret1"}, http.StatusBadRequest, "用户已被锁定, 请联系统管理员"},
		{"empty body", map[string]any{}, http.StatusUnprocessableEntity, "用户名不能为空, 密码不能为空"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := env.Do(http.MethodPost, login, tc.body, "")
			assert.Equal(t, tc.status, res.Status, string(res.Body))
			assert.Equal(t, tc.msg, res.Msg)
		})
	}
}

func TestLogin_LockAfterRepeatedFailures(t *testing.T) {
	env := newEnv(t, func(c *fbaconf.Config) { c.RateLimit.LoginMaxFailures = 2 })
	bad := map[string]any{"username": "admin", "password": "nope"}

	res := env.Do(http.MethodPost, login, bad, "")
	assert.Equal(t, http.StatusBadRequest, res.Status)
	res = env.Do(http.MethodPost, login, bad, "")
	assert.Equal(t, http.StatusTooManyRequests, res.Status)
	assert.Equal(t, 429, res.Code)

	// 锁定期间正确的密码也被拒绝
	res = env.Do(http.MethodPost, login, map[string]any{"username": "admin", "password": plugintest.AdminPassword}, "")
	assert.Equal(t, http.StatusTooManyRequests, res.Status)
}

func TestLogin_RecordsLoginLog(t *testing.T) {
	env := newEnv(t)
	env.Do(http.MethodPost, login, map[string]any{"username": "admin", "password": "nope"}, "")
	env.Do(http.MethodPost, login, map[string]any{"username": "admin", "password": plugintest.AdminPassword}, "")
	env.FlushAudit()

	var rows []auditlog.LoginLog
	require.NoError(t, env.DB.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, auditlog.LoginFailed, rows[0].Status)
	assert.Equal(t, "用户名或密码有误", rows[0].Msg)
	assert.Equal(t, auditlog.LoginSuccess, rows[1].Status)
	assert.NotEmpty(t, rows[1].UserUUID)
	assert.Contains(t, rows[1].Browser, "Chrome")
}

func TestMe_RequiresToken(t *testing.T) {
	env := newEnv(t)
	res := env.Do(http.MethodGet, me, nil, "")
	assert.Equal(t, http.StatusForbidden, res.Status)
}
