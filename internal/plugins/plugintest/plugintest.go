// Package plugintest 为插件测试组装一个完整的宿主: 已迁移的 sqlite、进程内缓存、真实的认证与审计日志。
package plugintest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/auditlog"
	"github.com/eginner01/rFBA-sub002/internal/auth"
	"github.com/eginner01/rFBA-sub002/internal/cache"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"github.com/eginner01/rFBA-sub002/internal/store/storetest"
	"github.com/eginner01/rFBA-sub002/internal/transport/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// AdminPassword 是种子超级管理员的密码
const AdminPassword = "123456"

// Env 是一个可直接发请求的测试宿主
type Env struct {
	t      testing.TB
	DB     *gorm.DB
	Config *fbaconf.Config
	Cache  cache.Cache
	Guard  *auth.Guard
	Audit  *auditlog.Recorder
	Host   *router.Host

	// AdminID 与 AdminToken 属于种子超级管理员 admin
	AdminID    int64
	AdminToken string
}

// Option 在宿主创建前调整配置
type Option func(*fbaconf.Config)

// New 创建测试宿主并挂载 plugins
func New(t testing.TB, plugins []port.Plugin, opts ...Option) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	paths := fbaconf.NewPaths(t.TempDir())
	require.NoError(t, paths.EnsureDirs())
	cfg, err := fbaconf.Default(paths)
	require.NoError(t, err)
	cfg.Token.SecretKey = "plugintest-secret"
	cfg.RateLimit.Enabled = false
	for _, opt := range opts {
		opt(cfg)
	}

	db := storetest.NewDB(t)
	e := &Env{t: t, DB: db, Config: cfg, Cache: cache.NewMemory()}

	tokens, err := auth.NewTokens(cfg.Token.SecretKey, cfg.Token.Expire())
	require.NoError(t, err)
	e.Guard, err = auth.NewGuard(tokens, auth.NewDBResolver(db), 64)
	require.NoError(t, err)

	e.Audit = auditlog.NewRecorder(db, cfg.AccessLog, cfg.OperaLog)
	t.Cleanup(func() { _ = e.Audit.Close(context.Background()) })

	e.Host, err = router.New(router.Dependencies{
		Config:  cfg,
		DB:      db,
		Cache:   e.Cache,
		Guard:   e.Guard,
		Audit:   e.Audit,
		Plugins: plugins,
	})
	require.NoError(t, err)
	t.Cleanup(e.Host.Close)

	e.AdminID = e.SeedUser("admin", AdminPassword, true)
	e.AdminToken = e.TokenFor(e.AdminID)
	return e
}

// SeedUser 直接写入一个启用的用户并返回其 ID
func (e *Env) SeedUser(username, password string, super bool) int64 {
	e.t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(e.t, err)
	now := time.Now()
	row := map[string]any{
		"uuid":           uuid.NewString(),
		"username":       username,
		"nickname":       username,
		"password":       hash,
		"status":         1,
		"is_superuser":   super,
		"is_staff":       true,
		"is_multi_login": false,
		"join_time":      now,
		"created_time":   now,
	}
	require.NoError(e.t, e.DB.Table("sys_user").Create(row).Error)
	var id int64
	require.NoError(e.t, e.DB.Table("sys_user").Where("username = ?", username).Pluck("id", &id).Error)
	return id
}

// Grant 创建一个带权限码的角色并分配给用户
func (e *Env) Grant(userID int64, perms ...string) {
	e.t.Helper()
	name := "role-" + uuid.NewString()[:8]
	require.NoError(e.t, e.DB.Exec(`INSERT INTO sys_role (name, status, created_time) VALUES (?, 1, ?)`, name, time.Now()).Error)
	var roleID int64
	require.NoError(e.t, e.DB.Table("sys_role").Where("name = ?", name).Pluck("id", &roleID).Error)
	require.NoError(e.t, e.DB.Exec(`INSERT INTO sys_user_role (user_id, role_id) VALUES (?, ?)`, userID, roleID).Error)
	for _, p := range perms {
		require.NoError(e.t, e.DB.Exec(`INSERT INTO sys_role_permission (role_id, permission) VALUES (?, ?)`, roleID, p).Error)
	}
	e.Guard.InvalidatePermissions()
}

// TokenFor 为用户签发令牌
func (e *Env) TokenFor(userID int64) string {
	e.t.Helper()
	token, _, err := e.Guard.IssueToken(context.Background(), userID)
	require.NoError(e.t, err)
	return token
}

// Response 是解码后的响应
type Response struct {
	Status int
	Header http.Header
	Code   int             `json:"code"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
	Body   []byte
}

// Into 把 data 解码到 v
func (r *Response) Into(t testing.TB, v any) {
	t.Helper()
	require.NotEmpty(t, r.Data, "响应没有 data: %s", r.Body)
	require.NoError(t, json.Unmarshal(r.Data, v))
}

// Do 以 token 身份发请求，body 非 nil 时按 JSON 编码
func (e *Env) Do(method, path string, body any, token string) *Response {
	e.t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(e.t, err)
			rd = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	w := httptest.NewRecorder()
	e.Host.ServeHTTP(w, req)

	res := &Response{Status: w.Code, Header: w.Header(), Body: w.Body.Bytes()}
	if len(res.Body) > 0 && res.Body[0] == '{' {
		_ = json.Unmarshal(res.Body, res)
	}
	return res
}

// Admin 以种子超级管理员身份发请求
func (e *Env) Admin(method, path string, body any) *Response {
	e.t.Helper()
	return e.Do(method, path, body, e.AdminToken)
}

// FlushAudit 关闭审计写入器，确保已投递的日志落库。之后的请求不再记录日志。
func (e *Env) FlushAudit() {
	e.t.Helper()
	require.NoError(e.t, e.Audit.Close(context.Background()))
}
