package oauth2_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/eginner01/rFBA-sub002/internal/core/port"
	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"github.com/eginner01/rFBA-sub002/internal/plugins/oauth2"
	"github.com/eginner01/rFBA-sub002/internal/plugins/plugintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "/api/v1/oauth2"

// fakeGitHub 模拟令牌与用户接口: 授权码 good-<id> 换得令牌 tok-<id>
func fakeGitHub(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		code := r.PostForm.Get("code")
		w.Header().Set("Content-Type", "application/json")
		if code == "down" {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("maintenance window\n"))
			return
		}
		id, ok := strings.CutPrefix(code, "good-")
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad_verification_code","error_description":"The code passed is incorrect or expired."}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "tok-" + id,
			"token_type":    "bearer",
			"refresh_token": "refresh-" + id,
			"expires_in":    3600,
		})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		id, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer tok-")
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": ` + id + `, "login": "octo", "email": null, "avatar_url": "https://avatars.example.com/octo"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newEnv(t *testing.T) *plugintest.Env {
	srv := fakeGitHub(t)
	p := oauth2.New(
		oauth2.WithHTTPClient(srv.Client()),
		oauth2.WithEndpoint("github", srv.URL+"/authorize", srv.URL+"/token", srv.URL+"/user"),
	)
	return plugintest.New(t, []port.Plugin{p}, func(c *fbaconf.Config) {
		c.OAuth2.GitHub.ClientID = "client"
		c.OAuth2.GitHub.ClientSecret = "secret"
	})
}

// authorize 走一次授权跳转并返回签发的 state
func authorize(t *testing.T, env *plugintest.Env) string {
	t.Helper()
	res := env.Do(http.MethodGet, base+"/github/authorize", nil, "")
	require.Equal(t, http.StatusFound, res.Status, string(res.Body))
	loc, err := url.Parse(res.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/authorize", loc.Path)
	assert.Equal(t, "client", loc.Query().Get("client_id"))
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func callback(env *plugintest.Env, code, state string) *plugintest.Response {
	q := url.Values{"code": {code}, "state": {state}}
	return env.Do(http.MethodGet, base+"/github/callback?"+q.Encode(), nil, "")
}

func TestProviders(t *testing.T) {
	env := newEnv(t)
	res := env.Do(http.MethodGet, base+"/providers", nil, "")
	require.Equal(t, http.StatusOK, res.Status)
	var names []string
	res.Into(t, &names)
	assert.Equal(t, []string{"github"}, names)

	res = env.Do(http.MethodGet, base+"/gitlab/authorize", nil, "")
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestCallback_UnboundAccount(t *testing.T) {
	env := newEnv(t)
	state := authorize(t, env)

	res := callback(env, "good-42", state)
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	var out oauth2.CallbackResult
	res.Into(t, &out)
	assert.False(t, out.Bound)
	assert.Empty(t, out.AccessToken)
	assert.Equal(t, "github", out.UserInfo.Provider)
	assert.Equal(t, "42", out.UserInfo.ProviderUserID)
	assert.Equal(t, "octo", out.UserInfo.Username)
	assert.Nil(t, out.UserInfo.Email)

	// state 只能使用一次
	res = callback(env, "good-42", state)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "state 无效或已过期", res.Msg)

	res = callback(env, "good-42", "forged")
	assert.Equal(t, http.StatusBadRequest, res.Status)
}

func TestCallback_UpstreamFailure(t *testing.T) {
	env := newEnv(t)
	res := callback(env, "bad", authorize(t, env))
	assert.Equal(t, http.StatusBadGateway, res.Status)
	assert.Equal(t, 502, res.Code)
	assert.Equal(t, "上游接口返回 400: 授权码交换令牌失败: The code passed is incorrect or expired.", res.Msg)

	res = callback(env, "down", authorize(t, env))
	assert.Equal(t, http.StatusBadGateway, res.Status)
	assert.Equal(t, "上游接口返回 503: 授权码交换令牌失败: maintenance window", res.Msg)
}

func TestBindLoginAndUnbind(t *testing.T) {
	env := newEnv(t)

	res := env.Admin(http.MethodPost, base+"/bind", map[string]any{"provider": "github", "code": "good-7"})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	var b oauth2.Bind
	res.Into(t, &b)
	assert.Equal(t, env.AdminID, b.UserID)
	assert.Equal(t, "7", b.ProviderUserID)
	assert.NotContains(t, string(res.Body), "tok-7")

	res = env.Admin(http.MethodPost, base+"/bind", map[string]any{"provider": "github", "code": "good-8"})
	assert.Equal(t, http.StatusConflict, res.Status)
	assert.Equal(t, "当前用户已绑定 github 账号", res.Msg)

	other := env.SeedUser("bob", "secret1", false)
	res = env.Do(http.MethodPost, base+"/bind", map[string]any{"provider": "github", "code": "good-7"}, env.TokenFor(other))
	assert.Equal(t, http.StatusConflict, res.Status)
	assert.Equal(t, "该 github 账号已绑定其他用户", res.Msg)

	// 已绑定账号的回调直接登录
	res = callback(env, "good-7", authorize(t, env))
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	var out oauth2.CallbackResult
	res.Into(t, &out)
	require.True(t, out.Bound)
	require.NotEmpty(t, out.AccessToken)

	res = env.Do(http.MethodGet, base+"/binds", nil, out.AccessToken)
	require.Equal(t, http.StatusOK, res.Status)
	var binds []oauth2.Bind
	res.Into(t, &binds)
	require.Len(t, binds, 1)
	assert.Equal(t, "github", binds[0].Provider)

	res = env.Admin(http.MethodDelete, base+"/unbind", map[string]any{"provider": "github"})
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "解绑成功", res.Msg)
	res = env.Admin(http.MethodDelete, base+"/unbind", map[string]any{"provider": "github"})
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestBindRequiresLogin(t *testing.T) {
	env := newEnv(t)
	res := env.Do(http.MethodPost, base+"/bind", map[string]any{"provider": "github", "code": "good-1"}, "")
	assert.Equal(t, http.StatusForbidden, res.Status)
}
