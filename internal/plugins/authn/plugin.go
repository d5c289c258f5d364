package authn

import (
	"github.com/eginner01/rFBA-sub002/internal/auth"
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
	"github.com/eginner01/rFBA-sub002/internal/plugins/rbac"
)

// Plugin 挂载在 /api/v1/auth
type Plugin struct{}

var _ port.Plugin = Plugin{}

func New() Plugin { return Plugin{} }

func (Plugin) Info() domain.PluginInfo {
	return domain.PluginInfo{
		Name:        "auth",
		Version:     "0.1.0",
		Description: "认证 - 用户名密码登录与当前用户信息",
		Author:      "fba",
	}
}

func (Plugin) Mount() port.Mount { return port.Independent("auth") }

func (Plugin) Requires() []port.Dependency { return nil }

func (Plugin) CreateRouter(st port.State) (*port.Router, error) {
	rl := st.Config.RateLimit
	lock := auth.NewLoginFailureLock(rl.LoginMaxFailures, rl.LoginLockout)
	h := &handler{svc: NewService(rbac.NewService(st.DB, st.Auth), st.Auth, st.Logins, lock)}

	r := port.NewRouter()
	r.POST("/login", h.login).Open()
	r.GET("/me", h.me)
	return r, nil
}
