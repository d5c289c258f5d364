package oauth2

import (
	"fmt"
	"net/http"

	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
)

// Plugin 挂载在 /api/v1/oauth2，至少需要一个已配置的提供商
type Plugin struct {
	http      *http.Client
	overrides map[string]Provider
}

var _ port.Plugin = (*Plugin)(nil)

type Option func(*Plugin)

// WithHTTPClient 指定访问提供商使用的 HTTP 客户端
func WithHTTPClient(c *http.Client) Option {
	return func(p *Plugin) { p.http = c }
}

// WithEndpoint 覆盖内置提供商的授权、令牌与用户接口地址，用于自托管实例
func WithEndpoint(name, authURL, tokenURL, userInfoURL string) Option {
	return func(p *Plugin) {
		name = normalizeName(name)
		pr, ok := builtin[name]
		if !ok {
			return
		}
		pr.Endpoint.AuthURL = authURL
		pr.Endpoint.TokenURL = tokenURL
		pr.UserInfoURL = userInfoURL
		p.overrides[name] = pr
	}
}

func New(opts ...Option) *Plugin {
	p := &Plugin{overrides: map[string]Provider{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (*Plugin) Info() domain.PluginInfo {
	return domain.PluginInfo{
		Name:        "oauth2",
		Version:     "0.1.0",
		Description: "OAuth2 - GitHub、Google、LinuxDo 第三方登录与账号绑定",
		Author:      "fba",
	}
}

func (*Plugin) Mount() port.Mount { return port.Independent("oauth2") }

func (*Plugin) Requires() []port.Dependency { return []port.Dependency{port.DepOAuth2} }

func (p *Plugin) CreateRouter(st port.State) (*port.Router, error) {
	clients := make(map[string]*client)
	for name, cfg := range st.OAuth2.Providers() {
		pr, ok := p.overrides[name]
		if !ok {
			pr, ok = builtin[name]
		}
		if !ok {
			return nil, fmt.Errorf("未知的 OAuth2 提供商 %s", name)
		}
		clients[name] = newClient(pr, cfg)
	}
	svc := NewService(st.DB, clients, st.OAuth2.StateTTL, p.http, st.Auth)
	h := &handler{svc: svc, frontend: st.OAuth2.FrontendRedirect}

	r := port.NewRouter()
	r.GET("/providers", h.providers).Open()
	r.GET("/:provider/authorize", h.authorize).Open()
	r.GET("/:provider/callback", h.callback).Open()
	r.GET("/binds", h.binds)
	r.POST("/bind", h.bind).Log("绑定第三方账号", domain.BusinessOther)
	r.DELETE("/unbind", h.unbind).Log("解绑第三方账号", domain.BusinessOther)
	return r, nil
}
