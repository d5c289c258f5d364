package oauth2

import (
	"fmt"
	"strings"

	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	xoauth "golang.org/x/oauth2"
)

// Provider 描述一个 OAuth2 提供商
type Provider struct {
	Name        string
	Endpoint    xoauth.Endpoint
	Scopes      []string
	UserInfoURL string
	// parse 把用户接口的 JSON 映射为 UserInfo
	parse func(raw map[string]any) UserInfo
}

var builtin = map[string]Provider{
	"github": {
		Name: "github",
		Endpoint: xoauth.Endpoint{
			AuthURL:  "https://github.com/login/oauth/authorize",
			TokenURL: "https://github.com/login/oauth/access_token",
		},
		Scopes:      []string{"user:email"},
		UserInfoURL: "https://api.github.com/user",
		parse: func(raw map[string]any) UserInfo {
			return UserInfo{ProviderUserID: str(raw["id"]), Username: str(raw["login"]), Email: optStr(raw["email"]), AvatarURL: optStr(raw["avatar_url"])}
		},
	},
	"google": {
		Name: "google",
		Endpoint: xoauth.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
		Scopes:      []string{"openid", "email", "profile"},
		UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		parse: func(raw map[string]any) UserInfo {
			return UserInfo{ProviderUserID: str(raw["id"]), Username: str(raw["name"]), Email: optStr(raw["email"]), AvatarURL: optStr(raw["picture"])}
		},
	},
	"linux_do": {
		Name: "linux_do",
		Endpoint: xoauth.Endpoint{
			AuthURL:  "https://connect.linux.do/oauth2/authorize",
			TokenURL: "https://connect.linux.do/oauth2/token",
		},
		Scopes:      []string{"read"},
		UserInfoURL: "https://connect.linux.do/api/user",
		parse: func(raw map[string]any) UserInfo {
			return UserInfo{ProviderUserID: str(raw["id"]), Username: str(raw["username"]), Email: optStr(raw["email"]), AvatarURL: optStr(raw["avatar_url"])}
		},
	},
}

// normalizeName 接受 linux-do 与 linux_do 两种写法
func normalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "-", "_")
}

// client 是某个已配置提供商的运行时形态
type client struct {
	Provider
	conf *xoauth.Config
}

func newClient(p Provider, cfg fbaconf.OAuthProviderConfig) *client {
	return &client{
		Provider: p,
		conf: &xoauth.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     p.Endpoint,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       p.Scopes,
		},
	}
}

func str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		// json.Number 与其他标量
		return fmt.Sprint(x)
	}
}

func optStr(v any) *string {
	s := str(v)
	if s == "" {
		return nil
	}
	return &s
}
