// Package port file: internal/core/port/plugin.go
// 插件契约: 插件描述自己、声明挂载方式与依赖，并基于宿主提供的 State 构建路由表。
package port

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/cache"
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"gorm.io/gorm"
)

// Plugin 是所有功能插件都必须实现的接口
type Plugin interface {
	Info() domain.PluginInfo
	Mount() Mount
	// Requires 声明除数据库外的依赖，数据库总是可用
	Requires() []Dependency
	CreateRouter(State) (*Router, error)
}

// Dependency 是插件可以声明的共享设施
type Dependency string

const (
	DepCache  Dependency = "cache"
	DepSMTP   Dependency = "smtp"
	DepOAuth2 Dependency = "oauth2"
)

// Mount 描述插件路由挂载到哪里
type Mount struct {
	Kind domain.MountKind
	// Leaves 是 Extension 在 /sys 下占用的路径段
	Leaves []string
	// Segment 是 Independent 在 API 前缀下占用的路径段
	Segment string
}

// Extension 挂载到 /api/v1/sys/<leaf>。
// 只有一个 leaf 时插件路由直接相对于该 leaf；多个 leaf 时路由相对于 /sys，且必须以某个 leaf 开头。
func Extension(leaves ...string) Mount {
	return Mount{Kind: domain.MountExtension, Leaves: leaves}
}

// Independent 挂载到 /api/v1/<segment>
func Independent(segment string) Mount {
	return Mount{Kind: domain.MountIndependent, Segment: segment}
}

// Validate 检查挂载声明本身是否合法
func (m Mount) Validate() error {
	switch m.Kind {
	case domain.MountExtension:
		if len(m.Leaves) == 0 {
			return fmt.Errorf("extension 挂载至少需要一个路径段")
		}
		for _, l := range m.Leaves {
			if l == "" || strings.Contains(l, "/") {
				return fmt.Errorf("非法的 extension 路径段 %q", l)
			}
		}
	case domain.MountIndependent:
		if m.Segment == "" || strings.Contains(m.Segment, "/") {
			return fmt.Errorf("非法的 independent 路径段 %q", m.Segment)
		}
	default:
		return fmt.Errorf("未知的挂载方式 %q", m.Kind)
	}
	return nil
}

// Authority 是宿主向插件开放的认证能力
type Authority interface {
	// IssueToken 为用户签发访问令牌
	IssueToken(ctx context.Context, userID int64) (token string, expiresAt time.Time, err error)
	// InvalidatePermissions 在角色或权限变化后清空权限缓存
	InvalidatePermissions()
}

// LoginRecorder 持久化登录日志
type LoginRecorder interface {
	RecordLogin(ctx context.Context, e domain.LoginEvent)
}

// State 是宿主交给插件的全部共享设施，插件不得读取包级全局状态
type State struct {
	DB    *gorm.DB
	Cache cache.Cache
	// SMTP 仅在凭据齐全时非 nil
	SMTP *fbaconf.SMTPConfig
	// OAuth2 仅在至少配置了一个提供商时非 nil
	OAuth2 *fbaconf.OAuth2Config
	Paths  fbaconf.Paths
	Config *fbaconf.Config
	Auth   Authority
	Logins LoginRecorder
}

// Missing 返回 State 中缺失的依赖
func (s State) Missing(deps []Dependency) []Dependency {
	var out []Dependency
	for _, d := range deps {
		switch d {
		case DepCache:
			if s.Cache == nil {
				out = append(out, d)
			}
		case DepSMTP:
			if s.SMTP == nil {
				out = append(out, d)
			}
		case DepOAuth2:
			if s.OAuth2 == nil {
				out = append(out, d)
			}
		default:
			out = append(out, d)
		}
	}
	return out
}
