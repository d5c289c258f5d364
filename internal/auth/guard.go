// file: internal/auth/guard.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrUserUnavailable 令牌有效，但用户不存在、已删除或已停用
var ErrUserUnavailable = errors.New("user not found or disabled")

// Resolver 从用户存储中加载身份与权限
type Resolver interface {
	// LoadUser 返回可登录用户的身份，不含权限集；不可用时返回 ErrUserUnavailable
	LoadUser(ctx context.Context, userID int64) (*domain.AuthContext, error)
	// LoadPermissions 返回用户所有启用角色的权限码并集
	LoadPermissions(ctx context.Context, userID int64) (map[string]struct{}, error)
}

// Guard 把 bearer 令牌解析为 AuthContext，并缓存每个用户的权限集
type Guard struct {
	tokens   *Tokens
	resolver Resolver
	perms    *lru.Cache[int64, map[string]struct{}]
}

var _ port.Authority = (*Guard)(nil)

// NewGuard 创建 Guard，cacheSize 是缓存的用户权限集数量
func NewGuard(tokens *Tokens, resolver Resolver, cacheSize int) (*Guard, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	perms, err := lru.New[int64, map[string]struct{}](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("创建权限缓存失败: %w", err)
	}
	return &Guard{tokens: tokens, resolver: resolver, perms: perms}, nil
}

// Authenticate 校验令牌并解析出当前用户
func (g *Guard) Authenticate(ctx context.Context, token string) (*domain.AuthContext, error) {
	claims, err := g.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	ac, err := g.resolver.LoadUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if ac.IsSuper {
		return ac, nil
	}
	if p, ok := g.perms.Get(ac.UserID); ok {
		ac.Permissions = p
		return ac, nil
	}
	p, err := g.resolver.LoadPermissions(ctx, ac.UserID)
	if err != nil {
		return nil, fmt.Errorf("加载用户 %d 权限失败: %w", ac.UserID, err)
	}
	g.perms.Add(ac.UserID, p)
	ac.Permissions = p
	return ac, nil
}

// IssueToken 为用户签发访问令牌
func (g *Guard) IssueToken(_ context.Context, userID int64) (string, time.Time, error) {
	return g.tokens.Issue(userID)
}

// InvalidatePermissions 清空权限缓存，角色、权限或用户角色变化后调用
func (g *Guard) InvalidatePermissions() {
	g.perms.Purge()
	slog.Debug("权限缓存已清空")
}
