// file: internal/transport/http/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/eginner01/rFBA-sub002/internal/auth"
	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// Authenticator 把 bearer 令牌解析为当前用户
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.AuthContext, error)
}

// Authenticate 检查 Authorization 请求头中的 Bearer Token。
// 令牌有效且用户可用时把 AuthContext 放入请求 context，否则请求按匿名继续，由 RequireAuth 决定是否拒绝。
func Authenticate(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.Next()
			return
		}
		ac, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			level := slog.LevelDebug
			if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrUserUnavailable) {
				level = slog.LevelError
			}
			slog.Log(c.Request.Context(), level, "认证失败，按匿名请求处理",
				"path", c.Request.URL.Path, "ip", ClientIP(c.Request), "error", err)
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(domain.WithAuth(c.Request.Context(), ac))
		c.Next()
	}
}

// RequireAuth 拒绝匿名请求
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if domain.AuthFrom(c.Request.Context()) == nil {
			abortWith(c, apperr.PermissionDenied())
			return
		}
		c.Next()
	}
}

// RequirePerm 要求当前用户拥有权限码，超级管理员直接放行
func RequirePerm(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac := domain.AuthFrom(c.Request.Context())
		if !ac.Has(code) {
			slog.InfoContext(c.Request.Context(), "权限不足", "permission", code, "path", c.Request.URL.Path)
			abortWith(c, apperr.PermissionDenied())
			return
		}
		c.Next()
	}
}
