// Package domain file: internal/core/domain/auth.go
package domain

import (
	"context"
	"time"
)

// AuthContext 是认证中间件解析出的当前用户
type AuthContext struct {
	UserID   int64   `json:"user_id"`
	UUID     string  `json:"uuid"`
	Username string  `json:"username"`
	Nickname string  `json:"nickname"`
	DeptID   *int64  `json:"dept_id"`
	DeptName *string `json:"dept_name"`
	IsSuper  bool    `json:"is_super"`
	// Permissions 是角色权限码的并集，超级管理员为空
	Permissions map[string]struct{} `json:"-"`
}

// Has 判断是否拥有权限码，超级管理员总是拥有
func (a *AuthContext) Has(code string) bool {
	if a == nil {
		return false
	}
	if a.IsSuper {
		return true
	}
	_, ok := a.Permissions[code]
	return ok
}

type authKey struct{}

// WithAuth 把当前用户放入 context
func WithAuth(ctx context.Context, a *AuthContext) context.Context {
	return context.WithValue(ctx, authKey{}, a)
}

// AuthFrom 读取 context 中的当前用户，匿名请求返回 nil
func AuthFrom(ctx context.Context) *AuthContext {
	a, _ := ctx.Value(authKey{}).(*AuthContext)
	return a
}

// LoginEvent 描述一次登录尝试，由认证插件产生、审计日志持久化
type LoginEvent struct {
	UserUUID  string
	Username  string
	Success   bool
	Msg       string
	IP        string
	UserAgent string
	Time      time.Time
}
