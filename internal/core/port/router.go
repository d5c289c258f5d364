// file: internal/core/port/router.go
package port

import (
	"net/http"
	"strings"

	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// Route 是插件路由表中的一项
type Route struct {
	Method   string
	Path     string
	Handlers []gin.HandlerFunc

	Permission   string
	LogTitle     string
	BusinessType domain.BusinessType
	Public       bool
}

// Perm 要求调用者拥有权限码
func (r *Route) Perm(code string) *Route {
	r.Permission = code
	return r
}

// Log 为路由开启操作日志
func (r *Route) Log(title string, bt domain.BusinessType) *Route {
	r.LogTitle = title
	r.BusinessType = bt
	return r
}

// Open 允许匿名访问
func (r *Route) Open() *Route {
	r.Public = true
	return r
}

// Router 收集插件路由，路径相对于插件的挂载点
type Router struct {
	prefix string
	routes *[]*Route
}

// NewRouter 创建空路由表
func NewRouter() *Router {
	return &Router{routes: new([]*Route)}
}

// Group 返回共享同一路由表、带公共前缀的子路由
func (r *Router) Group(prefix string) *Router {
	return &Router{prefix: JoinPath(r.prefix, prefix), routes: r.routes}
}

// Handle 注册任意方法的路由
func (r *Router) Handle(method, path string, handlers ...gin.HandlerFunc) *Route {
	rt := &Route{Method: method, Path: JoinPath(r.prefix, path), Handlers: handlers}
	*r.routes = append(*r.routes, rt)
	return rt
}

func (r *Router) GET(path string, h ...gin.HandlerFunc) *Route {
	return r.Handle(http.MethodGet, path, h...)
}

func (r *Router) POST(path string, h ...gin.HandlerFunc) *Route {
	return r.Handle(http.MethodPost, path, h...)
}

func (r *Router) PUT(path string, h ...gin.HandlerFunc) *Route {
	return r.Handle(http.MethodPut, path, h...)
}

func (r *Router) DELETE(path string, h ...gin.HandlerFunc) *Route {
	return r.Handle(http.MethodDelete, path, h...)
}

// Routes 按注册顺序返回全部路由
func (r *Router) Routes() []*Route {
	return *r.routes
}

// JoinPath 拼接路径段，结果以 "/" 开头且不以 "/" 结尾；全部为空时返回 ""
func JoinPath(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(p)
	}
	return b.String()
}
