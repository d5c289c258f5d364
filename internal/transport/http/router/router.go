// Package router file: internal/transport/http/router/router.go
// 宿主: 按注册顺序挂载插件，装配全局与路由级中间件，提供插件目录、健康检查与指标接口。
package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/auditlog"
	"github.com/eginner01/rFBA-sub002/internal/cache"
	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"github.com/eginner01/rFBA-sub002/internal/fbaobserve"
	"github.com/eginner01/rFBA-sub002/internal/transport/http/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SysSegment 是管理命名空间在 API 前缀下的路径段
const SysSegment = "sys"

// Guard 是宿主需要的认证能力: 解析令牌并向插件开放签发与失效接口
type Guard interface {
	middleware.Authenticator
	port.Authority
}

// Dependencies 结构体用于将所有依赖项注入到路由器中
type Dependencies struct {
	Config  *fbaconf.Config
	DB      *gorm.DB
	Cache   cache.Cache
	Guard   Guard
	Audit   *auditlog.Recorder
	Plugins []port.Plugin
}

// Host 是组装完成的 HTTP 处理器
type Host struct {
	engine  *gin.Engine
	catalog []domain.PluginCatalogEntry
	limiter *middleware.RateLimiter
}

func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.engine.ServeHTTP(w, r)
}

// Catalog 按挂载顺序返回已挂载的插件
func (h *Host) Catalog() []domain.PluginCatalogEntry {
	return h.catalog
}

// Close 释放后台资源
func (h *Host) Close() {
	if h.limiter != nil {
		h.limiter.Close()
	}
}

// mounted 记录已注册的 METHOD + 规范化路径及其所属插件
type mounted map[string]string

func routeKey(method, path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		switch {
		case strings.HasPrefix(s, ":"):
			segs[i] = ":"
		case strings.HasPrefix(s, "*"):
			segs[i] = "*"
		}
	}
	return method + " " + strings.Join(segs, "/")
}

func (m mounted) claim(method, path, owner string) error {
	key := routeKey(method, path)
	if prev, ok := m[key]; ok {
		return fmt.Errorf("路由冲突: %s %s 同时由 %s 和 %s 注册", method, path, prev, owner)
	}
	m[key] = owner
	return nil
}

// New 创建并配置基于 Gin 的 HTTP 路由器，任何插件装配失败都会返回错误
func New(deps Dependencies) (*Host, error) {
	cfg := deps.Config
	if cfg == nil || deps.DB == nil || deps.Guard == nil {
		return nil, fmt.Errorf("router: Config、DB 与 Guard 不能为空")
	}
	prefix := port.JoinPath(cfg.Server.APIPrefix)
	if prefix == "" {
		prefix = "/api/v1"
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = false
	host := &Host{engine: engine}

	// --- 配置全局中间件 ---
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	engine.Use(cors.New(corsConfig(cfg.CORS)))
	engine.Use(middleware.Trace(cfg.AccessLog.TraceHeader))
	engine.Use(fbaobserve.PrometheusMiddleware())
	if cfg.AccessLog.Enabled && deps.Audit != nil {
		engine.Use(middleware.AccessLog(deps.Audit.Access, cfg.AccessLog.BodyLimit))
	}
	engine.Use(middleware.Recovery())
	engine.Use(middleware.ErrorHandlingMiddleware())
	if cfg.RateLimit.Enabled {
		host.limiter = middleware.NewRateLimiter(cfg.RateLimit)
		engine.Use(host.limiter.Middleware())
	}
	engine.Use(middleware.Authenticate(deps.Guard))

	var opera *middleware.OperaLogger
	if cfg.OperaLog.Enabled && deps.Audit != nil {
		opera = middleware.NewOperaLogger(deps.Audit.Opera, cfg.OperaLog.MaskKeys, cfg.AccessLog.BodyLimit)
	}
	excluded := make(map[string]struct{}, len(cfg.Token.ExcludePaths))
	for _, p := range cfg.Token.ExcludePaths {
		excluded[port.JoinPath(p)] = struct{}{}
	}

	state := port.State{
		DB:     deps.DB,
		Cache:  deps.Cache,
		Paths:  cfg.Paths,
		Config: cfg,
		Auth:   deps.Guard,
	}
	if deps.Audit != nil {
		state.Logins = deps.Audit
	}
	if cfg.SMTP.Configured() {
		state.SMTP = &cfg.SMTP
	}
	if len(cfg.OAuth2.Providers()) > 0 {
		state.OAuth2 = &cfg.OAuth2
	}

	seen := mounted{}
	catalogPath := port.JoinPath(prefix, SysSegment, "plugins")
	builtins := []struct{ method, path string }{
		{http.MethodGet, catalogPath},
		{http.MethodGet, "/health"},
		{http.MethodGet, "/metrics"},
	}
	for _, b := range builtins {
		if err := seen.claim(b.method, b.path, "host"); err != nil {
			return nil, err
		}
	}

	names := map[string]struct{}{}
	for _, p := range deps.Plugins {
		entry, err := mountPlugin(engine, p, state, prefix, seen, names, func(rt *port.Route, abs string) []gin.HandlerFunc {
			chain := make([]gin.HandlerFunc, 0, len(rt.Handlers)+3)
			if _, skip := excluded[abs]; !rt.Public && !skip {
				chain = append(chain, middleware.RequireAuth())
			}
			if rt.Permission != "" {
				chain = append(chain, middleware.RequirePerm(rt.Permission))
			}
			if rt.LogTitle != "" && opera != nil {
				chain = append(chain, opera.Handler(rt.LogTitle, rt.BusinessType))
			}
			return append(chain, rt.Handlers...)
		})
		if err != nil {
			host.Close()
			return nil, err
		}
		host.catalog = append(host.catalog, entry)
		slog.Info("插件已挂载", "plugin", entry.Name, "version", entry.Version, "mount", entry.Mount, "prefixes", entry.Prefixes, "routes", entry.Routes)
	}

	// --- 内置接口 ---
	engine.GET(catalogPath, middleware.RequireAuth(), func(c *gin.Context) {
		response.Success(c, host.catalog)
	})
	engine.GET("/health", healthHandler(deps.DB, deps.Cache))
	engine.GET("/metrics", gin.WrapH(fbaobserve.Handler()))
	if cfg.Paths.Upload != "" {
		engine.Static("/static/upload", cfg.Paths.Upload)
	}
	engine.NoRoute(func(c *gin.Context) {
		response.Error(c, apperr.NotFound("接口不存在: "+c.Request.Method+" "+c.Request.URL.Path))
	})

	return host, nil
}

// mountPlugin 校验并挂载单个插件
func mountPlugin(
	engine *gin.Engine,
	p port.Plugin,
	state port.State,
	prefix string,
	seen mounted,
	names map[string]struct{},
	chain func(*port.Route, string) []gin.HandlerFunc,
) (domain.PluginCatalogEntry, error) {
	info := p.Info()
	var entry domain.PluginCatalogEntry
	if info.Name == "" {
		return entry, fmt.Errorf("插件名称不能为空")
	}
	if _, dup := names[info.Name]; dup {
		return entry, fmt.Errorf("插件 %s 重复注册", info.Name)
	}
	names[info.Name] = struct{}{}

	mount := p.Mount()
	if err := mount.Validate(); err != nil {
		return entry, fmt.Errorf("插件 %s 挂载声明无效: %w", info.Name, err)
	}
	requires := p.Requires()
	if missing := state.Missing(requires); len(missing) > 0 {
		return entry, fmt.Errorf("插件 %s 缺少依赖: %s", info.Name, joinDeps(missing))
	}

	rt, err := p.CreateRouter(state)
	if err != nil {
		return entry, fmt.Errorf("插件 %s 创建路由失败: %w", info.Name, err)
	}

	var base string
	var prefixes []string
	switch mount.Kind {
	case domain.MountExtension:
		if len(mount.Leaves) == 1 {
			base = port.JoinPath(prefix, SysSegment, mount.Leaves[0])
		} else {
			base = port.JoinPath(prefix, SysSegment)
		}
		for _, leaf := range mount.Leaves {
			prefixes = append(prefixes, port.JoinPath(prefix, SysSegment, leaf))
		}
	case domain.MountIndependent:
		base = port.JoinPath(prefix, mount.Segment)
		prefixes = []string{base}
	}

	routes := rt.Routes()
	for _, r := range routes {
		if mount.Kind == domain.MountExtension && len(mount.Leaves) > 1 {
			first, _, _ := strings.Cut(strings.TrimPrefix(r.Path, "/"), "/")
			if !slices.Contains(mount.Leaves, first) {
				return entry, fmt.Errorf("插件 %s 的路由 %s %s 不在声明的路径段 %v 下", info.Name, r.Method, r.Path, mount.Leaves)
			}
		}
		abs := port.JoinPath(base, r.Path)
		if err := seen.claim(r.Method, abs, "插件 "+info.Name); err != nil {
			return entry, err
		}
		if err := register(engine, r.Method, abs, chain(r, abs)); err != nil {
			return entry, fmt.Errorf("插件 %s 注册 %s %s 失败: %w", info.Name, r.Method, abs, err)
		}
	}

	reqs := make([]string, 0, len(requires))
	for _, d := range requires {
		reqs = append(reqs, string(d))
	}
	return domain.PluginCatalogEntry{
		PluginInfo: info,
		Mount:      mount.Kind,
		Prefixes:   prefixes,
		Requires:   reqs,
		Routes:     len(routes),
	}, nil
}

// register 把 gin 在路径冲突时的 panic 转为错误
func register(engine *gin.Engine, method, path string, handlers []gin.HandlerFunc) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	engine.Handle(method, path, handlers...)
	return nil
}

func joinDeps(deps []port.Dependency) string {
	out := make([]string, len(deps))
	for i, d := range deps {
		out[i] = string(d)
	}
	return strings.Join(out, ", ")
}

func corsConfig(c fbaconf.CORSConfig) cors.Config {
	conf := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Request-ID"},
		ExposeHeaders: c.ExposeHeaders,
		MaxAge:        12 * time.Hour,
	}
	if len(c.AllowOrigins) == 0 || slices.Contains(c.AllowOrigins, "*") {
		conf.AllowAllOrigins = true
		return conf
	}
	conf.AllowOrigins = c.AllowOrigins
	conf.AllowCredentials = true
	return conf
}

// healthHandler 检查数据库与缓存连通性
func healthHandler(db *gorm.DB, c cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		status := gin.H{"database": "ok", "cache": "disabled"}
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(reqCtx)
		}
		if err != nil {
			_ = ctx.Error(apperr.Wrap(apperr.KindDatabase, err, "数据库不可用"))
			return
		}
		if c != nil {
			if err := c.Ping(reqCtx); err != nil {
				_ = ctx.Error(apperr.Wrap(apperr.KindDatabase, err, "缓存不可用"))
				return
			}
			status["cache"] = "ok"
		}
		response.Success(ctx, status)
	}
}
