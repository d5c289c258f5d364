// file: cmd/fba/main.go

// fba 是后台管理服务的入口。
//
//	fba            启动 HTTP 服务 (等同 fba serve)
//	fba migrate    执行未应用的数据库迁移后退出
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/auditlog"
	"github.com/eginner01/rFBA-sub002/internal/auth"
	"github.com/eginner01/rFBA-sub002/internal/cache"
	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"github.com/eginner01/rFBA-sub002/internal/fbaobserve"
	"github.com/eginner01/rFBA-sub002/internal/plugins/rbac"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"github.com/eginner01/rFBA-sub002/internal/store/migrate"
	"github.com/eginner01/rFBA-sub002/internal/transport/http/router"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

const version = "v0.1.0"

// permCacheSize 是权限集合 LRU 的容量，按在线用户数估计
const permCacheSize = 4096

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "用法: %s [serve|migrate]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cmd := "serve"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	// 在日志系统完全初始化前，使用标准 log
	paths, cfg, v, err := loadConfig()
	if err != nil {
		log.Fatalf("CRITICAL: %v", err)
	}
	logCloser, err := fbaobserve.InitLogger(cfg.Server.LogLevel, paths.Logs)
	if err != nil {
		log.Fatalf("CRITICAL: 初始化日志失败: %v", err)
	}
	defer logCloser.Close()

	switch cmd {
	case "serve":
		if fbaconf.Watch(v, paths, func(c *fbaconf.Config) { fbaobserve.SetLevel(c.Server.LogLevel) }) {
			slog.Info("配置文件热更新已启用", "file", paths.ConfigFile())
		}
		err = serve(cfg)
	case "migrate":
		err = runMigrate(cfg)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error("程序异常退出", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func loadConfig() (fbaconf.Paths, *fbaconf.Config, *viper.Viper, error) {
	base, err := fbaconf.ResolveBase()
	if err != nil {
		return fbaconf.Paths{}, nil, nil, err
	}
	paths := fbaconf.NewPaths(base)
	if err := paths.EnsureDirs(); err != nil {
		return paths, nil, nil, err
	}
	cfg, v, err := fbaconf.Load(paths)
	if err != nil {
		return paths, nil, nil, err
	}
	return paths, cfg, v, nil
}

func openDB(ctx context.Context, cfg *fbaconf.Config) (*gorm.DB, error) {
	db, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}
	slog.Info("数据库连接成功", "type", cfg.Database.Type)
	return db, nil
}

func runMigrate(cfg *fbaconf.Config) error {
	ctx := context.Background()
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(db)

	applied, err := migrate.Run(ctx, db, migrate.All)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		slog.Info("数据库已是最新版本")
	} else {
		slog.Info("迁移完成", "applied", applied)
	}
	return nil
}

func serve(cfg *fbaconf.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	slog.Info("FBA 正在启动", "version", version, "base", cfg.Paths.Base)

	ctx := context.Background()
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		slog.Info("正在关闭数据库连接...")
		if err := store.Close(db); err != nil {
			slog.Error("关闭数据库时发生错误", "error", err)
		}
	}()

	if applied, err := migrate.Run(ctx, db, migrate.All); err != nil {
		return err
	} else if len(applied) > 0 {
		slog.Info("启动时已执行迁移", "applied", applied)
	}
	if err := ensureAdmin(ctx, db, cfg.Admin); err != nil {
		return err
	}

	c, err := cache.Open(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("连接 Redis 失败: %w", err)
	}
	defer c.Close()

	tokens, err := auth.NewTokens(cfg.Token.SecretKey, cfg.Token.Expire())
	if err != nil {
		return err
	}
	guard, err := auth.NewGuard(tokens, auth.NewDBResolver(db), permCacheSize)
	if err != nil {
		return err
	}
	audit := auditlog.NewRecorder(db, cfg.AccessLog, cfg.OperaLog)

	plugins, err := buildPlugins(cfg.Server.Plugins)
	if err != nil {
		return err
	}
	fbaobserve.Register()
	host, err := router.New(router.Dependencies{
		Config:  cfg,
		DB:      db,
		Cache:   c,
		Guard:   guard,
		Audit:   audit,
		Plugins: plugins,
	})
	if err != nil {
		return err
	}
	defer host.Close()
	for _, p := range host.Catalog() {
		slog.Info("插件已挂载", "name", p.Name, "version", p.Version, "prefixes", p.Prefixes, "routes", p.Routes)
	}

	fbaobserve.EnablePprof(cfg.Server.PprofAddr)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Addr:              addr,
		Handler:           host,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("开始监听HTTP请求", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("HTTP服务启动失败: %w", err)
	case <-quit:
	}
	slog.Info("收到停机信号，准备优雅关闭...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP服务优雅关闭失败", "error", err)
	}
	waitPlugins(plugins)
	if err := audit.Close(shutdownCtx); err != nil {
		slog.Error("审计日志落库失败", "error", err)
	}
	slog.Info("HTTP服务已成功关闭。")
	return nil
}

// ensureAdmin 在没有超级管理员时按配置创建，未配置密码则生成一次性随机密码
func ensureAdmin(ctx context.Context, db *gorm.DB, cfg fbaconf.AdminConfig) error {
	password := cfg.Password
	generated := password == ""
	if generated {
		password = genPassword()
	}
	var email *string
	if cfg.Email != "" {
		email = &cfg.Email
	}
	created, err := rbac.NewService(db, nil).EnsureSuperuser(ctx, cfg.Username, password, cfg.Nickname, email)
	if err != nil {
		return fmt.Errorf("创建超级管理员失败: %w", err)
	}
	switch {
	case created && generated:
		slog.Warn("系统中无超级管理员，已创建并生成随机密码 (仅显示一次)", "username", cfg.Username, "password", password)
	case created:
		slog.Info("已创建超级管理员", "username", cfg.Username)
	}
	return nil
}

func genPassword() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "fallback_" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(b)
}
