// Package store file: internal/store/db.go
// 关系型存储的连接、通用仓储与查询作用域。支持 mysql、postgres 与 sqlite 三种方言。
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite" // 纯 Go 的 sqlite 驱动，注册为 "sqlite"
)

// 方言名称，与 gorm Dialector.Name() 一致
const (
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// slowThreshold 超过该耗时的 SQL 以 WARN 记录
const slowThreshold = 200 * time.Millisecond

// SQLiteDSN 生成 modernc 驱动使用的 DSN
func SQLiteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(10000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return "file:" + path + "?" + q.Encode()
}

// NewDialector 按配置选择方言
func NewDialector(cfg fbaconf.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Type {
	case DialectMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Schema, cfg.Charset)
		precision := 6
		return mysql.New(mysql.Config{DSN: dsn, DefaultDatetimePrecision: &precision}), nil
	case DialectPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Schema)
		return postgres.Open(dsn), nil
	case DialectSQLite:
		return &sqlite.Dialector{DriverName: "sqlite", DSN: SQLiteDSN(cfg.Path)}, nil
	default:
		return nil, fmt.Errorf("不支持的数据库类型: %s", cfg.Type)
	}
}

// GormConfig 返回统一的 gorm 配置。TranslateError 让方言把唯一约束冲突转换为 gorm.ErrDuplicatedKey。
func GormConfig(echo bool) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         &slogLogger{echo: echo, level: logger.Warn},
		NowFunc:        func() time.Time { return Now() },
	}
}

// Open 打开连接池并验证连通性
func Open(ctx context.Context, cfg fbaconf.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := NewDialector(cfg)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, GormConfig(cfg.Echo))
	if err != nil {
		return nil, fmt.Errorf("打开 %s 数据库失败: %w", cfg.Type, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接池失败: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("连接 %s 数据库 (Ping) 失败: %w", cfg.Type, err)
	}
	return db, nil
}

// Close 关闭底层连接池
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Dialect 返回当前连接的方言名
func Dialect(db *gorm.DB) string {
	return db.Dialector.Name()
}

// slogLogger 把 gorm 的日志转发给 slog
type slogLogger struct {
	echo  bool
	level logger.LogLevel
}

func (l *slogLogger) LogMode(level logger.LogLevel) logger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *slogLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Info {
		slog.InfoContext(ctx, fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

func (l *slogLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Warn {
		slog.WarnContext(ctx, fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

func (l *slogLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Error {
		slog.ErrorContext(ctx, fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

func (l *slogLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		sql, rows := fc()
		slog.ErrorContext(ctx, "SQL 执行失败", "sql", sql, "rows", rows, "elapsed", elapsed, "error", err)
	case elapsed > slowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		slog.WarnContext(ctx, "慢 SQL", "sql", sql, "rows", rows, "elapsed", elapsed)
	case l.echo:
		sql, rows := fc()
		slog.DebugContext(ctx, "SQL", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
