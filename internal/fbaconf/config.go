// Package fbaconf 负责集中式配置加载。
// 配置来源按优先级从低到高为: 内置默认值、<base>/config/config.yaml、FBA_ 前缀的环境变量。
package fbaconf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 FBA_TOKEN_SECRET_KEY 覆盖 token.secret_key
const EnvPrefix = "FBA"

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	APIPrefix       string        `mapstructure:"api_prefix"`
	LogLevel        string        `mapstructure:"log_level"`
	PprofAddr       string        `mapstructure:"pprof_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// Plugins 按注册顺序列出要挂载的插件名
	Plugins []string `mapstructure:"plugins"`
}

type DatabaseConfig struct {
	Type            string        `mapstructure:"type"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Schema          string        `mapstructure:"schema"`
	Charset         string        `mapstructure:"charset"`
	Path            string        `mapstructure:"path"`
	Echo            bool          `mapstructure:"echo"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type TokenConfig struct {
	SecretKey     string   `mapstructure:"secret_key"`
	ExpireSeconds int64    `mapstructure:"expire_seconds"`
	ExcludePaths  []string `mapstructure:"exclude_paths"`
}

// Expire 返回令牌有效期
func (t TokenConfig) Expire() time.Duration {
	return time.Duration(t.ExpireSeconds) * time.Second
}

type AccessLogConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	TraceHeader   string        `mapstructure:"trace_header"`
	BodyLimit     int           `mapstructure:"body_limit"`
	QueueSize     int           `mapstructure:"queue_size"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

type OperaLogConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaskKeys      []string      `mapstructure:"mask_keys"`
	QueueSize     int           `mapstructure:"queue_size"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

type RateLimitConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	GlobalRate       float64       `mapstructure:"global_rate"`
	GlobalBurst      int           `mapstructure:"global_burst"`
	IPRate           float64       `mapstructure:"ip_rate"`
	IPBurst          int           `mapstructure:"ip_burst"`
	LoginMaxFailures int           `mapstructure:"login_max_failures"`
	LoginLockout     time.Duration `mapstructure:"login_lockout"`
}

type CORSConfig struct {
	AllowOrigins  []string `mapstructure:"allow_origins"`
	ExposeHeaders []string `mapstructure:"expose_headers"`
}

type SMTPConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from"`
	SSL      bool          `mapstructure:"ssl"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Configured 报告 SMTP 凭据是否齐全
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.Username != "" && s.Password != ""
}

type OAuthProviderConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

type OAuth2Config struct {
	GitHub   OAuthProviderConfig `mapstructure:"github"`
	Google   OAuthProviderConfig `mapstructure:"google"`
	LinuxDo  OAuthProviderConfig `mapstructure:"linux_do"`
	StateTTL time.Duration       `mapstructure:"state_ttl"`
	// FrontendRedirect 回调成功后携带令牌跳转的前端地址，为空时直接返回 JSON
	FrontendRedirect string `mapstructure:"frontend_redirect"`
}

// Providers 返回已配置 client_id 与 client_secret 的提供商
func (o OAuth2Config) Providers() map[string]OAuthProviderConfig {
	out := make(map[string]OAuthProviderConfig, 3)
	for name, p := range map[string]OAuthProviderConfig{"github": o.GitHub, "google": o.Google, "linux_do": o.LinuxDo} {
		if p.ClientID != "" && p.ClientSecret != "" {
			out[name] = p
		}
	}
	return out
}

// UploadConfig 约束文件上传，Extensions 为空时不限制后缀
type UploadConfig struct {
	MaxSize    int64    `mapstructure:"max_size"`
	Extensions []string `mapstructure:"extensions"`
}

type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Nickname string `mapstructure:"nickname"`
	Email    string `mapstructure:"email"`
}

// Config 是应用的完整配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Token     TokenConfig     `mapstructure:"token"`
	AccessLog AccessLogConfig `mapstructure:"access_log"`
	OperaLog  OperaLogConfig  `mapstructure:"opera_log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	OAuth2    OAuth2Config    `mapstructure:"oauth2"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Admin     AdminConfig     `mapstructure:"admin"`

	Paths Paths `mapstructure:"-"`
}

// DefaultPlugins 是未配置 server.plugins 时挂载的插件。
// email 与 oauth2 需要第三方凭据，需显式启用。
var DefaultPlugins = []string{"auth", "rbac", "notice", "config", "dict", "logs", "file", "schedule_job", "code_generator"}

// SetDefaults 注册全部键的默认值。环境变量覆盖只对已知键生效，所以每个键都要在这里出现。
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.api_prefix", "/api/v1")
	v.SetDefault("server.log_level", "INFO")
	v.SetDefault("server.pprof_addr", "")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.plugins", DefaultPlugins)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.schema", "fba")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.path", "fba.db")
	v.SetDefault("database.echo", false)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.timeout", 5*time.Second)

	v.SetDefault("token.secret_key", "")
	v.SetDefault("token.expire_seconds", 86400)
	v.SetDefault("token.exclude_paths", []string{"/api/v1/auth/login"})

	v.SetDefault("access_log.enabled", true)
	v.SetDefault("access_log.trace_header", "X-Request-ID")
	v.SetDefault("access_log.body_limit", 10*1024)
	v.SetDefault("access_log.queue_size", 10000)
	v.SetDefault("access_log.batch_size", 100)
	v.SetDefault("access_log.flush_interval", time.Second)

	v.SetDefault("opera_log.enabled", true)
	v.SetDefault("opera_log.mask_keys", []string{"password", "old_password", "new_password", "confirm_password"})
	v.SetDefault("opera_log.queue_size", 10000)
	v.SetDefault("opera_log.batch_size", 100)
	v.SetDefault("opera_log.flush_interval", 60*time.Second)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.global_rate", 200.0)
	v.SetDefault("rate_limit.global_burst", 400)
	v.SetDefault("rate_limit.ip_rate", 20.0)
	v.SetDefault("rate_limit.ip_burst", 40)
	v.SetDefault("rate_limit.login_max_failures", 5)
	v.SetDefault("rate_limit.login_lockout", 15*time.Minute)

	v.SetDefault("cors.allow_origins", []string{"http://127.0.0.1:8000", "http://localhost:5173"})
	v.SetDefault("cors.expose_headers", []string{"X-Request-ID"})

	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.ssl", false)
	v.SetDefault("smtp.timeout", 30*time.Second)

	for _, p := range []string{"github", "google", "linux_do"} {
		v.SetDefault("oauth2."+p+".client_id", "")
		v.SetDefault("oauth2."+p+".client_secret", "")
		v.SetDefault("oauth2."+p+".redirect_uri", fmt.Sprintf("http://localhost:8000/api/v1/oauth2/%s/callback", p))
	}
	v.SetDefault("oauth2.state_ttl", 10*time.Minute)
	v.SetDefault("oauth2.frontend_redirect", "")

	v.SetDefault("upload.max_size", 100<<20)
	v.SetDefault("upload.extensions", []string{
		"jpg", "jpeg", "png", "gif", "webp",
		"mp4", "mov", "avi", "flv",
		"pdf", "txt", "md", "csv", "doc", "docx", "xls", "xlsx", "zip",
	})

	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.nickname", "超级管理员")
	v.SetDefault("admin.email", "")
}

// NewViper 创建绑定了默认值、配置文件与环境变量的 viper 实例
func NewViper(paths Paths) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := paths.ConfigFile()
	v.SetConfigFile(file)
	if _, err := os.Stat(file); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件 '%s' 失败: %w", file, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("检查配置文件 '%s' 失败: %w", file, err)
	}
	return v, nil
}

// Decode 把 viper 中的值解析为 Config 并补全派生字段
func Decode(v *viper.Viper, paths Paths) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置到结构体失败: %w", err)
	}
	cfg.Paths = paths
	cfg.Server.APIPrefix = "/" + strings.Trim(cfg.Server.APIPrefix, "/")
	if cfg.Database.Type == "sqlite" && !filepath.IsAbs(cfg.Database.Path) {
		cfg.Database.Path = filepath.Join(paths.Base, cfg.Database.Path)
	}
	return &cfg, nil
}

// Default 返回只含默认值的配置，不读取配置文件与环境变量
func Default(paths Paths) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	return Decode(v, paths)
}

// Load 加载配置。调用方应先 EnsureDirs。
func Load(paths Paths) (*Config, *viper.Viper, error) {
	v, err := NewViper(paths)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := Decode(v, paths)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

// Validate 检查启动必需的配置项，缺失的凭据是启动错误
func (c *Config) Validate() error {
	var problems []string
	switch c.Database.Type {
	case "sqlite":
	case "mysql", "postgres":
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Schema == "" {
			problems = append(problems, fmt.Sprintf("database: %s 需要 host、user 与 schema", c.Database.Type))
		}
	default:
		problems = append(problems, fmt.Sprintf("database.type 不支持 '%s'", c.Database.Type))
	}
	if c.Token.SecretKey == "" {
		problems = append(problems, "token.secret_key 未配置 (FBA_TOKEN_SECRET_KEY)")
	}
	if c.Token.ExpireSeconds <= 0 {
		problems = append(problems, "token.expire_seconds 必须为正数")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr 未配置")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port 非法: %d", c.Server.Port))
	}
	if c.AccessLog.BodyLimit <= 0 {
		problems = append(problems, "access_log.body_limit 必须为正数")
	}
	if c.Upload.MaxSize <= 0 {
		problems = append(problems, "upload.max_size 必须为正数")
	}
	if len(problems) > 0 {
		return fmt.Errorf("配置校验失败: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Addr 返回 HTTP 监听地址
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
