// Package fbaconf file: internal/fbaconf/path.go
package fbaconf

import (
	"fmt"
	"os"
	"path/filepath"
)

// BaseEnv 指定安装根目录的环境变量
const BaseEnv = "FBA_BASE_PATH"

// Paths 是由根目录派生出的各个安装目录
type Paths struct {
	Base   string
	Logs   string
	Upload string
	Plugin string
	Locale string
	Config string
}

// ResolveBase 返回 FBA_BASE_PATH，未设置时回退到可执行文件所在目录
func ResolveBase() (string, error) {
	if p := os.Getenv(BaseEnv); p != "" {
		return filepath.Abs(p)
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("无法获取可执行文件路径: %w", err)
	}
	return filepath.Dir(exe), nil
}

// NewPaths 从根目录构造目录布局，不触碰文件系统
func NewPaths(base string) Paths {
	return Paths{
		Base:   base,
		Logs:   filepath.Join(base, "logs"),
		Upload: filepath.Join(base, "static", "upload"),
		Plugin: filepath.Join(base, "plugin"),
		Locale: filepath.Join(base, "locale"),
		Config: filepath.Join(base, "config"),
	}
}

// ConfigFile 返回主配置文件路径
func (p Paths) ConfigFile() string {
	return filepath.Join(p.Config, "config.yaml")
}

// EnsureDirs 创建所有缺失的目录
func (p Paths) EnsureDirs() error {
	for _, dir := range []string{p.Logs, p.Upload, p.Plugin, p.Locale, p.Config} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建目录 '%s' 失败: %w", dir, err)
		}
	}
	return nil
}
