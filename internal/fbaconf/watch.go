// file: internal/fbaconf/watch.go
package fbaconf

import (
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch 在配置文件变化时重新解析配置并回调。
// 配置文件不存在时不做任何事。只有可热更新的项 (如日志级别) 会被调用方采纳。
func Watch(v *viper.Viper, paths Paths, onChange func(*Config)) bool {
	if _, err := os.Stat(paths.ConfigFile()); err != nil {
		return false
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Decode(v, paths)
		if err != nil {
			slog.Error("配置热更新解析失败", "file", e.Name, "error", err)
			return
		}
		slog.Info("检测到配置文件变化", "file", e.Name, "op", e.Op.String())
		onChange(cfg)
	})
	v.WatchConfig()
	return true
}
