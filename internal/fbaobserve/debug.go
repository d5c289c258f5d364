// Package fbaobserve file: internal/fbaobserve/debug.go
package fbaobserve

import (
	"log/slog"
	"net/http"
	_ "net/http/pprof" // 自动注册 pprof
)

// EnablePprof 在指定地址上暴露 /debug/pprof 端点。
// 例如 addr 可以是 "localhost:6060" 或 ":6060"
func EnablePprof(addr string) {
	if addr == "" {
		slog.Info("pprof 未启用", "reason", "server.pprof_addr 为空")
		return
	}
	go func() {
		slog.Info("pprof 端点启动", "address", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			slog.Error("pprof 端点启动失败", "error", err)
		}
	}()
}
