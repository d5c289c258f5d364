// Package fbaobserve file: internal/fbaobserve/logging.go
package fbaobserve

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type traceKey struct{}

// WithTraceID 把 trace id 放入 context
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

// TraceID 读取 context 中的 trace id，没有时返回空串
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// traceHandler 为每条带请求 context 的日志追加 trace_id
type traceHandler struct {
	slog.Handler
}

func (h traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := TraceID(ctx); id != "" {
		r.AddAttrs(slog.String("trace_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceHandler{h.Handler.WithAttrs(attrs)}
}

func (h traceHandler) WithGroup(name string) slog.Handler {
	return traceHandler{h.Handler.WithGroup(name)}
}

// logLevel 是全局日志级别，支持运行时调整
var logLevel = new(slog.LevelVar)

// ParseLevel 把配置字符串转换为 slog.Level，未知值按 INFO 处理
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel 调整全局日志级别
func SetLevel(levelStr string) {
	logLevel.Set(ParseLevel(levelStr))
}

// NewHandler 创建输出 JSON 的处理器并附加 trace_id
func NewHandler(w io.Writer) slog.Handler {
	return traceHandler{slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: true,
	})}
}

// InitLogger 初始化全局的结构化日志记录器，同时输出到标准输出与 logs/fba.log。
// 返回的 io.Closer 用于在退出时关闭日志文件。
func InitLogger(levelStr, logDir string) (io.Closer, error) {
	SetLevel(levelStr)

	var w io.Writer = os.Stdout
	var closer io.Closer = io.NopCloser(nil)
	if logDir != "" {
		f, err := os.OpenFile(filepath.Join(logDir, "fba.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("打开日志文件失败: %w", err)
		}
		w = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	slog.SetDefault(slog.New(NewHandler(w)))
	return closer, nil
}
