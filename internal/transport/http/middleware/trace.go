// file: internal/transport/http/middleware/trace.go
package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/eginner01/rFBA-sub002/internal/fbaobserve"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceKey 是 gin.Context 中追踪 ID 的键
const TraceKey = "fba.trace_id"

const maxTraceIDLen = 64

// Trace 为每个请求确定追踪 ID: 沿用请求头中的值，否则生成新的 32 位十六进制 ID
func Trace(header string) gin.HandlerFunc {
	if header == "" {
		header = "X-Request-ID"
	}
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(header))
		if id == "" || len(id) > maxTraceIDLen {
			id = NewTraceID()
		}
		c.Set(TraceKey, id)
		c.Header(header, id)
		c.Request = c.Request.WithContext(fbaobserve.WithTraceID(c.Request.Context(), id))
		c.Next()
	}
}

// NewTraceID 生成 128 位随机 ID，渲染为 32 位小写十六进制
func NewTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return hex.EncodeToString(b[:])
}

// TraceID 返回当前请求的追踪 ID
func TraceID(c *gin.Context) string {
	return c.GetString(TraceKey)
}
