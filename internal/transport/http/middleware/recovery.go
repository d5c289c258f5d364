// file: internal/transport/http/middleware/recovery.go
package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/gin-gonic/gin"
)

// Recovery 捕获处理器 panic，记录堆栈并返回 DatabaseError
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			slog.ErrorContext(c.Request.Context(), "请求处理发生 panic",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			if !c.Writer.Written() {
				response.Error(c, apperr.New(apperr.KindDatabase, apperr.GenericMessage))
			}
			c.Abort()
		}()
		c.Next()
	}
}
