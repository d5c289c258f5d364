// Package middleware file: internal/transport/http/middleware/error_handler.go
package middleware

import (
	"log/slog"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/gin-gonic/gin"
)

// ErrorHandlingMiddleware 集中把处理器通过 c.Error(err) 附加的错误写成统一响应。
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		// 只处理最后一个错误，它通常是根本原因
		err := c.Errors.Last().Err
		ae := apperr.From(err)
		if ae.Kind.Status >= 500 {
			slog.ErrorContext(c.Request.Context(), "请求处理失败",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"kind", ae.Kind.Name,
				"error", err,
			)
		}
		if c.Writer.Written() {
			return
		}
		response.Error(c, ae)
	}
}

// abortWith 附加错误并终止后续处理器，由 ErrorHandlingMiddleware 写出响应
func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
