package logs

import (
	"context"

	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/core/validate"
	"github.com/gin-gonic/gin"
)

// 三个日志流的接口形状一致，处理器按函数签名复用

func pageOf[Q, T any](page func(context.Context, Q) (response.Page[T], error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q Q
		if err := validate.BindQuery(c, &q); err != nil {
			_ = c.Error(err)
			return
		}
		p, err := page(c.Request.Context(), q)
		if err != nil {
			_ = c.Error(err)
			return
		}
		response.Success(c, p)
	}
}

func deleteOf(del func(context.Context, []int64) (int64, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := validate.BindIDs(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		if _, err := del(c.Request.Context(), ids); err != nil {
			_ = c.Error(err)
			return
		}
		response.SuccessMsg(c, "删除成功")
	}
}

func clearOf(wipe func(context.Context) (int64, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := wipe(c.Request.Context()); err != nil {
			_ = c.Error(err)
			return
		}
		response.SuccessMsg(c, "清空成功")
	}
}
