// Package response file: internal/core/response/response.go
// 统一响应结构 {code, msg, data?} 以及分页、批量删除载荷。
package response

import (
	"net/http"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/gin-gonic/gin"
)

// 写入 gin.Context 的键，访问日志与操作日志据此记录业务码和消息
const (
	CodeKey = "fba.response.code"
	MsgKey  = "fba.response.msg"
)

// CodeSuccess 成功业务码
const CodeSuccess = 200

// Envelope 是所有接口的响应结构
type Envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// OK 构造 {code:200, msg:"success", data}
func OK(data any) Envelope {
	return Envelope{Code: CodeSuccess, Msg: "success", Data: data}
}

// Msg 构造只含消息的成功响应
func Msg(msg string) Envelope {
	return Envelope{Code: CodeSuccess, Msg: msg}
}

// With 构造带自定义消息和数据的成功响应
func With(msg string, data any) Envelope {
	return Envelope{Code: CodeSuccess, Msg: msg, Data: data}
}

// Fail 构造错误响应，data 总是省略
func Fail(code int, msg string) Envelope {
	return Envelope{Code: code, Msg: msg}
}

// Success 写出 success(data)
func Success(c *gin.Context, data any) {
	Write(c, http.StatusOK, OK(data))
}

// SuccessMsg 写出 success_msg(msg)
func SuccessMsg(c *gin.Context, msg string) {
	Write(c, http.StatusOK, Msg(msg))
}

// SuccessWith 写出 success_with(msg, data)
func SuccessWith(c *gin.Context, msg string, data any) {
	Write(c, http.StatusOK, With(msg, data))
}

// Error 按错误类别写出错误响应
func Error(c *gin.Context, err error) {
	ae := apperr.From(err)
	Write(c, ae.Kind.Status, Fail(ae.Kind.Code, ae.Message()))
}

// Write 写出响应并记录业务码
func Write(c *gin.Context, status int, env Envelope) {
	c.Set(CodeKey, env.Code)
	c.Set(MsgKey, env.Msg)
	c.JSON(status, env)
}
