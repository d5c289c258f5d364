// Package apperr file: internal/core/apperr/apperr.go
// 定义统一的错误类别以及它们到 HTTP 状态码、业务码的映射。
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind 描述一类错误: 名称、HTTP 状态码与业务码。
// 插件可以声明自己的 Kind，映射关系随类型一起定义。
type Kind struct {
	Name   string
	Status int
	Code   int
	// Fixed 非空时，响应消息固定为该值
	Fixed string
}

// 内置错误类别
var (
	KindDatabase         = Kind{Name: "DatabaseError", Status: http.StatusInternalServerError, Code: 500}
	KindNotFound         = Kind{Name: "NotFound", Status: http.StatusNotFound, Code: 404}
	KindAlreadyExists    = Kind{Name: "AlreadyExists", Status: http.StatusConflict, Code: 409}
	KindOperationFailed  = Kind{Name: "OperationFailed", Status: http.StatusBadRequest, Code: 400}
	KindValidation       = Kind{Name: "ValidationError", Status: http.StatusUnprocessableEntity, Code: 422}
	KindPermissionDenied = Kind{Name: "PermissionDenied", Status: http.StatusForbidden, Code: 403, Fixed: "permission denied"}
	KindUpstream         = Kind{Name: "UpstreamApiFailure", Status: http.StatusBadGateway, Code: 502}
	KindTooManyRequests  = Kind{Name: "TooManyRequests", Status: http.StatusTooManyRequests, Code: 429}
)

// GenericMessage 用于未知错误和 panic 的对外消息
const GenericMessage = "服务器内部错误"

// Error 是携带错误类别的应用错误。
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Name, e.Msg, e.Err)
	}
	return e.Kind.Name + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Message 返回写入响应体的消息
func (e *Error) Message() string {
	if e.Kind.Fixed != "" {
		return e.Kind.Fixed
	}
	return e.Msg
}

// Is 让 errors.Is 可以按类别比较
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind.Name == e.Kind.Name
}

// New 创建指定类别的错误
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap 创建带底层原因的错误
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Database 将存储层错误包装为 DatabaseError，消息取自底层错误
func Database(err error) *Error {
	if err == nil {
		return New(KindDatabase, GenericMessage)
	}
	return Wrap(KindDatabase, err, err.Error())
}

func NotFound(msg string) *Error        { return New(KindNotFound, msg) }
func AlreadyExists(msg string) *Error   { return New(KindAlreadyExists, msg) }
func OperationFailed(msg string) *Error { return New(KindOperationFailed, msg) }
func PermissionDenied() *Error          { return New(KindPermissionDenied, "") }

// Validation 以 ", " 拼接各字段的错误消息
func Validation(msgs ...string) *Error {
	return New(KindValidation, strings.Join(msgs, ", "))
}

// Upstream 包装第三方接口失败，保留上游状态码
func Upstream(status int, msg string) *Error {
	if status > 0 {
		msg = fmt.Sprintf("上游接口返回 %d: %s", status, msg)
	}
	return New(KindUpstream, msg)
}

// From 把任意错误归一为 *Error，未知错误按 DatabaseError 处理并隐藏细节
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(KindDatabase, err, GenericMessage)
}

// Sentinel 返回只含类别的错误，用于 errors.Is 比较
func Sentinel(kind Kind) error {
	return &Error{Kind: kind}
}
