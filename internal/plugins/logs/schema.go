package logs

import "github.com/eginner01/rFBA-sub002/internal/core/response"

// AccessQuery 过滤访问日志
type AccessQuery struct {
	Username string  `form:"username"`
	IP       string  `form:"ip"`
	Path     string  `form:"path"`
	Method   *string `form:"method"`
	Status   *int    `form:"status"`
	IsError  *bool   `form:"is_error"`
	response.PageQuery
}

// OperaQuery 过滤操作日志
type OperaQuery struct {
	Username     string  `form:"username"`
	IP           string  `form:"ip"`
	Title        string  `form:"title"`
	BusinessType *string `form:"business_type"`
	Status       *int    `form:"status"`
	response.PageQuery
}

// LoginQuery 过滤登录日志
type LoginQuery struct {
	Username string `form:"username"`
	IP       string `form:"ip"`
	Status   *int   `form:"status" validate:"omitempty,oneof=0 1" msg:"登录状态必须是0或1"`
	response.PageQuery
}
