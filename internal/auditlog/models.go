// Package auditlog 持久化访问日志、操作日志与登录日志。
// 中间件以非阻塞方式投递记录，后台 Writer 按批写库；队列溢出或写库失败只记日志，不影响请求。
package auditlog

import (
	"time"

	"github.com/eginner01/rFBA-sub002/internal/store"
	"gorm.io/datatypes"
)

// AccessLog 是一次 HTTP 请求的访问记录
type AccessLog struct {
	ID           int64     `gorm:"column:id;primaryKey" json:"id"`
	TraceID      string    `gorm:"column:trace_id" json:"trace_id"`
	UserID       *int64    `gorm:"column:user_id" json:"user_id"`
	Username     *string   `gorm:"column:username" json:"username"`
	DeptID       *int64    `gorm:"column:dept_id" json:"dept_id"`
	DeptName     *string   `gorm:"column:dept_name" json:"dept_name"`
	Method       string    `gorm:"column:method" json:"method"`
	Path         string    `gorm:"column:path" json:"path"`
	Query        string    `gorm:"column:query" json:"query"`
	IP           string    `gorm:"column:ip" json:"ip"`
	OS           string    `gorm:"column:os" json:"os"`
	Browser      string    `gorm:"column:browser" json:"browser"`
	Device       string    `gorm:"column:device" json:"device"`
	UserAgent    string    `gorm:"column:user_agent" json:"user_agent"`
	Referer      string    `gorm:"column:referer" json:"referer"`
	RequestBody  string    `gorm:"column:request_body" json:"request_body"`
	ResponseBody string    `gorm:"column:response_body" json:"response_body"`
	Status       int       `gorm:"column:status" json:"status"`
	Code         int       `gorm:"column:code" json:"code"`
	IsError      bool      `gorm:"column:is_error" json:"is_error"`
	ElapsedMs    float64   `gorm:"column:elapsed_ms" json:"elapsed_ms"`
	StartTime    time.Time `gorm:"column:start_time" json:"start_time"`
	store.AppendOnly
}

func (AccessLog) TableName() string { return "sys_access_log" }

// OperaLog 是标注了操作日志的路由的业务操作记录
type OperaLog struct {
	ID           int64          `gorm:"column:id;primaryKey" json:"id"`
	TraceID      string         `gorm:"column:trace_id" json:"trace_id"`
	UserID       *int64         `gorm:"column:user_id" json:"user_id"`
	Username     *string        `gorm:"column:username" json:"username"`
	Title        string         `gorm:"column:title" json:"title"`
	BusinessType string         `gorm:"column:business_type" json:"business_type"`
	Method       string         `gorm:"column:method" json:"method"`
	Path         string         `gorm:"column:path" json:"path"`
	IP           string         `gorm:"column:ip" json:"ip"`
	OS           string         `gorm:"column:os" json:"os"`
	Browser      string         `gorm:"column:browser" json:"browser"`
	Device       string         `gorm:"column:device" json:"device"`
	Args         datatypes.JSON `gorm:"column:args" json:"args"`
	Status       int            `gorm:"column:status" json:"status"`
	Code         int            `gorm:"column:code" json:"code"`
	Msg          string         `gorm:"column:msg" json:"msg"`
	CostMs       float64        `gorm:"column:cost_ms" json:"cost_ms"`
	OperaTime    time.Time      `gorm:"column:opera_time" json:"opera_time"`
	store.AppendOnly
}

func (OperaLog) TableName() string { return "sys_opera_log" }

// 登录状态
const (
	LoginFailed  = 0
	LoginSuccess = 1
)

// LoginLog 是一次登录尝试
type LoginLog struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	UserUUID  string    `gorm:"column:user_uuid" json:"user_uuid"`
	Username  string    `gorm:"column:username" json:"username"`
	Status    int       `gorm:"column:status" json:"status"`
	IP        string    `gorm:"column:ip" json:"ip"`
	OS        string    `gorm:"column:os" json:"os"`
	Browser   string    `gorm:"column:browser" json:"browser"`
	Device    string    `gorm:"column:device" json:"device"`
	Msg       string    `gorm:"column:msg" json:"msg"`
	LoginTime time.Time `gorm:"column:login_time" json:"login_time"`
	store.AppendOnly
}

func (LoginLog) TableName() string { return "sys_login_log" }
