package schedule

import (
	"time"

	"github.com/eginner01/rFBA-sub002/internal/core/response"
)

// JobParam 是创建与更新共用的请求体，可选字段缺省时取默认值
type JobParam struct {
	JobName        string  `json:"job_name" validate:"min=1,max=64" msg:"任务名称长度必须在1-64之间"`
	JobGroup       *string `json:"job_group" validate:"omitempty,min=1,max=64" msg:"任务分组长度必须在1-64之间"`
	BeanName       string  `json:"bean_name" validate:"min=1,max=128" msg:"调用目标长度必须在1-128之间"`
	MethodName     string  `json:"method_name" validate:"min=1,max=64" msg:"方法名长度必须在1-64之间"`
	MethodParams   *string `json:"method_params" validate:"omitempty,max=2000" msg:"方法参数不能超过2000个字符"`
	CronExpression string  `json:"cron_expression" validate:"min=1,max=128" msg:"Cron表达式长度必须在1-128之间"`
	MisfirePolicy  *int    `json:"misfire_policy" validate:"omitempty,oneof=0 1 2 3" msg:"错过策略必须是0-3"`
	Concurrent     *int    `json:"concurrent" validate:"omitempty,oneof=0 1" msg:"并发执行必须是0或1"`
	Status         *int    `json:"status" validate:"omitempty,oneof=0 1" msg:"状态必须是0或1"`
	Priority       *int    `json:"priority" validate:"omitempty,min=1,max=10" msg:"优先级必须在1-10之间"`
	Timeout        *int    `json:"timeout" validate:"omitempty,min=0" msg:"超时时间不能为负数"`
	RetryCount     *int    `json:"retry_count" validate:"omitempty,min=0,max=10" msg:"重试次数必须在0-10之间"`
	RetryInterval  *int    `json:"retry_interval" validate:"omitempty,min=0" msg:"重试间隔不能为负数"`
	Description    *string `json:"description" validate:"omitempty,max=500" msg:"描述不能超过500个字符"`
}

func (p JobParam) group() string {
	if p.JobGroup == nil {
		return DefaultGroup
	}
	return *p.JobGroup
}

func (p JobParam) values() map[string]any {
	return map[string]any{
		"job_name":        p.JobName,
		"job_group":       p.group(),
		"bean_name":       p.BeanName,
		"method_name":     p.MethodName,
		"method_params":   p.MethodParams,
		"cron_expression": p.CronExpression,
		"misfire_policy":  orDefault(p.MisfirePolicy, MisfireDefault),
		"concurrent":      orDefault(p.Concurrent, ConcurrentForbid),
		"status":          orDefault(p.Status, StatusNormal),
		"priority":        orDefault(p.Priority, DefaultPriority),
		"timeout":         orDefault(p.Timeout, 0),
		"retry_count":     orDefault(p.RetryCount, 0),
		"retry_interval":  orDefault(p.RetryInterval, 0),
		"description":     p.Description,
	}
}

// StatusParam 切换启用或暂停
type StatusParam struct {
	Status *int `json:"status" validate:"required,oneof=0 1" msg:"状态必须是0或1"`
}

// JobQuery 是分页列表的过滤条件
type JobQuery struct {
	JobName  string  `form:"job_name"`
	JobGroup *string `form:"job_group"`
	Status   *int    `form:"status" validate:"omitempty,oneof=0 1" msg:"状态必须是0或1"`
	response.PageQuery
}

// NextTimesQuery 控制预览的触发次数
type NextTimesQuery struct {
	Count int `form:"count" validate:"omitempty,min=1,max=20" msg:"次数必须在1-20之间"`
}

// NextTimes 是某个任务接下来的触发时间
type NextTimes struct {
	CronExpression string      `json:"cron_expression"`
	Times          []time.Time `json:"times"`
}

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
