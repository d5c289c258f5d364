// Package schedule 维护定时任务定义。这里只管理 sys_schedule_job 中的元数据并校验 Cron 表达式，
// 不在进程内执行任务。
package schedule

import "github.com/eginner01/rFBA-sub002/internal/store"

// 任务状态
const (
	StatusNormal = 0 // 正常
	StatusPaused = 1 // 暂停
)

// 错过触发时的策略
const (
	MisfireDefault   = 0
	MisfireFireNow   = 1
	MisfireFireOnce  = 2
	MisfireDoNothing = 3
)

// 并发执行: 0 允许，1 禁止
const (
	ConcurrentAllow  = 0
	ConcurrentForbid = 1
)

const (
	// DefaultGroup 是未指定分组时的任务分组
	DefaultGroup = "DEFAULT"
	// DefaultPriority 取 1-10 的中间值
	DefaultPriority = 5
)

// ScheduleJob 对应 sys_schedule_job 表，(job_name, job_group) 唯一
type ScheduleJob struct {
	ID             int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	JobName        string  `gorm:"column:job_name;size:64;not null" json:"job_name"`
	JobGroup       string  `gorm:"column:job_group;size:64;not null" json:"job_group"`
	BeanName       string  `gorm:"column:bean_name;size:128;not null" json:"bean_name"`
	MethodName     string  `gorm:"column:method_name;size:64;not null" json:"method_name"`
	MethodParams   *string `gorm:"column:method_params" json:"method_params"`
	CronExpression string  `gorm:"column:cron_expression;size:128;not null" json:"cron_expression"`
	MisfirePolicy  int     `gorm:"column:misfire_policy;not null" json:"misfire_policy"`
	Concurrent     int     `gorm:"column:concurrent;not null" json:"concurrent"`
	Status         int     `gorm:"column:status;not null" json:"status"`
	Priority       int     `gorm:"column:priority;not null" json:"priority"`
	Timeout        int     `gorm:"column:timeout;not null" json:"timeout"`
	RetryCount     int     `gorm:"column:retry_count;not null" json:"retry_count"`
	RetryInterval  int     `gorm:"column:retry_interval;not null" json:"retry_interval"`
	Description    *string `gorm:"column:description" json:"description"`
	CreateBy       *string `gorm:"column:create_by;size:64" json:"create_by"`
	UpdateBy       *string `gorm:"column:update_by;size:64" json:"update_by"`
	store.Mutable
}

func (ScheduleJob) TableName() string { return "sys_schedule_job" }
