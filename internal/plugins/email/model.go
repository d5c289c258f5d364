// Package email 通过 SMTP 发送邮件并保存发送记录。
// 请求只写入待发送记录，实际投递在后台完成后回写状态。
package email

import (
	"time"

	"github.com/eginner01/rFBA-sub002/internal/store"
)

// 发送状态
const (
	StatusPending = 0
	StatusSuccess = 1
	StatusFailed  = 2
)

// Record 对应 sys_email_record 表
type Record struct {
	ID       int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ToEmail  string     `gorm:"column:to_email;size:256;not null" json:"to_email"`
	Subject  string     `gorm:"column:subject;size:256;not null" json:"subject"`
	Content  string     `gorm:"column:content;not null" json:"content"`
	IsHTML   bool       `gorm:"column:is_html;not null" json:"is_html"`
	Status   int        `gorm:"column:status;not null" json:"status"`
	ErrorMsg *string    `gorm:"column:error_msg" json:"error_msg"`
	SendTime *time.Time `gorm:"column:send_time" json:"send_time"`
	store.AppendOnly
}

func (Record) TableName() string { return "sys_email_record" }
