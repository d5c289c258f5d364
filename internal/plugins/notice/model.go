// Package notice 提供通知公告的增删改查。
package notice

import "github.com/eginner01/rFBA-sub002/internal/store"

// 类型与状态取值
const (
	TypeNotice   = 0 // 通知
	TypeAnnounce = 1 // 公告

	StatusHidden  = 0
	StatusVisible = 1
)

// Notice 对应 sys_notice 表
type Notice struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title   string `gorm:"column:title;size:64;not null" json:"title"`
	Type    int    `gorm:"column:type;not null" json:"type"`
	Status  int    `gorm:"column:status;not null" json:"status"`
	Content string `gorm:"column:content;not null" json:"content"`
	store.Mutable
}

func (Notice) TableName() string { return "sys_notice" }
