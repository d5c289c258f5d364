// file: internal/store/model.go
package store

import (
	"time"

	"gorm.io/gorm"
)

// Now 是存储层使用的时钟，测试中可以替换
var Now = time.Now

// AppendOnly 只记录创建时间，适用于写入后不再修改的行 (日志、发送记录)
type AppendOnly struct {
	CreatedTime time.Time `gorm:"column:created_time;not null" json:"created_time"`
}

func (m *AppendOnly) stampCreated(t time.Time) {
	if m.CreatedTime.IsZero() {
		m.CreatedTime = t
	}
}

// Mutable 记录创建与更新时间。更新时间在插入时为空，之后每次修改都会刷新。
type Mutable struct {
	CreatedTime time.Time  `gorm:"column:created_time;not null" json:"created_time"`
	UpdatedTime *time.Time `gorm:"column:updated_time" json:"updated_time"`
}

func (m *Mutable) stampCreated(t time.Time) {
	if m.CreatedTime.IsZero() {
		m.CreatedTime = t
	}
}

func (m *Mutable) mutable() {}

// SoftDelete 让 gorm 把删除改写为设置 deleted_time，并在默认查询中排除已删除行
type SoftDelete struct {
	DeletedTime gorm.DeletedAt `gorm:"column:deleted_time;index" json:"-"`
}

type creatable interface{ stampCreated(time.Time) }

type mutableRow interface{ mutable() }

// StampCreated 为实现了时间戳策略的行填充创建时间
func StampCreated(row any) {
	if c, ok := row.(creatable); ok {
		c.stampCreated(Now())
	}
}

// IsMutable 报告行类型是否需要维护 updated_time
func IsMutable(row any) bool {
	_, ok := row.(mutableRow)
	return ok
}
