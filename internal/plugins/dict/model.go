// Package dict 提供数据字典: 字典类型及其下的字典数据。
package dict

import "github.com/eginner01/rFBA-sub002/internal/store"

// 状态取值
const (
	StatusDisabled = 0
	StatusEnabled  = 1
)

// DictType 对应 sys_dict_type 表
type DictType struct {
	ID     int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name   string  `gorm:"column:name;size:32;not null" json:"name"`
	Code   string  `gorm:"column:code;size:32;not null;uniqueIndex" json:"code"`
	Status int     `gorm:"column:status;not null" json:"status"`
	Remark *string `gorm:"column:remark" json:"remark"`
	store.Mutable
}

func (DictType) TableName() string { return "sys_dict_type" }

// DictData 对应 sys_dict_data 表
type DictData struct {
	ID        int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TypeID    int64   `gorm:"column:type_id;not null;index" json:"type_id"`
	TypeCode  string  `gorm:"column:type_code;size:32;not null;index" json:"type_code"`
	Label     string  `gorm:"column:label;size:64;not null" json:"label"`
	Value     string  `gorm:"column:value;size:64;not null" json:"value"`
	Color     *string `gorm:"column:color;size:32" json:"color"`
	Sort      int     `gorm:"column:sort;not null" json:"sort"`
	IsDefault string  `gorm:"column:is_default;size:1;not null" json:"is_default"`
	Status    int     `gorm:"column:status;not null" json:"status"`
	Remark    *string `gorm:"column:remark" json:"remark"`
	store.Mutable
}

func (DictData) TableName() string { return "sys_dict_data" }
