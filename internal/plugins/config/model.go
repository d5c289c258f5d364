// Package config 提供参数配置的维护与按键读取，按键读取经过缓存。
package config

import "github.com/eginner01/rFBA-sub002/internal/store"

// Config 对应 sys_config 表
type Config struct {
	ID         int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name       string  `gorm:"column:name;size:64;not null" json:"name"`
	Type       *string `gorm:"column:type;size:32" json:"type"`
	Key        string  `gorm:"column:key;size:64;not null;uniqueIndex" json:"key"`
	Value      string  `gorm:"column:value;not null" json:"value"`
	IsFrontend bool    `gorm:"column:is_frontend;not null" json:"is_frontend"`
	Remark     *string `gorm:"column:remark" json:"remark"`
	store.Mutable
}

func (Config) TableName() string { return "sys_config" }
