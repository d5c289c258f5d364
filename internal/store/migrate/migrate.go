// Package migrate 维护只追加的有序迁移列表，并把已执行的版本记录在 sys_migration 表中。
package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// Migration 是一次结构变更。已发布的迁移不可修改，只能追加新版本。
type Migration struct {
	Version int
	Name    string
	Up      func(tx *gorm.DB) error
}

// record 是 sys_migration 表的行
type record struct {
	Version     int       `gorm:"column:version;primaryKey;autoIncrement:false"`
	Name        string    `gorm:"column:name;size:128;not null"`
	AppliedTime time.Time `gorm:"column:applied_time;not null"`
}

func (record) TableName() string { return "sys_migration" }

// Check 校验版本号严格递增
func Check(list []Migration) error {
	prev := 0
	for _, m := range list {
		if m.Version <= prev {
			return fmt.Errorf("迁移版本必须严格递增: %d (%s) 出现在 %d 之后", m.Version, m.Name, prev)
		}
		if m.Up == nil {
			return fmt.Errorf("迁移 %d (%s) 缺少 Up", m.Version, m.Name)
		}
		prev = m.Version
	}
	return nil
}

// Run 依次执行尚未执行的迁移，每个迁移在独立事务中运行，返回本次执行的版本号
func Run(ctx context.Context, db *gorm.DB, list []Migration) ([]int, error) {
	if err := Check(list); err != nil {
		return nil, err
	}
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("创建 sys_migration 失败: %w", err)
	}

	var done []int
	if err := db.Model(&record{}).Order("version").Pluck("version", &done).Error; err != nil {
		return nil, fmt.Errorf("读取已执行迁移失败: %w", err)
	}
	applied := make(map[int]bool, len(done))
	for _, v := range done {
		applied[v] = true
	}

	var ran []int
	for _, m := range list {
		if applied[m.Version] {
			continue
		}
		start := time.Now()
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Version: m.Version, Name: m.Name, AppliedTime: time.Now()}).Error
		})
		if err != nil {
			return ran, fmt.Errorf("执行迁移 %d (%s) 失败: %w", m.Version, m.Name, err)
		}
		slog.Info("迁移已执行", "version", m.Version, "name", m.Name, "elapsed", time.Since(start))
		ran = append(ran, m.Version)
	}
	return ran, nil
}

// Pending 返回尚未执行的迁移
func Pending(ctx context.Context, db *gorm.DB, list []Migration) ([]Migration, error) {
	db = db.WithContext(ctx)
	if !db.Migrator().HasTable(&record{}) {
		return list, nil
	}
	var done []int
	if err := db.Model(&record{}).Pluck("version", &done).Error; err != nil {
		return nil, err
	}
	applied := make(map[int]bool, len(done))
	for _, v := range done {
		applied[v] = true
	}
	var out []Migration
	for _, m := range list {
		if !applied[m.Version] {
			out = append(out, m)
		}
	}
	return out, nil
}

// createTables 创建给定的表，表已存在时报错以暴露结构漂移
func createTables(tx *gorm.DB, models ...any) error {
	for _, m := range models {
		if err := tx.Migrator().CreateTable(m); err != nil {
			return err
		}
	}
	return nil
}
