// file: internal/store/scope.go
package store

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope 是可组合的查询条件，与 gorm.DB.Scopes 的参数类型一致
type Scope = func(*gorm.DB) *gorm.DB

// likeEscaper 转义 LIKE 通配符，配合 ESCAPE '!' 使用
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Contains 大小写不敏感的子串匹配，v 为空时不加条件。
// postgres 使用 ILIKE，mysql 与 sqlite 的 LIKE 默认即大小写不敏感。
func Contains(column, v string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if v == "" {
			return db
		}
		op := "LIKE"
		if db.Dialector.Name() == DialectPostgres {
			op = "ILIKE"
		}
		pattern := "%" + likeEscaper.Replace(v) + "%"
		return db.Where("? "+op+" ? ESCAPE '!'", clause.Column{Name: column}, pattern)
	}
}

// Eq 等值条件，v 为 nil 时不加条件
func Eq[V any](column string, v *V) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if v == nil {
			return db
		}
		return db.Where(clause.Eq{Column: clause.Column{Name: column}, Value: *v})
	}
}

// In 集合条件，空集合匹配不到任何行
func In[V any](column string, vs []V) Scope {
	return func(db *gorm.DB) *gorm.DB {
		values := make([]any, 0, len(vs))
		for _, v := range vs {
			values = append(values, v)
		}
		return db.Where(clause.IN{Column: clause.Column{Name: column}, Values: values})
	}
}

// OrderBy 按列排序，desc 为真时降序
func OrderBy(column string, desc bool) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
	}
}
