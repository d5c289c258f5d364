// file: internal/store/errors.go
package store

import (
	"errors"
	"fmt"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"gorm.io/gorm"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound 单行查询未命中
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate 违反唯一约束
	ErrDuplicate = errors.New("store: duplicate key")
)

// Translate 把驱动错误归一为包内哨兵错误，其余错误原样返回。插件直接使用 gorm 查询时也应调用它
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isSQLiteUnique(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// isSQLiteUnique 识别 modernc 驱动的唯一/主键约束错误，gorm 的 sqlite 方言只认识 cgo 驱动的错误类型
func isSQLiteUnique(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

// IsNotFound 与 errors.Is(err, ErrNotFound) 等价
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsDuplicate 与 errors.Is(err, ErrDuplicate) 等价
func IsDuplicate(err error) bool { return errors.Is(err, ErrDuplicate) }

// AppError 把存储层错误映射为应用错误: 未命中为 NotFound(notFound)，唯一冲突为 AlreadyExists(duplicate)，
// 其余为携带驱动消息的 DatabaseError。已是应用错误的原样返回。
func AppError(err error, notFound, duplicate string) error {
	var ae *apperr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ae):
		return ae
	case IsNotFound(err):
		return apperr.NotFound(notFound)
	case IsDuplicate(err):
		return apperr.AlreadyExists(duplicate)
	default:
		return apperr.Database(err)
	}
}
