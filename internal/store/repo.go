// file: internal/store/repo.go
package store

import (
	"context"
	"fmt"

	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repo 是单个实体类型的通用仓储。T 必须是带 int64 主键 `id` 的 gorm 模型。
// 实体特有的 FindBy<Field>、有序列表与作用域查询写在各自插件中，基于这里的原语组合。
type Repo[T any] struct {
	db *gorm.DB
}

// NewRepo 创建仓储
func NewRepo[T any](db *gorm.DB) *Repo[T] {
	return &Repo[T]{db: db}
}

// WithTx 返回绑定到事务的仓储副本
func (r *Repo[T]) WithTx(tx *gorm.DB) *Repo[T] {
	return &Repo[T]{db: tx}
}

// DB 返回绑定了 context 的会话
func (r *Repo[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Model 返回以 T 为模型的会话
func (r *Repo[T]) Model(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(new(T))
}

// FindByID 按主键查询单行，未命中返回 ErrNotFound
func (r *Repo[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	var row T
	if err := r.DB(ctx).Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id}).Take(&row).Error; err != nil {
		return nil, Translate(err)
	}
	return &row, nil
}

// FindOneBy 按单列等值查询单行，未命中返回 ErrNotFound
func (r *Repo[T]) FindOneBy(ctx context.Context, column string, value any, scopes ...Scope) (*T, error) {
	var row T
	err := r.DB(ctx).
		Scopes(scopes...).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		Take(&row).Error
	if err != nil {
		return nil, Translate(err)
	}
	return &row, nil
}

// FindAll 返回满足作用域的全部行，结果非 nil
func (r *Repo[T]) FindAll(ctx context.Context, scopes ...Scope) ([]T, error) {
	rows := make([]T, 0)
	if err := r.DB(ctx).Scopes(scopes...).Find(&rows).Error; err != nil {
		return nil, Translate(err)
	}
	return rows, nil
}

// Page 并发执行计数与分页查询。order 只作用于列表查询。
func (r *Repo[T]) Page(ctx context.Context, q response.PageQuery, order Scope, filters ...Scope) (response.Page[T], error) {
	q = q.Normalize()
	var (
		total int64
		rows  = make([]T, 0, q.Size)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.Model(gctx).Scopes(filters...).Count(&total).Error
	})
	g.Go(func() error {
		tx := r.DB(gctx).Scopes(filters...)
		if order != nil {
			tx = tx.Scopes(order)
		}
		return tx.Offset(q.Offset()).Limit(q.Limit()).Find(&rows).Error
	})
	if err := g.Wait(); err != nil {
		return response.Page[T]{}, Translate(err)
	}
	return response.NewPage(rows, total, q), nil
}

// Count 统计满足作用域的行数
func (r *Repo[T]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	var n int64
	if err := r.Model(ctx).Scopes(scopes...).Count(&n).Error; err != nil {
		return 0, Translate(err)
	}
	return n, nil
}

// ExistsBy 判断某列是否已存在该值，excludeID > 0 时排除该行 (用于更新时的唯一性检查)
func (r *Repo[T]) ExistsBy(ctx context.Context, column string, value any, excludeID int64) (bool, error) {
	tx := r.Model(ctx).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	if excludeID > 0 {
		tx = tx.Where(clause.Neq{Column: clause.Column{Name: "id"}, Value: excludeID})
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return false, Translate(err)
	}
	return n > 0, nil
}

// Insert 插入一行并回填主键，创建时间在这里设置
func (r *Repo[T]) Insert(ctx context.Context, row *T) error {
	StampCreated(row)
	if err := r.DB(ctx).Create(row).Error; err != nil {
		return Translate(err)
	}
	return nil
}

// InsertBatch 批量插入
func (r *Repo[T]) InsertBatch(ctx context.Context, rows []*T, batchSize int) error {
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		StampCreated(row)
	}
	if err := r.DB(ctx).CreateInBatches(rows, batchSize).Error; err != nil {
		return Translate(err)
	}
	return nil
}

// Update 按主键更新指定列，返回受影响行数。Mutable 行会同时刷新 updated_time。
func (r *Repo[T]) Update(ctx context.Context, id int64, values map[string]any) (int64, error) {
	if IsMutable(new(T)) {
		values["updated_time"] = Now()
	}
	res := r.Model(ctx).Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id}).Updates(values)
	if res.Error != nil {
		return 0, Translate(res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteByIDs 批量删除，空列表不访问数据库。带 SoftDelete 的模型只设置 deleted_time。
func (r *Repo[T]) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB(ctx).Where(clause.IN{Column: clause.Column{Name: "id"}, Values: int64s(ids)}).Delete(new(T))
	if res.Error != nil {
		return 0, Translate(res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteWhere 删除满足作用域的全部行，至少需要一个作用域
func (r *Repo[T]) DeleteWhere(ctx context.Context, scopes ...Scope) (int64, error) {
	if len(scopes) == 0 {
		return 0, fmt.Errorf("store: DeleteWhere 需要至少一个条件")
	}
	res := r.DB(ctx).Scopes(scopes...).Delete(new(T))
	if res.Error != nil {
		return 0, Translate(res.Error)
	}
	return res.RowsAffected, nil
}

// Truncate 清空整张表 (日志清理用)
func (r *Repo[T]) Truncate(ctx context.Context) (int64, error) {
	res := r.DB(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(new(T))
	if res.Error != nil {
		return 0, Translate(res.Error)
	}
	return res.RowsAffected, nil
}

// Transaction 在事务中执行 fn，fn 返回错误或 panic 时回滚
func Transaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return Translate(db.WithContext(ctx).Transaction(fn))
}

func int64s(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
