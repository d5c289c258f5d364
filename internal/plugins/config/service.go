package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/cache"
	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"gorm.io/gorm"
)

const (
	// CachePrefix 是按键缓存的前缀
	CachePrefix = "config:"
	// CacheTTL 是单个配置的缓存时长
	CacheTTL = time.Hour

	msgNotFound = "配置不存在"
)

// Service 封装参数配置的业务规则
type Service struct {
	repo  *store.Repo[Config]
	cache cache.Cache
}

// NewService 创建服务
func NewService(db *gorm.DB, c cache.Cache) *Service {
	return &Service{repo: store.NewRepo[Config](db), cache: c}
}

func cacheKey(key string) string { return CachePrefix + key }

// All 按 ID 升序返回配置，可按类型过滤
func (s *Service) All(ctx context.Context, typ *string) ([]Config, error) {
	rows, err := s.repo.FindAll(ctx, store.Eq("type", typ), store.OrderBy("id", false))
	return rows, store.AppError(err, msgNotFound, "")
}

// Get 按主键查询
func (s *Service) Get(ctx context.Context, id int64) (*Config, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, store.AppError(err, msgNotFound, "")
	}
	return row, nil
}

// FindByKey 按配置键查询，优先读缓存。缓存故障只记录日志，不影响读取。
func (s *Service) FindByKey(ctx context.Context, key string) (*Config, error) {
	cached, err := cache.GetJSON[Config](ctx, s.cache, cacheKey(key))
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, cache.ErrMiss):
		slog.WarnContext(ctx, "读取配置缓存失败", "key", key, "error", err)
	}

	row, err := s.repo.FindOneBy(ctx, "key", key)
	if err != nil {
		return nil, store.AppError(err, fmt.Sprintf("配置键 %s 不存在", key), "")
	}
	if err := cache.SetJSON(ctx, s.cache, cacheKey(key), row, CacheTTL); err != nil {
		slog.WarnContext(ctx, "写入配置缓存失败", "key", key, "error", err)
	}
	return row, nil
}

// Page 分页查询
func (s *Service) Page(ctx context.Context, q Query) (response.Page[Config], error) {
	p, err := s.repo.Page(ctx, q.PageQuery, store.OrderBy("id", false),
		store.Contains("name", q.Name),
		store.Contains("key", q.Key),
		store.Eq("is_frontend", q.IsFrontend),
	)
	return p, store.AppError(err, msgNotFound, "")
}

// Create 新建配置，配置键必须唯一
func (s *Service) Create(ctx context.Context, p CreateParam) (*Config, error) {
	dup := fmt.Sprintf("配置键 %s 已存在", p.Key)
	exists, err := s.repo.ExistsBy(ctx, "key", p.Key, 0)
	if err != nil {
		return nil, apperr.Database(err)
	}
	if exists {
		return nil, apperr.AlreadyExists(dup)
	}
	row := &Config{
		Name:       p.Name,
		Key:        p.Key,
		Value:      p.Value,
		Type:       p.Type,
		IsFrontend: p.IsFrontend,
		Remark:     p.Remark,
	}
	// 并发创建时由唯一索引兜底
	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, store.AppError(err, msgNotFound, dup)
	}
	return row, nil
}

// Update 更新配置并清除对应缓存
func (s *Service) Update(ctx context.Context, id int64, p UpdateParam) error {
	row, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.repo.Update(ctx, id, p.values()); err != nil {
		return store.AppError(err, msgNotFound, "")
	}
	s.evict(ctx, row.Key)
	return nil
}

// Delete 批量删除并清除对应缓存
func (s *Service) Delete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	rows, err := s.repo.FindAll(ctx, store.In("id", ids))
	if err != nil {
		return 0, store.AppError(err, msgNotFound, "")
	}
	n, err := s.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, store.AppError(err, msgNotFound, "")
	}
	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		keys = append(keys, r.Key)
	}
	s.evict(ctx, keys...)
	return n, nil
}

// Refresh 清空配置缓存并按数据库重建
func (s *Service) Refresh(ctx context.Context) error {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return store.AppError(err, msgNotFound, "")
	}
	if err := s.cache.DeletePrefix(ctx, CachePrefix); err != nil {
		return apperr.Wrap(apperr.KindOperationFailed, err, "清理配置缓存失败")
	}
	for i := range rows {
		if err := cache.SetJSON(ctx, s.cache, cacheKey(rows[i].Key), &rows[i], CacheTTL); err != nil {
			return apperr.Wrap(apperr.KindOperationFailed, err, "写入配置缓存失败")
		}
	}
	return nil
}

func (s *Service) evict(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = cacheKey(k)
	}
	if err := s.cache.Delete(ctx, full...); err != nil {
		slog.WarnContext(ctx, "清除配置缓存失败", "keys", keys, "error", err)
	}
}
