package notice

import (
	"context"

	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"gorm.io/gorm"
)

const msgNotFound = "通知公告不存在"

// Service 封装通知公告的业务规则
type Service struct {
	repo *store.Repo[Notice]
}

// NewService 创建服务
func NewService(db *gorm.DB) *Service {
	return &Service{repo: store.NewRepo[Notice](db)}
}

// All 按 ID 倒序返回全部通知
func (s *Service) All(ctx context.Context) ([]Notice, error) {
	rows, err := s.repo.FindAll(ctx, store.OrderBy("id", true))
	return rows, store.AppError(err, msgNotFound, "")
}

// FindVisible 返回状态为显示的通知
func (s *Service) FindVisible(ctx context.Context) ([]Notice, error) {
	status := StatusVisible
	rows, err := s.repo.FindAll(ctx, store.Eq("status", &status), store.OrderBy("id", true))
	return rows, store.AppError(err, msgNotFound, "")
}

// Get 查询单条通知
func (s *Service) Get(ctx context.Context, id int64) (*Notice, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, store.AppError(err, msgNotFound, "")
	}
	return row, nil
}

// Page 分页查询
func (s *Service) Page(ctx context.Context, q NoticeQuery) (response.Page[Notice], error) {
	p, err := s.repo.Page(ctx, q.PageQuery, store.OrderBy("id", true),
		store.Contains("title", q.Title),
		store.Eq("type", q.Type),
		store.Eq("status", q.Status),
	)
	return p, store.AppError(err, msgNotFound, "")
}

// Create 新建通知并返回完整行
func (s *Service) Create(ctx context.Context, p NoticeParam) (*Notice, error) {
	row := &Notice{Title: p.Title, Type: p.Type, Status: p.Status, Content: p.Content}
	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, store.AppError(err, msgNotFound, "")
	}
	return row, nil
}

// Update 整体更新一条通知
func (s *Service) Update(ctx context.Context, id int64, p NoticeParam) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	_, err := s.repo.Update(ctx, id, p.values())
	return store.AppError(err, msgNotFound, "")
}

// Delete 批量删除，不存在的 ID 被忽略
func (s *Service) Delete(ctx context.Context, ids []int64) (int64, error) {
	n, err := s.repo.DeleteByIDs(ctx, ids)
	return n, store.AppError(err, msgNotFound, "")
}
