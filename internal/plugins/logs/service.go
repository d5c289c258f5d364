// Package logs 查询与清理审计日志。日志由中间件与认证插件写入，这里只读和删除。
package logs

import (
	"context"
	"log/slog"

	"github.com/eginner01/rFBA-sub002/internal/auditlog"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"gorm.io/gorm"
)

// Service 覆盖三个日志流
type Service struct {
	access *store.Repo[auditlog.AccessLog]
	opera  *store.Repo[auditlog.OperaLog]
	login  *store.Repo[auditlog.LoginLog]
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		access: store.NewRepo[auditlog.AccessLog](db),
		opera:  store.NewRepo[auditlog.OperaLog](db),
		login:  store.NewRepo[auditlog.LoginLog](db),
	}
}

var newestFirst = store.OrderBy("id", true)

// PageAccess 分页查询访问日志，最新的在前
func (s *Service) PageAccess(ctx context.Context, q AccessQuery) (response.Page[auditlog.AccessLog], error) {
	p, err := s.access.Page(ctx, q.PageQuery, newestFirst,
		store.Contains("username", q.Username),
		store.Contains("ip", q.IP),
		store.Contains("path", q.Path),
		store.Eq("method", q.Method),
		store.Eq("status", q.Status),
		store.Eq("is_error", q.IsError),
	)
	return p, store.AppError(err, "", "")
}

// PageOpera 分页查询操作日志
func (s *Service) PageOpera(ctx context.Context, q OperaQuery) (response.Page[auditlog.OperaLog], error) {
	p, err := s.opera.Page(ctx, q.PageQuery, newestFirst,
		store.Contains("username", q.Username),
		store.Contains("ip", q.IP),
		store.Contains("title", q.Title),
		store.Eq("business_type", q.BusinessType),
		store.Eq("status", q.Status),
	)
	return p, store.AppError(err, "", "")
}

// PageLogin 分页查询登录日志
func (s *Service) PageLogin(ctx context.Context, q LoginQuery) (response.Page[auditlog.LoginLog], error) {
	p, err := s.login.Page(ctx, q.PageQuery, newestFirst,
		store.Contains("username", q.Username),
		store.Contains("ip", q.IP),
		store.Eq("status", q.Status),
	)
	return p, store.AppError(err, "", "")
}

func (s *Service) DeleteAccess(ctx context.Context, ids []int64) (int64, error) {
	n, err := s.access.DeleteByIDs(ctx, ids)
	return n, store.AppError(err, "", "")
}

func (s *Service) DeleteOpera(ctx context.Context, ids []int64) (int64, error) {
	n, err := s.opera.DeleteByIDs(ctx, ids)
	return n, store.AppError(err, "", "")
}

func (s *Service) DeleteLogin(ctx context.Context, ids []int64) (int64, error) {
	n, err := s.login.DeleteByIDs(ctx, ids)
	return n, store.AppError(err, "", "")
}

// ClearAccess 清空访问日志
func (s *Service) ClearAccess(ctx context.Context) (int64, error) {
	return clearStream(ctx, "access", s.access.Truncate)
}

// ClearOpera 清空操作日志
func (s *Service) ClearOpera(ctx context.Context) (int64, error) {
	return clearStream(ctx, "opera", s.opera.Truncate)
}

// ClearLogin 清空登录日志
func (s *Service) ClearLogin(ctx context.Context) (int64, error) {
	return clearStream(ctx, "login", s.login.Truncate)
}

func clearStream(ctx context.Context, stream string, truncate func(context.Context) (int64, error)) (int64, error) {
	n, err := truncate(ctx)
	if err != nil {
		return 0, store.AppError(err, "", "")
	}
	slog.Info("日志已清空", "stream", stream, "rows", n)
	return n, nil
}
