// Package authn 提供登录与当前用户查询。登录结果写入登录日志，连续失败按 IP + 用户名临时锁定。
package authn

import (
	"context"
	"errors"
	"log/slog"

	"github.com/eginner01/rFBA-sub002/internal/auth"
	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
	"github.com/eginner01/rFBA-sub002/internal/plugins/rbac"
	"github.com/eginner01/rFBA-sub002/internal/store"
)

const (
	msgBadCredentials = "用户名或密码有误"
	msgUserDisabled   = "用户已被锁定, 请联系统管理员"
	msgLocked         = "登录失败次数过多，请稍后再试"
)

// Client 是发起登录的客户端
type Client struct {
	IP        string
	UserAgent string
}

// Service 校验凭据并签发令牌
type Service struct {
	users  *rbac.Service
	auth   port.Authority
	logins port.LoginRecorder
	lock   *auth.LoginFailureLock
}

// NewService 创建服务，logins 可为 nil
func NewService(users *rbac.Service, authority port.Authority, logins port.LoginRecorder, lock *auth.LoginFailureLock) *Service {
	return &Service{users: users, auth: authority, logins: logins, lock: lock}
}

// Login 校验用户名与密码，成功时签发令牌并更新最后登录时间
func (s *Service) Login(ctx context.Context, p LoginParam, client Client) (*LoginResult, error) {
	if s.lock.Locked(client.IP, p.Username) {
		s.record(ctx, "", p.Username, false, msgLocked, client)
		return nil, apperr.New(apperr.KindTooManyRequests, msgLocked)
	}

	u, err := s.users.FindByUsername(ctx, p.Username)
	if err != nil {
		if !errors.Is(err, apperr.Sentinel(apperr.KindNotFound)) {
			return nil, err
		}
		return nil, s.fail(ctx, "", p.Username, client)
	}
	if !auth.CheckPassword(u.Password, p.Password) {
		return nil, s.fail(ctx, u.UUID, u.Username, client)
	}
	if u.Status != rbac.StatusEnabled {
		s.record(ctx, u.UUID, u.Username, false, msgUserDisabled, client)
		return nil, apperr.OperationFailed(msgUserDisabled)
	}

	token, expires, err := s.auth.IssueToken(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	s.lock.Reset(client.IP, p.Username)
	if err := s.users.TouchLogin(ctx, u.ID); err != nil {
		slog.Warn("更新最后登录时间失败", "user_id", u.ID, "error", err)
	}
	s.record(ctx, u.UUID, u.Username, true, "登录成功", client)

	detail, err := s.users.UserDetail(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token, AccessTokenExpireTime: expires, User: detail}, nil
}

func (s *Service) fail(ctx context.Context, uuid, username string, client Client) error {
	if s.lock.Fail(client.IP, username) {
		s.record(ctx, uuid, username, false, msgLocked, client)
		return apperr.New(apperr.KindTooManyRequests, msgLocked)
	}
	s.record(ctx, uuid, username, false, msgBadCredentials, client)
	return apperr.OperationFailed(msgBadCredentials)
}

func (s *Service) record(ctx context.Context, uuid, username string, ok bool, msg string, client Client) {
	if s.logins == nil {
		return
	}
	s.logins.RecordLogin(ctx, domain.LoginEvent{
		UserUUID:  uuid,
		Username:  username,
		Success:   ok,
		Msg:       msg,
		IP:        client.IP,
		UserAgent: client.UserAgent,
		Time:      store.Now(),
	})
}

// Me 返回当前登录用户的详情
func (s *Service) Me(ctx context.Context) (*rbac.UserDetail, error) {
	ac := domain.AuthFrom(ctx)
	if ac == nil {
		return nil, apperr.PermissionDenied()
	}
	return s.users.UserDetail(ctx, ac.UserID)
}
