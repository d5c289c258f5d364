package rbac

import (
	"context"
	"fmt"

	"github.com/eginner01/rFBA-sub002/internal/auth"
	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PageUsers 分页查询用户，按 ID 倒序
func (s *Service) PageUsers(ctx context.Context, q UserQuery) (response.Page[User], error) {
	p, err := s.users.Page(ctx, q.PageQuery, store.OrderBy("id", true),
		store.Contains("username", q.Username),
		store.Contains("phone", q.Phone),
		store.Eq("status", q.Status),
		store.Eq("dept_id", q.DeptID),
	)
	return p, store.AppError(err, msgUserNotFound, "")
}

// GetUser 按主键查询用户
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, store.AppError(err, msgUserNotFound, "")
	}
	return u, nil
}

// FindByUsername 按用户名查询，登录使用
func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	u, err := s.users.FindOneBy(ctx, "username", username)
	if err != nil {
		return nil, store.AppError(err, msgUserNotFound, "")
	}
	return u, nil
}

// UserDetail 返回带部门名与角色的用户
func (s *Service) UserDetail(ctx context.Context, id int64) (*UserDetail, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &UserDetail{User: *u, Roles: []RoleBrief{}}
	if u.DeptID != nil {
		if dept, err := s.depts.FindByID(ctx, *u.DeptID); err == nil {
			d.DeptName = &dept.Name
		} else if !store.IsNotFound(err) {
			return nil, apperr.Database(err)
		}
	}
	err = s.db.WithContext(ctx).
		Table("sys_role AS r").
		Select("r.id, r.name, r.status").
		Joins("JOIN sys_user_role ur ON ur.role_id = r.id").
		Where("ur.user_id = ?", id).
		Order("r.id").
		Scan(&d.Roles).Error
	if err != nil {
		return nil, apperr.Database(err)
	}
	return d, nil
}

// CreateUser 新建用户并分配角色
func (s *Service) CreateUser(ctx context.Context, p CreateUserParam) (*User, error) {
	dup := fmt.Sprintf("用户名 %s 已存在", p.Username)
	exists, err := s.users.ExistsBy(ctx, "username", p.Username, 0)
	if err != nil {
		return nil, apperr.Database(err)
	}
	if exists {
		return nil, apperr.AlreadyExists(dup)
	}
	if err := s.requireDept(ctx, p.DeptID); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	nickname := p.Nickname
	if nickname == "" {
		nickname = p.Username
	}
	u := &User{
		UUID:     uuid.NewString(),
		Username: p.Username,
		Nickname: nickname,
		Password: hash,
		Email:    p.Email,
		Phone:    p.Phone,
		Status:   StatusEnabled,
		IsStaff:  true,
		DeptID:   p.DeptID,
		JoinTime: store.Now(),
	}
	err = store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).Insert(ctx, u); err != nil {
			return err
		}
		return replaceUserRoles(ctx, tx, u.ID, unique(p.RoleIDs))
	})
	if err != nil {
		return nil, store.AppError(err, msgUserNotFound, dup)
	}
	s.invalidate()
	return u, nil
}

// UpdateUser 更新用户资料
func (s *Service) UpdateUser(ctx context.Context, id int64, p UpdateUserParam) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	if err := s.requireDept(ctx, p.DeptID); err != nil {
		return err
	}
	_, err := s.users.Update(ctx, id, p.values())
	return store.AppError(err, msgUserNotFound, "")
}

// ResetPassword 重置用户密码
func (s *Service) ResetPassword(ctx context.Context, id int64, password string) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperr.Validation(err.Error())
	}
	_, err = s.users.Update(ctx, id, map[string]any{"password": hash})
	return store.AppError(err, msgUserNotFound, "")
}

// TouchLogin 记录最后登录时间
func (s *Service) TouchLogin(ctx context.Context, id int64) error {
	_, err := s.users.Update(ctx, id, map[string]any{"last_login_time": store.Now()})
	return store.AppError(err, msgUserNotFound, "")
}

// ReplaceUserRoles 整体替换用户的角色
func (s *Service) ReplaceUserRoles(ctx context.Context, id int64, roleIDs []int64) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		return replaceUserRoles(ctx, tx, id, unique(roleIDs))
	})
	if err != nil {
		return store.AppError(err, msgRoleNotFound, "")
	}
	s.invalidate()
	return nil
}

// DeleteUsers 软删除用户，不能删除当前登录用户
func (s *Service) DeleteUsers(ctx context.Context, ids []int64) (int64, error) {
	if ac := domain.AuthFrom(ctx); ac != nil {
		for _, id := range ids {
			if id == ac.UserID {
				return 0, apperr.OperationFailed("不能删除当前登录用户")
			}
		}
	}
	n, err := s.users.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, store.AppError(err, msgUserNotFound, "")
	}
	s.invalidate()
	return n, nil
}

func (s *Service) requireDept(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := s.depts.FindByID(ctx, *id); err != nil {
		return store.AppError(err, msgDeptNotFound, "")
	}
	return nil
}

// EnsureSuperuser 在没有任何超级管理员时创建一个，已存在时什么也不做
func (s *Service) EnsureSuperuser(ctx context.Context, username, password, nickname string, email *string) (bool, error) {
	yes := true
	n, err := s.users.Count(ctx, store.Eq("is_superuser", &yes))
	if err != nil {
		return false, apperr.Database(err)
	}
	if n > 0 {
		return false, nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	if nickname == "" {
		nickname = username
	}
	u := &User{
		UUID:        uuid.NewString(),
		Username:    username,
		Nickname:    nickname,
		Password:    hash,
		Email:       email,
		Status:      StatusEnabled,
		IsSuperuser: true,
		IsStaff:     true,
		JoinTime:    store.Now(),
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return false, store.AppError(err, msgUserNotFound, fmt.Sprintf("用户名 %s 已存在", username))
	}
	return true, nil
}
