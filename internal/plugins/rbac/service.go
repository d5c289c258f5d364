package rbac

import (
	"context"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	msgUserNotFound = "用户不存在"
	msgRoleNotFound = "角色不存在"
	msgDeptNotFound = "部门不存在"
)

// Service 封装用户、角色与部门的业务规则
type Service struct {
	db    *gorm.DB
	users *store.Repo[User]
	roles *store.Repo[Role]
	depts *store.Repo[Dept]
	auth  port.Authority
}

// NewService 创建服务。auth 为 nil 时不清理权限缓存。
func NewService(db *gorm.DB, auth port.Authority) *Service {
	return &Service{
		db:    db,
		users: store.NewRepo[User](db),
		roles: store.NewRepo[Role](db),
		depts: store.NewRepo[Dept](db),
		auth:  auth,
	}
}

// invalidate 在角色、权限或用户归属变化后调用
func (s *Service) invalidate() {
	if s.auth != nil {
		s.auth.InvalidatePermissions()
	}
}

// requireRoles 确认全部角色存在
func requireRoles(ctx context.Context, tx *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := store.NewRepo[Role](tx).Count(ctx, store.In("id", ids))
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return apperr.NotFound(msgRoleNotFound)
	}
	return nil
}

// replaceUserRoles 在事务内整体替换用户的角色
func replaceUserRoles(ctx context.Context, tx *gorm.DB, userID int64, roleIDs []int64) error {
	if err := requireRoles(ctx, tx, roleIDs); err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: "user_id"}, Value: userID}).Delete(&UserRole{}).Error; err != nil {
		return err
	}
	if len(roleIDs) == 0 {
		return nil
	}
	rows := make([]UserRole, 0, len(roleIDs))
	for _, id := range roleIDs {
		rows = append(rows, UserRole{UserID: userID, RoleID: id})
	}
	return tx.WithContext(ctx).Create(&rows).Error
}

func unique(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
