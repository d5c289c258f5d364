package rbac

import (
	"context"
	"fmt"
	"sort"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllRoles 按 ID 升序返回全部角色
func (s *Service) AllRoles(ctx context.Context) ([]Role, error) {
	rows, err := s.roles.FindAll(ctx, store.OrderBy("id", false))
	return rows, store.AppError(err, msgRoleNotFound, "")
}

// PageRoles 分页查询角色
func (s *Service) PageRoles(ctx context.Context, q RoleQuery) (response.Page[Role], error) {
	p, err := s.roles.Page(ctx, q.PageQuery, store.OrderBy("id", false),
		store.Contains("name", q.Name),
		store.Eq("status", q.Status),
	)
	return p, store.AppError(err, msgRoleNotFound, "")
}

// GetRole 返回带权限码的角色
func (s *Service) GetRole(ctx context.Context, id int64) (*RoleDetail, error) {
	r, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, store.AppError(err, msgRoleNotFound, "")
	}
	perms, err := s.RolePermissions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RoleDetail{Role: *r, Permissions: perms}, nil
}

// RolePermissions 返回角色的权限码，按字典序
func (s *Service) RolePermissions(ctx context.Context, id int64) ([]string, error) {
	perms := make([]string, 0)
	err := s.db.WithContext(ctx).Model(&RolePermission{}).
		Where(clause.Eq{Column: clause.Column{Name: "role_id"}, Value: id}).
		Order("permission").
		Pluck("permission", &perms).Error
	if err != nil {
		return nil, apperr.Database(err)
	}
	return perms, nil
}

// CreateRole 新建角色，名称唯一
func (s *Service) CreateRole(ctx context.Context, p RoleParam) (*Role, error) {
	dup := fmt.Sprintf("角色 %s 已存在", p.Name)
	exists, err := s.roles.ExistsBy(ctx, "name", p.Name, 0)
	if err != nil {
		return nil, apperr.Database(err)
	}
	if exists {
		return nil, apperr.AlreadyExists(dup)
	}
	status := StatusEnabled
	if p.Status != nil {
		status = *p.Status
	}
	r := &Role{Name: p.Name, Status: status, Remark: p.Remark}
	if err := s.roles.Insert(ctx, r); err != nil {
		return nil, store.AppError(err, msgRoleNotFound, dup)
	}
	return r, nil
}

// UpdateRole 更新角色，状态变化会影响权限
func (s *Service) UpdateRole(ctx context.Context, id int64, p RoleParam) error {
	current, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return store.AppError(err, msgRoleNotFound, "")
	}
	dup := fmt.Sprintf("角色 %s 已存在", p.Name)
	exists, err := s.roles.ExistsBy(ctx, "name", p.Name, id)
	if err != nil {
		return apperr.Database(err)
	}
	if exists {
		return apperr.AlreadyExists(dup)
	}
	values := map[string]any{"name": p.Name, "remark": p.Remark}
	if p.Status != nil {
		values["status"] = *p.Status
	}
	if _, err := s.roles.Update(ctx, id, values); err != nil {
		return store.AppError(err, msgRoleNotFound, dup)
	}
	if p.Status != nil && *p.Status != current.Status {
		s.invalidate()
	}
	return nil
}

// ReplaceRolePermissions 整体替换角色的权限码
func (s *Service) ReplaceRolePermissions(ctx context.Context, id int64, perms []string) error {
	if _, err := s.roles.FindByID(ctx, id); err != nil {
		return store.AppError(err, msgRoleNotFound, "")
	}
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	codes := make([]string, 0, len(set))
	for p := range set {
		codes = append(codes, p)
	}
	sort.Strings(codes)

	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		tx = tx.WithContext(ctx)
		if err := tx.Where(clause.Eq{Column: clause.Column{Name: "role_id"}, Value: id}).Delete(&RolePermission{}).Error; err != nil {
			return err
		}
		if len(codes) == 0 {
			return nil
		}
		rows := make([]RolePermission, 0, len(codes))
		for _, c := range codes {
			rows = append(rows, RolePermission{RoleID: id, Permission: c})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return store.AppError(err, msgRoleNotFound, "")
	}
	s.invalidate()
	return nil
}

// DeleteRoles 删除角色及其用户关联与权限码
func (s *Service) DeleteRoles(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		byRole := store.In("role_id", ids)
		if err := tx.WithContext(ctx).Scopes(byRole).Delete(&UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Scopes(byRole).Delete(&RolePermission{}).Error; err != nil {
			return err
		}
		var err error
		n, err = s.roles.WithTx(tx).DeleteByIDs(ctx, ids)
		return err
	})
	if err != nil {
		return 0, store.AppError(err, msgRoleNotFound, "")
	}
	s.invalidate()
	return n, nil
}
