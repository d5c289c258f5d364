// file: internal/auth/resolver.go
package auth

import (
	"context"
	"errors"

	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"gorm.io/gorm"
)

type userRow struct {
	ID          int64
	UUID        string
	Username    string
	Nickname    string
	Status      int
	IsSuperuser bool
	DeptID      *int64
	DeletedTime gorm.DeletedAt `gorm:"column:deleted_time"`
}

func (userRow) TableName() string { return "sys_user" }

type deptRow struct {
	ID          int64
	Name        string
	DeletedTime gorm.DeletedAt `gorm:"column:deleted_time"`
}

func (deptRow) TableName() string { return "sys_dept" }

// DBResolver 直接读取 RBAC 表
type DBResolver struct {
	db *gorm.DB
}

var _ Resolver = (*DBResolver)(nil)

func NewDBResolver(db *gorm.DB) *DBResolver {
	return &DBResolver{db: db}
}

func (r *DBResolver) LoadUser(ctx context.Context, userID int64) (*domain.AuthContext, error) {
	var u userRow
	err := r.db.WithContext(ctx).Where("id = ?", userID).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserUnavailable
	}
	if err != nil {
		return nil, err
	}
	if u.Status != 1 {
		return nil, ErrUserUnavailable
	}

	ac := &domain.AuthContext{
		UserID:   u.ID,
		UUID:     u.UUID,
		Username: u.Username,
		Nickname: u.Nickname,
		DeptID:   u.DeptID,
		IsSuper:  u.IsSuperuser,
	}
	if u.DeptID != nil {
		var d deptRow
		err := r.db.WithContext(ctx).Where("id = ?", *u.DeptID).Take(&d).Error
		switch {
		case err == nil:
			ac.DeptName = &d.Name
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}
	return ac, nil
}

func (r *DBResolver) LoadPermissions(ctx context.Context, userID int64) (map[string]struct{}, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Table("sys_role_permission AS rp").
		Joins("JOIN sys_user_role ur ON ur.role_id = rp.role_id").
		Joins("JOIN sys_role r ON r.id = rp.role_id").
		Where("ur.user_id = ? AND r.status = ?", userID, 1).
		Distinct().
		Pluck("rp.permission", &codes).Error
	if err != nil {
		return nil, store.Translate(err)
	}
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set, nil
}
