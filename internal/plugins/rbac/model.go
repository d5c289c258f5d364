// Package rbac 维护用户、角色、部门以及角色的权限码。
// 认证中间件直接读取这些表，这里的写操作在权限变化后清空权限缓存。
package rbac

import (
	"time"

	"github.com/eginner01/rFBA-sub002/internal/store"
)

// 状态取值
const (
	StatusDisabled = 0
	StatusEnabled  = 1
)

// User 对应 sys_user 表，软删除
type User struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UUID          string     `gorm:"column:uuid;size:64;not null;uniqueIndex" json:"uuid"`
	Username      string     `gorm:"column:username;size:64;not null;uniqueIndex" json:"username"`
	Nickname      string     `gorm:"column:nickname;size:64;not null" json:"nickname"`
	Password      string     `gorm:"column:password;size:255;not null" json:"-"`
	Email         *string    `gorm:"column:email;size:256" json:"email"`
	Phone         *string    `gorm:"column:phone;size:11" json:"phone"`
	Avatar        *string    `gorm:"column:avatar;size:256" json:"avatar"`
	Status        int        `gorm:"column:status;not null" json:"status"`
	IsSuperuser   bool       `gorm:"column:is_superuser;not null" json:"is_superuser"`
	IsStaff       bool       `gorm:"column:is_staff;not null" json:"is_staff"`
	IsMultiLogin  bool       `gorm:"column:is_multi_login;not null" json:"is_multi_login"`
	DeptID        *int64     `gorm:"column:dept_id;index" json:"dept_id"`
	JoinTime      time.Time  `gorm:"column:join_time;not null" json:"join_time"`
	LastLoginTime *time.Time `gorm:"column:last_login_time" json:"last_login_time"`
	store.Mutable
	store.SoftDelete
}

func (User) TableName() string { return "sys_user" }

// Role 对应 sys_role 表
type Role struct {
	ID     int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name   string  `gorm:"column:name;size:32;not null;uniqueIndex" json:"name"`
	Status int     `gorm:"column:status;not null" json:"status"`
	Remark *string `gorm:"column:remark" json:"remark"`
	store.Mutable
}

func (Role) TableName() string { return "sys_role" }

// Dept 对应 sys_dept 表，软删除
type Dept struct {
	ID       int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name     string  `gorm:"column:name;size:64;not null" json:"name"`
	ParentID *int64  `gorm:"column:parent_id;index" json:"parent_id"`
	Sort     int     `gorm:"column:sort;not null" json:"sort"`
	Leader   *string `gorm:"column:leader;size:32" json:"leader"`
	Phone    *string `gorm:"column:phone;size:11" json:"phone"`
	Email    *string `gorm:"column:email;size:64" json:"email"`
	Status   int     `gorm:"column:status;not null" json:"status"`
	store.Mutable
	store.SoftDelete
}

func (Dept) TableName() string { return "sys_dept" }

// UserRole 是用户与角色的关联
type UserRole struct {
	ID     int64 `gorm:"column:id;primaryKey;autoIncrement"`
	UserID int64 `gorm:"column:user_id;not null"`
	RoleID int64 `gorm:"column:role_id;not null"`
}

func (UserRole) TableName() string { return "sys_user_role" }

// RolePermission 是角色拥有的权限码
type RolePermission struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	RoleID     int64  `gorm:"column:role_id;not null"`
	Permission string `gorm:"column:permission;size:128;not null"`
}

func (RolePermission) TableName() string { return "sys_role_permission" }
