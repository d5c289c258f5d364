package rbac

import "github.com/eginner01/rFBA-sub002/internal/core/response"

// ---- 用户 ----

// CreateUserParam 是新建用户的请求体，昵称缺省为用户名
type CreateUserParam struct {
	Username string  `json:"username" validate:"min=1,max=64,ident" msg:"用户名长度必须在1-64之间" msg_ident:"用户名只能包含字母、数字和下划线"`
	Password string  `json:"password" validate:"min=6,max=64" msg:"密码长度必须在6-64之间"`
	Nickname string  `json:"nickname" validate:"max=64" msg:"昵称长度不能超过64"`
	Email    *string `json:"email" validate:"omitempty,email,max=256" msg:"邮箱格式不正确"`
	Phone    *string `json:"phone" validate:"omitempty,numeric,len=11" msg:"手机号必须是11位数字"`
	DeptID   *int64  `json:"dept_id"`
	RoleIDs  []int64 `json:"role_ids"`
}

// UpdateUserParam 是更新用户资料的请求体
type UpdateUserParam struct {
	Nickname     string  `json:"nickname" validate:"min=1,max=64" msg:"昵称长度必须在1-64之间"`
	Email        *string `json:"email" validate:"omitempty,email,max=256" msg:"邮箱格式不正确"`
	Phone        *string `json:"phone" validate:"omitempty,numeric,len=11" msg:"手机号必须是11位数字"`
	Avatar       *string `json:"avatar" validate:"omitempty,max=256" msg:"头像地址长度不能超过256"`
	DeptID       *int64  `json:"dept_id"`
	Status       int     `json:"status" validate:"oneof=0 1" msg:"状态必须是0或1"`
	IsStaff      bool    `json:"is_staff"`
	IsMultiLogin bool    `json:"is_multi_login"`
}

func (p UpdateUserParam) values() map[string]any {
	return map[string]any{
		"nickname":       p.Nickname,
		"email":          p.Email,
		"phone":          p.Phone,
		"avatar":         p.Avatar,
		"dept_id":        p.DeptID,
		"status":         p.Status,
		"is_staff":       p.IsStaff,
		"is_multi_login": p.IsMultiLogin,
	}
}

// PasswordParam 是重置密码的请求体
type PasswordParam struct {
	Password string `json:"password" validate:"min=6,max=64" msg:"密码长度必须在6-64之间"`
}

// UserRolesParam 整体替换用户的角色
type UserRolesParam struct {
	RoleIDs []int64 `json:"role_ids"`
}

// UserQuery 是用户分页过滤条件
type UserQuery struct {
	Username string `form:"username"`
	Phone    string `form:"phone"`
	Status   *int   `form:"status" validate:"omitempty,oneof=0 1" msg:"状态必须是0或1"`
	DeptID   *int64 `form:"dept_id"`
	response.PageQuery
}

// RoleBrief 是用户详情中的角色摘要
type RoleBrief struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status int    `json:"status"`
}

// UserDetail 是带部门名与角色的用户
type UserDetail struct {
	User
	DeptName *string     `json:"dept_name"`
	Roles    []RoleBrief `json:"roles"`
}

// ---- 角色 ----

// RoleParam 是创建与更新角色的请求体，status 缺省为启用
type RoleParam struct {
	Name   string  `json:"name" validate:"min=1,max=32" msg:"角色名称长度必须在1-32之间"`
	Status *int    `json:"status" validate:"omitempty,oneof=0 1" msg:"状态必须是0或1"`
	Remark *string `json:"remark"`
}

// RolePermissionsParam 整体替换角色的权限码
type RolePermissionsParam struct {
	Permissions []string `json:"permissions" validate:"dive,min=1,max=128" msg:"权限码长度必须在1-128之间"`
}

// RoleQuery 是角色分页过滤条件
type RoleQuery struct {
	Name   string `form:"name"`
	Status *int   `form:"status" validate:"omitempty,oneof=0 1" msg:"状态必须是0或1"`
	response.PageQuery
}

// RoleDetail 是带权限码的角色
type RoleDetail struct {
	Role
	Permissions []string `json:"permissions"`
}

// ---- 部门 ----

// DeptParam 是创建与更新部门的请求体
type DeptParam struct {
	Name     string  `json:"name" validate:"min=1,max=64" msg:"部门名称长度必须在1-64之间"`
	ParentID *int64  `json:"parent_id"`
	Sort     int     `json:"sort" validate:"min=0" msg:"排序号不能为负数"`
	Leader   *string `json:"leader" validate:"omitempty,max=32" msg:"负责人长度不能超过32"`
	Phone    *string `json:"phone" validate:"omitempty,numeric,len=11" msg:"手机号必须是11位数字"`
	Email    *string `json:"email" validate:"omitempty,email,max=64" msg:"邮箱格式不正确"`
	Status   *int    `json:"status" validate:"omitempty,oneof=0 1" msg:"状态必须是0或1"`
}

func (p DeptParam) status() int {
	if p.Status == nil {
		return StatusEnabled
	}
	return *p.Status
}

// DeptQuery 过滤部门列表与部门树
type DeptQuery struct {
	Name   string `form:"name"`
	Status *int   `form:"status" validate:"omitempty,oneof=0 1" msg:"状态必须是0或1"`
}

// DeptNode 是部门树的节点
type DeptNode struct {
	Dept
	Children []*DeptNode `json:"children"`
}
