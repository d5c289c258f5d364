package rbac

import (
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
)

// 权限码
const (
	PermUserAdd  = "sys:user:add"
	PermUserEdit = "sys:user:edit"
	PermUserDel  = "sys:user:del"
	PermRoleAdd  = "sys:role:add"
	PermRoleEdit = "sys:role:edit"
	PermRoleDel  = "sys:role:del"
	PermDeptAdd  = "sys:dept:add"
	PermDeptEdit = "sys:dept:edit"
	PermDeptDel  = "sys:dept:del"
)

// Plugin 占用 /sys/users、/sys/roles 与 /sys/depts
type Plugin struct{}

var _ port.Plugin = Plugin{}

// New 创建插件
func New() Plugin { return Plugin{} }

func (Plugin) Info() domain.PluginInfo {
	return domain.PluginInfo{
		Name:        "rbac",
		Version:     "0.1.0",
		Description: "用户权限 - 用户、角色、部门与权限码管理",
		Author:      "fba",
	}
}

func (Plugin) Mount() port.Mount { return port.Extension("users", "roles", "depts") }

func (Plugin) Requires() []port.Dependency { return nil }

func (Plugin) CreateRouter(st port.State) (*port.Router, error) {
	h := &handler{svc: NewService(st.DB, st.Auth)}
	r := port.NewRouter()

	users := r.Group("/users")
	users.GET("", h.pageUsers)
	users.GET("/:pk", h.getUser)
	users.POST("", h.createUser).Perm(PermUserAdd).Log("创建用户", domain.BusinessCreate)
	users.PUT("/:pk", h.updateUser).Perm(PermUserEdit).Log("更新用户", domain.BusinessUpdate)
	users.PUT("/:pk/password", h.resetPassword).Perm(PermUserEdit).Log("重置用户密码", domain.BusinessUpdate)
	users.PUT("/:pk/roles", h.replaceUserRoles).Perm(PermUserEdit).Log("分配用户角色", domain.BusinessUpdate)
	users.DELETE("", h.deleteUsers).Perm(PermUserDel).Log("删除用户", domain.BusinessDelete)

	roles := r.Group("/roles")
	roles.GET("/all", h.allRoles)
	roles.GET("", h.pageRoles)
	roles.GET("/:pk", h.getRole)
	roles.GET("/:pk/permissions", h.rolePermissions)
	roles.POST("", h.createRole).Perm(PermRoleAdd).Log("创建角色", domain.BusinessCreate)
	roles.PUT("/:pk", h.updateRole).Perm(PermRoleEdit).Log("更新角色", domain.BusinessUpdate)
	roles.PUT("/:pk/permissions", h.replaceRolePermissions).Perm(PermRoleEdit).Log("分配角色权限", domain.BusinessUpdate)
	roles.DELETE("", h.deleteRoles).Perm(PermRoleDel).Log("删除角色", domain.BusinessDelete)

	depts := r.Group("/depts")
	depts.GET("/all", h.allDepts)
	depts.GET("/tree", h.deptTree)
	depts.GET("/:pk", h.getDept)
	depts.POST("", h.createDept).Perm(PermDeptAdd).Log("创建部门", domain.BusinessCreate)
	depts.PUT("/:pk", h.updateDept).Perm(PermDeptEdit).Log("更新部门", domain.BusinessUpdate)
	depts.DELETE("", h.deleteDepts).Perm(PermDeptDel).Log("删除部门", domain.BusinessDelete)
	return r, nil
}
