package rbac

import (
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/core/validate"
	"github.com/gin-gonic/gin"
)

type handler struct {
	svc *Service
}

func fail(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	_ = c.Error(err)
	return true
}

// ---- 用户 ----

func (h *handler) pageUsers(c *gin.Context) {
	var q UserQuery
	if fail(c, validate.BindQuery(c, &q)) {
		return
	}
	p, err := h.svc.PageUsers(c.Request.Context(), q)
	if fail(c, err) {
		return
	}
	response.Success(c, p)
}

func (h *handler) getUser(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if fail(c, err) {
		return
	}
	d, err := h.svc.UserDetail(c.Request.Context(), id)
	if fail(c, err) {
		return
	}
	response.Success(c, d)
}

func (h *handler) createUser(c *gin.Context) {
	var p CreateUserParam
	if fail(c, validate.BindJSON(c, &p)) {
		return
	}
	u, err := h.svc.CreateUser(c.Request.Context(), p)
	if fail(c, err) {
		return
	}
	response.SuccessWith(c, "创建成功", u)
}

func (h *handler) updateUser(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if fail(c, err) {
		return
	}
	var p UpdateUserParam
	if fail(c, validate.BindJSON(c, &p)) {
		return
	}
	if fail(c, h.svc.UpdateUser(c.Request.Context(), id, p)) {
		return
	}
	response.SuccessMsg(c, "更新成功")
}

func (h *handler) resetPassword(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if fail(c, err) {
		return
	}
	var p PasswordParam
	if fail(c, validate.BindJSON(c, &p)) {
		return
	}
	if fail(c, h.svc.ResetPassword(c.Request.Context(), id, p.Password)) {
		return
	}
	response.SuccessMsg(c, "密码重置成功")
}

func (h *handler) replaceUserRoles(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if fail(c, err) {
		return
	}
	var p UserRolesParam
	if fail(c, validate.BindJSON(c, &p)) {
		return
	}
	if fail(c, h.svc.ReplaceUserRoles(c.Request.Context(), id, p.RoleIDs)) {
		return
	}
	response.SuccessMsg(c, "更新成功")
}

func (h *handler) deleteUsers(c *gin.Context) {
	ids, err := validate.BindIDs(c)
	if fail(c, err) {
		return
	}
	if _, err := h.svc.DeleteUsers(c.Request.Context(), ids); fail(c, err) {
		return
	}
	response.SuccessMsg(c, "删除成功")
}

// ---- 角色 ----

func (h *handler) allRoles(c *gin.Context) {
	rows, err := h.svc.AllRoles(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, rows)
}

func (h *handler) pageRoles(c *gin.Context) {
	var q RoleQuery
	if fail(c, validate.BindQuery(c, &q)) {
		return
	}
	p, err := h.svc.PageRoles(c.Request.Context(), q)
	if fail(c, err) {
		return
	}
	response.Success(c, p)
}

func (h *handler) getRole(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if fail(c, err) {
		return
	}
	r, err := h.svc.GetRole(c.Request.Context(), id)
	if fail(c, err) {
		return
	}
	response.Success(c, r)
}

func (h *handler) rolePermissions(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if fail(c, err) {
		return
	}
	r, err := h.svc.GetRole(c.Request.Context(), id)
	if fail(c, err) {
		return
	}
	response.Success(c, r.Permissions)
}

func (h *handler) createRole(c *gin.Context) {
	var p RoleParam
	if fail(c, validate.BindJSON(c, &p)) {
		return
	}
	r, err := h.svc.CreateRole(c.Request.Context(), p)
	if fail(c, err) {
		return
	}
	response.SuccessWith(c, "创建成功", r)
}

func (h *handler) updateRole(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if fail(c, err) {
		return
	}
	var p RoleParam
	if fail(c, validate.BindJSON(c, &p)) {
		return
	}
	if fail(c, h.svc.UpdateRole(c.Request.Context(), id, p)) {
		return
	}
	response.SuccessMsg(c, "更新成功")
}

func (h *handler) replaceRolePermissions(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if fail(c, err) {
		return
	}
	var p RolePermissionsParam
	if fail(c, validate.BindJSON(c, &p)) {
		return
	}
	if fail(c, h.svc.ReplaceRolePermissions(c.Request.Context(), id, p.Permissions)) {
		return
	}
	response.SuccessMsg(c, "更新成功")
}

func (h *handler) deleteRoles(c *gin.Context) {
	ids, err := validate.BindIDs(c)
	if fail(c, err) {
		return
	}
	if _, err := h.svc.DeleteRoles(c.Request.Context(), ids); fail(c, err) {
		return
	}
	response.SuccessMsg(c, "删除成功")
}

// ---- 部门 ----

func (h *handler) allDepts(c *gin.Context) {
	var q DeptQuery
	if fail(c, validate.BindQuery(c, &q)) {
		return
	}
	rows, err := h.svc.FindDepts(c.Request.Context(), q)
	if fail(c, err) {
		return
	}
	response.Success(c, rows)
}

func (h *handler) deptTree(c *gin.Context) {
	var q DeptQuery
	if fail(c, validate.BindQuery(c, &q)) {
		return
	}
	tree, err := h.svc.DeptTree(c.Request.Context(), q)
	if fail(c, err) {
		return
	}
	response.Success(c, tree)
}

func (h *handler) getDept(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if fail(c, err) {
		return
	}
	d, err := h.svc.GetDept(c.Request.Context(), id)
	if fail(c, err) {
		return
	}
	response.Success(c, d)
}

func (h *handler) createDept(c *gin.Context) {
	var p DeptParam
	if fail(c, validate.BindJSON(c, &p)) {
		return
	}
	d, err := h.svc.CreateDept(c.Request.Context(), p)
	if fail(c, err) {
		return
	}
	response.SuccessWith(c, "创建成功", d)
}

func (h *handler) updateDept(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if fail(c, err) {
		return
	}
	var p DeptParam
	if fail(c, validate.BindJSON(c, &p)) {
		return
	}
	if fail(c, h.svc.UpdateDept(c.Request.Context(), id, p)) {
		return
	}
	response.SuccessMsg(c, "更新成功")
}

func (h *handler) deleteDepts(c *gin.Context) {
	ids, err := validate.BindIDs(c)
	if fail(c, err) {
		return
	}
	if _, err := h.svc.DeleteDepts(c.Request.Context(), ids); fail(c, err) {
		return
	}
	response.SuccessMsg(c, "删除成功")
}
