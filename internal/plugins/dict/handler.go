package dict

import (
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/core/validate"
	"github.com/gin-gonic/gin"
)

type handler struct {
	svc *Service
}

// fail 附加错误，由错误中间件写出响应
func fail(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	_ = c.Error(err)
	return true
}

// ---- 字典类型 ----

func (h *handler) allTypes(c *gin.Context) {
	rows, err := h.svc.AllTypes(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, rows)
}

func (h *handler) getType(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if fail(c, err) {
		return
	}
	row, err := h.svc.GetType(c.Request.Context(), id)
	if fail(c, err) {
		return
	}
	response.Success(c, row)
}

func (h *handler) pageTypes(c *gin.Context) {
	var q TypeQuery
	if fail(c, validate.BindQuery(c, &q)) {
		return
	}
	p, err := h.svc.PageTypes(c.Request.Context(), q)
	if fail(c, err) {
		return
	}
	response.Success(c, p)
}

func (h *handler) createType(c *gin.Context) {
	var p CreateTypeParam
	if fail(c, validate.BindJSON(c, &p)) {
		return
	}
	row, err := h.svc.CreateType(c.Request.Context(), p)
	if fail(c, err) {
		return
	}
	response.SuccessWith(c, "创建成功", row)
}

func (h *handler) updateType(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if fail(c, err) {
		return
	}
	var p UpdateTypeParam
	if fail(c, validate.BindJSON(c, &p)) {
		return
	}
	if fail(c, h.svc.UpdateType(c.Request.Context(), id, p)) {
		return
	}
	response.SuccessMsg(c, "更新成功")
}

func (h *handler) deleteTypes(c *gin.Context) {
	ids, err := validate.BindIDs(c)
	if fail(c, err) {
		return
	}
	if _, err := h.svc.DeleteTypes(c.Request.Context(), ids); fail(c, err) {
		return
	}
	response.SuccessMsg(c, "删除成功")
}

// ---- 字典数据 ----

func (h *handler) allDatas(c *gin.Context) {
	rows, err := h.svc.AllDatas(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, rows)
}

func (h *handler) getData(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if fail(c, err) {
		return
	}
	row, err := h.svc.GetData(c.Request.Context(), id)
	if fail(c, err) {
		return
	}
	response.Success(c, row)
}

func (h *handler) byTypeCode(c *gin.Context) {
	rows, err := h.svc.FindEnabledByTypeCode(c.Request.Context(), c.Param("code"))
	if fail(c, err) {
		return
	}
	response.Success(c, rows)
}

func (h *handler) pageDatas(c *gin.Context) {
	var q DataQuery
	if fail(c, validate.BindQuery(c, &q)) {
		return
	}
	p, err := h.svc.PageDatas(c.Request.Context(), q)
	if fail(c, err) {
		return
	}
	response.Success(c, p)
}

func (h *handler) createData(c *gin.Context) {
	var p CreateDataParam
	if fail(c, validate.BindJSON(c, &p)) {
		return
	}
	row, err := h.svc.CreateData(c.Request.Context(), p)
	if fail(c, err) {
		return
	}
	response.SuccessWith(c, "创建成功", row)
}

func (h *handler) updateData(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if fail(c, err) {
		return
	}
	var p UpdateDataParam
	if fail(c, validate.BindJSON(c, &p)) {
		return
	}
	if fail(c, h.svc.UpdateData(c.Request.Context(), id, p)) {
		return
	}
	response.SuccessMsg(c, "更新成功")
}

func (h *handler) deleteDatas(c *gin.Context) {
	ids, err := validate.BindIDs(c)
	if fail(c, err) {
		return
	}
	if _, err := h.svc.DeleteDatas(c.Request.Context(), ids); fail(c, err) {
		return
	}
	response.SuccessMsg(c, "删除成功")
}
