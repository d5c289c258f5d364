package notice

import (
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/core/validate"
	"github.com/gin-gonic/gin"
)

type handler struct {
	svc *Service
}

func (h *handler) all(c *gin.Context) {
	rows, err := h.svc.All(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, rows)
}

func (h *handler) visible(c *gin.Context) {
	rows, err := h.svc.FindVisible(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, rows)
}

func (h *handler) get(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if err != nil {
		_ = c.Error(err)
		return
	}
	row, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, row)
}

func (h *handler) page(c *gin.Context) {
	var q NoticeQuery
	if err := validate.BindQuery(c, &q); err != nil {
		_ = c.Error(err)
		return
	}
	p, err := h.svc.Page(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, p)
}

func (h *handler) create(c *gin.Context) {
	var p NoticeParam
	if err := validate.BindJSON(c, &p); err != nil {
		_ = c.Error(err)
		return
	}
	row, err := h.svc.Create(c.Request.Context(), p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessWith(c, "创建成功", row)
}

func (h *handler) update(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var p NoticeParam
	if err := validate.BindJSON(c, &p); err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.svc.Update(c.Request.Context(), id, p); err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessMsg(c, "更新成功")
}

func (h *handler) delete(c *gin.Context) {
	ids, err := validate.BindIDs(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if _, err := h.svc.Delete(c.Request.Context(), ids); err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessMsg(c, "删除成功")
}
