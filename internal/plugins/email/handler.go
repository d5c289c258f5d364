package email

import (
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/core/validate"
	"github.com/gin-gonic/gin"
)

type handler struct {
	svc *Service
}

func (h *handler) send(c *gin.Context) {
	var p SendParam
	if err := validate.BindJSON(c, &p); err != nil {
		_ = c.Error(err)
		return
	}
	r, err := h.svc.Send(c.Request.Context(), p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessWith(c, "邮件发送请求已提交", r)
}

func (h *handler) sendTemplate(c *gin.Context) {
	var p TemplateParam
	if err := validate.BindJSON(c, &p); err != nil {
		_ = c.Error(err)
		return
	}
	r, err := h.svc.SendTemplate(c.Request.Context(), p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessWith(c, "模板邮件发送请求已提交", r)
}

func (h *handler) testSMTP(c *gin.Context) {
	var p TestSMTPParam
	if err := validate.BindJSON(c, &p); err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.svc.TestSMTP(c.Request.Context(), p); err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessMsg(c, "SMTP配置测试成功")
}

func (h *handler) records(c *gin.Context) {
	var q RecordQuery
	if err := validate.BindQuery(c, &q); err != nil {
		_ = c.Error(err)
		return
	}
	p, err := h.svc.PageRecords(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, p)
}

func (h *handler) record(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if err != nil {
		_ = c.Error(err)
		return
	}
	r, err := h.svc.GetRecord(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, r)
}
