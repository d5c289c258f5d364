package authn

import (
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/core/validate"
	"github.com/gin-gonic/gin"
)

type handler struct {
	svc *Service
}

func (h *handler) login(c *gin.Context) {
	var p LoginParam
	if err := validate.BindJSON(c, &p); err != nil {
		_ = c.Error(err)
		return
	}
	res, err := h.svc.Login(c.Request.Context(), p, Client{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessWith(c, "登录成功", res)
}

func (h *handler) me(c *gin.Context) {
	d, err := h.svc.Me(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, d)
}
