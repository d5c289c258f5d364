package oauth2

import (
	"net/http"
	"net/url"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/core/validate"
	"github.com/gin-gonic/gin"
)

type handler struct {
	svc *Service
	// frontend 非空时，已绑定账号的回调携带令牌跳转到这里
	frontend string
}

func (h *handler) providers(c *gin.Context) {
	response.Success(c, h.svc.Providers())
}

func (h *handler) authorize(c *gin.Context) {
	target, err := h.svc.AuthorizeURL(c.Param("provider"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, target)
}

func (h *handler) callback(c *gin.Context) {
	res, err := h.svc.Callback(c.Request.Context(), c.Param("provider"), c.Query("code"), c.Query("state"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if h.frontend != "" && res.Bound {
		q := url.Values{"access_token": {res.AccessToken}}
		c.Redirect(http.StatusFound, h.frontend+"?"+q.Encode())
		return
	}
	response.Success(c, res)
}

func currentUser(c *gin.Context) (int64, bool) {
	ac := domain.AuthFrom(c.Request.Context())
	if ac == nil {
		_ = c.Error(apperr.PermissionDenied())
		return 0, false
	}
	return ac.UserID, true
}

func (h *handler) bind(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var p BindParam
	if err := validate.BindJSON(c, &p); err != nil {
		_ = c.Error(err)
		return
	}
	b, err := h.svc.Bind(c.Request.Context(), uid, p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessWith(c, "绑定成功", b)
}

func (h *handler) unbind(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var p UnbindParam
	if err := validate.BindJSON(c, &p); err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.svc.Unbind(c.Request.Context(), uid, p.Provider); err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessMsg(c, "解绑成功")
}

func (h *handler) binds(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	rows, err := h.svc.Binds(c.Request.Context(), uid)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, rows)
}
