package file

import (
	"errors"
	"net/http"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/core/validate"
	"github.com/gin-gonic/gin"
)

const (
	// formOverhead 是 multipart 边界与普通字段的余量
	formOverhead = 1 << 20
	// formMemory 以内的文件保存在内存，超出部分落到临时文件
	formMemory = 32 << 20
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
	var q FileQuery
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

func (h *handler) statistics(c *gin.Context) {
	st, err := h.svc.Statistics(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, st)
}

func (h *handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.svc.limit+formOverhead)
	if err := c.Request.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = c.Error(apperr.OperationFailed("文件大小超过限制: 最大 " + sizeLabel(h.svc.limit)))
			return
		}
		_ = c.Error(apperr.Validation("请求必须是 multipart/form-data 表单"))
		return
	}
	var p UploadParam
	if err := validate.BindForm(c, &p); err != nil {
		_ = c.Error(err)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(apperr.Validation("请选择要上传的文件"))
		return
	}
	row, err := h.svc.Upload(c.Request.Context(), fh, p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessWith(c, "上传成功", row)
}

func (h *handler) update(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var p UpdateParam
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

func (h *handler) download(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if err != nil {
		_ = c.Error(err)
		return
	}
	row, abs, err := h.svc.Open(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.FileAttachment(abs, row.FileName)
}
