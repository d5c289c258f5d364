package codegen

import (
	"fmt"
	"net/http"

	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/core/validate"
	"github.com/gin-gonic/gin"
)

type handler struct {
	svc *Service
}

// ---- /businesses ----

func (h *handler) allBusinesses(c *gin.Context) {
	rows, err := h.svc.AllBusinesses(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, rows)
}

func (h *handler) pageBusinesses(c *gin.Context) {
	var q BusinessQuery
	if err := validate.BindQuery(c, &q); err != nil {
		_ = c.Error(err)
		return
	}
	p, err := h.svc.PageBusinesses(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, p)
}

func (h *handler) getBusiness(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if err != nil {
		_ = c.Error(err)
		return
	}
	b, err := h.svc.GetBusiness(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, b)
}

func (h *handler) createBusiness(c *gin.Context) {
	var p CreateBusinessParam
	if err := validate.BindJSON(c, &p); err != nil {
		_ = c.Error(err)
		return
	}
	b, err := h.svc.CreateBusiness(c.Request.Context(), p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessWith(c, "创建成功", b)
}

func (h *handler) updateBusiness(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var p UpdateBusinessParam
	if err := validate.BindJSON(c, &p); err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.svc.UpdateBusiness(c.Request.Context(), id, p); err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessMsg(c, "更新成功")
}

func (h *handler) deleteBusiness(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.svc.DeleteBusiness(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessMsg(c, "删除成功")
}

func (h *handler) businessColumns(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if err != nil {
		_ = c.Error(err)
		return
	}
	cols, err := h.svc.Columns(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, cols)
}

func (h *handler) businessPaths(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if err != nil {
		_ = c.Error(err)
		return
	}
	paths, err := h.svc.Paths(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, paths)
}

func (h *handler) importTable(c *gin.Context) {
	var p ImportParam
	if err := validate.BindJSON(c, &p); err != nil {
		_ = c.Error(err)
		return
	}
	b, err := h.svc.Import(c.Request.Context(), p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessWith(c, "导入成功", b)
}

func (h *handler) generateBusiness(c *gin.Context) {
	id, err := validate.ParamInt64(c, "pk")
	if err != nil {
		_ = c.Error(err)
		return
	}
	files, err := h.svc.Generate(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, files)
}

// ---- /codes ----

func (h *handler) tables(c *gin.Context) {
	rows, err := h.svc.Tables(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, rows)
}

func (h *handler) tableColumns(c *gin.Context) {
	cols, err := h.svc.TableColumns(c.Request.Context(), c.Param("name"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, cols)
}

func (h *handler) templates(c *gin.Context) {
	response.Success(c, h.svc.Templates())
}

func (h *handler) preview(c *gin.Context) {
	var q CodeQuery
	if err := validate.BindQuery(c, &q); err != nil {
		_ = c.Error(err)
		return
	}
	p, err := h.svc.Preview(c.Request.Context(), q.TableName, q.ModuleName, "")
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, p)
}

func (h *handler) generate(c *gin.Context) {
	var p GenerateParam
	if err := validate.BindJSON(c, &p); err != nil {
		_ = c.Error(err)
		return
	}
	var author string
	if p.Author != nil {
		author = *p.Author
	}
	preview, err := h.svc.Preview(c.Request.Context(), p.TableName, p.ModuleName, author)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, fmt.Sprintf("生成%d个文件", len(preview.Files)))
}

func (h *handler) download(c *gin.Context) {
	var q CodeQuery
	if err := validate.BindQuery(c, &q); err != nil {
		_ = c.Error(err)
		return
	}
	data, err := h.svc.Download(c.Request.Context(), q.TableName, q.ModuleName)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.zip"`, q.ModuleName))
	c.Data(http.StatusOK, "application/zip", data)
}
