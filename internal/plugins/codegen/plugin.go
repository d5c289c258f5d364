package codegen

import (
	"path/filepath"

	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
)

// 权限码
const (
	PermBusinessAdd  = "gen:business:add"
	PermBusinessEdit = "gen:business:edit"
	PermBusinessDel  = "gen:business:del"
	PermGenerate     = "gen:code:generate"
)

// Plugin 挂载在 /api/v1/generates
type Plugin struct{}

var _ port.Plugin = Plugin{}

// New 创建插件
func New() Plugin { return Plugin{} }

func (Plugin) Info() domain.PluginInfo {
	return domain.PluginInfo{
		Name:        "code_generator",
		Version:     "0.0.6",
		Description: "代码生成器 - 数据库表扫描、模板代码生成、ZIP打包下载",
		Author:      "fba",
	}
}

func (Plugin) Mount() port.Mount { return port.Independent("generates") }

func (Plugin) Requires() []port.Dependency { return nil }

func (Plugin) CreateRouter(st port.State) (*port.Router, error) {
	h := &handler{svc: NewService(st.DB, filepath.Join(st.Paths.Base, "generated"))}
	r := port.NewRouter()

	b := r.Group("/businesses")
	b.GET("/all", h.allBusinesses)
	b.GET("", h.pageBusinesses)
	b.POST("", h.createBusiness).Perm(PermBusinessAdd).Log("创建代码生成业务", domain.BusinessCreate)
	b.POST("/import", h.importTable).Perm(PermBusinessAdd).Log("导入代码生成业务", domain.BusinessImport)
	b.GET("/:pk", h.getBusiness)
	b.PUT("/:pk", h.updateBusiness).Perm(PermBusinessEdit).Log("更新代码生成业务", domain.BusinessUpdate)
	b.DELETE("/:pk", h.deleteBusiness).Perm(PermBusinessDel).Log("删除代码生成业务", domain.BusinessDelete)
	b.GET("/:pk/columns", h.businessColumns)
	b.GET("/:pk/paths", h.businessPaths)
	b.POST("/:pk/generate", h.generateBusiness).Perm(PermGenerate).Log("生成代码", domain.BusinessGenerate)

	codes := r.Group("/codes")
	codes.GET("/tables", h.tables)
	codes.GET("/tables/:name/columns", h.tableColumns)
	codes.GET("/templates", h.templates)
	codes.GET("/preview", h.preview)
	codes.POST("/generate", h.generate).Perm(PermGenerate)
	codes.GET("/download", h.download).Perm(PermGenerate)
	return r, nil
}
