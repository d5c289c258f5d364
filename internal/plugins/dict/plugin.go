package dict

import (
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
)

// 权限码
const (
	PermTypeAdd  = "sys:dict:type:add"
	PermTypeEdit = "sys:dict:type:edit"
	PermTypeDel  = "sys:dict:type:del"
	PermDataAdd  = "sys:dict:data:add"
	PermDataEdit = "sys:dict:data:edit"
	PermDataDel  = "sys:dict:data:del"
)

// Plugin 同时占用 /sys/dict-types 与 /sys/dict-datas
type Plugin struct{}

var _ port.Plugin = Plugin{}

// New 创建插件
func New() Plugin { return Plugin{} }

func (Plugin) Info() domain.PluginInfo {
	return domain.PluginInfo{
		Name:        "dict",
		Version:     "0.0.8",
		Description: "数据字典 - 通常用于约束前端工程数据展示",
		Author:      "fba",
	}
}

func (Plugin) Mount() port.Mount { return port.Extension("dict-types", "dict-datas") }

func (Plugin) Requires() []port.Dependency { return nil }

func (Plugin) CreateRouter(st port.State) (*port.Router, error) {
	h := &handler{svc: NewService(st.DB)}
	r := port.NewRouter()

	types := r.Group("/dict-types")
	types.GET("/all", h.allTypes)
	types.GET("/:pk", h.getType)
	types.GET("", h.pageTypes)
	types.POST("", h.createType).Perm(PermTypeAdd).Log("创建字典类型", domain.BusinessCreate)
	types.PUT("/:pk", h.updateType).Perm(PermTypeEdit).Log("更新字典类型", domain.BusinessUpdate)
	types.DELETE("", h.deleteTypes).Perm(PermTypeDel).Log("删除字典类型", domain.BusinessDelete)

	datas := r.Group("/dict-datas")
	datas.GET("/all", h.allDatas)
	datas.GET("/type-codes/:code", h.byTypeCode)
	datas.GET("/:pk", h.getData)
	datas.GET("", h.pageDatas)
	datas.POST("", h.createData).Perm(PermDataAdd).Log("创建字典数据", domain.BusinessCreate)
	datas.PUT("/:pk", h.updateData).Perm(PermDataEdit).Log("更新字典数据", domain.BusinessUpdate)
	datas.DELETE("", h.deleteDatas).Perm(PermDataDel).Log("删除字典数据", domain.BusinessDelete)
	return r, nil
}
