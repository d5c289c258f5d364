package config

import (
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
)

// 权限码
const (
	PermAdd     = "sys:config:add"
	PermEdit    = "sys:config:edit"
	PermDel     = "sys:config:del"
	PermRefresh = "sys:config:refresh"
)

// Plugin 挂载到 /sys/configs，需要缓存
type Plugin struct{}

var _ port.Plugin = Plugin{}

// New 创建插件
func New() Plugin { return Plugin{} }

func (Plugin) Info() domain.PluginInfo {
	return domain.PluginInfo{
		Name:        "config",
		Version:     "0.0.2",
		Description: "参数配置 - 通常用于动态配置系统参数/前端工程数据展示",
		Author:      "fba",
	}
}

func (Plugin) Mount() port.Mount { return port.Extension("configs") }

func (Plugin) Requires() []port.Dependency { return []port.Dependency{port.DepCache} }

func (Plugin) CreateRouter(st port.State) (*port.Router, error) {
	h := &handler{svc: NewService(st.DB, st.Cache)}
	r := port.NewRouter()
	r.GET("/all", h.all)
	r.GET("/key/:key", h.byKey)
	r.GET("/:pk", h.get)
	r.GET("", h.page)
	r.POST("", h.create).Perm(PermAdd).Log("创建参数配置", domain.BusinessCreate)
	r.POST("/refresh", h.refresh).Perm(PermRefresh).Log("刷新参数配置缓存", domain.BusinessOther)
	r.PUT("/:pk", h.update).Perm(PermEdit).Log("更新参数配置", domain.BusinessUpdate)
	r.DELETE("", h.delete).Perm(PermDel).Log("删除参数配置", domain.BusinessDelete)
	return r, nil
}
