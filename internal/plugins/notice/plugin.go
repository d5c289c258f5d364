package notice

import (
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
)

// 权限码
const (
	PermAdd  = "sys:notice:add"
	PermEdit = "sys:notice:edit"
	PermDel  = "sys:notice:del"
)

// Plugin 挂载到 /sys/notices
type Plugin struct{}

var _ port.Plugin = Plugin{}

// New 创建插件
func New() Plugin { return Plugin{} }

func (Plugin) Info() domain.PluginInfo {
	return domain.PluginInfo{
		Name:        "notice",
		Version:     "0.0.2",
		Description: "通知公告 - 发布系统内部通知、公告",
		Author:      "fba",
	}
}

func (Plugin) Mount() port.Mount { return port.Extension("notices") }

func (Plugin) Requires() []port.Dependency { return nil }

func (Plugin) CreateRouter(st port.State) (*port.Router, error) {
	h := &handler{svc: NewService(st.DB)}
	r := port.NewRouter()
	r.GET("/all", h.all)
	r.GET("/visible", h.visible).Open()
	r.GET("/:pk", h.get)
	r.GET("", h.page)
	r.POST("", h.create).Perm(PermAdd).Log("创建通知公告", domain.BusinessCreate)
	r.PUT("/:pk", h.update).Perm(PermEdit).Log("更新通知公告", domain.BusinessUpdate)
	r.DELETE("", h.delete).Perm(PermDel).Log("删除通知公告", domain.BusinessDelete)
	return r, nil
}
