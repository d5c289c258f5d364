package schedule

import (
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
)

// 权限码
const (
	PermAdd  = "sys:schedule:add"
	PermEdit = "sys:schedule:edit"
	PermDel  = "sys:schedule:del"
)

// Plugin 挂载到 /sys/schedule-jobs
type Plugin struct{}

var _ port.Plugin = Plugin{}

// New 创建插件
func New() Plugin { return Plugin{} }

func (Plugin) Info() domain.PluginInfo {
	return domain.PluginInfo{
		Name:        "schedule_job",
		Version:     "0.0.1",
		Description: "定时任务 - 维护任务定义并校验Cron表达式",
		Author:      "fba",
	}
}

func (Plugin) Mount() port.Mount { return port.Extension("schedule-jobs") }

func (Plugin) Requires() []port.Dependency { return nil }

func (Plugin) CreateRouter(st port.State) (*port.Router, error) {
	h := &handler{svc: NewService(st.DB)}
	r := port.NewRouter()
	r.GET("/all", h.all)
	r.GET("/enabled", h.enabled)
	r.GET("/paused", h.paused)
	r.GET("/:pk/next-times", h.nextTimes)
	r.GET("/:pk", h.get)
	r.GET("", h.page)
	r.POST("", h.create).Perm(PermAdd).Log("创建定时任务", domain.BusinessCreate)
	r.PUT("/:pk/status", h.changeStatus).Perm(PermEdit).Log("修改定时任务状态", domain.BusinessUpdate)
	r.PUT("/:pk", h.update).Perm(PermEdit).Log("更新定时任务", domain.BusinessUpdate)
	r.DELETE("", h.delete).Perm(PermDel).Log("删除定时任务", domain.BusinessDelete)
	return r, nil
}
