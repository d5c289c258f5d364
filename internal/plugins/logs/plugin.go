package logs

import (
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
)

const (
	PermAccessDel = "log:access:del"
	PermOperaDel  = "log:opera:del"
	PermLoginDel  = "log:login:del"
)

// Plugin 挂载在 /api/v1/logs
type Plugin struct{}

var _ port.Plugin = Plugin{}

func New() Plugin { return Plugin{} }

func (Plugin) Info() domain.PluginInfo {
	return domain.PluginInfo{
		Name:        "logs",
		Version:     "0.1.0",
		Description: "日志 - 访问日志、操作日志与登录日志的查询和清理",
		Author:      "fba",
	}
}

func (Plugin) Mount() port.Mount { return port.Independent("logs") }

func (Plugin) Requires() []port.Dependency { return nil }

func (Plugin) CreateRouter(st port.State) (*port.Router, error) {
	svc := NewService(st.DB)
	r := port.NewRouter()

	access := r.Group("/access")
	access.GET("", pageOf(svc.PageAccess))
	access.DELETE("", deleteOf(svc.DeleteAccess)).Perm(PermAccessDel).Log("删除访问日志", domain.BusinessDelete)
	access.DELETE("/all", clearOf(svc.ClearAccess)).Perm(PermAccessDel).Log("清空访问日志", domain.BusinessDelete)

	opera := r.Group("/opera")
	opera.GET("", pageOf(svc.PageOpera))
	opera.DELETE("", deleteOf(svc.DeleteOpera)).Perm(PermOperaDel).Log("删除操作日志", domain.BusinessDelete)
	opera.DELETE("/all", clearOf(svc.ClearOpera)).Perm(PermOperaDel).Log("清空操作日志", domain.BusinessDelete)

	login := r.Group("/login")
	login.GET("", pageOf(svc.PageLogin))
	login.DELETE("", deleteOf(svc.DeleteLogin)).Perm(PermLoginDel).Log("删除登录日志", domain.BusinessDelete)
	login.DELETE("/all", clearOf(svc.ClearLogin)).Perm(PermLoginDel).Log("清空登录日志", domain.BusinessDelete)
	return r, nil
}
