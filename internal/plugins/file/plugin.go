package file

import (
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
)

// 权限码
const (
	PermUpload = "sys:file:upload"
	PermEdit   = "sys:file:edit"
	PermDel    = "sys:file:del"
)

// Plugin 挂载到 /sys/files
type Plugin struct{}

var _ port.Plugin = Plugin{}

// New 创建插件
func New() Plugin { return Plugin{} }

func (Plugin) Info() domain.PluginInfo {
	return domain.PluginInfo{
		Name:        "file",
		Version:     "0.0.1",
		Description: "文件管理 - 文件上传、下载与元数据管理",
		Author:      "fba",
	}
}

func (Plugin) Mount() port.Mount { return port.Extension("files") }

func (Plugin) Requires() []port.Dependency { return nil }

func (Plugin) CreateRouter(st port.State) (*port.Router, error) {
	h := &handler{svc: NewService(st.DB, st.Paths.Upload, st.Config.Upload)}
	r := port.NewRouter()
	r.GET("/all", h.all)
	r.GET("/statistics", h.statistics)
	r.GET("/:pk/download", h.download)
	r.GET("/:pk", h.get)
	r.GET("", h.page)
	r.POST("/upload", h.upload).Perm(PermUpload).Log("上传文件", domain.BusinessCreate)
	r.PUT("/:pk", h.update).Perm(PermEdit).Log("更新文件信息", domain.BusinessUpdate)
	r.DELETE("", h.delete).Perm(PermDel).Log("删除文件", domain.BusinessDelete)
	return r, nil
}
