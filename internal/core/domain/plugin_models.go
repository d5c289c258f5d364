// Package domain file: internal/core/domain/plugin_models.go
package domain

// PluginInfo 是插件的自我描述
type PluginInfo struct {
	Name        string `json:"name"`        // 宿主内唯一的插件名, e.g., "notice"
	Version     string `json:"version"`     // 语义化版本
	Description string `json:"description"` // 简短描述
	Author      string `json:"author"`      // 作者
}

// MountKind 区分插件的挂载方式
type MountKind string

const (
	// MountExtension 挂载到管理命名空间 /sys 下
	MountExtension MountKind = "extension"
	// MountIndependent 挂载到 API 前缀下的独立路径
	MountIndependent MountKind = "independent"
)

// PluginCatalogEntry 是 /sys/plugins 返回的插件条目
type PluginCatalogEntry struct {
	PluginInfo
	Mount    MountKind `json:"mount"`
	Prefixes []string  `json:"prefixes"` // 插件路由的绝对前缀
	Requires []string  `json:"requires"`
	Routes   int       `json:"routes"`
}

// BusinessType 是操作日志的业务类型
type BusinessType string

const (
	BusinessCreate   BusinessType = "create"
	BusinessUpdate   BusinessType = "update"
	BusinessDelete   BusinessType = "delete"
	BusinessQuery    BusinessType = "query"
	BusinessImport   BusinessType = "import"
	BusinessGenerate BusinessType = "generate"
	BusinessOther    BusinessType = "other"
)
