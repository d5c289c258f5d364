package file

import "github.com/eginner01/rFBA-sub002/internal/core/response"

// UploadParam 是 multipart 表单中除文件外的字段
type UploadParam struct {
	AccessPermission *int    `form:"access_permission" validate:"omitempty,oneof=1 2 3" msg:"访问权限必须是1、2或3"`
	Remark           *string `form:"remark" validate:"omitempty,max=500" msg:"备注不能超过500个字符"`
}

// UpdateParam 只允许修改展示名、访问权限与备注
type UpdateParam struct {
	FileName         string  `json:"file_name" validate:"min=1,max=255" msg:"文件名长度必须在1-255之间"`
	AccessPermission int     `json:"access_permission" validate:"oneof=1 2 3" msg:"访问权限必须是1、2或3"`
	Remark           *string `json:"remark" validate:"omitempty,max=500" msg:"备注不能超过500个字符"`
}

func (p UpdateParam) values() map[string]any {
	return map[string]any{
		"file_name":         p.FileName,
		"access_permission": p.AccessPermission,
		"remark":            p.Remark,
	}
}

// FileQuery 是分页列表的过滤条件
type FileQuery struct {
	FileName         string `form:"file_name"`
	FileSuffix       string `form:"file_suffix"`
	Uploader         string `form:"uploader"`
	AccessPermission *int   `form:"access_permission" validate:"omitempty,oneof=1 2 3" msg:"访问权限必须是1、2或3"`
	response.PageQuery
}

// PermissionStat 是按访问权限分组的统计
type PermissionStat struct {
	AccessPermission int   `gorm:"column:access_permission" json:"access_permission"`
	Count            int64 `gorm:"column:count" json:"count"`
	Size             int64 `gorm:"column:size" json:"size"`
}

// Statistics 汇总未删除文件
type Statistics struct {
	TotalFiles   int64            `gorm:"column:total_files" json:"total_files"`
	TotalSize    int64            `gorm:"column:total_size" json:"total_size"`
	ByPermission []PermissionStat `gorm:"-" json:"by_permission"`
}
