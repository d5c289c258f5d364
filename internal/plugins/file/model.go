// Package file 提供文件上传、下载与元数据管理。文件落在本地上传目录，元数据写入 sys_file_info。
package file

import (
	"path"

	"github.com/eginner01/rFBA-sub002/internal/store"
	"gorm.io/gorm"
)

// 存储类型，目前只实现本地存储
const (
	StorageLocal = 1
	StorageOSS   = 2
	StorageS3    = 3
)

// 访问权限只作为元数据记录，/static/upload 目录本身是公开挂载的
const (
	AccessPrivate = 1
	AccessPublic  = 2
	AccessOrg     = 3
)

// URLPrefix 是上传目录的公开挂载前缀
const URLPrefix = "/static/upload"

// FileInfo 对应 sys_file_info 表
type FileInfo struct {
	ID               int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FileName         string  `gorm:"column:file_name;size:255;not null" json:"file_name"`
	OriginalName     string  `gorm:"column:original_name;size:255;not null" json:"original_name"`
	FileSuffix       string  `gorm:"column:file_suffix;size:20;not null" json:"file_suffix"`
	FileSize         int64   `gorm:"column:file_size;not null" json:"file_size"`
	ContentType      string  `gorm:"column:content_type;size:100;not null" json:"content_type"`
	FilePath         string  `gorm:"column:file_path;size:500;not null" json:"file_path"`
	StorageType      int     `gorm:"column:storage_type;not null" json:"storage_type"`
	FileHash         *string `gorm:"column:file_hash;size:64" json:"file_hash"`
	Uploader         string  `gorm:"column:uploader;size:100;not null" json:"uploader"`
	AccessPermission int     `gorm:"column:access_permission;not null" json:"access_permission"`
	DownloadCount    int64   `gorm:"column:download_count;not null" json:"download_count"`
	Remark           *string `gorm:"column:remark" json:"remark"`
	URL              string  `gorm:"-" json:"url"`
	store.Mutable
	store.SoftDelete
}

func (FileInfo) TableName() string { return "sys_file_info" }

// AfterFind 根据相对路径填充访问地址
func (f *FileInfo) AfterFind(*gorm.DB) error {
	f.fillURL()
	return nil
}

func (f *FileInfo) fillURL() {
	if f.FilePath != "" {
		f.URL = path.Join(URLPrefix, f.FilePath)
	}
}
