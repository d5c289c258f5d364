package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	msgNotFound = "文件不存在"
	msgLost     = "文件已丢失"
)

// Service 管理上传目录中的文件及其元数据
type Service struct {
	repo  *store.Repo[FileInfo]
	dir   string
	limit int64
	exts  map[string]struct{}
}

// NewService 创建服务，dir 为上传根目录
func NewService(db *gorm.DB, dir string, cfg fbaconf.UploadConfig) *Service {
	exts := make(map[string]struct{}, len(cfg.Extensions))
	for _, e := range cfg.Extensions {
		exts[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
	}
	return &Service{repo: store.NewRepo[FileInfo](db), dir: dir, limit: cfg.MaxSize, exts: exts}
}

// All 按 ID 倒序返回全部文件
func (s *Service) All(ctx context.Context) ([]FileInfo, error) {
	rows, err := s.repo.FindAll(ctx, store.OrderBy("id", true))
	return rows, store.AppError(err, msgNotFound, "")
}

// Get 查询单个文件
func (s *Service) Get(ctx context.Context, id int64) (*FileInfo, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, store.AppError(err, msgNotFound, "")
	}
	return row, nil
}

// Page 分页查询
func (s *Service) Page(ctx context.Context, q FileQuery) (response.Page[FileInfo], error) {
	var suffix *string
	if q.FileSuffix != "" {
		v := strings.ToLower(strings.TrimPrefix(q.FileSuffix, "."))
		suffix = &v
	}
	p, err := s.repo.Page(ctx, q.PageQuery, store.OrderBy("id", true),
		store.Contains("file_name", q.FileName),
		store.Contains("uploader", q.Uploader),
		store.Eq("file_suffix", suffix),
		store.Eq("access_permission", q.AccessPermission),
	)
	return p, store.AppError(err, msgNotFound, "")
}

// Statistics 统计文件数量与总大小
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	var st Statistics
	err := s.repo.Model(ctx).
		Select("COUNT(*) AS total_files, COALESCE(SUM(file_size), 0) AS total_size").
		Scan(&st).Error
	if err != nil {
		return nil, apperr.Database(err)
	}
	st.ByPermission = []PermissionStat{}
	err = s.repo.Model(ctx).
		Select("access_permission, COUNT(*) AS count, COALESCE(SUM(file_size), 0) AS size").
		Group("access_permission").
		Order("access_permission").
		Scan(&st.ByPermission).Error
	if err != nil {
		return nil, apperr.Database(err)
	}
	return &st, nil
}

// Upload 校验大小与后缀后写入 <年>/<月>/<uuid>.<后缀>，同时计算 sha256。
// 元数据写入失败时删除已落盘的文件。
func (s *Service) Upload(ctx context.Context, fh *multipart.FileHeader, p UploadParam) (*FileInfo, error) {
	if fh.Size <= 0 {
		return nil, apperr.OperationFailed("上传文件不能为空")
	}
	if fh.Size > s.limit {
		return nil, apperr.OperationFailed(fmt.Sprintf("文件大小超过限制: 最大 %s", sizeLabel(s.limit)))
	}
	suffix := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if len(s.exts) > 0 {
		if _, ok := s.exts[suffix]; !ok || suffix == "" {
			return nil, apperr.OperationFailed("不支持的文件类型: " + orUnknown(suffix))
		}
	}

	now := store.Now()
	name := uuid.NewString()
	if suffix != "" {
		name += "." + suffix
	}
	rel := path.Join(now.Format("2006"), now.Format("01"), name)
	abs := s.abs(rel)
	hash, err := s.save(fh, abs)
	if err != nil {
		return nil, err
	}

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(abs); err == nil {
		contentType = mt.String()
	}
	uploader := ""
	if ac := domain.AuthFrom(ctx); ac != nil {
		uploader = ac.Username
	}
	original := filepath.Base(fh.Filename)
	row := &FileInfo{
		FileName:         original,
		OriginalName:     original,
		FileSuffix:       suffix,
		FileSize:         fh.Size,
		ContentType:      contentType,
		FilePath:         rel,
		StorageType:      StorageLocal,
		FileHash:         &hash,
		Uploader:         uploader,
		AccessPermission: AccessPrivate,
		Remark:           p.Remark,
	}
	if p.AccessPermission != nil {
		row.AccessPermission = *p.AccessPermission
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		_ = os.Remove(abs)
		return nil, store.AppError(err, msgNotFound, "")
	}
	row.fillURL()
	return row, nil
}

func (s *Service) save(fh *multipart.FileHeader, abs string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", apperr.OperationFailed("读取上传文件失败")
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", apperr.Wrap(apperr.KindOperationFailed, err, "创建上传目录失败")
	}
	dst, err := os.Create(abs)
	if err != nil {
		return "", apperr.Wrap(apperr.KindOperationFailed, err, "保存文件失败")
	}
	h := sha256.New()
	_, err = io.Copy(io.MultiWriter(dst, h), src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(abs)
		return "", apperr.Wrap(apperr.KindOperationFailed, err, "保存文件失败")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Update 修改展示名、访问权限与备注
func (s *Service) Update(ctx context.Context, id int64, p UpdateParam) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	_, err := s.repo.Update(ctx, id, p.values())
	return store.AppError(err, msgNotFound, "")
}

// Delete 批量软删除，磁盘上的文件保留
func (s *Service) Delete(ctx context.Context, ids []int64) (int64, error) {
	n, err := s.repo.DeleteByIDs(ctx, ids)
	return n, store.AppError(err, msgNotFound, "")
}

// Open 返回可下载的文件及其磁盘路径，并累加下载次数。下载次数不刷新 updated_time。
func (s *Service) Open(ctx context.Context, id int64) (*FileInfo, string, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	abs := s.abs(row.FilePath)
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", apperr.NotFound(msgLost)
		}
		return nil, "", apperr.Wrap(apperr.KindOperationFailed, err, msgLost)
	}
	err = s.repo.Model(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id}).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", 1)).Error
	if err != nil {
		return nil, "", apperr.Database(err)
	}
	row.DownloadCount++
	return row, abs, nil
}

func (s *Service) abs(rel string) string {
	return filepath.Join(s.dir, filepath.FromSlash(rel))
}

func sizeLabel(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	default:
		return fmt.Sprintf("%dB", n)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "(无后缀)"
	}
	return s
}
