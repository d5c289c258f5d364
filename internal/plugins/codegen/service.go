package codegen

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"gorm.io/gorm"
)

const (
	msgNotFound  = "业务不存在"
	msgDuplicate = "已存在相同数据库表业务"
)

// Service 维护业务模型并生成代码
type Service struct {
	db         *gorm.DB
	businesses *store.Repo[Business]
	columns    *store.Repo[Column]
	inspect    inspector
	// root 是生成文件允许写入的根目录
	root string
}

// NewService 创建服务，root 之外的生成路径会被拒绝
func NewService(db *gorm.DB, root string) *Service {
	return &Service{
		db:         db,
		businesses: store.NewRepo[Business](db),
		columns:    store.NewRepo[Column](db),
		inspect:    inspector{db: db},
		root:       root,
	}
}

// ---- 业务模型 ----

// AllBusinesses 按创建时间倒序返回全部业务
func (s *Service) AllBusinesses(ctx context.Context) ([]Business, error) {
	rows, err := s.businesses.FindAll(ctx, store.OrderBy("created_time", true), store.OrderBy("id", true))
	return rows, store.AppError(err, msgNotFound, msgDuplicate)
}

// PageBusinesses 分页查询，表名模糊匹配
func (s *Service) PageBusinesses(ctx context.Context, q BusinessQuery) (response.Page[Business], error) {
	p, err := s.businesses.Page(ctx, q.PageQuery, store.OrderBy("id", true), store.Contains("table_name", q.TableName))
	return p, store.AppError(err, msgNotFound, msgDuplicate)
}

// GetBusiness 查询单个业务
func (s *Service) GetBusiness(ctx context.Context, id int64) (*Business, error) {
	row, err := s.businesses.FindByID(ctx, id)
	if err != nil {
		return nil, store.AppError(err, msgNotFound, msgDuplicate)
	}
	return row, nil
}

// CreateBusiness 新建业务，不导入列
func (s *Service) CreateBusiness(ctx context.Context, p CreateBusinessParam) (*Business, error) {
	row := &Business{
		AppName:               p.AppName,
		Table:                 p.TableName,
		DocComment:            p.DocComment,
		TableComment:          p.TableComment,
		ClassName:             p.ClassName,
		SchemaName:            p.SchemaName,
		Filename:              p.Filename,
		DefaultDatetimeColumn: true,
		APIVersion:            "v1",
		GenPath:               p.GenPath,
		Remark:                p.Remark,
	}
	if p.DefaultDatetimeColumn != nil {
		row.DefaultDatetimeColumn = *p.DefaultDatetimeColumn
	}
	if p.APIVersion != nil && *p.APIVersion != "" {
		row.APIVersion = *p.APIVersion
	}
	if err := s.businesses.Insert(ctx, row); err != nil {
		return nil, store.AppError(err, msgNotFound, msgDuplicate)
	}
	return row, nil
}

// UpdateBusiness 只更新请求中出现的字段
func (s *Service) UpdateBusiness(ctx context.Context, id int64, p UpdateBusinessParam) error {
	if _, err := s.GetBusiness(ctx, id); err != nil {
		return err
	}
	_, err := s.businesses.Update(ctx, id, p.values())
	return store.AppError(err, msgNotFound, msgDuplicate)
}

// DeleteBusiness 删除业务及其全部列
func (s *Service) DeleteBusiness(ctx context.Context, id int64) error {
	var n int64
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.columns.WithTx(tx).DeleteWhere(ctx, store.Eq("business_id", &id)); err != nil {
			return err
		}
		var err error
		n, err = s.businesses.WithTx(tx).DeleteByIDs(ctx, []int64{id})
		return err
	})
	if err != nil {
		return store.AppError(err, msgNotFound, msgDuplicate)
	}
	if n == 0 {
		return apperr.NotFound(msgNotFound)
	}
	return nil
}

// Columns 按排序返回业务的列
func (s *Service) Columns(ctx context.Context, businessID int64) ([]Column, error) {
	if _, err := s.GetBusiness(ctx, businessID); err != nil {
		return nil, err
	}
	rows, err := s.columns.FindAll(ctx, store.Eq("business_id", &businessID), store.OrderBy("sort", false), store.OrderBy("id", false))
	return rows, store.AppError(err, msgNotFound, msgDuplicate)
}

// Import 从数据库表创建业务和列，同一张表只能导入一次
func (s *Service) Import(ctx context.Context, p ImportParam) (*Business, error) {
	table, err := s.inspect.Table(ctx, p.TableName)
	if err != nil {
		return nil, err
	}
	exists, err := s.businesses.ExistsBy(ctx, "table_name", p.TableName, 0)
	if err != nil {
		return nil, store.AppError(err, msgNotFound, msgDuplicate)
	}
	if exists {
		return nil, apperr.AlreadyExists(msgDuplicate)
	}
	infos, err := s.inspect.Columns(ctx, p.TableName)
	if err != nil {
		return nil, err
	}

	b := businessFromTable(p.App, table)
	cols := columnsFromTable(infos)
	err = store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.businesses.WithTx(tx).Insert(ctx, b); err != nil {
			return err
		}
		rows := make([]*Column, len(cols))
		for i := range cols {
			cols[i].BusinessID = b.ID
			rows[i] = &cols[i]
		}
		return s.columns.WithTx(tx).InsertBatch(ctx, rows, 100)
	})
	if err != nil {
		return nil, store.AppError(err, msgNotFound, msgDuplicate)
	}
	return b, nil
}

// businessFromTable 生成导入时的默认业务配置
func businessFromTable(app string, t *TableInfo) *Business {
	class := pascal(t.TableName)
	doc := t.TableName
	if i := strings.LastIndexByte(doc, '_'); i >= 0 {
		doc = doc[i+1:]
	}
	if t.TableComment != nil {
		doc = *t.TableComment
	}
	filename := strings.ToLower(t.TableName)
	return &Business{
		AppName:               app,
		Table:                 t.TableName,
		DocComment:            doc,
		TableComment:          t.TableComment,
		ClassName:             &class,
		SchemaName:            &class,
		Filename:              &filename,
		DefaultDatetimeColumn: true,
		APIVersion:            "v1",
	}
}

// genDir 解析业务的生成目录，必须位于 root 内
func (s *Service) genDir(b *Business) (string, error) {
	dir := s.root
	if b.GenPath != nil && *b.GenPath != "" {
		dir = *b.GenPath
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(s.root, dir)
		}
	}
	dir = filepath.Clean(dir)
	rel, err := filepath.Rel(s.root, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperr.OperationFailed("生成路径必须位于 " + s.root + " 内")
	}
	return dir, nil
}

// Paths 返回业务代码将要写入的文件
func (s *Service) Paths(ctx context.Context, id int64) ([]string, error) {
	b, err := s.GetBusiness(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkPackage(b.module()); err != nil {
		return nil, err
	}
	dir, err := s.genDir(b)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(templateNames))
	for _, name := range templateNames {
		out = append(out, filepath.Join(dir, b.module(), name+".go"))
	}
	return out, nil
}

// Generate 按业务与已保存的列配置生成代码并写入磁盘，返回写入的文件
func (s *Service) Generate(ctx context.Context, id int64) ([]string, error) {
	b, err := s.GetBusiness(ctx, id)
	if err != nil {
		return nil, err
	}
	cols, err := s.Columns(ctx, id)
	if err != nil {
		return nil, err
	}
	dir, err := s.genDir(b)
	if err != nil {
		return nil, err
	}
	files, err := render(b, cols, "")
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(files))
	for _, rel := range sortedKeys(files) {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return written, apperr.OperationFailed(fmt.Sprintf("创建目录失败: %v", err))
		}
		if err := os.WriteFile(full, []byte(files[rel]), 0o644); err != nil {
			return written, apperr.OperationFailed(fmt.Sprintf("写入文件失败: %v", err))
		}
		written = append(written, full)
	}
	slog.InfoContext(ctx, "代码已生成", "business", b.Table, "dir", dir, "files", len(written))
	return written, nil
}

// ---- 按表生成 ----

// Tables 返回当前库的全部表
func (s *Service) Tables(ctx context.Context) ([]TableInfo, error) {
	return s.inspect.Tables(ctx)
}

// TableColumns 返回表的列
func (s *Service) TableColumns(ctx context.Context, table string) ([]ColumnInfo, error) {
	return s.inspect.Columns(ctx, table)
}

// Templates 返回可用模板名
func (s *Service) Templates() []string {
	return append([]string(nil), templateNames...)
}

// Preview 直接按表结构生成代码，不读写业务模型
func (s *Service) Preview(ctx context.Context, table, module, author string) (*CodePreview, error) {
	if err := checkPackage(module); err != nil {
		return nil, err
	}
	t, err := s.inspect.Table(ctx, table)
	if err != nil {
		return nil, err
	}
	infos, err := s.inspect.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	b := businessFromTable(module, t)
	b.Filename = &module
	b.ClassName = nil
	files, err := render(b, columnsFromTable(infos), author)
	if err != nil {
		return nil, err
	}
	return &CodePreview{Files: files}, nil
}

// Download 把预览结果打包为 ZIP
func (s *Service) Download(ctx context.Context, table, module string) ([]byte, error) {
	preview, err := s.Preview(ctx, table, module, "")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range sortedKeys(preview.Files) {
		w, err := zw.Create(name)
		if err != nil {
			return nil, apperr.OperationFailed(fmt.Sprintf("打包失败: %v", err))
		}
		if _, err := w.Write([]byte(preview.Files[name])); err != nil {
			return nil, apperr.OperationFailed(fmt.Sprintf("打包失败: %v", err))
		}
	}
	if err := zw.Close(); err != nil {
		return nil, apperr.OperationFailed(fmt.Sprintf("打包失败: %v", err))
	}
	return buf.Bytes(), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
