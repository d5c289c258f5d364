package dict

import (
	"context"
	"fmt"
	"strings"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"gorm.io/gorm"
)

const (
	msgTypeNotFound = "字典类型不存在"
	msgDataNotFound = "字典数据不存在"
	msgTypeInUse    = "存在关联的字典数据，无法删除"
)

// Service 封装字典类型与字典数据的业务规则
type Service struct {
	db    *gorm.DB
	types *store.Repo[DictType]
	datas *store.Repo[DictData]
}

// NewService 创建服务
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:    db,
		types: store.NewRepo[DictType](db),
		datas: store.NewRepo[DictData](db),
	}
}

// ---- 字典类型 ----

// AllTypes 按 ID 升序返回全部类型
func (s *Service) AllTypes(ctx context.Context) ([]DictType, error) {
	rows, err := s.types.FindAll(ctx, store.OrderBy("id", false))
	return rows, store.AppError(err, msgTypeNotFound, "")
}

// GetType 按主键查询类型
func (s *Service) GetType(ctx context.Context, id int64) (*DictType, error) {
	row, err := s.types.FindByID(ctx, id)
	if err != nil {
		return nil, store.AppError(err, msgTypeNotFound, "")
	}
	return row, nil
}

// PageTypes 分页查询类型
func (s *Service) PageTypes(ctx context.Context, q TypeQuery) (response.Page[DictType], error) {
	p, err := s.types.Page(ctx, q.PageQuery, store.OrderBy("id", false),
		store.Contains("name", q.Name),
		store.Contains("code", q.Code),
		store.Eq("status", q.Status),
	)
	return p, store.AppError(err, msgTypeNotFound, "")
}

// CreateType 新建类型，编码唯一
func (s *Service) CreateType(ctx context.Context, p CreateTypeParam) (*DictType, error) {
	dup := fmt.Sprintf("字典编码 %s 已存在", p.Code)
	exists, err := s.types.ExistsBy(ctx, "code", p.Code, 0)
	if err != nil {
		return nil, apperr.Database(err)
	}
	if exists {
		return nil, apperr.AlreadyExists(dup)
	}
	row := &DictType{
		Name:   p.Name,
		Code:   p.Code,
		Status: orDefault(p.Status, StatusEnabled),
		Remark: p.Remark,
	}
	if err := s.types.Insert(ctx, row); err != nil {
		return nil, store.AppError(err, msgTypeNotFound, dup)
	}
	return row, nil
}

// UpdateType 更新类型
func (s *Service) UpdateType(ctx context.Context, id int64, p UpdateTypeParam) error {
	if _, err := s.GetType(ctx, id); err != nil {
		return err
	}
	_, err := s.types.Update(ctx, id, map[string]any{
		"name":   p.Name,
		"status": p.Status,
		"remark": p.Remark,
	})
	return store.AppError(err, msgTypeNotFound, "")
}

// DeleteTypes 删除类型。任一类型下仍有字典数据时整体拒绝。
func (s *Service) DeleteTypes(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := store.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		used, err := s.datas.WithTx(tx).Count(ctx, store.In("type_id", ids))
		if err != nil {
			return err
		}
		if used > 0 {
			return apperr.OperationFailed(msgTypeInUse)
		}
		n, err = s.types.WithTx(tx).DeleteByIDs(ctx, ids)
		return err
	})
	return n, store.AppError(err, msgTypeNotFound, "")
}

// ---- 字典数据 ----

// AllDatas 按类型、排序号升序返回全部数据
func (s *Service) AllDatas(ctx context.Context) ([]DictData, error) {
	rows, err := s.datas.FindAll(ctx, dataOrder)
	return rows, store.AppError(err, msgDataNotFound, "")
}

// GetData 按主键查询数据
func (s *Service) GetData(ctx context.Context, id int64) (*DictData, error) {
	row, err := s.datas.FindByID(ctx, id)
	if err != nil {
		return nil, store.AppError(err, msgDataNotFound, "")
	}
	return row, nil
}

// FindEnabledByTypeCode 返回某类型下启用的数据，按排序号升序
func (s *Service) FindEnabledByTypeCode(ctx context.Context, code string) ([]DictData, error) {
	status := StatusEnabled
	rows, err := s.datas.FindAll(ctx,
		store.Eq("type_code", &code),
		store.Eq("status", &status),
		store.OrderBy("sort", false),
		store.OrderBy("id", false),
	)
	return rows, store.AppError(err, msgDataNotFound, "")
}

// PageDatas 分页查询数据
func (s *Service) PageDatas(ctx context.Context, q DataQuery) (response.Page[DictData], error) {
	p, err := s.datas.Page(ctx, q.PageQuery, dataOrder,
		store.Eq("type_code", q.TypeCode),
		store.Eq("type_id", q.TypeID),
		store.Contains("label", q.Label),
		store.Contains("value", q.Value),
		store.Eq("status", q.Status),
	)
	return p, store.AppError(err, msgDataNotFound, "")
}

// CreateData 在已有类型下新建数据
func (s *Service) CreateData(ctx context.Context, p CreateDataParam) (*DictData, error) {
	typ, err := s.GetType(ctx, p.TypeID)
	if err != nil {
		return nil, err
	}
	isDefault := strings.ToUpper(p.IsDefault)
	if isDefault == "" {
		isDefault = "N"
	}
	row := &DictData{
		TypeID:    typ.ID,
		TypeCode:  typ.Code,
		Label:     p.Label,
		Value:     p.Value,
		Color:     p.Color,
		Sort:      p.Sort,
		IsDefault: isDefault,
		Status:    orDefault(p.Status, StatusEnabled),
		Remark:    p.Remark,
	}
	if err := s.datas.Insert(ctx, row); err != nil {
		return nil, store.AppError(err, msgDataNotFound, "")
	}
	return row, nil
}

// UpdateData 更新数据，所属类型不可修改
func (s *Service) UpdateData(ctx context.Context, id int64, p UpdateDataParam) error {
	if _, err := s.GetData(ctx, id); err != nil {
		return err
	}
	_, err := s.datas.Update(ctx, id, p.values())
	return store.AppError(err, msgDataNotFound, "")
}

// DeleteDatas 批量删除数据
func (s *Service) DeleteDatas(ctx context.Context, ids []int64) (int64, error) {
	n, err := s.datas.DeleteByIDs(ctx, ids)
	return n, store.AppError(err, msgDataNotFound, "")
}

func dataOrder(db *gorm.DB) *gorm.DB {
	return db.Scopes(store.OrderBy("type_id", false), store.OrderBy("sort", false), store.OrderBy("id", false))
}
