package dict

import (
	"strings"

	"github.com/eginner01/rFBA-sub002/internal/core/response"
)

// CreateTypeParam 是创建字典类型的请求体，status 缺省为启用
type CreateTypeParam struct {
	Name   string  `json:"name" validate:"min=1,max=32" msg:"字典名称长度必须在1-32之间"`
	Code   string  `json:"code" validate:"min=1,max=32,ident" msg:"字典编码长度必须在1-32之间" msg_ident:"字典编码只能包含字母、数字和下划线"`
	Status *int    `json:"status" validate:"omitempty,oneof=0 1" msg:"状态必须是0或1"`
	Remark *string `json:"remark"`
}

// UpdateTypeParam 是更新字典类型的请求体，编码创建后不可修改
type UpdateTypeParam struct {
	Name   string  `json:"name" validate:"min=1,max=32" msg:"字典名称长度必须在1-32之间"`
	Status int     `json:"status" validate:"oneof=0 1" msg:"状态必须是0或1"`
	Remark *string `json:"remark"`
}

// TypeQuery 是字典类型分页过滤条件
type TypeQuery struct {
	Name   string `form:"name"`
	Code   string `form:"code"`
	Status *int   `form:"status" validate:"omitempty,oneof=0 1" msg:"状态必须是0或1"`
	response.PageQuery
}

// CreateDataParam 是创建字典数据的请求体。type_code 以所属类型为准。
type CreateDataParam struct {
	TypeID    int64   `json:"type_id" validate:"min=1" msg:"字典类型ID必须大于0"`
	Label     string  `json:"label" validate:"min=1,max=64" msg:"标签长度必须在1-64之间"`
	Value     string  `json:"value" validate:"min=1,max=64" msg:"数据值长度必须在1-64之间"`
	Color     *string `json:"color" validate:"omitempty,max=32" msg:"颜色长度不能超过32"`
	Sort      int     `json:"sort"`
	IsDefault string  `json:"is_default" validate:"omitempty,yn" msg:"is_default只能是Y或N"`
	Status    *int    `json:"status" validate:"omitempty,oneof=0 1" msg:"状态必须是0或1"`
	Remark    *string `json:"remark"`
}

// UpdateDataParam 是更新字典数据的请求体
type UpdateDataParam struct {
	Label     string  `json:"label" validate:"min=1,max=64" msg:"标签长度必须在1-64之间"`
	Value     string  `json:"value" validate:"min=1,max=64" msg:"数据值长度必须在1-64之间"`
	Color     *string `json:"color" validate:"omitempty,max=32" msg:"颜色长度不能超过32"`
	Sort      int     `json:"sort"`
	IsDefault string  `json:"is_default" validate:"yn" msg:"is_default只能是Y或N"`
	Status    int     `json:"status" validate:"oneof=0 1" msg:"状态必须是0或1"`
	Remark    *string `json:"remark"`
}

func (p UpdateDataParam) values() map[string]any {
	return map[string]any{
		"label":      p.Label,
		"value":      p.Value,
		"color":      p.Color,
		"sort":       p.Sort,
		"is_default": strings.ToUpper(p.IsDefault),
		"status":     p.Status,
		"remark":     p.Remark,
	}
}

// DataQuery 是字典数据分页过滤条件
type DataQuery struct {
	TypeCode *string `form:"type_code"`
	TypeID   *int64  `form:"type_id"`
	Label    string  `form:"label"`
	Value    string  `form:"value"`
	Status   *int    `form:"status" validate:"omitempty,oneof=0 1" msg:"状态必须是0或1"`
	response.PageQuery
}

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
