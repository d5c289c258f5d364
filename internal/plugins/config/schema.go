package config

import "github.com/eginner01/rFBA-sub002/internal/core/response"

// CreateParam 是创建请求体
type CreateParam struct {
	Name       string  `json:"name" validate:"min=1,max=64" msg:"配置名称长度必须在1-64之间"`
	Key        string  `json:"key" validate:"min=1,max=64,dotted_ident" msg:"配置键长度必须在1-64之间" msg_dotted_ident:"配置键只能包含字母、数字、点和下划线"`
	Value      string  `json:"value" validate:"max=10000" msg:"配置值长度不能超过10000"`
	Type       *string `json:"type" validate:"omitempty,max=32" msg:"配置类型长度不能超过32"`
	IsFrontend bool    `json:"is_frontend"`
	Remark     *string `json:"remark"`
}

// UpdateParam 是更新请求体，配置键创建后不可修改
type UpdateParam struct {
	Name       string  `json:"name" validate:"min=1,max=64" msg:"配置名称长度必须在1-64之间"`
	Value      string  `json:"value" validate:"max=10000" msg:"配置值长度不能超过10000"`
	Type       *string `json:"type" validate:"omitempty,max=32" msg:"配置类型长度不能超过32"`
	IsFrontend bool    `json:"is_frontend"`
	Remark     *string `json:"remark"`
}

func (p UpdateParam) values() map[string]any {
	return map[string]any{
		"name":        p.Name,
		"value":       p.Value,
		"type":        p.Type,
		"is_frontend": p.IsFrontend,
		"remark":      p.Remark,
	}
}

// AllQuery 过滤 /all
type AllQuery struct {
	Type *string `form:"type"`
}

// Query 是分页列表的过滤条件
type Query struct {
	Name       string `form:"name"`
	Key        string `form:"key"`
	IsFrontend *bool  `form:"is_frontend"`
	response.PageQuery
}
