package notice

import "github.com/eginner01/rFBA-sub002/internal/core/response"

// NoticeParam 是创建与更新共用的请求体
type NoticeParam struct {
	Title   string `json:"title" validate:"min=1,max=64" msg:"标题长度必须在1-64之间"`
	Type    int    `json:"type" validate:"oneof=0 1" msg:"类型必须是0或1"`
	Status  int    `json:"status" validate:"oneof=0 1" msg:"状态必须是0或1"`
	Content string `json:"content" validate:"min=1,max=50000" msg:"内容长度必须在1-50000之间"`
}

func (p NoticeParam) values() map[string]any {
	return map[string]any{
		"title":   p.Title,
		"type":    p.Type,
		"status":  p.Status,
		"content": p.Content,
	}
}

// NoticeQuery 是分页列表的过滤条件
type NoticeQuery struct {
	Title  string `form:"title"`
	Type   *int   `form:"type" validate:"omitempty,oneof=0 1" msg:"类型必须是0或1"`
	Status *int   `form:"status" validate:"omitempty,oneof=0 1" msg:"状态必须是0或1"`
	response.PageQuery
}
