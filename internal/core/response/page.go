// file: internal/core/response/page.go
package response

// 分页默认值与上限
const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
)

// PageQuery 是分页查询参数
type PageQuery struct {
	Page int `form:"page" json:"page" validate:"omitempty,min=1" msg:"页码必须大于等于1"`
	Size int `form:"size" json:"size" validate:"omitempty,min=1,max=100" msg:"每页数量必须在1-100之间"`
}

// Normalize 填充默认值
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Size < 1 {
		q.Size = DefaultSize
	}
	if q.Size > MaxSize {
		q.Size = MaxSize
	}
	return q
}

// Offset 返回 (page-1)*size
func (q PageQuery) Offset() int {
	q = q.Normalize()
	return (q.Page - 1) * q.Size
}

// Limit 返回每页数量
func (q PageQuery) Limit() int {
	return q.Normalize().Size
}

// Page 是分页结果
type Page[T any] struct {
	Total int64 `json:"total"`
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int64 `json:"pages"`
}

// NewPage 由当前页数据、总数和查询参数构造分页结果。
// total 为 0 时 pages 为 0。
func NewPage[T any](items []T, total int64, q PageQuery) Page[T] {
	q = q.Normalize()
	if items == nil {
		items = []T{}
	}
	var pages int64
	if total > 0 {
		size := int64(q.Size)
		pages = (total + size - 1) / size
	}
	return Page[T]{
		Total: total,
		Items: items,
		Page:  q.Page,
		Size:  q.Size,
		Pages: pages,
	}
}

// MapPage 转换分页结果中的元素类型
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, fn(it))
	}
	return Page[U]{Total: p.Total, Items: out, Page: p.Page, Size: p.Size, Pages: p.Pages}
}

// DeleteIDs 是批量删除载荷，空列表合法且不做任何操作
type DeleteIDs struct {
	IDs []int64 `json:"ids"`
}

// Unique 返回去重后的 ID，保持首次出现的顺序
func (d DeleteIDs) Unique() []int64 {
	seen := make(map[int64]struct{}, len(d.IDs))
	out := make([]int64, 0, len(d.IDs))
	for _, id := range d.IDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
