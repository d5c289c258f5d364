package rbac

import (
	"context"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/store"
)

// FindDepts 按排序号返回满足条件的部门
func (s *Service) FindDepts(ctx context.Context, q DeptQuery) ([]Dept, error) {
	rows, err := s.depts.FindAll(ctx,
		store.Contains("name", q.Name),
		store.Eq("status", q.Status),
		store.OrderBy("sort", false),
		store.OrderBy("id", false),
	)
	return rows, store.AppError(err, msgDeptNotFound, "")
}

// DeptTree 把部门组装成树。父部门不在结果中的节点作为根。
func (s *Service) DeptTree(ctx context.Context, q DeptQuery) ([]*DeptNode, error) {
	rows, err := s.FindDepts(ctx, q)
	if err != nil {
		return nil, err
	}
	return buildTree(rows), nil
}

func buildTree(rows []Dept) []*DeptNode {
	nodes := make(map[int64]*DeptNode, len(rows))
	for _, d := range rows {
		nodes[d.ID] = &DeptNode{Dept: d, Children: []*DeptNode{}}
	}
	roots := make([]*DeptNode, 0)
	for _, d := range rows {
		n := nodes[d.ID]
		if d.ParentID != nil {
			if parent, ok := nodes[*d.ParentID]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}

// GetDept 按主键查询部门
func (s *Service) GetDept(ctx context.Context, id int64) (*Dept, error) {
	d, err := s.depts.FindByID(ctx, id)
	if err != nil {
		return nil, store.AppError(err, msgDeptNotFound, "")
	}
	return d, nil
}

// CreateDept 新建部门，上级部门必须存在
func (s *Service) CreateDept(ctx context.Context, p DeptParam) (*Dept, error) {
	if p.ParentID != nil {
		if _, err := s.GetDept(ctx, *p.ParentID); err != nil {
			return nil, apperr.NotFound("上级部门不存在")
		}
	}
	d := &Dept{
		Name:     p.Name,
		ParentID: p.ParentID,
		Sort:     p.Sort,
		Leader:   p.Leader,
		Phone:    p.Phone,
		Email:    p.Email,
		Status:   p.status(),
	}
	if err := s.depts.Insert(ctx, d); err != nil {
		return nil, store.AppError(err, msgDeptNotFound, "")
	}
	return d, nil
}

// UpdateDept 更新部门。上级部门不能是自身或自身的下级。
func (s *Service) UpdateDept(ctx context.Context, id int64, p DeptParam) error {
	if _, err := s.GetDept(ctx, id); err != nil {
		return err
	}
	if p.ParentID != nil {
		if err := s.checkParent(ctx, id, *p.ParentID); err != nil {
			return err
		}
	}
	_, err := s.depts.Update(ctx, id, map[string]any{
		"name":      p.Name,
		"parent_id": p.ParentID,
		"sort":      p.Sort,
		"leader":    p.Leader,
		"phone":     p.Phone,
		"email":     p.Email,
		"status":    p.status(),
	})
	return store.AppError(err, msgDeptNotFound, "")
}

// checkParent 沿 parent 链向上查找，遇到 id 说明会形成环
func (s *Service) checkParent(ctx context.Context, id, parentID int64) error {
	all, err := s.depts.FindAll(ctx)
	if err != nil {
		return apperr.Database(err)
	}
	parents := make(map[int64]*int64, len(all))
	for _, d := range all {
		parents[d.ID] = d.ParentID
	}
	if _, ok := parents[parentID]; !ok {
		return apperr.NotFound("上级部门不存在")
	}
	// 步数上限防止脏数据中已有的环
	for cur, hops := &parentID, 0; cur != nil && hops <= len(all); cur, hops = parents[*cur], hops+1 {
		if *cur == id {
			return apperr.OperationFailed("上级部门不能是自身或其下级")
		}
	}
	return nil
}

// DeleteDepts 软删除部门。存在子部门或用户时拒绝。
func (s *Service) DeleteDepts(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	children, err := s.depts.Count(ctx, store.In("parent_id", ids))
	if err != nil {
		return 0, apperr.Database(err)
	}
	if children > 0 {
		return 0, apperr.OperationFailed("存在子部门，无法删除")
	}
	members, err := s.users.Count(ctx, store.In("dept_id", ids))
	if err != nil {
		return 0, apperr.Database(err)
	}
	if members > 0 {
		return 0, apperr.OperationFailed("部门下存在用户，无法删除")
	}
	n, err := s.depts.DeleteByIDs(ctx, ids)
	return n, store.AppError(err, msgDeptNotFound, "")
}
