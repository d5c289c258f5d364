package notice_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/eginner01/rFBA-sub002/internal/auditlog"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/plugins/notice"
	"github.com/eginner01/rFBA-sub002/internal/plugins/plugintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "/api/v1/sys/notices"

func newEnv(t *testing.T) *plugintest.Env {
	return plugintest.New(t, []port.Plugin{notice.New()})
}

func create(t *testing.T, env *plugintest.Env, title string, status int) notice.Notice {
	t.Helper()
	res := env.Admin(http.MethodPost, base, map[string]any{"title": title, "type": 0, "status": status, "content": "内容 " + title})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	assert.Equal(t, "创建成功", res.Msg)
	var n notice.Notice
	res.Into(t, &n)
	return n
}

// ============================================================================
//  CRUD
// ============================================================================

func TestNotice_CreateAndGet(t *testing.T) {
	env := newEnv(t)
	n := create(t, env, "停机维护", 1)
	assert.Positive(t, n.ID)
	assert.False(t, n.CreatedTime.IsZero())
	assert.Nil(t, n.UpdatedTime)

	res := env.Admin(http.MethodGet, fmt.Sprintf("%s/%d", base, n.ID), nil)
	require.Equal(t, http.StatusOK, res.Status)
	var got notice.Notice
	res.Into(t, &got)
	assert.Equal(t, "停机维护", got.Title)
	assert.Equal(t, "内容 停机维护", got.Content)
}

func TestNotice_Pagination(t *testing.T) {
	env := newEnv(t)
	for i := 1; i <= 25; i++ {
		create(t, env, fmt.Sprintf("notice-%02d", i), i%2)
	}

	res := env.Admin(http.MethodGet, base+"?page=2&size=10", nil)
	require.Equal(t, http.StatusOK, res.Status)
	var p response.Page[notice.Notice]
	res.Into(t, &p)
	assert.EqualValues(t, 25, p.Total)
	assert.Len(t, p.Items, 10)
	assert.EqualValues(t, 3, p.Pages)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, "notice-15", p.Items[0].Title, "按 ID 倒序")

	res = env.Admin(http.MethodGet, base+"?title=notice-2&status=1", nil)
	require.Equal(t, http.StatusOK, res.Status)
	res.Into(t, &p)
	// notice-21, notice-23, notice-25
	assert.EqualValues(t, 3, p.Total)
}

func TestNotice_EmptyPage(t *testing.T) {
	env := newEnv(t)
	res := env.Admin(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, res.Status)
	var p response.Page[notice.Notice]
	res.Into(t, &p)
	assert.Zero(t, p.Total)
	assert.Zero(t, p.Pages)
	assert.NotNil(t, p.Items)
	assert.Contains(t, string(res.Data), `"items":[]`)
}

func TestNotice_Validation(t *testing.T) {
	env := newEnv(t)
	res := env.Admin(http.MethodPost, base, map[string]any{"title": "", "type": 0, "status": 0, "content": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Equal(t, 422, res.Code)
	assert.Equal(t, "标题长度必须在1-64之间, 内容长度必须在1-50000之间", res.Msg)
	assert.Nil(t, res.Data)

	res = env.Admin(http.MethodGet, base+"?type=5", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Equal(t, "类型必须是0或1", res.Msg)

	res = env.Admin(http.MethodGet, base+"/abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
}

func TestNotice_Update(t *testing.T) {
	env := newEnv(t)
	n := create(t, env, "旧标题", 0)

	res := env.Admin(http.MethodPut, fmt.Sprintf("%s/%d", base, n.ID), map[string]any{"title": "新标题", "type": 1, "status": 1, "content": "新内容"})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	assert.Equal(t, "更新成功", res.Msg)

	var got notice.Notice
	env.Admin(http.MethodGet, fmt.Sprintf("%s/%d", base, n.ID), nil).Into(t, &got)
	assert.Equal(t, "新标题", got.Title)
	assert.Equal(t, notice.TypeAnnounce, got.Type)
	require.NotNil(t, got.UpdatedTime)
	assert.False(t, got.UpdatedTime.Before(got.CreatedTime))

	res = env.Admin(http.MethodPut, base+"/999999", map[string]any{"title": "x", "type": 0, "status": 0, "content": "x"})
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "通知公告不存在", res.Msg)
}

func TestNotice_DeleteWithDuplicateIDs(t *testing.T) {
	env := newEnv(t)
	a := create(t, env, "a", 1)
	b := create(t, env, "b", 1)
	c := create(t, env, "c", 1)

	res := env.Admin(http.MethodDelete, base, map[string]any{"ids": []int64{a.ID, b.ID, a.ID}})
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "删除成功", res.Msg)

	res = env.Admin(http.MethodGet, fmt.Sprintf("%s/%d", base, a.ID), nil)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, 404, res.Code)
	res = env.Admin(http.MethodGet, fmt.Sprintf("%s/%d", base, c.ID), nil)
	assert.Equal(t, http.StatusOK, res.Status)

	// 重复删除与空列表都是成功
	res = env.Admin(http.MethodDelete, base, map[string]any{"ids": []int64{a.ID}})
	assert.Equal(t, http.StatusOK, res.Status)
	res = env.Admin(http.MethodDelete, base, map[string]any{"ids": []int64{}})
	assert.Equal(t, http.StatusOK, res.Status)
}

func TestNotice_VisibleAndAll(t *testing.T) {
	env := newEnv(t)
	create(t, env, "hidden", 0)
	create(t, env, "shown", 1)

	res := env.Do(http.MethodGet, base+"/visible", nil, "")
	require.Equal(t, http.StatusOK, res.Status, "公开接口无需登录")
	var rows []notice.Notice
	res.Into(t, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "shown", rows[0].Title)

	env.Admin(http.MethodGet, base+"/all", nil).Into(t, &rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "shown", rows[0].Title)
}

// ============================================================================
//  权限与操作日志
// ============================================================================

func TestNotice_Permissions(t *testing.T) {
	env := newEnv(t)
	uid := env.SeedUser("editor", "secret1", false)
	token := env.TokenFor(uid)
	body := map[string]any{"title": "t", "type": 0, "status": 0, "content": "c"}

	res := env.Do(http.MethodPost, base, body, "")
	assert.Equal(t, http.StatusForbidden, res.Status)

	res = env.Do(http.MethodPost, base, body, token)
	assert.Equal(t, http.StatusForbidden, res.Status)
	assert.Equal(t, "permission denied", res.Msg)

	env.Grant(uid, notice.PermAdd)
	res = env.Do(http.MethodPost, base, body, token)
	assert.Equal(t, http.StatusOK, res.Status)

	res = env.Do(http.MethodGet, base+"/all", nil, token)
	assert.Equal(t, http.StatusOK, res.Status, "查询接口只需登录")
}

func TestNotice_OperationLog(t *testing.T) {
	env := newEnv(t)
	create(t, env, "logged", 1)
	env.FlushAudit()

	var rows []auditlog.OperaLog
	require.NoError(t, env.DB.Where("title = ?", "创建通知公告").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "create", rows[0].BusinessType)
	assert.Equal(t, "创建成功", rows[0].Msg)
	require.NotNil(t, rows[0].Username)
	assert.Equal(t, "admin", *rows[0].Username)
}
