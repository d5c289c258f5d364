package dict_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/eginner01/rFBA-sub002/internal/core/port"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/plugins/dict"
	"github.com/eginner01/rFBA-sub002/internal/plugins/plugintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	typesURL = "/api/v1/sys/dict-types"
	datasURL = "/api/v1/sys/dict-datas"
)

func newEnv(t *testing.T) *plugintest.Env {
	return plugintest.New(t, []port.Plugin{dict.New()})
}

func createType(t *testing.T, env *plugintest.Env, code string) dict.DictType {
	t.Helper()
	res := env.Admin(http.MethodPost, typesURL, map[string]any{"name": "类型 " + code, "code": code})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	var dt dict.DictType
	res.Into(t, &dt)
	return dt
}

func createData(t *testing.T, env *plugintest.Env, body map[string]any) dict.DictData {
	t.Helper()
	res := env.Admin(http.MethodPost, datasURL, body)
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	var d dict.DictData
	res.Into(t, &d)
	return d
}

func TestDictType_CRUD(t *testing.T) {
	env := newEnv(t)
	dt := createType(t, env, "sys_status")
	assert.Equal(t, dict.StatusEnabled, dt.Status, "状态缺省为启用")

	res := env.Admin(http.MethodPost, typesURL, map[string]any{"name": "x", "code": "sys_status"})
	assert.Equal(t, http.StatusConflict, res.Status)
	assert.Equal(t, "字典编码 sys_status 已存在", res.Msg)

	res = env.Admin(http.MethodPost, typesURL, map[string]any{"name": "x", "code": "sys-status"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Equal(t, "字典编码只能包含字母、数字和下划线", res.Msg)

	res = env.Admin(http.MethodPut, fmt.Sprintf("%s/%d", typesURL, dt.ID), map[string]any{"name": "系统状态", "status": 0})
	require.Equal(t, http.StatusOK, res.Status)
	var got dict.DictType
	env.Admin(http.MethodGet, fmt.Sprintf("%s/%d", typesURL, dt.ID), nil).Into(t, &got)
	assert.Equal(t, "系统状态", got.Name)
	assert.Equal(t, "sys_status", got.Code)
	assert.Equal(t, dict.StatusDisabled, got.Status)

	res = env.Admin(http.MethodGet, typesURL+"/999", nil)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "字典类型不存在", res.Msg)

	var p response.Page[dict.DictType]
	env.Admin(http.MethodGet, typesURL+"?code=status", nil).Into(t, &p)
	assert.EqualValues(t, 1, p.Total)
}

func TestDictData_RequiresType(t *testing.T) {
	env := newEnv(t)
	res := env.Admin(http.MethodPost, datasURL, map[string]any{"type_id": 42, "label": "是", "value": "1"})
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "字典类型不存在", res.Msg)

	res = env.Admin(http.MethodPost, datasURL, map[string]any{"type_id": 1, "label": "", "value": "", "is_default": "X"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Equal(t, "标签长度必须在1-64之间, 数据值长度必须在1-64之间, is_default只能是Y或N", res.Msg)
}

func TestDictData_ByTypeCode(t *testing.T) {
	env := newEnv(t)
	dt := createType(t, env, "yes_no")
	other := createType(t, env, "gender")

	no := createData(t, env, map[string]any{"type_id": dt.ID, "label": "否", "value": "0", "sort": 2})
	createData(t, env, map[string]any{"type_id": dt.ID, "label": "是", "value": "1", "sort": 1, "is_default": "Y"})
	createData(t, env, map[string]any{"type_id": dt.ID, "label": "未知", "value": "9", "sort": 0, "status": 0})
	createData(t, env, map[string]any{"type_id": other.ID, "label": "男", "value": "m"})

	assert.Equal(t, "yes_no", no.TypeCode, "type_code 取自所属类型")
	assert.Equal(t, "N", no.IsDefault)

	var rows []dict.DictData
	env.Admin(http.MethodGet, datasURL+"/type-codes/yes_no", nil).Into(t, &rows)
	require.Len(t, rows, 2, "只返回启用的数据")
	assert.Equal(t, "是", rows[0].Label)
	assert.Equal(t, "Y", rows[0].IsDefault)
	assert.Equal(t, "否", rows[1].Label)

	env.Admin(http.MethodGet, datasURL+"/all", nil).Into(t, &rows)
	require.Len(t, rows, 4)
	assert.Equal(t, "未知", rows[0].Label, "按 type_id、sort 排序")
	assert.Equal(t, "男", rows[3].Label)

	var p response.Page[dict.DictData]
	env.Admin(http.MethodGet, fmt.Sprintf("%s?type_id=%d&status=1", datasURL, dt.ID), nil).Into(t, &p)
	assert.EqualValues(t, 2, p.Total)
}

func TestDictType_DeleteRefusedWhileInUse(t *testing.T) {
	env := newEnv(t)
	used := createType(t, env, "used")
	free := createType(t, env, "free")
	d := createData(t, env, map[string]any{"type_id": used.ID, "label": "a", "value": "a"})

	res := env.Admin(http.MethodDelete, typesURL, map[string]any{"ids": []int64{free.ID, used.ID}})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, 400, res.Code)
	assert.Equal(t, "存在关联的字典数据，无法删除", res.Msg)

	res = env.Admin(http.MethodGet, fmt.Sprintf("%s/%d", typesURL, free.ID), nil)
	assert.Equal(t, http.StatusOK, res.Status, "拒绝时不删除任何类型")

	res = env.Admin(http.MethodDelete, datasURL, map[string]any{"ids": []int64{d.ID}})
	require.Equal(t, http.StatusOK, res.Status)
	res = env.Admin(http.MethodDelete, typesURL, map[string]any{"ids": []int64{free.ID, used.ID}})
	require.Equal(t, http.StatusOK, res.Status)
	res = env.Admin(http.MethodGet, fmt.Sprintf("%s/%d", typesURL, used.ID), nil)
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestDictData_Update(t *testing.T) {
	env := newEnv(t)
	dt := createType(t, env, "color")
	d := createData(t, env, map[string]any{"type_id": dt.ID, "label": "红", "value": "red"})

	res := env.Admin(http.MethodPut, fmt.Sprintf("%s/%d", datasURL, d.ID), map[string]any{"label": "深红", "value": "darkred", "sort": 3, "is_default": "Y", "status": 1, "color": "#8b0000"})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))

	var got dict.DictData
	env.Admin(http.MethodGet, fmt.Sprintf("%s/%d", datasURL, d.ID), nil).Into(t, &got)
	assert.Equal(t, "深红", got.Label)
	require.NotNil(t, got.Color)
	assert.Equal(t, "#8b0000", *got.Color)
	assert.Equal(t, dt.ID, got.TypeID)

	res = env.Admin(http.MethodPut, datasURL+"/999", map[string]any{"label": "a", "value": "a", "is_default": "N", "status": 1})
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "字典数据不存在", res.Msg)
}
