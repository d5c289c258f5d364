package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestEnvelopeShape(t *testing.T) {
	testCases := []struct {
		name     string
		write    func(c *gin.Context)
		status   int
		code     float64
		msg      string
		wantData bool
	}{
		{"success", func(c *gin.Context) { Success(c, []int{1}) }, 200, 200, "success", true},
		{"success_msg", func(c *gin.Context) { SuccessMsg(c, "创建成功") }, 200, 200, "创建成功", false},
		{"success_with", func(c *gin.Context) { SuccessWith(c, "ok", gin.H{"a": 1}) }, 200, 200, "ok", true},
		{"error", func(c *gin.Context) { Error(c, apperr.NotFound("通知公告不存在")) }, 404, 404, "通知公告不存在", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			tc.write(c)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			body := decode(t, w)
			assert.Equal(t, tc.code, body["code"])
			assert.Equal(t, tc.msg, body["msg"])
			_, hasData := body["data"]
			assert.Equal(t, tc.wantData, hasData)
			assert.LessOrEqual(t, len(body), 3)

			code, ok := c.Get(CodeKey)
			assert.True(t, ok)
			assert.Equal(t, int(tc.code), code)
		})
	}
}

func TestNewPage(t *testing.T) {
	testCases := []struct {
		name  string
		total int64
		q     PageQuery
		pages int64
		page  int
		size  int
	}{
		{"25 条第 2 页", 25, PageQuery{Page: 2, Size: 10}, 3, 2, 10},
		{"空结果", 0, PageQuery{Page: 1, Size: 10}, 0, 1, 10},
		{"默认参数", 5, PageQuery{}, 1, 1, 10},
		{"整除", 20, PageQuery{Page: 1, Size: 10}, 2, 1, 10},
		{"超过上限", 250, PageQuery{Page: 1, Size: 1000}, 3, 1, 100},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPage[int](nil, tc.total, tc.q)
			assert.Equal(t, tc.pages, p.Pages)
			assert.Equal(t, tc.page, p.Page)
			assert.Equal(t, tc.size, p.Size)
			assert.NotNil(t, p.Items)
		})
	}
}

func TestPageItemsSerializeAsArray(t *testing.T) {
	raw, err := json.Marshal(NewPage[string](nil, 0, PageQuery{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":0,"items":[],"page":1,"size":10,"pages":0}`, string(raw))
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 10, PageQuery{Page: 2, Size: 10}.Offset())
	assert.Equal(t, 0, PageQuery{}.Offset())
}

func TestDeleteIDsUnique(t *testing.T) {
	assert.Equal(t, []int64{1, 2}, DeleteIDs{IDs: []int64{1, 2, 1}}.Unique())
	assert.Empty(t, DeleteIDs{}.Unique())
}

func TestMapPage(t *testing.T) {
	p := NewPage([]int{1, 2}, 2, PageQuery{})
	q := MapPage(p, func(i int) string { return string(rune('a' + i)) })
	assert.Equal(t, []string{"b", "c"}, q.Items)
	assert.Equal(t, p.Pages, q.Pages)
}
