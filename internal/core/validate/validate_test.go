package validate

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noticeParam struct {
	Title   string `json:"title" validate:"min=1,max=64" msg:"标题长度必须在1-64之间"`
	Type    int    `json:"type" validate:"oneof=0 1" msg:"类型必须是0或1"`
	Status  int    `json:"status" validate:"oneof=0 1" msg:"状态必须是0或1"`
	Content string `json:"content" validate:"min=1,max=50000" msg:"内容长度必须在1-50000之间"`
}

type configParam struct {
	Key string `json:"key" validate:"min=1,max=64,dotted_ident" msg:"配置键长度必须在1-64之间" msg_dotted_ident:"配置键只能包含字母、数字、点和下划线"`
}

type inner struct {
	Label string `json:"label" validate:"min=1" msg:"标签不能为空"`
}

type outer struct {
	Name  string  `json:"name" validate:"min=1" msg:"名称不能为空"`
	Items []inner `json:"items" validate:"dive"`
	Flag  *string `json:"flag" validate:"omitempty,yn" msg:"flag只能是Y或N"`
}

func validationMsg(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	var ae *apperr.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, apperr.KindValidation.Name, ae.Kind.Name)
	return ae.Message()
}

func TestStruct_AggregatesInFieldOrder(t *testing.T) {
	msg := validationMsg(t, Struct(&noticeParam{Title: "", Type: 0, Status: 0, Content: ""}))
	assert.Equal(t, "标题长度必须在1-64之间, 内容长度必须在1-50000之间", msg)
}

func TestStruct_OneTokenPerFailingField(t *testing.T) {
	msg := validationMsg(t, Struct(&noticeParam{Title: strings.Repeat("a", 65), Type: 3, Status: 2, Content: "x"}))
	assert.Equal(t, []string{"标题长度必须在1-64之间", "类型必须是0或1", "状态必须是0或1"}, strings.Split(msg, ", "))
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(&noticeParam{Title: "t", Type: 1, Status: 1, Content: "c"}))
}

func TestStruct_TagSpecificMessage(t *testing.T) {
	assert.Equal(t, "配置键长度必须在1-64之间", validationMsg(t, Struct(&configParam{Key: ""})))
	assert.Equal(t, "配置键只能包含字母、数字、点和下划线", validationMsg(t, Struct(&configParam{Key: "a-b"})))
	assert.NoError(t, Struct(&configParam{Key: "sys.user_name"}))
}

func TestStruct_Nested(t *testing.T) {
	bad := "X"
	msg := validationMsg(t, Struct(&outer{Name: "", Items: []inner{{Label: "ok"}, {Label: ""}}, Flag: &bad}))
	assert.Equal(t, "名称不能为空, 标签不能为空, flag只能是Y或N", msg)
}

func TestBindJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("malformed body", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
		c.Request.Header.Set("Content-Type", "application/json")
		var p noticeParam
		assert.Contains(t, validationMsg(t, BindJSON(c, &p)), "请求参数格式错误")
	})

	t.Run("constraint failure", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"","type":0,"status":0,"content":""}`))
		c.Request.Header.Set("Content-Type", "application/json")
		var p noticeParam
		assert.Equal(t, "标题长度必须在1-64之间, 内容长度必须在1-50000之间", validationMsg(t, BindJSON(c, &p)))
	})
}

func TestBindIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodDelete, "/", strings.NewReader(`{"ids":[1,2,1]}`))
	c.Request.Header.Set("Content-Type", "application/json")
	ids, err := BindIDs(c)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	ids, err = BindIDs(c)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestParamInt64(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "pk", Value: "42"}, {Key: "bad", Value: "x"}}

	id, err := ParamInt64(c, "pk")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ParamInt64(c, "bad")
	assert.Error(t, err)
}
