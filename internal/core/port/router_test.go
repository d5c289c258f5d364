// file: internal/core/port/router_test.go
package port

import (
	"net/http"
	"testing"

	"github.com/eginner01/rFBA-sub002/internal/cache"
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func noop(*gin.Context) {}

func TestRouter_CollectsRoutesInOrder(t *testing.T) {
	r := NewRouter()
	r.GET("", noop)
	r.GET("/all", noop).Perm("sys:notice:list")
	g := r.Group("/records")
	g.DELETE("/:pk", noop).Log("删除记录", domain.BusinessDelete)
	r.POST("/login/", noop).Open()

	routes := r.Routes()
	assert.Len(t, routes, 4)

	assert.Equal(t, http.MethodGet, routes[0].Method)
	assert.Equal(t, "", routes[0].Path)
	assert.Equal(t, "/all", routes[1].Path)
	assert.Equal(t, "sys:notice:list", routes[1].Permission)
	assert.Equal(t, "/records/:pk", routes[2].Path)
	assert.Equal(t, "删除记录", routes[2].LogTitle)
	assert.Equal(t, domain.BusinessDelete, routes[2].BusinessType)
	assert.Equal(t, "/login", routes[3].Path)
	assert.True(t, routes[3].Public)
}

func TestJoinPath(t *testing.T) {
	testCases := []struct {
		parts []string
		want  string
	}{
		{[]string{"/api/v1", "sys", "notices"}, "/api/v1/sys/notices"},
		{[]string{"/api/v1/", "", "/x/"}, "/api/v1/x"},
		{[]string{"", ""}, ""},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, JoinPath(tc.parts...))
	}
}

func TestMountValidate(t *testing.T) {
	assert.NoError(t, Extension("notices").Validate())
	assert.NoError(t, Independent("email").Validate())
	assert.Error(t, Extension().Validate())
	assert.Error(t, Extension("a/b").Validate())
	assert.Error(t, Independent("").Validate())
	assert.Error(t, Mount{}.Validate())
}

func TestStateMissing(t *testing.T) {
	s := State{}
	assert.Equal(t, []Dependency{DepCache, DepSMTP, DepOAuth2}, s.Missing([]Dependency{DepCache, DepSMTP, DepOAuth2}))

	s = State{Cache: cache.NewMemory(), SMTP: &fbaconf.SMTPConfig{}}
	assert.Equal(t, []Dependency{DepOAuth2}, s.Missing([]Dependency{DepCache, DepSMTP, DepOAuth2}))
	assert.Empty(t, s.Missing(nil))
}
