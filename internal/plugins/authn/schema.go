package authn

import (
	"time"

	"github.com/eginner01/rFBA-sub002/internal/plugins/rbac"
)

// LoginParam 是登录请求体
type LoginParam struct {
	Username string `json:"username" validate:"min=1,max=64" msg:"用户名不能为空"`
	Password string `json:"password" validate:"min=1,max=64" msg:"密码不能为空"`
}

// LoginResult 是登录成功的响应
type LoginResult struct {
	AccessToken           string           `json:"access_token"`
	AccessTokenExpireTime time.Time        `json:"access_token_expire_time"`
	User                  *rbac.UserDetail `json:"user"`
}
