package oauth2

import "time"

// UserInfo 是从提供商用户接口归一化出的资料
type UserInfo struct {
	Provider       string  `json:"provider"`
	ProviderUserID string  `json:"provider_user_id"`
	Username       string  `json:"username"`
	Email          *string `json:"email"`
	AvatarURL      *string `json:"avatar_url"`
}

// CallbackResult 是回调的响应。第三方账号已绑定时携带本系统令牌。
type CallbackResult struct {
	UserInfo              UserInfo   `json:"user_info"`
	Bound                 bool       `json:"bound"`
	AccessToken           string     `json:"access_token,omitempty"`
	AccessTokenExpireTime *time.Time `json:"access_token_expire_time,omitempty"`
}

// BindParam 用授权码绑定当前用户
type BindParam struct {
	Provider string `json:"provider" validate:"min=1,max=50" msg:"提供商不能为空"`
	Code     string `json:"code" validate:"min=1" msg:"授权码不能为空"`
}

// UnbindParam 解绑当前用户的某个提供商
type UnbindParam struct {
	Provider string `json:"provider" validate:"min=1,max=50" msg:"提供商不能为空"`
}
