// Package oauth2 实现第三方账号 (GitHub、Google、LinuxDo) 的授权登录与绑定。
// 已绑定的第三方账号在回调时直接换取本系统的访问令牌。
package oauth2

import (
	"time"

	"github.com/eginner01/rFBA-sub002/internal/store"
	"gorm.io/datatypes"
)

// Bind 对应 sys_oauth_user_bind 表，(provider, provider_user_id) 唯一
type Bind struct {
	ID             int64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID         int64          `gorm:"column:user_id;not null" json:"user_id"`
	Provider       string         `gorm:"column:provider;size:50;not null" json:"provider"`
	ProviderUserID string         `gorm:"column:provider_user_id;size:255;not null" json:"provider_user_id"`
	AccessToken    string         `gorm:"column:access_token;size:500;not null" json:"-"`
	RefreshToken   *string        `gorm:"column:refresh_token;size:500" json:"-"`
	ExpiresAt      *time.Time     `gorm:"column:expires_at" json:"expires_at"`
	UserInfo       datatypes.JSON `gorm:"column:user_info" json:"user_info"`
	store.Mutable
}

func (Bind) TableName() string { return "sys_oauth_user_bind" }
