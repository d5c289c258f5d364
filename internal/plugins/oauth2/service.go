package oauth2

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	xoauth "golang.org/x/oauth2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	msgBindNotFound = "绑定不存在"
	msgBadState     = "state 无效或已过期"
	userInfoLimit   = 1 << 20
	// detailLimit 是错误消息中保留的上游响应长度
	detailLimit = 256
)

// Service 处理授权、回调与绑定
type Service struct {
	binds   *store.Repo[Bind]
	clients map[string]*client
	// states 保存已签发且尚未使用的 state -> 提供商名
	states *gocache.Cache
	http   *http.Client
	auth   port.Authority
}

// NewService 创建服务，clients 只包含已配置的提供商
func NewService(db *gorm.DB, clients map[string]*client, stateTTL time.Duration, httpClient *http.Client, auth port.Authority) *Service {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Service{
		binds:   store.NewRepo[Bind](db),
		clients: clients,
		states:  gocache.New(stateTTL, 2*stateTTL),
		http:    httpClient,
		auth:    auth,
	}
}

// Providers 返回已启用的提供商名，按字母序
func (s *Service) Providers() []string {
	out := make([]string, 0, len(s.clients))
	for name := range s.clients {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Service) client(name string) (*client, error) {
	c, ok := s.clients[normalizeName(name)]
	if !ok {
		return nil, apperr.NotFound(fmt.Sprintf("不支持的OAuth提供商 %s", name))
	}
	return c, nil
}

// AuthorizeURL 签发一次性 state 并返回提供商授权地址
func (s *Service) AuthorizeURL(provider string) (string, error) {
	c, err := s.client(provider)
	if err != nil {
		return "", err
	}
	state := uuid.NewString()
	s.states.Set(state, c.Name, gocache.DefaultExpiration)
	return c.conf.AuthCodeURL(state), nil
}

// Callback 校验 state 并换取用户资料。已绑定的账号直接签发本系统令牌。
func (s *Service) Callback(ctx context.Context, provider, code, state string) (*CallbackResult, error) {
	c, err := s.client(provider)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, apperr.Validation("缺少code参数")
	}
	owner, ok := s.states.Get(state)
	if !ok || owner != c.Name {
		return nil, apperr.OperationFailed(msgBadState)
	}
	s.states.Delete(state)

	grant, err := s.exchange(ctx, c, code)
	if err != nil {
		return nil, err
	}
	res := &CallbackResult{UserInfo: grant.info}

	bind, err := s.binds.FindOneBy(ctx, "provider", c.Name, store.Eq("provider_user_id", &grant.info.ProviderUserID))
	switch {
	case store.IsNotFound(err):
		return res, nil
	case err != nil:
		return nil, store.AppError(err, msgBindNotFound, "")
	}
	if _, err := s.binds.Update(ctx, bind.ID, grant.tokenValues()); err != nil {
		slog.Warn("刷新第三方令牌失败", "provider", c.Name, "bind_id", bind.ID, "error", err)
	}
	token, expires, err := s.auth.IssueToken(ctx, bind.UserID)
	if err != nil {
		return nil, err
	}
	res.Bound = true
	res.AccessToken = token
	res.AccessTokenExpireTime = &expires
	return res, nil
}

// Bind 用授权码把第三方账号绑定到 userID
func (s *Service) Bind(ctx context.Context, userID int64, p BindParam) (*Bind, error) {
	c, err := s.client(p.Provider)
	if err != nil {
		return nil, err
	}
	mine, err := s.binds.Count(ctx, store.Eq("user_id", &userID), store.Eq("provider", &c.Name))
	if err != nil {
		return nil, apperr.Database(err)
	}
	if mine > 0 {
		return nil, apperr.AlreadyExists(fmt.Sprintf("当前用户已绑定 %s 账号", c.Name))
	}

	grant, err := s.exchange(ctx, c, p.Code)
	if err != nil {
		return nil, err
	}
	dup := fmt.Sprintf("该 %s 账号已绑定其他用户", c.Name)
	b := &Bind{
		UserID:         userID,
		Provider:       c.Name,
		ProviderUserID: grant.info.ProviderUserID,
		AccessToken:    grant.token.AccessToken,
		UserInfo:       grant.raw,
	}
	if grant.token.RefreshToken != "" {
		b.RefreshToken = &grant.token.RefreshToken
	}
	if !grant.token.Expiry.IsZero() {
		b.ExpiresAt = &grant.token.Expiry
	}
	if err := s.binds.Insert(ctx, b); err != nil {
		return nil, store.AppError(err, msgBindNotFound, dup)
	}
	return b, nil
}

// Unbind 删除 userID 在 provider 上的绑定
func (s *Service) Unbind(ctx context.Context, userID int64, provider string) error {
	name := normalizeName(provider)
	n, err := s.binds.DeleteWhere(ctx, store.Eq("user_id", &userID), store.Eq("provider", &name))
	if err != nil {
		return store.AppError(err, msgBindNotFound, "")
	}
	if n == 0 {
		return apperr.NotFound(msgBindNotFound)
	}
	return nil
}

// Binds 返回 userID 的全部绑定
func (s *Service) Binds(ctx context.Context, userID int64) ([]Bind, error) {
	rows, err := s.binds.FindAll(ctx, store.Eq("user_id", &userID), store.OrderBy("id", false))
	return rows, store.AppError(err, msgBindNotFound, "")
}

// grant 是一次授权码交换的结果
type grant struct {
	token *xoauth.Token
	info  UserInfo
	raw   datatypes.JSON
}

func (g grant) tokenValues() map[string]any {
	values := map[string]any{"access_token": g.token.AccessToken, "user_info": g.raw}
	if g.token.RefreshToken != "" {
		values["refresh_token"] = g.token.RefreshToken
	}
	if !g.token.Expiry.IsZero() {
		values["expires_at"] = g.token.Expiry
	}
	return values
}

// exchange 用授权码换令牌并读取用户资料，上游失败映射为 UpstreamApiFailure
func (s *Service) exchange(ctx context.Context, c *client, code string) (grant, error) {
	ctx = context.WithValue(ctx, xoauth.HTTPClient, s.http)
	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		var re *xoauth.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return grant{}, apperr.Upstream(re.Response.StatusCode, withDetail("授权码交换令牌失败", retrieveDetail(re)))
		}
		return grant{}, apperr.Upstream(0, "授权码交换令牌失败: "+err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.UserInfoURL, nil)
	if err != nil {
		return grant{}, apperr.Upstream(0, err.Error())
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.conf.Client(ctx, tok).Do(req)
	if err != nil {
		return grant{}, apperr.Upstream(0, "获取用户信息失败: "+err.Error())
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, userInfoLimit))
	if err != nil {
		return grant{}, apperr.Upstream(0, "获取用户信息失败: "+err.Error())
	}
	if resp.StatusCode != http.StatusOK {
		return grant{}, apperr.Upstream(resp.StatusCode, withDetail("获取用户信息失败", clip(body)))
	}

	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return grant{}, apperr.Upstream(0, "用户信息不是合法的 JSON")
	}
	info := c.parse(raw)
	info.Provider = c.Name
	if info.ProviderUserID == "" {
		return grant{}, apperr.Upstream(0, "用户信息缺少 id")
	}
	return grant{token: tok, info: info, raw: datatypes.JSON(body)}, nil
}

// retrieveDetail 取令牌接口的错误说明，优先使用 RFC 6749 的 error_description
func retrieveDetail(re *xoauth.RetrieveError) string {
	switch {
	case re.ErrorDescription != "":
		return clip([]byte(re.ErrorDescription))
	case re.ErrorCode != "":
		return re.ErrorCode
	default:
		return clip(re.Body)
	}
}

func withDetail(msg, detail string) string {
	if detail == "" {
		return msg
	}
	return msg + ": " + detail
}

// clip 截断上游响应体用于错误消息
func clip(body []byte) string {
	if len(body) > detailLimit {
		body = body[:detailLimit]
	}
	return strings.TrimSpace(strings.ToValidUTF8(string(body), ""))
}
