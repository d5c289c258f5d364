// file: internal/auth/auth_test.go
package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/store/storetest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
//  Tokens
// ============================================================================

func TestTokens_IssueAndParse(t *testing.T) {
	tk, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)

	token, exp, err := tk.Issue(42)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tk.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokens_Rejects(t *testing.T) {
	tk, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewTokens("other-secret", time.Hour)
	require.NoError(t, err)

	forged, _, err := other.Issue(1)
	require.NoError(t, err)

	expiredIssuer, err := NewTokens("secret", time.Minute)
	require.NoError(t, err)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _, err := expiredIssuer.Issue(1)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
	}{
		{"wrong key", forged},
		{"expired", expired},
		{"alg none", none},
		{"garbage", "not-a-jwt"},
		{"empty", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tk.Parse(tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewTokens_Invalid(t *testing.T) {
	_, err := NewTokens("", time.Hour)
	assert.Error(t, err)
	_, err = NewTokens("x", 0)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "123456"))
	assert.False(t, CheckPassword(hash, "1234567"))

	_, err = HashPassword("")
	assert.Error(t, err)
}

// ============================================================================
//  Guard
// ============================================================================

type fakeResolver struct {
	users     map[int64]*domain.AuthContext
	perms     map[int64][]string
	permLoads int
}

func (f *fakeResolver) LoadUser(_ context.Context, id int64) (*domain.AuthContext, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrUserUnavailable
	}
	cp := *u
	return &cp, nil
}

func (f *fakeResolver) LoadPermissions(_ context.Context, id int64) (map[string]struct{}, error) {
	f.permLoads++
	set := map[string]struct{}{}
	for _, p := range f.perms[id] {
		set[p] = struct{}{}
	}
	return set, nil
}

func newGuard(t *testing.T, r Resolver) *Guard {
	t.Helper()
	tk, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)
	g, err := NewGuard(tk, r, 16)
	require.NoError(t, err)
	return g
}

func TestGuard_CachesPermissions(t *testing.T) {
	ctx := context.Background()
	r := &fakeResolver{
		users: map[int64]*domain.AuthContext{2: {UserID: 2, Username: "op"}},
		perms: map[int64][]string{2: {"sys:notice:add"}},
	}
	g := newGuard(t, r)
	token, _, err := g.IssueToken(ctx, 2)
	require.NoError(t, err)

	ac, err := g.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.True(t, ac.Has("sys:notice:add"))
	assert.False(t, ac.Has("sys:notice:del"))

	_, err = g.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 1, r.permLoads, "第二次认证应命中缓存")

	r.perms[2] = append(r.perms[2], "sys:notice:del")
	g.InvalidatePermissions()
	ac, err = g.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.True(t, ac.Has("sys:notice:del"))
	assert.Equal(t, 2, r.permLoads)
}

func TestGuard_SuperUserSkipsPermissionLoad(t *testing.T) {
	ctx := context.Background()
	r := &fakeResolver{users: map[int64]*domain.AuthContext{1: {UserID: 1, IsSuper: true}}}
	g := newGuard(t, r)
	token, _, err := g.IssueToken(ctx, 1)
	require.NoError(t, err)

	ac, err := g.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.True(t, ac.Has("anything"))
	assert.Zero(t, r.permLoads)
}

func TestGuard_UnknownUser(t *testing.T) {
	ctx := context.Background()
	g := newGuard(t, &fakeResolver{users: map[int64]*domain.AuthContext{}})
	token, _, err := g.IssueToken(ctx, 9)
	require.NoError(t, err)

	_, err = g.Authenticate(ctx, token)
	assert.True(t, errors.Is(err, ErrUserUnavailable))

	_, err = g.Authenticate(ctx, "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// ============================================================================
//  DBResolver
// ============================================================================

func TestDBResolver(t *testing.T) {
	ctx := context.Background()
	db := storetest.NewDB(t)
	now := time.Now()

	require.NoError(t, db.Exec(`INSERT INTO sys_dept (id, name, sort, status, created_time) VALUES (1, '研发部', 0, 1, ?)`, now).Error)
	require.NoError(t, db.Exec(`INSERT INTO sys_user (id, uuid, username, nickname, password, status, is_superuser, is_staff, is_multi_login, dept_id, join_time, created_time)
		VALUES (1, 'u-1', 'alice', 'Alice', 'x', 1, false, true, false, 1, ?, ?),
		       (2, 'u-2', 'bob', 'Bob', 'x', 0, false, true, false, NULL, ?, ?)`, now, now, now, now).Error)
	require.NoError(t, db.Exec(`INSERT INTO sys_role (id, name, status, created_time) VALUES (1, 'ops', 1, ?), (2, 'disabled', 0, ?)`, now, now).Error)
	require.NoError(t, db.Exec(`INSERT INTO sys_user_role (user_id, role_id) VALUES (1, 1), (1, 2)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO sys_role_permission (role_id, permission) VALUES (1, 'sys:notice:add'), (1, 'sys:notice:del'), (2, 'sys:config:del')`).Error)

	r := NewDBResolver(db)

	ac, err := r.LoadUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", ac.Username)
	require.NotNil(t, ac.DeptName)
	assert.Equal(t, "研发部", *ac.DeptName)

	_, err = r.LoadUser(ctx, 2)
	assert.ErrorIs(t, err, ErrUserUnavailable, "停用用户不可登录")
	_, err = r.LoadUser(ctx, 3)
	assert.ErrorIs(t, err, ErrUserUnavailable)

	perms, err := r.LoadPermissions(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"sys:notice:add": {}, "sys:notice:del": {}}, perms, "停用角色的权限不计入")
}

// ============================================================================
//  LoginFailureLock
// ============================================================================

func TestLoginFailureLock(t *testing.T) {
	l := NewLoginFailureLock(3, time.Minute)
	ip, user := "10.0.0.1", "alice"

	assert.False(t, l.Fail(ip, user))
	assert.False(t, l.Fail(ip, user))
	assert.False(t, l.Locked(ip, user))
	assert.True(t, l.Fail(ip, user))
	assert.True(t, l.Locked(ip, user))
	assert.False(t, l.Locked("10.0.0.2", user), "锁定只针对同一 IP")

	other := NewLoginFailureLock(2, time.Minute)
	other.Fail(ip, user)
	other.Reset(ip, user)
	assert.False(t, other.Fail(ip, user), "成功登录后计数重新开始")
}

func TestLoginFailureLock_Disabled(t *testing.T) {
	l := NewLoginFailureLock(0, time.Minute)
	for i := 0; i < 10; i++ {
		assert.False(t, l.Fail("ip", "u"))
	}
	assert.False(t, l.Locked("ip", "u"))
}
