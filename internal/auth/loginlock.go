// file: internal/auth/loginlock.go
package auth

import (
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// LoginFailureLock 在同一 IP + 用户名连续登录失败达到上限后临时锁定
type LoginFailureLock struct {
	failureCache    *gocache.Cache
	maxFailures     int
	lockoutDuration time.Duration
}

// NewLoginFailureLock 创建登录失败锁定器，maxFailures <= 0 时不锁定
func NewLoginFailureLock(maxFailures int, lockoutDuration time.Duration) *LoginFailureLock {
	return &LoginFailureLock{
		failureCache:    gocache.New(lockoutDuration, 10*time.Minute),
		maxFailures:     maxFailures,
		lockoutDuration: lockoutDuration,
	}
}

func lockKey(ip, username string) string    { return "lock:" + ip + ":" + username }
func failureKey(ip, username string) string { return "failures:" + ip + ":" + username }

// Locked 报告该组合当前是否被锁定
func (l *LoginFailureLock) Locked(ip, username string) bool {
	_, found := l.failureCache.Get(lockKey(ip, username))
	return found
}

// Fail 记录一次失败，返回是否因此进入锁定
func (l *LoginFailureLock) Fail(ip, username string) bool {
	if l.maxFailures <= 0 {
		return false
	}
	key := failureKey(ip, username)
	// Increment 只在 key 存在时成功，首次失败需要初始化
	if err := l.failureCache.Increment(key, int64(1)); err != nil {
		l.failureCache.Set(key, int64(1), gocache.DefaultExpiration)
	}
	var failures int64
	if x, found := l.failureCache.Get(key); found {
		failures = x.(int64)
	}
	slog.Info("登录失败", "username", username, "ip", ip, "failures", failures)

	if failures >= int64(l.maxFailures) {
		l.failureCache.Set(lockKey(ip, username), true, l.lockoutDuration)
		l.failureCache.Delete(key)
		slog.Warn("账户已被临时锁定", "username", username, "ip", ip, "duration", l.lockoutDuration)
		return true
	}
	return false
}

// Reset 登录成功后清空失败计数
func (l *LoginFailureLock) Reset(ip, username string) {
	l.failureCache.Delete(failureKey(ip, username))
}
