// file: internal/transport/http/middleware/limiter.go
package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	limiterIdleTimeout     = 15 * time.Minute
)

// limiterEntry 存储限制器和最后访问时间
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 组合全局令牌桶与按 IP 的令牌桶
type RateLimiter struct {
	global *rate.Limiter

	mu       sync.Mutex
	ips      map[string]*limiterEntry
	ipRate   rate.Limit
	ipBurst  int
	now      func() time.Time
	stopOnce sync.Once
	stop     chan struct{}
}

// NewRateLimiter 创建限流器并启动空闲条目清理协程，调用 Close 停止
func NewRateLimiter(cfg fbaconf.RateLimitConfig) *RateLimiter {
	l := &RateLimiter{
		global:  rate.NewLimiter(rate.Limit(cfg.GlobalRate), cfg.GlobalBurst),
		ips:     make(map[string]*limiterEntry),
		ipRate:  rate.Limit(cfg.IPRate),
		ipBurst: cfg.IPBurst,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go l.cleanupDaemon()
	slog.Info("限流器初始化完成",
		"global_rate", cfg.GlobalRate, "global_burst", cfg.GlobalBurst,
		"ip_rate", cfg.IPRate, "ip_burst", cfg.IPBurst)
	return l
}

// getLimiter 返回或创建指定 IP 的限制器
func (l *RateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, exists := l.ips[ip]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.ipRate, l.ipBurst)}
		l.ips[ip] = entry
	}
	entry.lastSeen = l.now()
	return entry.limiter
}

func (l *RateLimiter) cleanupDaemon() {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// sweep 删除长时间不活跃的 IP 条目
func (l *RateLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, entry := range l.ips {
		if l.now().Sub(entry.lastSeen) > limiterIdleTimeout {
			delete(l.ips, ip)
		}
	}
}

// Close 停止清理协程
func (l *RateLimiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Middleware 先检查全局限制，再检查 IP 限制
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.global.Allow() {
			abortWith(c, apperr.New(apperr.KindTooManyRequests, "系统繁忙，请稍后再试"))
			return
		}
		if !l.getLimiter(ClientIP(c.Request)).Allow() {
			abortWith(c, apperr.New(apperr.KindTooManyRequests, "请求过于频繁，请稍后再试"))
			return
		}
		c.Next()
	}
}
