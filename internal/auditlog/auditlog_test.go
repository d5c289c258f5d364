// file: internal/auditlog/auditlog_test.go
package auditlog

import (
	"context"
	"testing"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"github.com/eginner01/rFBA-sub002/internal/fbaobserve"
	"github.com/eginner01/rFBA-sub002/internal/store/storetest"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_FlushesOnClose(t *testing.T) {
	db := storetest.NewDB(t)
	w := NewWriter[AccessLog](db, "access", WriterOptions{BatchSize: 2, FlushInterval: time.Hour})

	for i := 0; i < 5; i++ {
		assert.True(t, w.Submit(&AccessLog{TraceID: "t", Method: "GET", Path: "/x", IP: "1.1.1.1", Status: 200, Code: 200, StartTime: time.Now()}))
	}
	require.NoError(t, w.Close(context.Background()))

	var n int64
	require.NoError(t, db.Model(&AccessLog{}).Count(&n).Error)
	assert.Equal(t, int64(5), n)

	var first AccessLog
	require.NoError(t, db.First(&first).Error)
	assert.False(t, first.CreatedTime.IsZero())

	assert.False(t, w.Submit(&AccessLog{}), "关闭后不再接收")
	require.NoError(t, w.Close(context.Background()), "重复关闭无副作用")
}

func TestWriter_FlushesOnInterval(t *testing.T) {
	db := storetest.NewDB(t)
	w := NewWriter[LoginLog](db, "login", WriterOptions{BatchSize: 100, FlushInterval: 20 * time.Millisecond})
	t.Cleanup(func() { _ = w.Close(context.Background()) })

	w.Submit(&LoginLog{Username: "alice", IP: "127.0.0.1", LoginTime: time.Now()})
	assert.Eventually(t, func() bool {
		var n int64
		db.Model(&LoginLog{}).Count(&n)
		return n == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWriter_DropsWhenFull(t *testing.T) {
	db := storetest.NewDB(t)
	// 消费协程启动前队列只能容纳 2 条
	w := newWriter[OperaLog](db, "opera_drop_test", WriterOptions{QueueSize: 2, BatchSize: 1000, FlushInterval: time.Hour})
	before := testutil.ToFloat64(fbaobserve.AuditDropped.WithLabelValues("opera_drop_test"))

	accepted := 0
	for i := 0; i < 5; i++ {
		if w.Submit(&OperaLog{Title: "x", Method: "POST", Path: "/x", IP: "1.1.1.1", OperaTime: time.Now()}) {
			accepted++
		}
	}
	assert.Equal(t, 2, accepted)
	assert.Equal(t, 3.0, testutil.ToFloat64(fbaobserve.AuditDropped.WithLabelValues("opera_drop_test"))-before)

	go w.run()
	require.NoError(t, w.Close(context.Background()))

	var n int64
	require.NoError(t, db.Model(&OperaLog{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestRecorder_RecordLogin(t *testing.T) {
	db := storetest.NewDB(t)
	r := NewRecorder(db, fbaconf.AccessLogConfig{}, fbaconf.OperaLogConfig{})

	r.RecordLogin(context.Background(), domain.LoginEvent{
		Username:  "alice",
		Success:   true,
		Msg:       "登录成功",
		IP:        "10.0.0.1",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Time:      time.Now(),
	})
	require.NoError(t, r.Close(context.Background()))

	var row LoginLog
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, LoginSuccess, row.Status)
	assert.Equal(t, "alice", row.Username)
	assert.Contains(t, row.Browser, "Chrome")
	assert.Contains(t, row.OS, "Windows")
	assert.Equal(t, "PC", row.Device)
}

func TestParseUserAgent(t *testing.T) {
	c := ParseUserAgent("")
	assert.Equal(t, Client{OS: unknown, Browser: unknown, Device: unknown}, c)

	c = ParseUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1")
	assert.Equal(t, "iPhone", c.Device)
	assert.Contains(t, c.Browser, "Safari")

	c = ParseUserAgent("Googlebot/2.1 (+http://www.google.com/bot.html)")
	assert.Equal(t, "Bot", c.Device)
}
