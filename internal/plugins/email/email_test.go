package email_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/eginner01/rFBA-sub002/internal/core/port"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"github.com/eginner01/rFBA-sub002/internal/plugins/email"
	"github.com/eginner01/rFBA-sub002/internal/plugins/plugintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "/api/v1/email"

// fakeSender 记录投递的邮件，收件人以 fail@ 开头时失败
type fakeSender struct {
	mu      sync.Mutex
	sent    []email.Message
	configs []fbaconf.SMTPConfig
}

func (f *fakeSender) factory(cfg fbaconf.SMTPConfig) email.Sender {
	f.mu.Lock()
	f.configs = append(f.configs, cfg)
	f.mu.Unlock()
	return f
}

func (f *fakeSender) Send(_ context.Context, m email.Message) error {
	if strings.HasPrefix(m.To, "fail@") {
		return errors.New("550 mailbox unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	return nil
}

func withSMTP(c *fbaconf.Config) {
	c.SMTP.Username = "robot@example.com"
	c.SMTP.Password = "secret"
}

func newEnv(t *testing.T) (*plugintest.Env, *email.Plugin, *fakeSender) {
	fake := &fakeSender{}
	p := email.New(email.WithSender(fake.factory))
	env := plugintest.New(t, []port.Plugin{p}, withSMTP)
	return env, p, fake
}

func getRecord(t *testing.T, env *plugintest.Env, id int64) email.Record {
	t.Helper()
	res := env.Admin(http.MethodGet, fmt.Sprintf("%s/records/%d", base, id), nil)
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	var r email.Record
	res.Into(t, &r)
	return r
}

func TestSend_RecordsOutcome(t *testing.T) {
	env, p, fake := newEnv(t)

	res := env.Admin(http.MethodPost, base+"/send", map[string]any{"to": "alice@example.com", "subject": "hi", "content": "hello"})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	assert.Equal(t, "邮件发送请求已提交", res.Msg)
	var ok email.Record
	res.Into(t, &ok)
	assert.Equal(t, email.StatusPending, ok.Status)

	res = env.Admin(http.MethodPost, base+"/send", map[string]any{"to": "fail@example.com", "subject": "hi", "content": "hello"})
	require.Equal(t, http.StatusOK, res.Status)
	var bad email.Record
	res.Into(t, &bad)

	p.Wait()

	got := getRecord(t, env, ok.ID)
	assert.Equal(t, email.StatusSuccess, got.Status)
	assert.NotNil(t, got.SendTime)
	got = getRecord(t, env, bad.ID)
	assert.Equal(t, email.StatusFailed, got.Status)
	require.NotNil(t, got.ErrorMsg)
	assert.Contains(t, *got.ErrorMsg, "550")

	require.Len(t, fake.sent, 1)
	assert.Equal(t, "alice@example.com", fake.sent[0].To)
	assert.Equal(t, "robot@example.com", fake.configs[0].Username)
}

func TestSend_Validation(t *testing.T) {
	env, _, _ := newEnv(t)
	res := env.Admin(http.MethodPost, base+"/send", map[string]any{"to": "nope", "subject": "", "content": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Equal(t, "收件人邮箱格式不正确, 主题长度必须在1-255之间", res.Msg)
}

func TestSendTemplate(t *testing.T) {
	env, p, fake := newEnv(t)
	dir := filepath.Join(env.Config.Paths.Plugin, "email", "templates")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "welcome.html"), []byte(`<p>你好, {{.name}}</p>`), 0o644))

	res := env.Admin(http.MethodPost, base+"/send-template", map[string]any{
		"to":       "bob@example.com",
		"template": "welcome",
		"data":     map[string]string{"name": "<Bob>"},
	})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	var r email.Record
	res.Into(t, &r)
	assert.Equal(t, "[welcome] 通知", r.Subject)
	assert.True(t, r.IsHTML)
	assert.Equal(t, "<p>你好, &lt;Bob&gt;</p>", r.Content)
	p.Wait()
	assert.Len(t, fake.sent, 1)

	res = env.Admin(http.MethodPost, base+"/send-template", map[string]any{"to": "bob@example.com", "template": "missing"})
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "邮件模板 missing 不存在", res.Msg)

	res = env.Admin(http.MethodPost, base+"/send-template", map[string]any{"to": "bob@example.com", "template": "../etc"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
}

func TestTestSMTP(t *testing.T) {
	env, _, fake := newEnv(t)
	body := map[string]any{"host": "smtp.example.com", "port": 465, "username": "u@example.com", "password": "p", "ssl": true, "test_to": "ops@example.com"}

	res := env.Admin(http.MethodPost, base+"/test-smtp", body)
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	assert.Equal(t, "SMTP配置测试成功", res.Msg)
	last := fake.configs[len(fake.configs)-1]
	assert.Equal(t, "smtp.example.com", last.Host)
	assert.True(t, last.SSL)

	body["test_to"] = "fail@example.com"
	res = env.Admin(http.MethodPost, base+"/test-smtp", body)
	assert.Equal(t, http.StatusBadGateway, res.Status)
	assert.Equal(t, 502, res.Code)
	assert.Equal(t, "SMTP错误: 550 mailbox unavailable", res.Msg)
	assert.Nil(t, res.Data)
}

func TestRecords_PageAndNotFound(t *testing.T) {
	env, p, _ := newEnv(t)
	for i := 0; i < 3; i++ {
		res := env.Admin(http.MethodPost, base+"/send", map[string]any{"to": fmt.Sprintf("u%d@example.com", i), "subject": "s", "content": "c"})
		require.Equal(t, http.StatusOK, res.Status)
	}
	p.Wait()

	res := env.Admin(http.MethodGet, base+"/records?to_email=u1&status=1", nil)
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	var page response.Page[email.Record]
	res.Into(t, &page)
	require.EqualValues(t, 1, page.Total)
	assert.Equal(t, "u1@example.com", page.Items[0].ToEmail)

	res = env.Admin(http.MethodGet, base+"/records/999", nil)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "发送记录不存在", res.Msg)
}
