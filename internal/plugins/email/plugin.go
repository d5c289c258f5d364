package email

import (
	"path/filepath"

	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
)

const PermSend = "sys:email:send"

// Plugin 挂载在 /api/v1/email，需要 SMTP 凭据
type Plugin struct {
	newSender SenderFactory
	// svc 在 CreateRouter 后可用
	svc *Service
}

var _ port.Plugin = (*Plugin)(nil)

// Option 调整插件
type Option func(*Plugin)

// WithSender 替换默认的 SMTP 投递实现
func WithSender(f SenderFactory) Option {
	return func(p *Plugin) { p.newSender = f }
}

func New(opts ...Option) *Plugin {
	p := &Plugin{newSender: NewSMTPSender}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (*Plugin) Info() domain.PluginInfo {
	return domain.PluginInfo{
		Name:        "email",
		Version:     "0.0.2",
		Description: "电子邮件 - SMTP邮件发送、模板邮件、发送记录管理",
		Author:      "fba",
	}
}

func (*Plugin) Mount() port.Mount { return port.Independent("email") }

func (*Plugin) Requires() []port.Dependency { return []port.Dependency{port.DepSMTP} }

func (p *Plugin) CreateRouter(st port.State) (*port.Router, error) {
	templates := filepath.Join(st.Paths.Plugin, "email", "templates")
	p.svc = NewService(st.DB, *st.SMTP, p.newSender, templates)
	h := &handler{svc: p.svc}

	r := port.NewRouter()
	r.POST("/send", h.send).Perm(PermSend).Log("发送邮件", domain.BusinessOther)
	r.POST("/send-template", h.sendTemplate).Perm(PermSend).Log("发送模板邮件", domain.BusinessOther)
	r.POST("/test-smtp", h.testSMTP).Perm(PermSend)
	r.GET("/records", h.records)
	r.GET("/records/:pk", h.record)
	return r, nil
}

// Wait 等待后台投递结束，关闭服务前调用
func (p *Plugin) Wait() {
	if p.svc != nil {
		p.svc.Wait()
	}
}
