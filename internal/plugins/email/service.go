package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"gorm.io/gorm"
)

const (
	msgRecordNotFound = "发送记录不存在"
	sendTimeout       = 2 * time.Minute
)

// Service 写入发送记录并在后台投递
type Service struct {
	records   *store.Repo[Record]
	smtp      fbaconf.SMTPConfig
	newSender SenderFactory
	templates string

	wg sync.WaitGroup
}

// NewService 创建服务，templates 是模板目录
func NewService(db *gorm.DB, smtp fbaconf.SMTPConfig, newSender SenderFactory, templates string) *Service {
	if newSender == nil {
		newSender = NewSMTPSender
	}
	return &Service{
		records:   store.NewRepo[Record](db),
		smtp:      smtp,
		newSender: newSender,
		templates: templates,
	}
}

// Send 写入待发送记录并返回，投递结果稍后回写到记录
func (s *Service) Send(ctx context.Context, p SendParam) (*Record, error) {
	r := &Record{
		ToEmail: p.To,
		Subject: p.Subject,
		Content: p.Content,
		IsHTML:  p.IsHTML,
		Status:  StatusPending,
	}
	if err := s.records.Insert(ctx, r); err != nil {
		return nil, store.AppError(err, msgRecordNotFound, "")
	}

	msg := Message{To: p.To, Subject: p.Subject, Content: p.Content, IsHTML: p.IsHTML}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// 投递与请求生命周期无关
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
		defer cancel()
		s.deliver(sendCtx, r.ID, msg)
	}()
	return r, nil
}

func (s *Service) deliver(ctx context.Context, id int64, msg Message) {
	values := map[string]any{}
	if err := s.newSender(s.smtp).Send(ctx, msg); err != nil {
		slog.Warn("邮件发送失败", "record_id", id, "to", msg.To, "error", err)
		values["status"] = StatusFailed
		values["error_msg"] = err.Error()
	} else {
		values["status"] = StatusSuccess
		values["send_time"] = store.Now()
	}
	if _, err := s.records.Update(ctx, id, values); err != nil {
		slog.Error("回写邮件发送状态失败", "record_id", id, "error", err)
	}
}

// Wait 等待所有后台投递结束
func (s *Service) Wait() { s.wg.Wait() }

// SendTemplate 渲染模板后按 HTML 发送，主题为 "[<模板名>] 通知"
func (s *Service) SendTemplate(ctx context.Context, p TemplateParam) (*Record, error) {
	content, err := s.render(p.Template, p.Data)
	if err != nil {
		return nil, err
	}
	return s.Send(ctx, SendParam{
		To:      p.To,
		Subject: fmt.Sprintf("[%s] 通知", p.Template),
		Content: content,
		IsHTML:  true,
	})
}

func (s *Service) render(name string, data map[string]string) (string, error) {
	path := filepath.Join(s.templates, name+".html")
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", apperr.NotFound(fmt.Sprintf("邮件模板 %s 不存在", name))
	}
	if err != nil {
		return "", apperr.OperationFailed("模板错误: " + err.Error())
	}
	tpl, err := template.New(name).Option("missingkey=zero").Parse(string(raw))
	if err != nil {
		return "", apperr.OperationFailed("模板错误: " + err.Error())
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", apperr.OperationFailed("模板错误: " + err.Error())
	}
	return buf.String(), nil
}

// TestSMTP 用请求中的服务器同步发送一封测试邮件，投递失败属于上游错误
func (s *Service) TestSMTP(ctx context.Context, p TestSMTPParam) error {
	cfg := fbaconf.SMTPConfig{
		Host:     p.Host,
		Port:     p.Port,
		Username: p.Username,
		Password: p.Password,
		From:     p.Username,
		SSL:      p.SSL,
		Timeout:  s.smtp.Timeout,
	}
	err := s.newSender(cfg).Send(ctx, Message{
		To:      p.TestTo,
		Subject: "SMTP配置测试",
		Content: "这是一封SMTP配置测试邮件，如果您收到此邮件，说明配置正确。",
	})
	if err != nil {
		return apperr.Upstream(0, "SMTP错误: "+err.Error())
	}
	return nil
}

// PageRecords 按创建时间倒序分页查询发送记录
func (s *Service) PageRecords(ctx context.Context, q RecordQuery) (response.Page[Record], error) {
	p, err := s.records.Page(ctx, q.PageQuery,
		func(db *gorm.DB) *gorm.DB { return store.OrderBy("id", true)(store.OrderBy("created_time", true)(db)) },
		store.Contains("to_email", q.ToEmail),
		store.Eq("status", q.Status),
	)
	return p, store.AppError(err, msgRecordNotFound, "")
}

// GetRecord 按主键查询发送记录
func (s *Service) GetRecord(ctx context.Context, id int64) (*Record, error) {
	r, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, store.AppError(err, msgRecordNotFound, "")
	}
	return r, nil
}
