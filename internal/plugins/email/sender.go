package email

import (
	"context"
	"fmt"

	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"github.com/wneessen/go-mail"
)

// Message 是一封待投递的邮件
type Message struct {
	To      string
	Subject string
	Content string
	IsHTML  bool
}

// Sender 投递邮件
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SenderFactory 根据 SMTP 配置创建 Sender
type SenderFactory func(fbaconf.SMTPConfig) Sender

// SMTPSender 基于 go-mail，每次发送建立一次连接
type SMTPSender struct {
	cfg fbaconf.SMTPConfig
}

func NewSMTPSender(cfg fbaconf.SMTPConfig) Sender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return fmt.Errorf("From地址错误: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return fmt.Errorf("To地址错误: %w", err)
	}
	msg.Subject(m.Subject)
	contentType := mail.TypeTextPlain
	if m.IsHTML {
		contentType = mail.TypeTextHTML
	}
	msg.SetBodyString(contentType, m.Content)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	}
	if s.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.cfg.Timeout))
	}
	if s.cfg.SSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	}
	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("SMTP连接失败: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("邮件发送失败: %w", err)
	}
	return nil
}
