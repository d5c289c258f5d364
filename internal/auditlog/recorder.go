// file: internal/auditlog/recorder.go
package auditlog

import (
	"context"
	"errors"

	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"gorm.io/gorm"
)

// Recorder 聚合三个日志流的写入器
type Recorder struct {
	Access *Writer[AccessLog]
	Opera  *Writer[OperaLog]
	Login  *Writer[LoginLog]
}

var _ port.LoginRecorder = (*Recorder)(nil)

// NewRecorder 按配置启动全部写入器
func NewRecorder(db *gorm.DB, access fbaconf.AccessLogConfig, opera fbaconf.OperaLogConfig) *Recorder {
	return &Recorder{
		Access: NewWriter[AccessLog](db, "access", WriterOptions{
			QueueSize:     access.QueueSize,
			BatchSize:     access.BatchSize,
			FlushInterval: access.FlushInterval,
		}),
		Opera: NewWriter[OperaLog](db, "opera", WriterOptions{
			QueueSize:     opera.QueueSize,
			BatchSize:     opera.BatchSize,
			FlushInterval: opera.FlushInterval,
		}),
		Login: NewWriter[LoginLog](db, "login", WriterOptions{QueueSize: 1000, BatchSize: 20}),
	}
}

// RecordLogin 投递一条登录日志
func (r *Recorder) RecordLogin(_ context.Context, e domain.LoginEvent) {
	client := ParseUserAgent(e.UserAgent)
	status := LoginFailed
	if e.Success {
		status = LoginSuccess
	}
	r.Login.Submit(&LoginLog{
		UserUUID:  e.UserUUID,
		Username:  e.Username,
		Status:    status,
		IP:        e.IP,
		OS:        client.OS,
		Browser:   client.Browser,
		Device:    client.Device,
		Msg:       e.Msg,
		LoginTime: e.Time,
	})
}

// Close 依次关闭全部写入器
func (r *Recorder) Close(ctx context.Context) error {
	return errors.Join(r.Access.Close(ctx), r.Opera.Close(ctx), r.Login.Close(ctx))
}
