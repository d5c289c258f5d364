// file: internal/auditlog/writer.go
package auditlog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/fbaobserve"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"gorm.io/gorm"
)

const flushTimeout = 10 * time.Second

// WriterOptions 控制队列容量与批量策略
type WriterOptions struct {
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
}

func (o WriterOptions) normalize() WriterOptions {
	if o.QueueSize <= 0 {
		o.QueueSize = 10000
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 100
	}
	if o.FlushInterval <= 0 {
		o.FlushInterval = time.Second
	}
	return o
}

// Writer 是单个日志流的后台批量写入器
type Writer[T any] struct {
	stream string
	db     *gorm.DB
	opts   WriterOptions

	queue     chan *T
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewWriter 创建并启动写入器，stream 用于日志与指标标签
func NewWriter[T any](db *gorm.DB, stream string, opts WriterOptions) *Writer[T] {
	w := newWriter[T](db, stream, opts)
	go w.run()
	return w
}

func newWriter[T any](db *gorm.DB, stream string, opts WriterOptions) *Writer[T] {
	opts = opts.normalize()
	return &Writer[T]{
		stream: stream,
		db:     db,
		opts:   opts,
		queue:  make(chan *T, opts.QueueSize),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Submit 非阻塞投递。队列容量固定为 QueueSize，已满或写入器已关闭时丢弃并返回 false
func (w *Writer[T]) Submit(row *T) bool {
	select {
	case <-w.stop:
		return false
	default:
	}
	select {
	case w.queue <- row:
		return true
	default:
		fbaobserve.AuditDropped.WithLabelValues(w.stream).Inc()
		slog.Warn("审计日志队列已满，记录被丢弃", "stream", w.stream, "capacity", w.opts.QueueSize)
		return false
	}
}

func (w *Writer[T]) run() {
	defer close(w.done)
	ticker := time.NewTicker(w.opts.FlushInterval)
	defer ticker.Stop()

	buf := make([]*T, 0, w.opts.BatchSize)
	flush := func() {
		if len(buf) == 0 {
			return
		}
		w.persist(buf)
		buf = buf[:0]
	}

	for {
		select {
		case row := <-w.queue:
			buf = append(buf, row)
			if len(buf) >= w.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-w.stop:
			for {
				select {
				case row := <-w.queue:
					buf = append(buf, row)
					if len(buf) >= w.opts.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

func (w *Writer[T]) persist(rows []*T) {
	for _, row := range rows {
		store.StampCreated(row)
	}
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := w.db.WithContext(ctx).CreateInBatches(rows, w.opts.BatchSize).Error; err != nil {
		fbaobserve.AuditFlushFailed.WithLabelValues(w.stream).Inc()
		slog.Error("审计日志批量写入失败", "stream", w.stream, "rows", len(rows), "error", err)
	}
}

// Close 停止接收新记录，写完队列中剩余的记录后返回
func (w *Writer[T]) Close(ctx context.Context) error {
	w.closeOnce.Do(func() { close(w.stop) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
