// file: internal/transport/http/middleware/access_log.go
package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/auditlog"
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/gin-gonic/gin"
)

// TruncatedMarker 追加在被截断的请求体或响应体末尾
const TruncatedMarker = "...[truncated]"

// AccessSink 接收访问日志记录
type AccessSink interface {
	Submit(row *auditlog.AccessLog) bool
}

// bodyCapture 在写出响应的同时保留前 limit 字节
type bodyCapture struct {
	gin.ResponseWriter
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (w *bodyCapture) capture(p []byte) {
	room := w.limit - w.buf.Len()
	if room <= 0 {
		if len(p) > 0 {
			w.truncated = true
		}
		return
	}
	if len(p) > room {
		p = p[:room]
		w.truncated = true
	}
	w.buf.Write(p)
}

func (w *bodyCapture) Write(p []byte) (int, error) {
	w.capture(p)
	return w.ResponseWriter.Write(p)
}

func (w *bodyCapture) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *bodyCapture) String() string {
	s := strings.ToValidUTF8(w.buf.String(), "")
	if w.truncated {
		return s + TruncatedMarker
	}
	return s
}

// readRequestBody 读取至多 limit 字节用于记录，并把完整请求体还给后续处理器
func readRequestBody(r *http.Request, limit int) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return "[multipart]"
	}
	head := make([]byte, limit+1)
	n, err := io.ReadFull(r.Body, head)
	head = head[:n]
	// 把已读部分与剩余部分重新拼接
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return ""
	}
	if n > limit {
		return strings.ToValidUTF8(string(head[:limit]), "") + TruncatedMarker
	}
	return strings.ToValidUTF8(string(head), "")
}

// AccessLog 记录每个请求的访问日志，记录以非阻塞方式交给 sink
func AccessLog(sink AccessSink, bodyLimit int) gin.HandlerFunc {
	if bodyLimit <= 0 {
		bodyLimit = 10 * 1024
	}
	return func(c *gin.Context) {
		start := time.Now()
		reqBody := readRequestBody(c.Request, bodyLimit)
		capture := &bodyCapture{ResponseWriter: c.Writer, limit: bodyLimit}
		c.Writer = capture

		c.Next()

		status := c.Writer.Status()
		code := status
		if v, ok := c.Get(response.CodeKey); ok {
			code, _ = v.(int)
		}
		client := auditlog.ParseUserAgent(c.Request.UserAgent())
		row := &auditlog.AccessLog{
			TraceID:      TraceID(c),
			Method:       c.Request.Method,
			Path:         c.Request.URL.Path,
			Query:        c.Request.URL.RawQuery,
			IP:           ClientIP(c.Request),
			OS:           client.OS,
			Browser:      client.Browser,
			Device:       client.Device,
			UserAgent:    truncate(c.Request.UserAgent(), 512),
			Referer:      truncate(c.Request.Referer(), 512),
			RequestBody:  reqBody,
			ResponseBody: capture.String(),
			Status:       status,
			Code:         code,
			IsError:      status >= http.StatusBadRequest || code != response.CodeSuccess,
			ElapsedMs:    float64(time.Since(start).Microseconds()) / 1000,
			StartTime:    start,
		}
		if ac := domain.AuthFrom(c.Request.Context()); ac != nil {
			uid, name := ac.UserID, ac.Username
			row.UserID = &uid
			row.Username = &name
			row.DeptID = ac.DeptID
			row.DeptName = ac.DeptName
		}
		sink.Submit(row)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "")
}
