// file: internal/transport/http/middleware/opera_log.go
package middleware

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/auditlog"
	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// MaskValue 替换敏感参数的值
const MaskValue = "******"

// OmittedJSON 替换无法解析的 JSON 请求体，这类请求体无法逐键屏蔽
const OmittedJSON = "[JSON 请求体过长或无法解析，已省略]"

// OperaSink 接收操作日志记录
type OperaSink interface {
	Submit(row *auditlog.OperaLog) bool
}

// OperaLogger 为标注了操作日志的路由生成中间件
type OperaLogger struct {
	sink      OperaSink
	maskKeys  map[string]struct{}
	bodyLimit int
}

// NewOperaLogger 创建操作日志中间件工厂，maskKeys 不区分大小写
func NewOperaLogger(sink OperaSink, maskKeys []string, bodyLimit int) *OperaLogger {
	keys := make(map[string]struct{}, len(maskKeys))
	for _, k := range maskKeys {
		keys[strings.ToLower(k)] = struct{}{}
	}
	if bodyLimit <= 0 {
		bodyLimit = 10 * 1024
	}
	return &OperaLogger{sink: sink, maskKeys: keys, bodyLimit: bodyLimit}
}

// Handler 返回单个路由的操作日志中间件
func (o *OperaLogger) Handler(title string, bt domain.BusinessType) gin.HandlerFunc {
	if bt == "" {
		bt = domain.BusinessOther
	}
	return func(c *gin.Context) {
		start := time.Now()
		args := o.collectArgs(c)

		c.Next()

		status := c.Writer.Status()
		code := status
		if v, ok := c.Get(response.CodeKey); ok {
			code, _ = v.(int)
		}
		msg := c.GetString(response.MsgKey)
		// 错误响应由外层的 ErrorHandlingMiddleware 写出，此时尚未落到 Writer
		if !c.Writer.Written() && len(c.Errors) > 0 {
			ae := apperr.From(c.Errors.Last().Err)
			status, code, msg = ae.Kind.Status, ae.Kind.Code, ae.Message()
		}
		client := auditlog.ParseUserAgent(c.Request.UserAgent())
		row := &auditlog.OperaLog{
			TraceID:      TraceID(c),
			Title:        title,
			BusinessType: string(bt),
			Method:       c.Request.Method,
			Path:         c.Request.URL.Path,
			IP:           ClientIP(c.Request),
			OS:           client.OS,
			Browser:      client.Browser,
			Device:       client.Device,
			Args:         args,
			Status:       status,
			Code:         code,
			Msg:          msg,
			CostMs:       float64(time.Since(start).Microseconds()) / 1000,
			OperaTime:    start,
		}
		if ac := domain.AuthFrom(c.Request.Context()); ac != nil {
			uid, name := ac.UserID, ac.Username
			row.UserID = &uid
			row.Username = &name
		}
		o.sink.Submit(row)
	}
}

// collectArgs 汇总路径参数、查询参数与 JSON 请求体，并屏蔽敏感键
func (o *OperaLogger) collectArgs(c *gin.Context) datatypes.JSON {
	args := map[string]any{}
	if len(c.Params) > 0 {
		path := map[string]string{}
		for _, p := range c.Params {
			path[p.Key] = p.Value
		}
		args["path_params"] = path
	}
	if q := c.Request.URL.Query(); len(q) > 0 {
		query := map[string]any{}
		for k, vs := range q {
			if len(vs) == 1 {
				query[k] = vs[0]
			} else {
				query[k] = vs
			}
		}
		args["query_params"] = query
	}
	if strings.HasPrefix(c.ContentType(), "application/json") {
		raw := readRequestBody(c.Request, o.bodyLimit)
		var body any
		if err := json.Unmarshal([]byte(raw), &body); err == nil {
			args["json"] = body
		} else if raw != "" {
			args["body"] = OmittedJSON
		}
	}
	if len(args) == 0 {
		return nil
	}
	data, err := json.Marshal(o.mask(args))
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func (o *OperaLogger) mask(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if _, ok := o.maskKeys[strings.ToLower(k)]; ok {
				t[k] = MaskValue
				continue
			}
			t[k] = o.mask(val)
		}
		return t
	case map[string]string:
		for k := range t {
			if _, ok := o.maskKeys[strings.ToLower(k)]; ok {
				t[k] = MaskValue
			}
		}
		return t
	case []any:
		for i := range t {
			t[i] = o.mask(t[i])
		}
		return t
	default:
		return v
	}
}
