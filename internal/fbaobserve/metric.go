// Package fbaobserve 暴露 Prometheus 指标
package fbaobserve

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 指标定义
var (
	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fba_http_request_duration_seconds",
		Help:    "HTTP 请求耗时",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method", "code"})

	// AuditDropped 统计因队列已满而丢弃的审计日志
	AuditDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fba_audit_log_dropped_total",
		Help: "因队列已满被丢弃的审计日志条数",
	}, []string{"stream"})

	// AuditFlushFailed 统计写库失败的审计日志批次
	AuditFlushFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fba_audit_log_flush_failed_total",
		Help: "审计日志批量写入失败次数",
	}, []string{"stream"})
)

// Register 必须在 main 调用一次
func Register() {
	prometheus.MustRegister(httpRequestDuration, AuditDropped, AuditFlushFailed)
}

// Handler 返回 HTTP 处理器
func Handler() http.Handler { return promhttp.Handler() }

// PrometheusMiddleware 以路由模板为 path 标签记录耗时，未匹配的路由归入 "unmatched"
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
