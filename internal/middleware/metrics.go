package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ==================== 指标 ====================

// HTTPRequests 按方法、路由、状态码统计请求数
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "geppu_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "path", "status"})

// HTTPDuration 请求耗时
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "geppu_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "path"})

// AuthEvents 登录、注册、退出等认证事件
var AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "geppu_auth_events_total",
	Help: "Auth events by type.",
}, []string{"event", "result"})

// RecordAuthEvent 记录一次认证事件
func RecordAuthEvent(event, result string) {
	AuthEvents.WithLabelValues(event, result).Inc()
}

// ==================== 中间件 ====================

// Metrics 记录请求数与耗时。path 使用路由模板，避免 ID 造成标签爆炸
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler Prometheus 抓取端点
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
