package utils

import (
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// InitSentry 初始化 Sentry；dsn 为空时不启用
func InitSentry(dsn, env, release string) error {
	if dsn == "" {
		log.Info("[Telemetry] SENTRY_DSN 未设置，Sentry 已禁用")
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		Release:          release,
		AttachStacktrace: true,
	})
}

// CaptureError 上报未预期的错误（附带请求信息）
func CaptureError(c *gin.Context, err error) {
	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("method", c.Request.Method)
		scope.SetTag("path", c.FullPath())
		if id := c.GetString(RequestIDKey); id != "" {
			scope.SetTag("request_id", id)
		}
		hub.CaptureException(err)
	})
}
