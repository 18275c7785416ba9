package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Success 返回成功响应：{"success": true, ...payload}
func Success(c *gin.Context, payload gin.H) {
	res := gin.H{"success": true}
	for k, v := range payload {
		res[k] = v
	}
	c.JSON(http.StatusOK, res)
}

// JSON 直接返回领域数据
func JSON(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error 返回错误响应：{"error": message}
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// BadRequest 返回400错误
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Некорректные данные"
	}
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 返回401错误
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	Error(c, http.StatusUnauthorized, message)
}

// NotFound 返回404错误
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Не найдено"
	}
	Error(c, http.StatusNotFound, message)
}

// TooManyRequests 返回429错误
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "Слишком много попыток, попробуйте позже"
	}
	Error(c, http.StatusTooManyRequests, message)
}

// InternalServerError 返回500错误
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "Внутренняя ошибка сервера"
	}
	Error(c, http.StatusInternalServerError, message)
}

// Fail 按错误类型返回响应。
// 未分类的错误只记录在服务端日志（及 Sentry），客户端只看到 fallback 文案。
func Fail(c *gin.Context, err error, fallback string) {
	status, message := Classify(err)
	if status == http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"request_id": c.GetString(RequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		}).WithError(err).Error(fallback)
		CaptureError(c, err)
		InternalServerError(c, fallback)
		return
	}
	Error(c, status, message)
}
