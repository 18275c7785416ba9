package utils

import (
	"errors"
	"net/http"
)

// 错误类型，处理器按类型映射 HTTP 状态码
var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrTooManyRequests = errors.New("too many requests")
)

// AppError 带有面向用户文案的业务错误
type AppError struct {
	Kind    error
	Message string
}

func (e *AppError) Error() string {
	return e.Kind.Error() + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Kind
}

// NewValidationError 参数校验失败
func NewValidationError(message string) *AppError {
	return &AppError{Kind: ErrValidation, Message: message}
}

// NewNotFoundError 资源不存在
func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: ErrNotFound, Message: message}
}

// NewConflictError 唯一约束冲突
func NewConflictError(message string) *AppError {
	return &AppError{Kind: ErrConflict, Message: message}
}

// Classify 返回错误对应的状态码和文案；未知错误返回 500 和空文案
func Classify(err error) (int, string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return statusFor(appErr.Kind), appErr.Message
	}
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "Некорректные данные"
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "Не найдено"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "Запись уже существует"
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, "Слишком много попыток, попробуйте позже"
	}
	return http.StatusInternalServerError, ""
}

func statusFor(kind error) int {
	switch kind {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrUnauthenticated:
		return http.StatusUnauthorized
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	case ErrTooManyRequests:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
