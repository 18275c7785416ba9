package handler

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/geppu/internal/model"
)

var registerOnce sync.Once

// RegisterValidators 注册自定义校验标签：season、release_status、list_status
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("season", oneOf(model.Seasons))
		_ = v.RegisterValidation("release_status", oneOf(model.ReleaseStatuses))
		_ = v.RegisterValidation("list_status", oneOf(model.ListStatuses))
	})
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, a := range allowed {
			if a == s {
				return true
			}
		}
		return false
	}
}

// failedTag 返回第一个未通过的校验标签（非校验错误返回空）
func failedTag(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Tag()
	}
	return ""
}
