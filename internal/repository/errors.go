package repository

import (
	"errors"

	"github.com/user/geppu/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrDuplicateEmail    = utils.NewConflictError("Пользователь с таким email уже существует")
	ErrUserNotFound      = utils.NewNotFoundError("Пользователь не найден")
	ErrReleaseNotFound   = utils.NewNotFoundError("Релиз не найден")
	ErrEpisodeNotFound   = utils.NewNotFoundError("Эпизод не найден")
	ErrDuplicateEpisode  = utils.NewConflictError("Эпизод с таким номером уже существует")
	ErrInvalidListStatus = utils.NewValidationError("Invalid status")
	ErrInvalidProgress   = utils.NewValidationError("Прогресс должен быть от 0 до 100")
	ErrPasswordTooLong   = utils.NewValidationError("Пароль слишком длинный")
)

// translateErr 把唯一约束/外键错误换成业务错误，其余原样返回
func translateErr(err, onDuplicate, onForeignKey error) error {
	switch {
	case err == nil:
		return nil
	case onDuplicate != nil && errors.Is(err, gorm.ErrDuplicatedKey):
		return onDuplicate
	case onForeignKey != nil && errors.Is(err, gorm.ErrForeignKeyViolated):
		return onForeignKey
	}
	return err
}
