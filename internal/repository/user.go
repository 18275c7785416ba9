package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/geppu/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// publicUserColumns 不含 password_hash
var publicUserColumns = []string{"id", "email", "username", "avatar_url", "created_at"}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// MaxPasswordBytes bcrypt 只接受 72 字节以内的密码（按字节而不是字符计）
const MaxPasswordBytes = 72

// HashPassword 密码哈希；超过 MaxPasswordBytes 返回 ErrPasswordTooLong
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword 验证密码
func (r *UserRepository) CheckPassword(user *model.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil
}

// Create 创建用户，邮箱重复时返回 ErrDuplicateEmail
func (r *UserRepository) Create(ctx context.Context, email, passwordHash, username string) (*model.User, error) {
	user := &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, translateErr(err, ErrDuplicateEmail, nil)
	}

	user.PasswordHash = ""
	return user, nil
}

// FindByEmail 根据邮箱查找用户（包含密码哈希，仅用于登录）
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByID 根据 ID 查找用户（不含密码哈希）
func (r *UserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Select(publicUserColumns).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateProfile 更新用户名
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int, username string) (*model.User, error) {
	return r.updateColumn(ctx, userID, "username", username)
}

// UpdateAvatar 更新头像
func (r *UserRepository) UpdateAvatar(ctx context.Context, userID int, avatarURL string) (*model.User, error) {
	return r.updateColumn(ctx, userID, "avatar_url", avatarURL)
}

func (r *UserRepository) updateColumn(ctx context.Context, userID int, column string, value interface{}) (*model.User, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update(column, value)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return r.FindByID(ctx, userID)
}

// Delete 删除用户（收藏、片单、观看记录由外键级联删除）
func (r *UserRepository) Delete(ctx context.Context, userID int) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
