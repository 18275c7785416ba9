package model

import (
	"time"
)

// User 注册用户
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email" gorm:"unique;not null"`
	Username     string    `json:"username" db:"username" gorm:"not null"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"not null"`
	AvatarURL    *string   `json:"avatar_url" db:"avatar_url" gorm:"column:avatar_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// PublicUser 返回给客户端的用户信息
type PublicUser struct {
	ID        int     `json:"id"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

// Public 去掉不应暴露给客户端的字段
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}
