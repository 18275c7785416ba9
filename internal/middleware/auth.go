package middleware

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/user/geppu/internal/config"
	"github.com/user/geppu/internal/model"
	"github.com/user/geppu/internal/utils"
)

const (
	// UserSessionName 用户会话 Cookie 名
	UserSessionName = "geppu_session"

	sessionUserKey = "user_id"
	ctxUserKey     = "user"
	ctxUserIDKey   = "user_id"
)

// UserFinder 按 ID 读取用户
type UserFinder interface {
	FindByID(ctx context.Context, id int) (*model.User, error)
}

// Sessions 用户会话中间件（签名 Cookie，只保存用户 ID）
func Sessions(cfg *config.Config) gin.HandlerFunc {
	store := cookie.NewStore([]byte(cfg.AppSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(UserSessionName, store)
}

// SetUserSession 登录/注册成功后写入会话
func SetUserSession(c *gin.Context, userID int) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserKey, userID)
	return session.Save()
}

// ClearUserSession 退出登录
func ClearUserSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

// GetSession 解析当前会话并读取用户。
// 没有 Cookie、值不合法或用户已被删除都视为未登录（nil, nil）
func GetSession(c *gin.Context, users UserFinder) (*model.User, error) {
	var userID int
	switch v := sessions.Default(c).Get(sessionUserKey).(type) {
	case int:
		userID = v
	case int64:
		userID = int(v)
	default:
		return nil, nil
	}
	if userID <= 0 {
		return nil, nil
	}

	return users.FindByID(c.Request.Context(), userID)
}

// RequireAuth 必须登录中间件
func RequireAuth(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetSession(c, users)
		if err != nil {
			utils.Fail(c, err, "Ошибка проверки сессии")
			return
		}
		if user == nil {
			utils.Unauthorized(c, "")
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth 可选登录中间件（不强制要求登录）
func OptionalAuth(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetSession(c, users)
		if err != nil {
			log.WithField(utils.RequestIDKey, c.GetString(utils.RequestIDKey)).
				WithError(err).Warn("[Session] 读取会话失败，按未登录处理")
		}
		if user != nil {
			setUser(c, user)
		}
		c.Next()
	}
}

func setUser(c *gin.Context, user *model.User) {
	c.Set(ctxUserKey, user)
	c.Set(ctxUserIDKey, user.ID)
}

// GetUser 从上下文获取当前用户（未登录返回 nil）
func GetUser(c *gin.Context) *model.User {
	if v, exists := c.Get(ctxUserKey); exists {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}

// GetUserID 从上下文获取用户 ID（未登录返回 0）
func GetUserID(c *gin.Context) int {
	return c.GetInt(ctxUserIDKey)
}
