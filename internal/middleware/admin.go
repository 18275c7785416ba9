package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/user/geppu/internal/config"
	"github.com/user/geppu/internal/utils"
)

const (
	// AdminCookieName 管理员会话 Cookie 名
	AdminCookieName = "geppu_admin_session"

	adminSubject = "admin"
	adminScope   = "admin"

	adminLoginLimit  = 5
	adminLoginWindow = 15 * time.Minute
)

var (
	ErrAdminPassword     = &utils.AppError{Kind: utils.ErrUnauthenticated, Message: "Неверный пароль"}
	ErrAdminLoginBlocked = &utils.AppError{Kind: utils.ErrTooManyRequests, Message: "Слишком много попыток, попробуйте позже"}
)

// AdminClaims 管理员令牌声明。令牌只代表"持有管理员密码"，与用户账号无关
type AdminClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// AdminGate 管理后台的登录、令牌签发与校验
type AdminGate struct {
	password string
	secret   []byte
	ttl      time.Duration
	secure   bool
	throttle *utils.LoginThrottle
}

// NewAdminGate 创建管理员鉴权
func NewAdminGate(cfg *config.Config) *AdminGate {
	return &AdminGate{
		password: cfg.AdminPassword,
		secret:   []byte(cfg.AppSecret),
		ttl:      cfg.AdminSessionMaxAge,
		secure:   cfg.IsProduction(),
		throttle: utils.NewLoginThrottle(adminLoginLimit, adminLoginWindow),
	}
}

// Login 校验管理员密码并签发令牌。clientKey 用于失败次数限流（通常是客户端 IP）
func (g *AdminGate) Login(clientKey, password string) (string, error) {
	if !g.throttle.Allowed(clientKey) {
		RecordAuthEvent("admin_login", "blocked")
		return "", ErrAdminLoginBlocked
	}

	// 未配置密码时后台登录禁用
	if g.password == "" || subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) != 1 {
		g.throttle.Fail(clientKey)
		RecordAuthEvent("admin_login", "failure")
		return "", ErrAdminPassword
	}

	g.throttle.Reset(clientKey)
	RecordAuthEvent("admin_login", "success")
	return g.IssueToken(time.Now())
}

// IssueToken 签发管理员令牌
func (g *AdminGate) IssueToken(issuedAt time.Time) (string, error) {
	claims := &AdminClaims{
		Scope: adminScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminSubject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(g.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}

// VerifyToken 校验签名、有效期和 scope
func (g *AdminGate) VerifyToken(tokenString string) bool {
	if tokenString == "" {
		return false
	}
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(adminSubject),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return false
	}
	claims, ok := token.Claims.(*AdminClaims)
	return ok && claims.Scope == adminScope
}

// CheckAdminAuth 当前请求是否持有有效的管理员会话
func (g *AdminGate) CheckAdminAuth(c *gin.Context) bool {
	tokenString, err := c.Cookie(AdminCookieName)
	if err != nil {
		return false
	}
	return g.VerifyToken(tokenString)
}

// RequireAdmin 管理员权限中间件，与用户会话无关
func (g *AdminGate) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.CheckAdminAuth(c) {
			utils.Unauthorized(c, "")
			return
		}
		c.Next()
	}
}

// SetCookie 写入管理员会话 Cookie
func (g *AdminGate) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AdminCookieName, token, int(g.ttl.Seconds()), "/", "", g.secure, true)
}

// ClearCookie 删除管理员会话 Cookie
func (g *AdminGate) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AdminCookieName, "", -1, "/", "", g.secure, true)
}
