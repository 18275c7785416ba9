package middleware

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/geppu/internal/config"
	"github.com/user/geppu/internal/utils"
)

func testGate(secret, password string) *AdminGate {
	return NewAdminGate(&config.Config{
		Env:                "test",
		AppSecret:          secret,
		AdminPassword:      password,
		AdminSessionMaxAge: 24 * time.Hour,
	})
}

func TestAdminLogin(t *testing.T) {
	gate := testGate("secret", "hunter2")

	_, err := gate.Login("1.1.1.1", "hunter")
	assert.True(t, errors.Is(err, utils.ErrUnauthenticated))

	_, err = gate.Login("1.1.1.1", "hunter2 ")
	assert.True(t, errors.Is(err, utils.ErrUnauthenticated), "comparison is exact")

	token, err := gate.Login("1.1.1.1", "hunter2")
	require.NoError(t, err)
	assert.True(t, gate.VerifyToken(token))
}

func TestAdminLoginDisabledWithoutPassword(t *testing.T) {
	gate := testGate("secret", "")

	_, err := gate.Login("1.1.1.1", "")
	assert.True(t, errors.Is(err, utils.ErrUnauthenticated))
}

func TestAdminTokenRejections(t *testing.T) {
	gate := testGate("secret", "pw")

	other, err := testGate("another-secret", "pw").IssueToken(time.Now())
	require.NoError(t, err)
	assert.False(t, gate.VerifyToken(other), "token signed with a different secret")

	expired, err := gate.IssueToken(time.Now().Add(-25 * time.Hour))
	require.NoError(t, err)
	assert.False(t, gate.VerifyToken(expired), "expired token")

	wrongScope := jwt.NewWithClaims(jwt.SigningMethodHS256, &AdminClaims{
		Scope: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminSubject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := wrongScope.SignedString([]byte("secret"))
	require.NoError(t, err)
	assert.False(t, gate.VerifyToken(signed))

	assert.False(t, gate.VerifyToken(""))
	assert.False(t, gate.VerifyToken("not-a-jwt"))
}

func TestAdminLoginThrottle(t *testing.T) {
	gate := testGate("secret", "pw")

	for i := 0; i < adminLoginLimit; i++ {
		_, err := gate.Login("9.9.9.9", "wrong")
		require.True(t, errors.Is(err, utils.ErrUnauthenticated))
	}

	_, err := gate.Login("9.9.9.9", "pw")
	assert.True(t, errors.Is(err, utils.ErrTooManyRequests), "sixth attempt is blocked even with the right password")
	status, _ := utils.Classify(err)
	assert.Equal(t, http.StatusTooManyRequests, status)

	_, err = gate.Login("8.8.8.8", "pw")
	assert.NoError(t, err, "other clients are unaffected")
}

func TestRequireAdmin(t *testing.T) {
	gate := testGate("secret", "pw")

	r := gin.New()
	r.POST("/admin/login", func(c *gin.Context) {
		token, err := gate.Login(c.ClientIP(), c.Query("password"))
		if err != nil {
			utils.Fail(c, err, "login failed")
			return
		}
		gate.SetCookie(c, token)
		c.Status(http.StatusNoContent)
	})
	r.POST("/admin/logout", func(c *gin.Context) {
		gate.ClearCookie(c)
		c.Status(http.StatusNoContent)
	})
	r.GET("/admin/releases", gate.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/admin/releases").Code)

	// 用户会话 Cookie 不能代替管理员会话
	userCookie := &http.Cookie{Name: UserSessionName, Value: "anything"}
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/admin/releases", userCookie).Code)

	w := do(r, http.MethodPost, "/admin/login?password=nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, cookieNamed(w, AdminCookieName))

	w = do(r, http.MethodPost, "/admin/login?password=pw")
	require.Equal(t, http.StatusNoContent, w.Code)
	ck := cookieNamed(w, AdminCookieName)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, 24*3600, ck.MaxAge)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/admin/releases", ck).Code)

	cleared := cookieNamed(do(r, http.MethodPost, "/admin/logout", ck), AdminCookieName)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
}
