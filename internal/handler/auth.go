package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/user/geppu/internal/middleware"
	"github.com/user/geppu/internal/repository"
	"github.com/user/geppu/internal/utils"
)

// ==================== 用户认证 ====================

type registerRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=72"`
	Username string `json:"username" binding:"required,max=50"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 注册并自动登录
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		switch failedTag(err) {
		case "email":
			utils.BadRequest(c, "Некорректный email")
		case "max":
			utils.BadRequest(c, "Слишком длинное значение")
		default:
			utils.BadRequest(c, "Все поля обязательны")
		}
		return
	}
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)
	if username == "" {
		utils.BadRequest(c, "Все поля обязательны")
		return
	}
	if len(req.Password) > repository.MaxPasswordBytes {
		utils.BadRequest(c, repository.ErrPasswordTooLong.Message)
		return
	}

	ctx := c.Request.Context()
	existing, err := h.Users.FindByEmail(ctx, email)
	if err != nil {
		utils.Fail(c, err, "Ошибка регистрации")
		return
	}
	if existing != nil {
		middleware.RecordAuthEvent("register", "duplicate")
		utils.BadRequest(c, repository.ErrDuplicateEmail.Message)
		return
	}

	hash, err := repository.HashPassword(req.Password)
	if err != nil {
		utils.Fail(c, err, "Ошибка регистрации")
		return
	}

	user, err := h.Users.Create(ctx, email, hash, username)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// 并发注册同一邮箱
		utils.BadRequest(c, repository.ErrDuplicateEmail.Message)
		return
	}
	if err != nil {
		utils.Fail(c, err, "Ошибка регистрации")
		return
	}

	if err := middleware.SetUserSession(c, user.ID); err != nil {
		utils.Fail(c, err, "Ошибка регистрации")
		return
	}

	middleware.RecordAuthEvent("register", "success")
	log.WithField("user_id", user.ID).Info("[Auth] 新用户注册")
	utils.Success(c, gin.H{"user": user.Public()})
}

// Login 邮箱密码登录
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Email и пароль обязательны")
		return
	}

	user, err := h.Users.FindByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		utils.Fail(c, err, "Ошибка входа")
		return
	}
	if user == nil || !h.Users.CheckPassword(user, req.Password) {
		middleware.RecordAuthEvent("login", "failure")
		utils.Unauthorized(c, "Неверный email или пароль")
		return
	}

	if err := middleware.SetUserSession(c, user.ID); err != nil {
		utils.Fail(c, err, "Ошибка входа")
		return
	}

	middleware.RecordAuthEvent("login", "success")
	utils.Success(c, gin.H{"user": user.Public()})
}

// Logout 退出登录
func (h *Handler) Logout(c *gin.Context) {
	if err := middleware.ClearUserSession(c); err != nil {
		utils.Fail(c, err, "Ошибка выхода")
		return
	}
	middleware.RecordAuthEvent("logout", "success")
	utils.Success(c, nil)
}

// Me 当前登录用户；未登录返回 {"user": null}
func (h *Handler) Me(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}
