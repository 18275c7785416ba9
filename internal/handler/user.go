package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/geppu/internal/middleware"
	"github.com/user/geppu/internal/model"
	"github.com/user/geppu/internal/repository"
	"github.com/user/geppu/internal/utils"
)

// ==================== 个人中心 ====================

const maxContinueWatchingLimit = 50

type profileRequest struct {
	Username  *string `json:"username" binding:"omitempty,max=50"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,max=2048"`
}

type userFavoriteRequest struct {
	ReleaseID int `json:"release_id" binding:"required,gt=0"`
}

type progressRequest struct {
	EpisodeID int      `json:"episode_id" binding:"required,gt=0"`
	Progress  *float64 `json:"progress" binding:"required,min=0,max=100"`
}

// UpdateProfile 修改用户名或头像，未变化的字段不写库
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "")
		return
	}

	ctx := c.Request.Context()
	user := middleware.GetUser(c)
	updated := user

	if req.Username != nil {
		if name := strings.TrimSpace(*req.Username); name != "" && name != user.Username {
			u, err := h.Users.UpdateProfile(ctx, user.ID, name)
			if err != nil {
				utils.Fail(c, err, "Ошибка обновления профиля")
				return
			}
			updated = u
		}
	}

	if req.AvatarURL != nil && *req.AvatarURL != "" {
		if user.AvatarURL == nil || *user.AvatarURL != *req.AvatarURL {
			u, err := h.Users.UpdateAvatar(ctx, user.ID, *req.AvatarURL)
			if err != nil {
				utils.Fail(c, err, "Ошибка обновления профиля")
				return
			}
			updated = u
		}
	}

	utils.Success(c, gin.H{"user": updated.Public()})
}

// UserFavorites 收藏列表
func (h *Handler) UserFavorites(c *gin.Context) {
	favorites, err := h.Favorites.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err, "Ошибка получения избранного")
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

// UserAddFavorite 个人中心添加收藏（body: release_id）
func (h *Handler) UserAddFavorite(c *gin.Context) {
	var req userFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Release ID is required")
		return
	}
	if err := h.Favorites.Add(c.Request.Context(), middleware.GetUserID(c), req.ReleaseID); err != nil {
		utils.Fail(c, err, "Ошибка добавления в избранное")
		return
	}
	utils.Success(c, nil)
}

// UserRemoveFavorite 个人中心取消收藏（body: release_id）
func (h *Handler) UserRemoveFavorite(c *gin.Context) {
	var req userFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Release ID is required")
		return
	}
	if err := h.Favorites.Remove(c.Request.Context(), middleware.GetUserID(c), req.ReleaseID); err != nil {
		utils.Fail(c, err, "Ошибка удаления из избранного")
		return
	}
	utils.Success(c, nil)
}

// UserLists 片单；countsOnly=true 时只返回各状态数量
func (h *Handler) UserLists(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	if c.Query("countsOnly") == "true" {
		counts, err := h.Lists.CountByStatus(ctx, userID)
		if err != nil {
			utils.Fail(c, err, "Failed to get user lists")
			return
		}
		c.JSON(http.StatusOK, gin.H{"counts": counts})
		return
	}

	status := c.Query("status")
	if status != "" && !model.IsValidListStatus(status) {
		utils.BadRequest(c, repository.ErrInvalidListStatus.Message)
		return
	}
	lists, err := h.Lists.ListByUser(ctx, userID, status)
	if err != nil {
		utils.Fail(c, err, "Failed to get user lists")
		return
	}
	c.JSON(http.StatusOK, gin.H{"lists": lists})
}

// ContinueWatching 继续观看
func (h *Handler) ContinueWatching(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = repository.DefaultContinueWatchingLimit
	}
	if limit > maxContinueWatchingLimit {
		limit = maxContinueWatchingLimit
	}

	items, err := h.History.ContinueWatching(c.Request.Context(), middleware.GetUserID(c), limit)
	if err != nil {
		utils.Fail(c, err, "Ошибка получения истории")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// SaveProgress 上报观看进度（后写入者覆盖）
func (h *Handler) SaveProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, repository.ErrInvalidProgress.Message)
		return
	}

	if err := h.History.UpsertProgress(c.Request.Context(), middleware.GetUserID(c), req.EpisodeID, *req.Progress); err != nil {
		utils.Fail(c, err, "Ошибка сохранения прогресса")
		return
	}
	utils.Success(c, gin.H{"progress": *req.Progress})
}
