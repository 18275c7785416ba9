package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/geppu/internal/middleware"
	"github.com/user/geppu/internal/model"
	"github.com/user/geppu/internal/repository"
	"github.com/user/geppu/internal/utils"
)

// ==================== 收藏 / 片单按钮 ====================

const releaseIDRequired = "Release ID is required"

type favoriteRequest struct {
	ReleaseID int `json:"releaseId" binding:"required,gt=0"`
}

type listRequest struct {
	ReleaseID int    `json:"releaseId" binding:"required,gt=0"`
	Status    string `json:"status" binding:"required,list_status"`
}

// FavoriteStatus 是否已收藏；未登录时恒为 false
func (h *Handler) FavoriteStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusOK, gin.H{"isFavorite": false})
		return
	}
	releaseID, ok := queryID(c, "releaseId")
	if !ok {
		utils.BadRequest(c, releaseIDRequired)
		return
	}

	favorite, err := h.Favorites.IsFavorite(c.Request.Context(), userID, releaseID)
	if err != nil {
		utils.Fail(c, err, "Failed to check favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFavorite": favorite})
}

// AddFavorite 添加收藏，重复添加不报错
func (h *Handler) AddFavorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, releaseIDRequired)
		return
	}
	if err := h.Favorites.Add(c.Request.Context(), middleware.GetUserID(c), req.ReleaseID); err != nil {
		utils.Fail(c, err, "Failed to add to favorites")
		return
	}
	utils.Success(c, nil)
}

// RemoveFavorite 取消收藏，未收藏时不报错
func (h *Handler) RemoveFavorite(c *gin.Context) {
	releaseID, ok := queryID(c, "releaseId")
	if !ok {
		utils.BadRequest(c, releaseIDRequired)
		return
	}
	if err := h.Favorites.Remove(c.Request.Context(), middleware.GetUserID(c), releaseID); err != nil {
		utils.Fail(c, err, "Failed to remove from favorites")
		return
	}
	utils.Success(c, nil)
}

// ListStatus 片单状态；未登录或未加入时为 null
func (h *Handler) ListStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusOK, gin.H{"status": nil})
		return
	}
	releaseID, ok := queryID(c, "releaseId")
	if !ok {
		utils.BadRequest(c, releaseIDRequired)
		return
	}

	status, err := h.Lists.GetStatus(c.Request.Context(), userID, releaseID)
	if err != nil {
		utils.Fail(c, err, "Failed to check list status")
		return
	}
	if status == "" {
		c.JSON(http.StatusOK, gin.H{"status": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// SetListStatus 设置片单状态（覆盖旧状态）
func (h *Handler) SetListStatus(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if failedTag(err) == "list_status" {
			utils.BadRequest(c, repository.ErrInvalidListStatus.Message)
			return
		}
		utils.BadRequest(c, "Release ID and status are required")
		return
	}
	if !model.IsValidListStatus(req.Status) {
		utils.BadRequest(c, repository.ErrInvalidListStatus.Message)
		return
	}

	if err := h.Lists.Upsert(c.Request.Context(), middleware.GetUserID(c), req.ReleaseID, req.Status); err != nil {
		utils.Fail(c, err, "Failed to add to list")
		return
	}
	utils.Success(c, gin.H{"status": req.Status})
}

// RemoveFromList 移出片单
func (h *Handler) RemoveFromList(c *gin.Context) {
	releaseID, ok := queryID(c, "releaseId")
	if !ok {
		utils.BadRequest(c, releaseIDRequired)
		return
	}
	if err := h.Lists.Remove(c.Request.Context(), middleware.GetUserID(c), releaseID); err != nil {
		utils.Fail(c, err, "Failed to remove from list")
		return
	}
	utils.Success(c, nil)
}
