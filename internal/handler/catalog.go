package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/geppu/internal/middleware"
	"github.com/user/geppu/internal/model"
	"github.com/user/geppu/internal/repository"
	"github.com/user/geppu/internal/utils"
)

// ==================== 公开目录 ====================

// Search 搜索作品；空查询返回空列表
func (h *Handler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"releases": []*model.Release{}})
		return
	}

	releases, err := h.Releases.Search(c.Request.Context(), query)
	if err != nil {
		utils.Fail(c, err, "Failed to search releases")
		return
	}
	c.JSON(http.StatusOK, gin.H{"releases": releases})
}

// GetSchedule 一周放送表，固定 7 天
func (h *Handler) GetSchedule(c *gin.Context) {
	week, err := h.Schedule.Week(c.Request.Context())
	if err != nil {
		utils.Fail(c, err, "Ошибка получения расписания")
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": week})
}

// Home 首页数据
func (h *Handler) Home(c *gin.Context) {
	feed, err := h.Feed.Home(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err, "Ошибка загрузки главной страницы")
		return
	}
	c.JSON(http.StatusOK, feed)
}

// Catalog 作品目录，可按类型筛选
func (h *Handler) Catalog(c *gin.Context) {
	var (
		releases []*model.Release
		err      error
	)
	if genre := strings.TrimSpace(c.Query("genre")); genre != "" {
		releases, err = h.Releases.ListByGenre(c.Request.Context(), genre)
	} else {
		releases, err = h.Releases.ListAll(c.Request.Context())
	}
	if err != nil {
		utils.Fail(c, err, "Ошибка получения релизов")
		return
	}
	c.JSON(http.StatusOK, gin.H{"releases": releases})
}

// RandomRelease 随机作品
func (h *Handler) RandomRelease(c *gin.Context) {
	release, err := h.Releases.Random(c.Request.Context())
	if err != nil {
		utils.Fail(c, err, "Failed to get random release")
		return
	}
	if release == nil {
		utils.NotFound(c, "No releases found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       release.ID,
		"title":    release.Title,
		"title_ru": release.TitleRu,
	})
}

// ReleaseDetail 作品详情（含剧集）；登录用户附带收藏与片单状态
func (h *Handler) ReleaseDetail(c *gin.Context) {
	releaseID, ok := paramID(c, "id")
	if !ok {
		utils.NotFound(c, repository.ErrReleaseNotFound.Message)
		return
	}

	ctx := c.Request.Context()
	release, err := h.Releases.FindByID(ctx, releaseID)
	if err != nil {
		utils.Fail(c, err, "Ошибка получения релиза")
		return
	}
	if release == nil {
		utils.NotFound(c, repository.ErrReleaseNotFound.Message)
		return
	}

	episodes, err := h.Episodes.ListByRelease(ctx, releaseID)
	if err != nil {
		utils.Fail(c, err, "Ошибка получения релиза")
		return
	}

	res := gin.H{"release": &model.ReleaseWithEpisodes{Release: release, Episodes: episodes}}
	if userID := middleware.GetUserID(c); userID != 0 {
		favorite, err := h.Favorites.IsFavorite(ctx, userID, releaseID)
		if err != nil {
			utils.Fail(c, err, "Ошибка получения релиза")
			return
		}
		status, err := h.Lists.GetStatus(ctx, userID, releaseID)
		if err != nil {
			utils.Fail(c, err, "Ошибка получения релиза")
			return
		}
		res["isFavorite"] = favorite
		if status != "" {
			res["listStatus"] = status
		} else {
			res["listStatus"] = nil
		}
	}
	c.JSON(http.StatusOK, res)
}

// WatchEpisode 播放页：作品、当前集、全部剧集和用户进度
func (h *Handler) WatchEpisode(c *gin.Context) {
	releaseID, ok := paramID(c, "id")
	if !ok {
		utils.NotFound(c, repository.ErrReleaseNotFound.Message)
		return
	}
	number, ok := paramID(c, "number")
	if !ok {
		utils.NotFound(c, repository.ErrEpisodeNotFound.Message)
		return
	}

	ctx := c.Request.Context()
	release, err := h.Releases.FindByID(ctx, releaseID)
	if err != nil {
		utils.Fail(c, err, "Ошибка загрузки эпизода")
		return
	}
	if release == nil {
		utils.NotFound(c, repository.ErrReleaseNotFound.Message)
		return
	}

	episode, err := h.Episodes.FindByNumber(ctx, releaseID, number)
	if err != nil {
		utils.Fail(c, err, "Ошибка загрузки эпизода")
		return
	}
	if episode == nil {
		utils.NotFound(c, repository.ErrEpisodeNotFound.Message)
		return
	}

	episodes, err := h.Episodes.ListByRelease(ctx, releaseID)
	if err != nil {
		utils.Fail(c, err, "Ошибка загрузки эпизода")
		return
	}

	var progress *float64
	if userID := middleware.GetUserID(c); userID != 0 {
		history, err := h.History.FindProgress(ctx, userID, episode.ID)
		if err != nil {
			utils.Fail(c, err, "Ошибка загрузки эпизода")
			return
		}
		if history != nil {
			progress = &history.Progress
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"release":  release,
		"episode":  episode,
		"episodes": episodes,
		"progress": progress,
	})
}
