package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/user/geppu/internal/model"
	"github.com/user/geppu/internal/utils"
)

// ==================== 管理后台 ====================

const idRequired = "ID не указан"

type adminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type releaseRequest struct {
	ID            int      `json:"id"`
	Title         string   `json:"title" binding:"required,max=255"`
	TitleRu       string   `json:"title_ru" binding:"max=255"`
	Description   string   `json:"description"`
	CoverImageURL string   `json:"cover_image_url" binding:"max=2048"`
	Year          int      `json:"year" binding:"omitempty,gte=1900,lte=2100"`
	Season        string   `json:"season" binding:"required,season"`
	TotalEpisodes int      `json:"total_episodes" binding:"gte=0"`
	Status        string   `json:"status" binding:"required,release_status"`
	Genres        []string `json:"genres" binding:"dive,required"`
	Rating        string   `json:"rating" binding:"max=16"`
	Featured      bool     `json:"featured"`
	FeaturedOrder int      `json:"featured_order"`
	ReleaseDay    *int     `json:"release_day" binding:"omitempty,min=0,max=6"`
}

func (r *releaseRequest) toModel() *model.Release {
	genres := make([]string, 0, len(r.Genres))
	for _, g := range r.Genres {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	return &model.Release{
		ID:            r.ID,
		Title:         strings.TrimSpace(r.Title),
		TitleRu:       strings.TrimSpace(r.TitleRu),
		Description:   r.Description,
		CoverImageURL: r.CoverImageURL,
		Year:          r.Year,
		Season:        r.Season,
		TotalEpisodes: r.TotalEpisodes,
		Status:        r.Status,
		Genres:        genres,
		Rating:        r.Rating,
		Featured:      r.Featured,
		FeaturedOrder: r.FeaturedOrder,
		ReleaseDay:    r.ReleaseDay,
	}
}

type episodeRequest struct {
	ID            int     `json:"id"`
	ReleaseID     int     `json:"release_id"`
	EpisodeNumber int     `json:"episode_number" binding:"required,gt=0"`
	Title         *string `json:"title"`
	VKVideoURL    string  `json:"vk_video_url" binding:"required,url"`
	ThumbnailURL  *string `json:"thumbnail_url" binding:"omitempty,url"`
	Duration      *int    `json:"duration" binding:"omitempty,gt=0"`
	ReleaseDate   string  `json:"release_date"`
}

func (r *episodeRequest) toModel() (*model.Episode, error) {
	releaseDate, err := parseReleaseDate(r.ReleaseDate)
	if err != nil {
		return nil, err
	}
	return &model.Episode{
		ID:            r.ID,
		ReleaseID:     r.ReleaseID,
		EpisodeNumber: r.EpisodeNumber,
		Title:         emptyToNil(r.Title),
		VKVideoURL:    strings.TrimSpace(r.VKVideoURL),
		ThumbnailURL:  emptyToNil(r.ThumbnailURL),
		Duration:      r.Duration,
		ReleaseDate:   releaseDate,
	}, nil
}

// parseReleaseDate 支持 2006-01-02 和 RFC3339，空值取今天
func parseReleaseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, utils.NewValidationError("Некорректная дата выхода")
	}
	return t, nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// AdminLogin 管理员登录
func (h *Handler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Пароль обязателен")
		return
	}

	token, err := h.Admin.Login(c.ClientIP(), req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrTooManyRequests) {
			log.WithField("ip", c.ClientIP()).Warn("[Admin] 登录失败次数过多")
		}
		utils.Fail(c, err, "Ошибка входа")
		return
	}

	h.Admin.SetCookie(c, token)
	log.WithField("ip", c.ClientIP()).Info("[Admin] 管理员登录")
	utils.Success(c, nil)
}

// AdminLogout 管理员退出
func (h *Handler) AdminLogout(c *gin.Context) {
	h.Admin.ClearCookie(c)
	utils.Success(c, nil)
}

// ==================== 作品管理 ====================

// AdminReleases 全部作品
func (h *Handler) AdminReleases(c *gin.Context) {
	releases, err := h.Releases.ListAll(c.Request.Context())
	if err != nil {
		utils.Fail(c, err, "Ошибка получения релизов")
		return
	}
	utils.JSON(c, gin.H{"releases": releases})
}

// AdminReleaseCreate 创建作品
func (h *Handler) AdminReleaseCreate(c *gin.Context) {
	var req releaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Некорректные данные релиза")
		return
	}

	release := req.toModel()
	release.ID = 0
	if err := h.Releases.Create(c.Request.Context(), release); err != nil {
		utils.Fail(c, err, "Ошибка создания релиза")
		return
	}
	log.WithField("release_id", release.ID).Info("[Admin] 创建作品")
	utils.Success(c, gin.H{"release": release})
}

// AdminReleaseUpdate 更新作品（整体覆盖，release_day 缺省即清空）
func (h *Handler) AdminReleaseUpdate(c *gin.Context) {
	var req releaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Некорректные данные релиза")
		return
	}
	if req.ID <= 0 {
		utils.BadRequest(c, idRequired)
		return
	}

	release, err := h.Releases.Update(c.Request.Context(), req.toModel())
	if err != nil {
		utils.Fail(c, err, "Ошибка обновления релиза")
		return
	}
	utils.Success(c, gin.H{"release": release})
}

// AdminReleaseDelete 删除作品及其剧集、收藏、片单和观看记录
func (h *Handler) AdminReleaseDelete(c *gin.Context) {
	if c.Query("id") == "" {
		utils.BadRequest(c, idRequired)
		return
	}
	id, ok := queryID(c, "id")
	if !ok {
		utils.BadRequest(c, "Некорректный ID")
		return
	}

	deleted, err := h.Releases.Delete(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, err, "Ошибка удаления релиза")
		return
	}
	log.WithFields(log.Fields{"release_id": id, "title": deleted.Title}).Info("[Admin] 删除作品")
	utils.Success(c, nil)
}

// ==================== 剧集管理 ====================

// AdminEpisodes 某作品的全部剧集
func (h *Handler) AdminEpisodes(c *gin.Context) {
	releaseID, ok := queryID(c, "releaseId")
	if !ok {
		utils.BadRequest(c, "Release ID не указан")
		return
	}

	episodes, err := h.Episodes.ListByRelease(c.Request.Context(), releaseID)
	if err != nil {
		utils.Fail(c, err, "Ошибка получения эпизодов")
		return
	}
	utils.JSON(c, gin.H{"episodes": episodes})
}

// AdminEpisodeCreate 创建剧集
func (h *Handler) AdminEpisodeCreate(c *gin.Context) {
	var req episodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Некорректные данные эпизода")
		return
	}
	if req.ReleaseID <= 0 {
		utils.BadRequest(c, "Release ID не указан")
		return
	}

	episode, err := req.toModel()
	if err != nil {
		utils.Fail(c, err, "Ошибка создания эпизода")
		return
	}
	episode.ID = 0
	if err := h.Episodes.Create(c.Request.Context(), episode); err != nil {
		utils.Fail(c, err, "Ошибка создания эпизода")
		return
	}
	utils.Success(c, gin.H{"episode": episode})
}

// AdminEpisodeUpdate 更新剧集，不能移动到其他作品
func (h *Handler) AdminEpisodeUpdate(c *gin.Context) {
	var req episodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Некорректные данные эпизода")
		return
	}
	if req.ID <= 0 {
		utils.BadRequest(c, idRequired)
		return
	}

	episode, err := req.toModel()
	if err != nil {
		utils.Fail(c, err, "Ошибка обновления эпизода")
		return
	}
	updated, err := h.Episodes.Update(c.Request.Context(), episode)
	if err != nil {
		utils.Fail(c, err, "Ошибка обновления эпизода")
		return
	}
	utils.Success(c, gin.H{"episode": updated})
}

// AdminEpisodeDelete 删除剧集及其观看记录
func (h *Handler) AdminEpisodeDelete(c *gin.Context) {
	if c.Query("id") == "" {
		utils.BadRequest(c, idRequired)
		return
	}
	id, ok := queryID(c, "id")
	if !ok {
		utils.BadRequest(c, "Некорректный ID")
		return
	}

	if _, err := h.Episodes.Delete(c.Request.Context(), id); err != nil {
		utils.Fail(c, err, "Ошибка удаления эпизода")
		return
	}
	utils.Success(c, nil)
}
