package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/geppu/internal/config"
	"github.com/user/geppu/internal/middleware"
	"github.com/user/geppu/internal/model"
	"github.com/user/geppu/internal/repository"
	"github.com/user/geppu/internal/service"
)

// ==================== 存储接口 ====================
// repository 包中的实现满足这些接口；测试中使用内存实现

// UserStore 用户
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	Create(ctx context.Context, email, passwordHash, username string) (*model.User, error)
	CheckPassword(user *model.User, password string) bool
	UpdateProfile(ctx context.Context, userID int, username string) (*model.User, error)
	UpdateAvatar(ctx context.Context, userID int, avatarURL string) (*model.User, error)
}

// ReleaseStore 作品
type ReleaseStore interface {
	ListAll(ctx context.Context) ([]*model.Release, error)
	FindByID(ctx context.Context, id int) (*model.Release, error)
	Create(ctx context.Context, release *model.Release) error
	Update(ctx context.Context, release *model.Release) (*model.Release, error)
	Delete(ctx context.Context, id int) (*model.Release, error)
	Search(ctx context.Context, query string) ([]*model.Release, error)
	ListByWeekday(ctx context.Context) ([]*model.Release, error)
	ListFeatured(ctx context.Context, limit int) ([]*model.Release, error)
	ListByGenre(ctx context.Context, genre string) ([]*model.Release, error)
	Random(ctx context.Context) (*model.Release, error)
}

// EpisodeStore 剧集
type EpisodeStore interface {
	ListByRelease(ctx context.Context, releaseID int) ([]*model.Episode, error)
	FindByID(ctx context.Context, id int) (*model.Episode, error)
	FindByNumber(ctx context.Context, releaseID, number int) (*model.Episode, error)
	Create(ctx context.Context, episode *model.Episode) error
	Update(ctx context.Context, episode *model.Episode) (*model.Episode, error)
	Delete(ctx context.Context, id int) (*model.Episode, error)
	ListLatest(ctx context.Context, limit int) ([]*model.EpisodeCard, error)
	ListToday(ctx context.Context) ([]*model.EpisodeCard, error)
}

// FavoriteStore 收藏
type FavoriteStore interface {
	Add(ctx context.Context, userID, releaseID int) error
	Remove(ctx context.Context, userID, releaseID int) error
	IsFavorite(ctx context.Context, userID, releaseID int) (bool, error)
	ListByUser(ctx context.Context, userID int) ([]*model.Release, error)
}

// ListStore 片单
type ListStore interface {
	Upsert(ctx context.Context, userID, releaseID int, status string) error
	Remove(ctx context.Context, userID, releaseID int) error
	GetStatus(ctx context.Context, userID, releaseID int) (string, error)
	ListByUser(ctx context.Context, userID int, status string) ([]*model.ListedRelease, error)
	CountByStatus(ctx context.Context, userID int) (map[string]int64, error)
}

// HistoryStore 观看进度
type HistoryStore interface {
	UpsertProgress(ctx context.Context, userID, episodeID int, progress float64) error
	FindProgress(ctx context.Context, userID, episodeID int) (*model.WatchHistory, error)
	ContinueWatching(ctx context.Context, userID, limit int) ([]*model.ContinueWatchingItem, error)
}

// Stores 处理器依赖的全部存储
type Stores struct {
	Users     UserStore
	Releases  ReleaseStore
	Episodes  EpisodeStore
	Favorites FavoriteStore
	Lists     ListStore
	History   HistoryStore
}

// StoresFrom 使用数据库仓库
func StoresFrom(repos *repository.Repositories) Stores {
	return Stores{
		Users:     repos.User,
		Releases:  repos.Release,
		Episodes:  repos.Episode,
		Favorites: repos.Favorite,
		Lists:     repos.List,
		History:   repos.History,
	}
}

// ==================== 处理器 ====================

// Handler HTTP 处理器
type Handler struct {
	Stores
	Config   *config.Config
	Admin    *middleware.AdminGate
	Feed     *service.FeedService
	Schedule *service.ScheduleService
}

// NewHandler 创建处理器
func NewHandler(stores Stores, cfg *config.Config) *Handler {
	return &Handler{
		Stores:   stores,
		Config:   cfg,
		Admin:    middleware.NewAdminGate(cfg),
		Feed:     service.NewFeedService(stores.Releases, stores.Episodes, stores.History),
		Schedule: service.NewScheduleService(stores.Releases),
	}
}

// queryID 解析查询参数中的正整数 ID
func queryID(c *gin.Context, key string) (int, bool) {
	return parseID(c.Query(key))
}

// paramID 解析路径参数中的正整数 ID
func paramID(c *gin.Context, key string) (int, bool) {
	return parseID(c.Param(key))
}

func parseID(raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
