package model

import (
	"time"
)

// 片单状态
const (
	ListWatching  = "watching"
	ListCompleted = "completed"
	ListOnHold    = "on_hold"
	ListDropped   = "dropped"
	ListPlanned   = "planned"
)

// ListStatuses 所有合法片单状态（按展示顺序）
var ListStatuses = []string{ListWatching, ListCompleted, ListOnHold, ListDropped, ListPlanned}

// IsValidListStatus 检查片单状态是否合法
func IsValidListStatus(s string) bool {
	for _, v := range ListStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ContinueWatchingThreshold 进度达到该值视为看完
const ContinueWatchingThreshold = 95

// Favorite 收藏
type Favorite struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id" gorm:"uniqueIndex:idx_user_favorites_pair"`
	ReleaseID int       `json:"release_id" db:"release_id" gorm:"uniqueIndex:idx_user_favorites_pair"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (Favorite) TableName() string { return "user_favorites" }

// ListEntry 用户片单状态
type ListEntry struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id" gorm:"uniqueIndex:idx_user_lists_pair"`
	ReleaseID int       `json:"release_id" db:"release_id" gorm:"uniqueIndex:idx_user_lists_pair"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (ListEntry) TableName() string { return "user_lists" }

// WatchHistory 观看进度，每个用户每集一行
type WatchHistory struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id" gorm:"uniqueIndex:idx_user_watch_history_pair"`
	EpisodeID int       `json:"episode_id" db:"episode_id" gorm:"uniqueIndex:idx_user_watch_history_pair"`
	Progress  float64   `json:"progress" db:"progress"`
	WatchedAt time.Time `json:"watched_at" db:"watched_at"`
}

func (WatchHistory) TableName() string { return "user_watch_history" }

// ListedRelease 作品 + 用户片单状态
type ListedRelease struct {
	Release
	ListStatus    string    `json:"list_status"`
	ListUpdatedAt time.Time `json:"list_updated_at"`
}

// ContinueWatchingItem 继续观看卡片
type ContinueWatchingItem struct {
	ID            int       `json:"id"`
	EpisodeID     int       `json:"episode_id"`
	ReleaseID     int       `json:"release_id"`
	EpisodeNumber int       `json:"episode_number"`
	EpisodeTitle  *string   `json:"episode_title"`
	Title         string    `json:"title"`
	TitleRu       string    `json:"title_ru" gorm:"column:title_ru"`
	CoverImageURL string    `json:"cover_image_url" gorm:"column:cover_image_url"`
	TotalEpisodes int       `json:"total_episodes"`
	Progress      float64   `json:"progress"`
	WatchedAt     time.Time `json:"watched_at"`
}
