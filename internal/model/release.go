package model

import (
	"time"

	"github.com/lib/pq"
)

// Season 播出季度
const (
	SeasonWinter = "winter"
	SeasonSpring = "spring"
	SeasonSummer = "summer"
	SeasonFall   = "fall"
)

// 作品连载状态
const (
	ReleaseOngoing   = "ongoing"
	ReleaseCompleted = "completed"
)

// Seasons 所有合法季度
var Seasons = []string{SeasonWinter, SeasonSpring, SeasonSummer, SeasonFall}

// ReleaseStatuses 所有合法连载状态
var ReleaseStatuses = []string{ReleaseOngoing, ReleaseCompleted}

// Release 动画作品（一季/一部）
type Release struct {
	ID            int            `json:"id" db:"id"`
	Title         string         `json:"title" db:"title"`
	TitleRu       string         `json:"title_ru" db:"title_ru" gorm:"column:title_ru"`
	Description   string         `json:"description" db:"description"`
	CoverImageURL string         `json:"cover_image_url" db:"cover_image_url" gorm:"column:cover_image_url"`
	Year          int            `json:"year" db:"year"`
	Season        string         `json:"season" db:"season"`
	TotalEpisodes int            `json:"total_episodes" db:"total_episodes"`
	Status        string         `json:"status" db:"status"`
	Genres        pq.StringArray `json:"genres" db:"genres" gorm:"type:text[]"`
	Rating        string         `json:"rating" db:"rating"`
	Featured      bool           `json:"featured" db:"featured"`
	FeaturedOrder int            `json:"featured_order" db:"featured_order"`
	ReleaseDay    *int           `json:"release_day" db:"release_day"` // 0=周日 ... 6=周六
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// Episode 单集，视频托管在外部（VK）
type Episode struct {
	ID            int       `json:"id" db:"id"`
	ReleaseID     int       `json:"release_id" db:"release_id" gorm:"uniqueIndex:idx_episodes_release_number"`
	EpisodeNumber int       `json:"episode_number" db:"episode_number" gorm:"uniqueIndex:idx_episodes_release_number"`
	Title         *string   `json:"title" db:"title"`
	VKVideoURL    string    `json:"vk_video_url" db:"vk_video_url" gorm:"column:vk_video_url;not null"`
	ThumbnailURL  *string   `json:"thumbnail_url" db:"thumbnail_url" gorm:"column:thumbnail_url"`
	Duration      *int      `json:"duration" db:"duration"`
	ReleaseDate   time.Time `json:"release_date" db:"release_date" gorm:"type:date"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// EpisodeCard 首页剧集卡片（剧集 + 作品基本信息）
type EpisodeCard struct {
	ID            int       `json:"id"`
	EpisodeNumber int       `json:"episode_number"`
	EpisodeTitle  *string   `json:"episode_title"`
	VKVideoURL    string    `json:"vk_video_url" gorm:"column:vk_video_url"`
	ThumbnailURL  *string   `json:"thumbnail_url" gorm:"column:thumbnail_url"`
	ReleaseDate   time.Time `json:"release_date"`
	ReleaseID     int       `json:"release_id"`
	Title         string    `json:"title"`
	TitleRu       string    `json:"title_ru" gorm:"column:title_ru"`
	CoverImageURL string    `json:"cover_image_url" gorm:"column:cover_image_url"`
	Description   string    `json:"description,omitempty"`
}

// ReleaseWithEpisodes 详情页数据
type ReleaseWithEpisodes struct {
	*Release
	Episodes []*Episode `json:"episodes"`
}
