package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/geppu/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultContinueWatchingLimit 继续观看默认条数
const DefaultContinueWatchingLimit = 12

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// UpsertProgress 更新或插入观看进度，后写入者覆盖（不要求单调递增）
func (r *HistoryRepository) UpsertProgress(ctx context.Context, userID, episodeID int, progress float64) error {
	if progress < 0 || progress > 100 {
		return ErrInvalidProgress
	}

	h := &model.WatchHistory{
		UserID:    userID,
		EpisodeID: episodeID,
		Progress:  progress,
		WatchedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "episode_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"progress", "watched_at"}),
	}).Create(h).Error
	return translateErr(err, nil, ErrEpisodeNotFound)
}

// FindProgress 获取用户某集的观看进度，没有记录返回 nil
func (r *HistoryRepository) FindProgress(ctx context.Context, userID, episodeID int) (*model.WatchHistory, error) {
	var h model.WatchHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND episode_id = ?", userID, episodeID).
		First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ContinueWatching 继续观看：每部作品只取最近观看且未看完（进度 < 95）的一集，
// 按最近观看时间倒序，最多 limit 条
func (r *HistoryRepository) ContinueWatching(ctx context.Context, userID, limit int) ([]*model.ContinueWatchingItem, error) {
	if limit <= 0 {
		limit = DefaultContinueWatchingLimit
	}

	var items []*model.ContinueWatchingItem
	err := r.db.WithContext(ctx).Raw(`
		SELECT * FROM (
			SELECT DISTINCT ON (e.release_id)
				wh.id, wh.episode_id, wh.progress, wh.watched_at,
				e.release_id, e.episode_number, e.title AS episode_title,
				r.title, r.title_ru, r.cover_image_url, r.total_episodes
			FROM user_watch_history wh
			JOIN episodes e ON e.id = wh.episode_id
			JOIN releases r ON r.id = e.release_id
			WHERE wh.user_id = ? AND wh.progress < ?
			ORDER BY e.release_id, wh.watched_at DESC, wh.id DESC
		) latest
		ORDER BY latest.watched_at DESC, latest.id DESC
		LIMIT ?
	`, userID, model.ContinueWatchingThreshold, limit).Scan(&items).Error
	return nonNil(items), err
}
