package repository

import (
	"context"
	"errors"

	"github.com/user/geppu/internal/model"
	"gorm.io/gorm"
)

var episodeWritableColumns = []string{
	"episode_number", "title", "vk_video_url", "thumbnail_url", "duration", "release_date",
}

const episodeCardColumns = `
	e.id, e.episode_number, e.title AS episode_title, e.vk_video_url, e.thumbnail_url, e.release_date,
	r.id AS release_id, r.title, r.title_ru, r.cover_image_url`

type EpisodeRepository struct {
	db *gorm.DB
}

func NewEpisodeRepository(db *gorm.DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

// ListByRelease 作品下的全部剧集（按集数升序）
func (r *EpisodeRepository) ListByRelease(ctx context.Context, releaseID int) ([]*model.Episode, error) {
	var episodes []*model.Episode
	err := r.db.WithContext(ctx).
		Where("release_id = ?", releaseID).
		Order("episode_number ASC").
		Find(&episodes).Error
	return nonNil(episodes), err
}

// FindByID 根据 ID 查找剧集
func (r *EpisodeRepository) FindByID(ctx context.Context, id int) (*model.Episode, error) {
	var episode model.Episode
	err := r.db.WithContext(ctx).First(&episode, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

// FindByNumber 根据作品和集数查找剧集（播放页）
func (r *EpisodeRepository) FindByNumber(ctx context.Context, releaseID, number int) (*model.Episode, error) {
	var episode model.Episode
	err := r.db.WithContext(ctx).
		Where("release_id = ? AND episode_number = ?", releaseID, number).
		First(&episode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

// Create 创建剧集；同一作品集数重复返回 ErrDuplicateEpisode，作品不存在返回 ErrReleaseNotFound
func (r *EpisodeRepository) Create(ctx context.Context, episode *model.Episode) error {
	err := r.db.WithContext(ctx).Create(episode).Error
	return translateErr(err, ErrDuplicateEpisode, ErrReleaseNotFound)
}

// Update 更新剧集（不允许移动到其他作品）
func (r *EpisodeRepository) Update(ctx context.Context, episode *model.Episode) (*model.Episode, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Episode{ID: episode.ID}).
		Select(episodeWritableColumns).
		Updates(episode)
	if res.Error != nil {
		return nil, translateErr(res.Error, ErrDuplicateEpisode, nil)
	}
	if res.RowsAffected == 0 {
		return nil, ErrEpisodeNotFound
	}
	return r.FindByID(ctx, episode.ID)
}

// Delete 删除剧集及其观看记录
func (r *EpisodeRepository) Delete(ctx context.Context, id int) (*model.Episode, error) {
	var deleted model.Episode

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&deleted, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEpisodeNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Where("episode_id = ?", id).Delete(&model.WatchHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Episode{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// ListLatest 最新上传的剧集
func (r *EpisodeRepository) ListLatest(ctx context.Context, limit int) ([]*model.EpisodeCard, error) {
	var cards []*model.EpisodeCard
	err := r.db.WithContext(ctx).
		Table("episodes e").
		Select(episodeCardColumns).
		Joins("JOIN releases r ON e.release_id = r.id").
		Order("e.created_at DESC, e.id DESC").
		Limit(limit).
		Scan(&cards).Error
	return nonNil(cards), err
}

// ListToday 今天放送的剧集
func (r *EpisodeRepository) ListToday(ctx context.Context) ([]*model.EpisodeCard, error) {
	var cards []*model.EpisodeCard
	err := r.db.WithContext(ctx).
		Table("episodes e").
		Select(episodeCardColumns+", r.description").
		Joins("JOIN releases r ON e.release_id = r.id").
		Where("e.release_date = CURRENT_DATE").
		Order("e.created_at DESC, e.id DESC").
		Scan(&cards).Error
	return nonNil(cards), err
}
