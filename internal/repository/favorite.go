package repository

import (
	"context"
	"time"

	"github.com/user/geppu/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add 添加收藏，重复添加不报错
func (r *FavoriteRepository) Add(ctx context.Context, userID, releaseID int) error {
	favorite := &model.Favorite{
		UserID:    userID,
		ReleaseID: releaseID,
		CreatedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "release_id"}},
		DoNothing: true,
	}).Create(favorite).Error
	return translateErr(err, nil, ErrReleaseNotFound)
}

// Remove 取消收藏，不存在时不报错
func (r *FavoriteRepository) Remove(ctx context.Context, userID, releaseID int) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND release_id = ?", userID, releaseID).
		Delete(&model.Favorite{}).Error
}

// IsFavorite 检查是否已收藏
func (r *FavoriteRepository) IsFavorite(ctx context.Context, userID, releaseID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND release_id = ?", userID, releaseID).
		Count(&count).Error
	return count > 0, err
}

// ListByUser 获取用户收藏的作品（最近收藏在前）
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int) ([]*model.Release, error) {
	var releases []*model.Release
	err := r.db.WithContext(ctx).
		Table("releases r").
		Select("r.*").
		Joins("JOIN user_favorites uf ON r.id = uf.release_id").
		Where("uf.user_id = ?", userID).
		Order("uf.created_at DESC, uf.id DESC").
		Scan(&releases).Error
	return nonNil(releases), err
}

// CountByUser 统计用户收藏数量
func (r *FavoriteRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}
