package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/geppu/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

// Upsert 设置片单状态；已存在则覆盖状态并刷新 updated_at
func (r *ListRepository) Upsert(ctx context.Context, userID, releaseID int, status string) error {
	if !model.IsValidListStatus(status) {
		return ErrInvalidListStatus
	}

	now := time.Now()
	entry := &model.ListEntry{
		UserID:    userID,
		ReleaseID: releaseID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "release_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(entry).Error
	return translateErr(err, nil, ErrReleaseNotFound)
}

// Remove 移出片单，不存在时不报错
func (r *ListRepository) Remove(ctx context.Context, userID, releaseID int) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND release_id = ?", userID, releaseID).
		Delete(&model.ListEntry{}).Error
}

// Get 获取用户对某作品的片单记录，不存在返回 nil
func (r *ListRepository) Get(ctx context.Context, userID, releaseID int) (*model.ListEntry, error) {
	var entry model.ListEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND release_id = ?", userID, releaseID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetStatus 获取片单状态，未加入时返回空字符串
func (r *ListRepository) GetStatus(ctx context.Context, userID, releaseID int) (string, error) {
	entry, err := r.Get(ctx, userID, releaseID)
	if err != nil || entry == nil {
		return "", err
	}
	return entry.Status, nil
}

// ListByUser 用户片单，status 为空时返回全部
func (r *ListRepository) ListByUser(ctx context.Context, userID int, status string) ([]*model.ListedRelease, error) {
	var items []*model.ListedRelease
	q := r.db.WithContext(ctx).
		Table("user_lists ul").
		Select("r.*, ul.status AS list_status, ul.updated_at AS list_updated_at").
		Joins("JOIN releases r ON r.id = ul.release_id").
		Where("ul.user_id = ?", userID)
	if status != "" {
		q = q.Where("ul.status = ?", status)
	}
	err := q.Order("ul.updated_at DESC, ul.id DESC").Scan(&items).Error
	return nonNil(items), err
}

// CountByStatus 各状态数量，未出现的状态补 0
func (r *ListRepository) CountByStatus(ctx context.Context, userID int) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&model.ListEntry{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(model.ListStatuses))
	for _, s := range model.ListStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
