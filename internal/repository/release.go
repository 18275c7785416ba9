package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/user/geppu/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// releaseWritableColumns 管理后台可修改的字段
var releaseWritableColumns = []string{
	"title", "title_ru", "description", "cover_image_url", "year", "season",
	"total_episodes", "status", "genres", "rating", "featured", "featured_order",
	"release_day", "updated_at",
}

type ReleaseRepository struct {
	db *gorm.DB
}

func NewReleaseRepository(db *gorm.DB) *ReleaseRepository {
	return &ReleaseRepository{db: db}
}

// ListAll 获取全部作品（最新在前）
func (r *ReleaseRepository) ListAll(ctx context.Context) ([]*model.Release, error) {
	var releases []*model.Release
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&releases).Error
	return nonNil(releases), err
}

// FindByID 根据 ID 查找作品
func (r *ReleaseRepository) FindByID(ctx context.Context, id int) (*model.Release, error) {
	var release model.Release
	err := r.db.WithContext(ctx).First(&release, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &release, nil
}

// Create 创建作品
func (r *ReleaseRepository) Create(ctx context.Context, release *model.Release) error {
	if release.Genres == nil {
		release.Genres = pq.StringArray{}
	}
	return r.db.WithContext(ctx).Create(release).Error
}

// Update 更新作品，返回更新后的完整记录
func (r *ReleaseRepository) Update(ctx context.Context, release *model.Release) (*model.Release, error) {
	if release.Genres == nil {
		release.Genres = pq.StringArray{}
	}
	release.UpdatedAt = time.Now()

	res := r.db.WithContext(ctx).
		Model(&model.Release{ID: release.ID}).
		Select(releaseWritableColumns).
		Updates(release)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrReleaseNotFound
	}
	return r.FindByID(ctx, release.ID)
}

// Delete 删除作品及其全部关联数据。
// 在同一事务中按依赖顺序删除：观看记录 -> 剧集 -> 收藏 -> 片单 -> 作品，
// 任一步失败整体回滚。作品不存在时返回 ErrReleaseNotFound。
func (r *ReleaseRepository) Delete(ctx context.Context, id int) (*model.Release, error) {
	var deleted model.Release

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&deleted, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReleaseNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Exec(`
			DELETE FROM user_watch_history
			WHERE episode_id IN (SELECT id FROM episodes WHERE release_id = ?)
		`, id).Error; err != nil {
			return err
		}
		if err := tx.Where("release_id = ?", id).Delete(&model.Episode{}).Error; err != nil {
			return err
		}
		if err := tx.Where("release_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("release_id = ?", id).Delete(&model.ListEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Release{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// Search 在标题、俄文标题、简介中做不区分大小写的子串匹配；空查询返回空列表
func (r *ReleaseRepository) Search(ctx context.Context, query string) ([]*model.Release, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*model.Release{}, nil
	}

	pattern := "%" + escapeLike(query) + "%"
	var releases []*model.Release
	err := r.db.WithContext(ctx).
		Where("title_ru ILIKE ? OR title ILIKE ? OR description ILIKE ?", pattern, pattern, pattern).
		Order("created_at DESC, id DESC").
		Find(&releases).Error
	return nonNil(releases), err
}

// ListByWeekday 排期表：连载中且设置了放送日的作品，按放送日、俄文标题排序
func (r *ReleaseRepository) ListByWeekday(ctx context.Context) ([]*model.Release, error) {
	var releases []*model.Release
	err := r.db.WithContext(ctx).
		Where("release_day IS NOT NULL AND status = ?", model.ReleaseOngoing).
		Order("release_day ASC, title_ru ASC").
		Find(&releases).Error
	return nonNil(releases), err
}

// ListFeatured 首页轮播
func (r *ReleaseRepository) ListFeatured(ctx context.Context, limit int) ([]*model.Release, error) {
	var releases []*model.Release
	err := r.db.WithContext(ctx).
		Where("featured = ?", true).
		Order("featured_order ASC, created_at DESC").
		Limit(limit).
		Find(&releases).Error
	return nonNil(releases), err
}

// ListByGenre 按类型筛选
func (r *ReleaseRepository) ListByGenre(ctx context.Context, genre string) ([]*model.Release, error) {
	var releases []*model.Release
	err := r.db.WithContext(ctx).
		Where("? = ANY(genres)", genre).
		Order("created_at DESC, id DESC").
		Find(&releases).Error
	return nonNil(releases), err
}

// Random 随机一部作品，目录为空时返回 nil
func (r *ReleaseRepository) Random(ctx context.Context) (*model.Release, error) {
	var releases []*model.Release
	err := r.db.WithContext(ctx).Order("RANDOM()").Limit(1).Find(&releases).Error
	if err != nil || len(releases) == 0 {
		return nil, err
	}
	return releases[0], nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 转义 LIKE 通配符，使查询按字面匹配
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
