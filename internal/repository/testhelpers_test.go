package repository

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/user/geppu/internal/model"
	"gorm.io/gorm"
)

// testDB 连接 TEST_DATABASE_URL 指向的 Postgres，执行迁移并清空数据；
// 未配置或无法连接时跳过测试
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set (skipping Postgres integration test)")
	}

	db, err := InitDB(dsn)
	if err != nil {
		t.Skipf("Postgres not available (skipping integration test): %v", err)
	}
	require.NoError(t, Migrate(db))
	require.NoError(t, db.Exec(`
		TRUNCATE user_watch_history, user_lists, user_favorites, episodes, releases, users
		RESTART IDENTITY CASCADE
	`).Error)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

var emailSeq int64

func seedUser(t *testing.T, repos *Repositories) *model.User {
	t.Helper()
	n := atomic.AddInt64(&emailSeq, 1)
	user, err := repos.User.Create(context.Background(), fmt.Sprintf("user%d@example.com", n), "hash", fmt.Sprintf("user%d", n))
	require.NoError(t, err)
	return user
}

func seedRelease(t *testing.T, repos *Repositories, title string, mutate ...func(*model.Release)) *model.Release {
	t.Helper()
	rel := &model.Release{
		Title:         title,
		TitleRu:       title + " (ru)",
		Description:   "description of " + title,
		Year:          2024,
		Season:        model.SeasonFall,
		TotalEpisodes: 12,
		Status:        model.ReleaseOngoing,
		Genres:        []string{"action"},
		Rating:        "16+",
	}
	for _, m := range mutate {
		m(rel)
	}
	require.NoError(t, repos.Release.Create(context.Background(), rel))
	return rel
}

func seedEpisode(t *testing.T, repos *Repositories, releaseID, number int) *model.Episode {
	t.Helper()
	ep := &model.Episode{
		ReleaseID:     releaseID,
		EpisodeNumber: number,
		VKVideoURL:    fmt.Sprintf("https://vk.com/video_ext.php?oid=1&id=%d", number),
		ReleaseDate:   time.Now(),
	}
	require.NoError(t, repos.Episode.Create(context.Background(), ep))
	return ep
}
