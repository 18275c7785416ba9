package service

import (
	"context"

	"github.com/user/geppu/internal/model"
	"golang.org/x/sync/errgroup"
)

// 首页各区块条数
const (
	FeaturedLimit         = 10
	LatestEpisodesLimit   = 18
	ContinueWatchingLimit = 12
)

// ReleaseFeed 首页需要的作品查询
type ReleaseFeed interface {
	ListFeatured(ctx context.Context, limit int) ([]*model.Release, error)
}

// EpisodeFeed 首页需要的剧集查询
type EpisodeFeed interface {
	ListLatest(ctx context.Context, limit int) ([]*model.EpisodeCard, error)
	ListToday(ctx context.Context) ([]*model.EpisodeCard, error)
}

// ProgressFeed 继续观看
type ProgressFeed interface {
	ContinueWatching(ctx context.Context, userID, limit int) ([]*model.ContinueWatchingItem, error)
}

// HomeFeed 首页数据
type HomeFeed struct {
	Featured         []*model.Release              `json:"featured"`
	LatestEpisodes   []*model.EpisodeCard          `json:"latest_episodes"`
	TodayEpisodes    []*model.EpisodeCard          `json:"today_episodes"`
	ContinueWatching []*model.ContinueWatchingItem `json:"continue_watching"`
}

// FeedService 首页聚合服务
type FeedService struct {
	releases ReleaseFeed
	episodes EpisodeFeed
	history  ProgressFeed
}

// NewFeedService 创建首页聚合服务
func NewFeedService(releases ReleaseFeed, episodes EpisodeFeed, history ProgressFeed) *FeedService {
	return &FeedService{
		releases: releases,
		episodes: episodes,
		history:  history,
	}
}

// Home 并发加载首页各区块，任一查询失败则取消其余查询并返回该错误。
// userID 为 0 表示未登录，此时不查询继续观看
func (s *FeedService) Home(ctx context.Context, userID int) (*HomeFeed, error) {
	feed := &HomeFeed{ContinueWatching: []*model.ContinueWatchingItem{}}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		featured, err := s.releases.ListFeatured(ctx, FeaturedLimit)
		feed.Featured = featured
		return err
	})
	g.Go(func() error {
		latest, err := s.episodes.ListLatest(ctx, LatestEpisodesLimit)
		feed.LatestEpisodes = latest
		return err
	})
	g.Go(func() error {
		today, err := s.episodes.ListToday(ctx)
		feed.TodayEpisodes = today
		return err
	})
	if userID > 0 {
		g.Go(func() error {
			items, err := s.history.ContinueWatching(ctx, userID, ContinueWatchingLimit)
			feed.ContinueWatching = items
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return feed, nil
}
