package service

import (
	"context"

	"github.com/user/geppu/internal/model"
	"golang.org/x/sync/singleflight"
)

// DaysInWeek 放送日 0-6（0 为周日）
const DaysInWeek = 7

// WeekdayLister 排期查询
type WeekdayLister interface {
	ListByWeekday(ctx context.Context) ([]*model.Release, error)
}

// ScheduleDay 某一天的放送列表
type ScheduleDay struct {
	Day      int              `json:"day"`
	Releases []*model.Release `json:"releases"`
}

// ScheduleService 放送排期
type ScheduleService struct {
	releases WeekdayLister
	sf       singleflight.Group
}

// NewScheduleService 创建排期服务
func NewScheduleService(releases WeekdayLister) *ScheduleService {
	return &ScheduleService{releases: releases}
}

// Week 返回一周七天的排期，没有作品的日子也返回空列表。
// 同一时刻的并发请求合并为一次查询（不缓存结果）。
// 查询不随发起者取消，其他等待者不会因首个请求断开而失败
func (s *ScheduleService) Week(ctx context.Context) ([]ScheduleDay, error) {
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do("week", func() (interface{}, error) {
		return s.releases.ListByWeekday(shared)
	})
	if err != nil {
		return nil, err
	}
	return GroupByWeekday(v.([]*model.Release)), nil
}

// GroupByWeekday 按放送日分组，保持输入顺序
func GroupByWeekday(releases []*model.Release) []ScheduleDay {
	week := make([]ScheduleDay, DaysInWeek)
	for day := range week {
		week[day] = ScheduleDay{Day: day, Releases: []*model.Release{}}
	}
	for _, r := range releases {
		if r.ReleaseDay == nil || *r.ReleaseDay < 0 || *r.ReleaseDay >= DaysInWeek {
			continue
		}
		day := *r.ReleaseDay
		week[day].Releases = append(week[day].Releases, r)
	}
	return week
}
