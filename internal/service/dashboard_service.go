package service

import (
	"context"

	"seedbreed/internal/domain"
	"seedbreed/internal/lineage"
	"seedbreed/internal/repository"

	"go.uber.org/zap"
)

const (
	dashboardRecentTests  = 10
	dashboardRecentEvents = 20
)

// DashboardStats 看板数据
type DashboardStats struct {
	Counts             map[string]int      `json:"counts"`
	SowingStatus       map[string]int      `json:"sowingStatus"`
	SeedAmountBySource map[string]int      `json:"seedAmountBySource"`
	RecentTestRecords  []domain.TestRecord `json:"recentTestRecords"`
	RecentEvents       []lineage.Event     `json:"recentEvents"`
}

// DashboardService 汇总五个集合
type DashboardService struct {
	repos   *repository.Repositories
	history lineage.History
	logger  *zap.Logger
}

// NewDashboardService history 可为 nil
func NewDashboardService(repos *repository.Repositories, history lineage.History, logger *zap.Logger) *DashboardService {
	return &DashboardService{repos: repos, history: history, logger: logger}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	intros, err := s.repos.Introductions.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	purifications, err := s.repos.Purifications.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	sowings, err := s.repos.Sowings.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	tests, err := s.repos.TestRecords.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	seeds, err := s.repos.SavedSeeds.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		Counts: map[string]int{
			repository.IntroductionCollection: len(intros),
			repository.PurificationCollection: len(purifications),
			repository.SowingCollection:       len(sowings),
			repository.TestCollection:         len(tests),
			repository.SavedSeedCollection:    len(seeds),
		},
		SowingStatus: map[string]int{
			domain.SowingStatusPending: 0,
			domain.SowingStatusSuccess: 0,
		},
		SeedAmountBySource: map[string]int{},
		RecentTestRecords:  []domain.TestRecord{},
		RecentEvents:       []lineage.Event{},
	}
	for _, r := range sowings {
		stats.SowingStatus[r.Status]++
	}
	for _, r := range seeds {
		stats.SeedAmountBySource[r.Source] += r.Amount
	}

	// 集合按追加顺序保存，末尾即最新
	for i := len(tests) - 1; i >= 0 && len(stats.RecentTestRecords) < dashboardRecentTests; i-- {
		stats.RecentTestRecords = append(stats.RecentTestRecords, tests[i])
	}

	if s.history != nil {
		events, err := s.history.Recent(ctx, dashboardRecentEvents)
		if err != nil {
			s.logger.Warn("Failed to load recent lineage events", zap.Error(err))
		} else if events != nil {
			stats.RecentEvents = events
		}
	}
	return stats, nil
}
