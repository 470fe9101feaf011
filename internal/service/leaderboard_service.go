package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lingolab/internal/cache"
	"lingolab/internal/config"
	"lingolab/internal/domain"
	"lingolab/internal/dto"
	"lingolab/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// weeklyXPWindow is the trailing window aggregated for the weeklyXP metric.
const weeklyXPWindow = 7 * 24 * time.Hour

// LeaderboardService serves ranked views of the whole user population.
// Snapshots are cached in Redis; concurrent cache misses for the same
// metric collapse into a single rebuild.
type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, metric string) (*dto.LeaderboardResponse, error)
	InvalidateLeaderboard(ctx context.Context, metric domain.LeaderboardMetric) error
}

type leaderboardServiceImpl struct {
	profileStore domain.ProfileStore
	xpLedger     domain.XPLedger
	cache        domain.Cache
	cfg          *config.Config
	group        singleflight.Group
}

// NewLeaderboardService creates a new instance of LeaderboardService.
func NewLeaderboardService(
	profileStore domain.ProfileStore,
	xpLedger domain.XPLedger,
	cacheClient domain.Cache,
	cfg *config.Config,
) LeaderboardService {
	return &leaderboardServiceImpl{
		profileStore: profileStore,
		xpLedger:     xpLedger,
		cache:        cacheClient,
		cfg:          cfg,
	}
}

// GetLeaderboard returns the ranked snapshot for the given metric,
// served from cache when a fresh snapshot exists.
func (s *leaderboardServiceImpl) GetLeaderboard(ctx context.Context, metric string) (*dto.LeaderboardResponse, error) {
	parsed, err := domain.ParseLeaderboardMetric(metric)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	cacheKey := leaderboardCacheKey(parsed)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil {
			var resp dto.LeaderboardResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
			log.Warn("failed to decode cached leaderboard, rebuilding", zap.String("key", cacheKey))
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			log.Warn("leaderboard cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	// Collapse a stampede of cold reads into one build per metric.
	result, err, _ := s.group.Do(string(parsed), func() (interface{}, error) {
		return s.buildLeaderboard(ctx, parsed)
	})
	if err != nil {
		return nil, err
	}
	resp := result.(*dto.LeaderboardResponse)

	if s.cache != nil {
		payload, err := json.Marshal(resp)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(payload), s.cfg.Leaderboard.CacheTTL); err != nil {
				log.Warn("failed to cache leaderboard", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}

	return resp, nil
}

// InvalidateLeaderboard drops the cached snapshot for one metric.
func (s *leaderboardServiceImpl) InvalidateLeaderboard(ctx context.Context, metric domain.LeaderboardMetric) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, leaderboardCacheKey(metric))
}

func (s *leaderboardServiceImpl) buildLeaderboard(ctx context.Context, metric domain.LeaderboardMetric) (*dto.LeaderboardResponse, error) {
	profiles, err := s.profileStore.ListProfiles(ctx)
	if err != nil {
		return nil, domain.NewStoreError("failed to list profiles", err)
	}

	var weeklyXP map[string]int64
	if metric == domain.MetricWeeklyXP {
		since := time.Now().Add(-weeklyXPWindow)
		weeklyXP, err = s.xpLedger.WeeklyXPTotals(ctx, since)
		if err != nil {
			return nil, domain.NewStoreError("failed to aggregate weekly xp", err)
		}
	}

	entries := domain.BuildLeaderboard(profiles, weeklyXP, metric)
	if limit := s.cfg.Leaderboard.Limit; limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	items := make([]dto.LeaderboardEntryItem, len(entries))
	for i, e := range entries {
		items[i] = dto.LeaderboardEntryItem{
			UserID: e.UserID,
			Name:   e.Name,
			Value:  e.Value,
			Rank:   e.Rank,
		}
	}

	return &dto.LeaderboardResponse{
		Metric:      string(metric),
		GeneratedAt: time.Now().UTC(),
		Entries:     items,
	}, nil
}

func leaderboardCacheKey(metric domain.LeaderboardMetric) string {
	return cache.GenerateCacheKey("leaderboard", "snapshot", string(metric))
}
