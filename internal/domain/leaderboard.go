package domain

import (
	"sort"
	"strings"
)

// LeaderboardMetric selects which value profiles are ranked by.
type LeaderboardMetric string

const (
	MetricBadgeCount LeaderboardMetric = "badgeCount"
	MetricWeeklyXP   LeaderboardMetric = "weeklyXP"
	MetricStreak     LeaderboardMetric = "streak"
)

// ParseLeaderboardMetric validates a metric name from a request.
func ParseLeaderboardMetric(s string) (LeaderboardMetric, error) {
	switch LeaderboardMetric(s) {
	case MetricBadgeCount, MetricWeeklyXP, MetricStreak:
		return LeaderboardMetric(s), nil
	default:
		return "", NewInvalidMetricError(s)
	}
}

// LeaderboardEntry is a derived ranking row; it is never persisted.
type LeaderboardEntry struct {
	UserID string
	Name   string
	Value  int64
	Rank   int
}

// BuildLeaderboard ranks the population by the requested metric. The sort
// is descending by value with ties broken by case-insensitive name and
// finally by user id, so a fixed input snapshot always yields the same
// output. Ranks use standard competition ranking: equal values share a
// rank, and the next distinct value resumes at 1 + entries seen so far.
// Zero-valued users are included; filtering is the caller's business.
func BuildLeaderboard(profiles []*UserProfile, weeklyXP map[string]int64, metric LeaderboardMetric) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(profiles))
	for _, p := range profiles {
		var value int64
		switch metric {
		case MetricBadgeCount:
			value = int64(p.BadgeCount())
		case MetricWeeklyXP:
			value = weeklyXP[p.UserID]
		case MetricStreak:
			value = int64(p.Streak)
		}
		entries = append(entries, LeaderboardEntry{
			UserID: p.UserID,
			Name:   p.Name,
			Value:  value,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		ni, nj := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if ni != nj {
			return ni < nj
		}
		return entries[i].UserID < entries[j].UserID
	})

	for i := range entries {
		if i > 0 && entries[i].Value == entries[i-1].Value {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
	return entries
}
