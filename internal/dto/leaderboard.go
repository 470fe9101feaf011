package dto

import "time"

// LeaderboardEntryItem is one ranked row.
type LeaderboardEntryItem struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Value  int64  `json:"value"`
	Rank   int    `json:"rank"`
}

// LeaderboardResponse is the ranked population for one metric. GeneratedAt
// reflects when the snapshot was built; cached responses may be stale.
type LeaderboardResponse struct {
	Metric      string                 `json:"metric"`
	GeneratedAt time.Time              `json:"generated_at"`
	Entries     []LeaderboardEntryItem `json:"entries"`
}
