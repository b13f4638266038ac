package dto

import "time"

type ActiveSessionResponse struct {
	SessionID       string    `json:"session_id"`
	StartedAt       time.Time `json:"started_at"`
	LastActivityAt  time.Time `json:"last_activity_at"`
	SwipeCount      int       `json:"swipe_count"`
	LikeCount       int       `json:"like_count"`
	PassCount       int       `json:"pass_count"`
	MatchCount      int       `json:"match_count"`
	SwipesPerMinute float64   `json:"swipes_per_minute"`
}

type SessionStatsResponse struct {
	SessionCount        int     `json:"session_count"`
	TotalSwipes         int     `json:"total_swipes"`
	TotalLikes          int     `json:"total_likes"`
	TotalPasses         int     `json:"total_passes"`
	TotalMatches        int     `json:"total_matches"`
	AvgSwipesPerSession float64 `json:"avg_swipes_per_session"`
	AvgDurationSeconds  float64 `json:"avg_duration_seconds"`
	SwipesPerMinute     float64 `json:"swipes_per_minute"`
}
