package model

import "time"

type SwipeSessionState string

const (
	SwipeSessionActive    SwipeSessionState = "active"
	SwipeSessionCompleted SwipeSessionState = "completed"
)

// SwipeSession is a mutable summary row over one burst of swiping activity.
type SwipeSession struct {
	ID             string            `json:"id"`
	UserID         int64             `json:"user_id"`
	StartedAt      time.Time         `json:"started_at"`
	LastActivityAt time.Time         `json:"last_activity_at"`
	EndedAt        *time.Time        `json:"ended_at"`
	State          SwipeSessionState `json:"state"`
	SwipeCount     int               `json:"swipe_count"`
	LikeCount      int               `json:"like_count"`
	PassCount      int               `json:"pass_count"`
	MatchCount     int               `json:"match_count"`
}

func (s SwipeSession) DurationSeconds(now time.Time) float64 {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	seconds := end.Sub(s.StartedAt).Seconds()
	if seconds < 0 {
		return 0
	}
	return seconds
}

// SwipesPerMinute is the velocity of this session. Sessions shorter than a
// second report their raw swipe count to avoid division blow-up.
func (s SwipeSession) SwipesPerMinute(now time.Time) float64 {
	seconds := s.DurationSeconds(now)
	if seconds < 1 {
		return float64(s.SwipeCount)
	}
	return float64(s.SwipeCount) * 60.0 / seconds
}
