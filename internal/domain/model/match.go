package model

import (
	"time"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
)

// Match pairs two users after a mutual like. UserAID is always the smaller
// of the two IDs so the pair is stored in canonical order.
type Match struct {
	ID        int64                 `json:"id"`
	UserAID   int64                 `json:"user_a_id"`
	UserBID   int64                 `json:"user_b_id"`
	State     enums.MatchState      `json:"state"`
	CreatedAt time.Time             `json:"created_at"`
	EndedAt   *time.Time            `json:"ended_at"`
	EndedBy   *int64                `json:"ended_by"`
	EndReason *enums.MatchEndReason `json:"end_reason"`
}

func (m Match) OtherUserID(userID int64) int64 {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}
