package model

import (
	"time"

	"github.com/TomShtern/Date-Program-sub013/internal/domain/enums"
)

// UndoState is the single revocable slot a user holds after a swipe. A new
// swipe replaces the slot unconditionally; only the latest swipe is ever
// undoable.
type UndoState struct {
	UserID       int64                `json:"user_id"`
	SwipeID      int64                `json:"swipe_id"`
	TargetUserID int64                `json:"target_user_id"`
	Direction    enums.SwipeDirection `json:"direction"`
	MatchID      *int64               `json:"match_id"`
	ExpiresAt    time.Time            `json:"expires_at"`
	CreatedAt    time.Time            `json:"created_at"`
}

func (s UndoState) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
