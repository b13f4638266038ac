package dto

import "time"

type SwipeRequest struct {
	TargetID  int64  `json:"target_id"`
	Direction string `json:"direction"`
}

type QuotaPayload struct {
	LikesUsed       int       `json:"likes_used"`
	LikeLimit       int       `json:"like_limit"`
	LikesRemaining  int       `json:"likes_remaining"`
	PassesUsed      int       `json:"passes_used"`
	PassLimit       int       `json:"pass_limit"`
	PassesRemaining int       `json:"passes_remaining"`
	ResetsAt        time.Time `json:"resets_at"`
}

type SwipeResponse struct {
	OK      bool         `json:"ok"`
	Matched bool         `json:"matched"`
	MatchID *int64       `json:"match_id,omitempty"`
	Quota   QuotaPayload `json:"quota"`
}

type UndoStatusResponse struct {
	Available        bool    `json:"available"`
	TargetUserID     int64   `json:"target_user_id,omitempty"`
	Direction        string  `json:"direction,omitempty"`
	SecondsRemaining float64 `json:"seconds_remaining"`
}

type UndoResponse struct {
	OK           bool   `json:"ok"`
	TargetUserID int64  `json:"target_user_id"`
	Direction    string `json:"direction"`
	RemovedMatch bool   `json:"removed_match"`
}
