package dto

import "time"

type MatchItem struct {
	MatchID     int64     `json:"match_id"`
	UserID      int64     `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Age         int       `json:"age"`
	CreatedAt   time.Time `json:"created_at"`
}

type MatchesResponse struct {
	Items []MatchItem `json:"items"`
}
