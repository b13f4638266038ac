package dto

type CandidateItem struct {
	UserID      int64    `json:"user_id"`
	DisplayName string   `json:"display_name"`
	Age         int      `json:"age"`
	Gender      string   `json:"gender"`
	DistanceKM  *float64 `json:"distance_km,omitempty"`
}

type CandidatesResponse struct {
	Items []CandidateItem `json:"items"`
}
