package dto

import "time"

type LoginRequest struct {
	UserID      int64  `json:"user_id"`
	LoginSecret string `json:"login_secret"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	UserID        int64     `json:"user_id"`
	AccessToken   string    `json:"access_token"`
	RefreshToken  string    `json:"refresh_token"`
	AccessExpires time.Time `json:"access_expires"`
}
