package models

import "github.com/google/uuid"

// LeaderboardEntry is one ranked row in a leaderboard response
type LeaderboardEntry struct {
	Rank             int       `json:"rank"`
	UserID           uuid.UUID `json:"user_id"`
	Username         string    `json:"username"`
	DisplayName      string    `json:"display_name"`
	AvatarURL        *string   `json:"avatar_url,omitempty"`
	Points           int       `json:"points"`
	ExperiencePoints int       `json:"experience_points"`
	KarmaLevel       int       `json:"karma_level"`
	CoinBalance      int       `json:"coin_balance"`
	CurrentStreak    int       `json:"current_streak"`
}

// LeaderboardResponse is the full leaderboard API response
type LeaderboardResponse struct {
	Period      string             `json:"period"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	TotalUsers  int                `json:"total_users"`
}
