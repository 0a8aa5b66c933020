package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents a registered TaskFlow user
type User struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	Username            string     `json:"username" db:"username"`
	Email               string     `json:"email" db:"email"`
	DisplayName         string     `json:"display_name" db:"display_name"`
	Timezone            string     `json:"timezone" db:"timezone"`
	AvatarURL           *string    `json:"avatar_url,omitempty" db:"avatar_url"`
	ExperiencePoints    int        `json:"experience_points" db:"experience_points"`
	CoinBalance         int        `json:"coin_balance" db:"coin_balance"`
	CurrentStreak       int        `json:"current_streak" db:"current_streak"`
	BestStreak          int        `json:"best_streak" db:"best_streak"`
	TotalTasksCompleted int        `json:"total_tasks_completed" db:"total_tasks_completed"`
	NotificationPrefs   string     `json:"notification_prefs,omitempty" db:"notification_prefs"` // JSONB stored as string
	LastActive          *time.Time `json:"last_active,omitempty" db:"last_active"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// UserCreateRequest is the registration request body
type UserCreateRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
	Timezone    string `json:"timezone"`
}

// UserDetailResponse is the single-user API response
type UserDetailResponse struct {
	ID                  uuid.UUID `json:"id"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	DisplayName         string    `json:"display_name"`
	Timezone            string    `json:"timezone"`
	AvatarURL           *string   `json:"avatar_url,omitempty"`
	ExperiencePoints    int       `json:"experience_points"`
	KarmaLevel          int       `json:"karma_level"`
	CoinBalance         int       `json:"coin_balance"`
	CurrentStreak       int       `json:"current_streak"`
	BestStreak          int       `json:"best_streak"`
	TotalTasksCompleted int       `json:"total_tasks_completed"`
	CreatedAt           string    `json:"created_at"`
}

// NotificationPrefs maps an activity kind to whether the user wants
// notifications for it. Absent kinds default to enabled.
type NotificationPrefs map[string]bool

// Enabled reports whether notifications for the given kind are on.
func (p NotificationPrefs) Enabled(kind string) bool {
	if p == nil {
		return true
	}
	enabled, ok := p[kind]
	if !ok {
		return true
	}
	return enabled
}

// ParseNotificationPrefs decodes the JSONB prefs column. An empty or
// malformed value yields all-defaults rather than an error.
func ParseNotificationPrefs(raw string) NotificationPrefs {
	if raw == "" {
		return nil
	}
	var prefs NotificationPrefs
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return nil
	}
	return prefs
}
