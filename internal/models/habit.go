package models

import (
	"time"

	"github.com/google/uuid"
)

// Habit frequencies; the cadence unit for streak continuation
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// ValidFrequency reports whether f is a supported habit cadence.
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Habit represents a recurring habit owned by one user
type Habit struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	UserID            uuid.UUID  `json:"user_id" db:"user_id"`
	Name              string     `json:"name" db:"name"`
	Description       *string    `json:"description,omitempty" db:"description"`
	Category          string     `json:"category" db:"category"`
	Frequency         string     `json:"frequency" db:"frequency"`
	TargetCount       int        `json:"target_count" db:"target_count"`
	CurrentStreak     int        `json:"current_streak" db:"current_streak"`
	BestStreak        int        `json:"best_streak" db:"best_streak"` // monotonic watermark, >= CurrentStreak
	TotalCompletions  int        `json:"total_completions" db:"total_completions"`
	SharedWithFriends bool       `json:"shared_with_friends" db:"shared_with_friends"`
	IsActive          bool       `json:"is_active" db:"is_active"`
	LastCompletedAt   *time.Time `json:"last_completed_at,omitempty" db:"last_completed_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

// HabitCreateRequest is the request body for creating a habit
type HabitCreateRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       *string `json:"description,omitempty"`
	Category          string  `json:"category"`
	Frequency         string  `json:"frequency"`
	TargetCount       int     `json:"target_count"`
	SharedWithFriends bool    `json:"shared_with_friends"`
}

// HabitCompletion is an immutable per-completion event record
type HabitCompletion struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	HabitID       uuid.UUID `json:"habit_id" db:"habit_id"`
	CompletedDate time.Time `json:"completed_date" db:"completed_date"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
}
