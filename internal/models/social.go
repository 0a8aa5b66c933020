package models

import (
	"time"

	"github.com/google/uuid"
)

// Social activity types
const (
	ActivityTaskCompleted     = "task_completed"
	ActivityHabitCompleted    = "habit_completed"
	ActivityAchievementUnlock = "achievement_unlocked"
	ActivityStreakMilestone   = "streak_milestone"
)

// SocialActivity is an immutable feed post. VisibleTo is a snapshot of
// the actor's friend set at emission time and is never recomputed.
type SocialActivity struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	UserID       uuid.UUID   `json:"user_id" db:"user_id"`
	ActivityType string      `json:"activity_type" db:"activity_type"`
	Title        string      `json:"title" db:"title"`
	Description  string      `json:"description" db:"description"`
	VisibleTo    []uuid.UUID `json:"visible_to" db:"visible_to"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// FriendRequest statuses
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
)

// FriendRequest is a pending or accepted friendship request
type FriendRequest struct {
	ID         uuid.UUID `json:"id" db:"id"`
	FromUserID uuid.UUID `json:"from_user_id" db:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id" db:"to_user_id"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Notification is a delivered (or deliverable) notification record
type Notification struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	Title         string     `json:"title" db:"title"`
	Message       string     `json:"message" db:"message"`
	Type          string     `json:"type" db:"type"` // reminder, nudge, achievement, social
	RelatedID     *uuid.UUID `json:"related_id,omitempty" db:"related_id"`
	ScheduledTime time.Time  `json:"scheduled_time" db:"scheduled_time"`
	Sent          bool       `json:"sent" db:"sent"`
	Opened        bool       `json:"opened" db:"opened"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// NotificationCreateRequest is the request body for scheduling a notification
type NotificationCreateRequest struct {
	Title         string     `json:"title" binding:"required"`
	Message       string     `json:"message" binding:"required"`
	Type          string     `json:"type" binding:"required"`
	RelatedID     *uuid.UUID `json:"related_id,omitempty"`
	ScheduledTime time.Time  `json:"scheduled_time" binding:"required"`
}
