package models

import (
	"time"

	"github.com/google/uuid"
)

// Task represents a tracked task owned by a single user
type Task struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	UserID            uuid.UUID  `json:"user_id" db:"user_id"`
	Title             string     `json:"title" db:"title"`
	Description       *string    `json:"description,omitempty" db:"description"`
	Priority          int        `json:"priority" db:"priority"`                       // 1-5, user-set
	AIPriority        *int       `json:"ai_priority,omitempty" db:"ai_priority"`       // 1-5, advisory-set, never overwrites Priority
	Category          string     `json:"category" db:"category"`
	DueDate           *time.Time `json:"due_date,omitempty" db:"due_date"`
	EstimatedDuration *int       `json:"estimated_duration,omitempty" db:"estimated_duration"` // minutes
	Completed         bool       `json:"completed" db:"completed"`
	CompletedAt       *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	SharedWithFriends bool       `json:"shared_with_friends" db:"shared_with_friends"`
	GroupID           *uuid.UUID `json:"group_id,omitempty" db:"group_id"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// TaskCreateRequest is the request body for creating a task
type TaskCreateRequest struct {
	Title             string     `json:"title" binding:"required"`
	Description       *string    `json:"description,omitempty"`
	Priority          int        `json:"priority"`
	Category          string     `json:"category"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	EstimatedDuration *int       `json:"estimated_duration,omitempty"`
	SharedWithFriends bool       `json:"shared_with_friends"`
}

// TaskUpdateRequest carries optional partial updates; nil fields are left untouched
type TaskUpdateRequest struct {
	Title             *string    `json:"title,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Priority          *int       `json:"priority,omitempty"`
	Category          *string    `json:"category,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	EstimatedDuration *int       `json:"estimated_duration,omitempty"`
	SharedWithFriends *bool      `json:"shared_with_friends,omitempty"`
}

// TaskGroup is a materialized decomposition: an ordered set of subtasks
// created from an advisory plan. Progress is always recomputed from the
// live completion state of the subtasks, never stored.
type TaskGroup struct {
	ID                 uuid.UUID   `json:"id" db:"id"`
	UserID             uuid.UUID   `json:"user_id" db:"user_id"`
	MainTask           string      `json:"main_task" db:"main_task"`
	CompletionStrategy string      `json:"completion_strategy" db:"completion_strategy"`
	SubtaskIDs         []uuid.UUID `json:"subtask_ids" db:"subtask_ids"`
	TotalSubtasks      int         `json:"total_subtasks" db:"total_subtasks"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
}

// TaskGroupResponse is the API shape with derived progress fields
type TaskGroupResponse struct {
	ID                 uuid.UUID   `json:"id"`
	UserID             uuid.UUID   `json:"user_id"`
	MainTask           string      `json:"main_task"`
	CompletionStrategy string      `json:"completion_strategy"`
	SubtaskIDs         []uuid.UUID `json:"subtask_ids"`
	TotalSubtasks      int         `json:"total_subtasks"`
	CompletedSubtasks  int         `json:"completed_subtasks"`
	ProgressPercentage float64     `json:"progress_percentage"`
	CreatedAt          string      `json:"created_at"`
}

// GroupProgress derives the completion percentage from live counts.
func GroupProgress(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
