package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TaskSummary is the slimmed task shape passed to the oracle as context.
type TaskSummary struct {
	ID                string     `json:"id,omitempty"`
	Title             string     `json:"title"`
	Priority          int        `json:"priority"`
	Category          string     `json:"category,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	EstimatedDuration *int       `json:"estimated_duration,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

const prioritySystemPrompt = "You are an AI productivity assistant. Analyze tasks and " +
	"suggest optimal priorities (1-5 scale, 5 being highest priority). " +
	"Respond with only a number 1-5."

// SuggestPriority asks the oracle for an advisory priority for a new
// task given the user's existing tasks. The result is clamped to 1-5.
// Callers treat any failure as "no suggestion"; the user-set priority
// is never overwritten.
func SuggestPriority(ctx context.Context, oracle Oracle, task TaskSummary, existing []TaskSummary) (int, error) {
	if len(existing) > 10 {
		existing = existing[:10] // limit context
	}
	payload, err := json.Marshal(map[string]any{
		"current_task":   task,
		"existing_tasks": existing,
	})
	if err != nil {
		return 0, fmt.Errorf("encode priority context: %w", err)
	}

	raw, err := oracle.Propose(ctx, prioritySystemPrompt, string(payload))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAdvisoryUnavailable, err)
	}

	priority, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("unexpected priority response %q: %w", raw, err)
	}
	if priority < 1 {
		priority = 1
	}
	if priority > 5 {
		priority = 5
	}
	return priority, nil
}

const nextBestSystemPrompt = "You are a productivity coach. Recommend the best next task " +
	"based on urgency, importance, and current context. Respond with the task ID and a brief reason."

// NextBestTask asks the oracle which open task the user should tackle
// next. The response is free-form advisory text.
func NextBestTask(ctx context.Context, oracle Oracle, now time.Time, open []TaskSummary) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"current_time": now.UTC().Format(time.RFC3339),
		"tasks":        open,
	})
	if err != nil {
		return "", fmt.Errorf("encode next-best context: %w", err)
	}

	raw, err := oracle.Propose(ctx, nextBestSystemPrompt, string(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAdvisoryUnavailable, err)
	}
	return strings.TrimSpace(raw), nil
}

const insightsSystemPrompt = "You are a productivity coach. Analyze task completion patterns " +
	"and provide 3 actionable productivity insights."

// Insights asks the oracle for productivity observations over recently
// completed tasks.
func Insights(ctx context.Context, oracle Oracle, completed []TaskSummary) (string, error) {
	payload, err := json.Marshal(map[string]any{"completed_tasks": completed})
	if err != nil {
		return "", fmt.Errorf("encode insights context: %w", err)
	}

	raw, err := oracle.Propose(ctx, insightsSystemPrompt, string(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAdvisoryUnavailable, err)
	}
	return strings.TrimSpace(raw), nil
}
