package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrAdvisoryUnavailable is returned when the oracle call itself fails
// (transport error, timeout, empty response). A malformed-but-present
// response is not an error; it is repaired into the fallback plan.
var ErrAdvisoryUnavailable = errors.New("advisory service unavailable")

const (
	parsedConfidence   = 0.85
	fallbackConfidence = 0.7

	decomposeSystemPrompt = "You are a task planning assistant. Break complex tasks into " +
		"3-8 concrete subtasks of 15-90 minutes each. Respond with JSON only, no prose: " +
		`{"subtasks":[{"title":"...","description":"...","estimated_duration":30,` +
		`"priority":3,"order":1,"dependencies":[]}],"completion_strategy":"..."}`
)

// DecomposeRequest describes the task to break down.
type DecomposeRequest struct {
	MainTask          string `json:"main_task" binding:"required"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	EstimatedDuration *int   `json:"estimated_duration,omitempty"`
	DifficultyLevel   int    `json:"difficulty_level"`
}

// Subtask is one step of a decomposition plan.
type Subtask struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	EstimatedDuration int      `json:"estimated_duration"`
	Priority          int      `json:"priority"`
	Order             int      `json:"order"`
	Dependencies      []string `json:"dependencies"`
}

// Decomposition is an ordered, dependency-annotated subtask plan.
type Decomposition struct {
	Subtasks               []Subtask `json:"subtasks"`
	TotalEstimatedDuration int       `json:"total_estimated_duration"`
	CompletionStrategy     string    `json:"completion_strategy"`
	Confidence             float64   `json:"confidence"`
}

// Decompose asks the oracle for a subtask breakdown. An oracle failure
// surfaces as ErrAdvisoryUnavailable; an unusable oracle response is
// silently replaced with the deterministic fallback plan.
func Decompose(ctx context.Context, oracle Oracle, req DecomposeRequest) (*Decomposition, error) {
	prompt, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode decompose request: %w", err)
	}

	raw, err := oracle.Propose(ctx, decomposeSystemPrompt, string(prompt))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdvisoryUnavailable, err)
	}

	plan, ok := parsePlan(raw)
	if !ok {
		slog.Warn("oracle response unparseable, using fallback plan", "task", req.MainTask)
		return FallbackPlan(), nil
	}
	return plan, nil
}

// parsePlan validates the oracle output against the expected schema and
// repairs per-subtask gaps with deterministic defaults. It refuses the
// response wholesale (returning false) when it is not valid JSON or
// contains no subtasks.
func parsePlan(raw string) (*Decomposition, bool) {
	var parsed struct {
		Subtasks []struct {
			Title             string   `json:"title"`
			Description       string   `json:"description"`
			EstimatedDuration int      `json:"estimated_duration"`
			Priority          int      `json:"priority"`
			Order             int      `json:"order"`
			Dependencies      []string `json:"dependencies"`
		} `json:"subtasks"`
		CompletionStrategy string `json:"completion_strategy"`
	}

	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil {
		return nil, false
	}
	if len(parsed.Subtasks) == 0 {
		return nil, false
	}

	subtasks := make([]Subtask, 0, len(parsed.Subtasks))
	total := 0
	for i, s := range parsed.Subtasks {
		st := Subtask{
			Title:             s.Title,
			Description:       s.Description,
			EstimatedDuration: s.EstimatedDuration,
			Priority:          s.Priority,
			Order:             s.Order,
			Dependencies:      s.Dependencies,
		}
		if st.Title == "" {
			st.Title = fmt.Sprintf("Subtask %d", i+1)
		}
		if st.EstimatedDuration <= 0 {
			st.EstimatedDuration = 30
		}
		if st.Priority < 1 || st.Priority > 5 {
			st.Priority = 3
		}
		if st.Order <= 0 {
			st.Order = i + 1
		}
		if st.Dependencies == nil {
			st.Dependencies = []string{}
		}
		total += st.EstimatedDuration
		subtasks = append(subtasks, st)
	}

	strategy := parsed.CompletionStrategy
	if strategy == "" {
		strategy = "Complete subtasks in order, respecting dependencies."
	}

	return &Decomposition{
		Subtasks:               subtasks,
		TotalEstimatedDuration: total,
		CompletionStrategy:     strategy,
		Confidence:             parsedConfidence,
	}, true
}

// FallbackPlan is the fixed generic plan used when the oracle's output
// cannot be parsed. It is deterministic and exactly reproducible.
func FallbackPlan() *Decomposition {
	subtasks := []Subtask{
		{Title: "Research and Planning", Description: "Gather requirements and plan the approach", EstimatedDuration: 45, Priority: 4, Order: 1, Dependencies: []string{}},
		{Title: "Initial Setup", Description: "Prepare the environment and materials", EstimatedDuration: 30, Priority: 3, Order: 2, Dependencies: []string{"Research and Planning"}},
		{Title: "Core Implementation", Description: "Carry out the main body of work", EstimatedDuration: 90, Priority: 5, Order: 3, Dependencies: []string{"Initial Setup"}},
		{Title: "Review and Finalize", Description: "Check the result and wrap up", EstimatedDuration: 30, Priority: 3, Order: 4, Dependencies: []string{"Core Implementation"}},
	}
	return &Decomposition{
		Subtasks:               subtasks,
		TotalEstimatedDuration: 195,
		CompletionStrategy:     "Work through the steps sequentially, finishing each before starting the next.",
		Confidence:             fallbackConfidence,
	}
}

// stripCodeFences removes a surrounding markdown code fence, which chat
// models often wrap JSON in despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
