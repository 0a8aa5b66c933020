package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOracle returns a canned response or error.
type fakeOracle struct {
	response string
	err      error
	calls    int
}

func (f *fakeOracle) Propose(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.response, f.err
}

var sampleRequest = DecomposeRequest{
	MainTask:        "Launch personal website",
	Category:        "work",
	DifficultyLevel: 3,
}

func TestDecomposeParsesWellFormedResponse(t *testing.T) {
	oracle := &fakeOracle{response: `{
		"subtasks": [
			{"title": "Pick a domain", "estimated_duration": 20, "priority": 4, "order": 1, "dependencies": []},
			{"title": "Build the site", "estimated_duration": 90, "priority": 5, "order": 2, "dependencies": ["Pick a domain"]},
			{"title": "Deploy", "estimated_duration": 30, "priority": 3, "order": 3, "dependencies": ["Build the site"]}
		],
		"completion_strategy": "Ship early, iterate."
	}`}

	plan, err := Decompose(context.Background(), oracle, sampleRequest)
	require.NoError(t, err)
	require.Len(t, plan.Subtasks, 3)
	assert.Equal(t, 140, plan.TotalEstimatedDuration)
	assert.Equal(t, 0.85, plan.Confidence)
	assert.Equal(t, "Ship early, iterate.", plan.CompletionStrategy)
	assert.Equal(t, []string{"Build the site"}, plan.Subtasks[2].Dependencies)
}

func TestDecomposeRepairsMissingFields(t *testing.T) {
	oracle := &fakeOracle{response: `{
		"subtasks": [
			{"description": "no title or duration"},
			{"title": "Second", "priority": 9}
		]
	}`}

	plan, err := Decompose(context.Background(), oracle, sampleRequest)
	require.NoError(t, err)
	require.Len(t, plan.Subtasks, 2)

	first := plan.Subtasks[0]
	assert.Equal(t, "Subtask 1", first.Title)
	assert.Equal(t, 30, first.EstimatedDuration)
	assert.Equal(t, 3, first.Priority)
	assert.Equal(t, 1, first.Order)
	assert.NotNil(t, first.Dependencies)
	assert.Empty(t, first.Dependencies)

	second := plan.Subtasks[1]
	assert.Equal(t, 3, second.Priority, "out-of-range priority is defaulted")
	assert.Equal(t, 2, second.Order)
	assert.NotEmpty(t, plan.CompletionStrategy)
	assert.Equal(t, 0.85, plan.Confidence)
}

func TestDecomposeHandlesCodeFencedJSON(t *testing.T) {
	oracle := &fakeOracle{response: "```json\n{\"subtasks\":[{\"title\":\"Only step\"}]}\n```"}

	plan, err := Decompose(context.Background(), oracle, sampleRequest)
	require.NoError(t, err)
	require.Len(t, plan.Subtasks, 1)
	assert.Equal(t, "Only step", plan.Subtasks[0].Title)
}

func TestDecomposeFallbackIsDeterministic(t *testing.T) {
	oracle := &fakeOracle{response: "Sure! Here are some ideas for your task..."}

	for i := 0; i < 3; i++ {
		plan, err := Decompose(context.Background(), oracle, sampleRequest)
		require.NoError(t, err)
		require.Len(t, plan.Subtasks, 4)
		assert.Equal(t, 195, plan.TotalEstimatedDuration)
		assert.Equal(t, 0.7, plan.Confidence)
		assert.Equal(t, "Research and Planning", plan.Subtasks[0].Title)
		assert.Equal(t, 45, plan.Subtasks[0].EstimatedDuration)
		assert.Equal(t, 4, plan.Subtasks[0].Priority)
		assert.Equal(t, "Initial Setup", plan.Subtasks[1].Title)
		assert.Equal(t, 30, plan.Subtasks[1].EstimatedDuration)
		assert.Equal(t, "Core Implementation", plan.Subtasks[2].Title)
		assert.Equal(t, 90, plan.Subtasks[2].EstimatedDuration)
		assert.Equal(t, 5, plan.Subtasks[2].Priority)
		assert.Equal(t, "Review and Finalize", plan.Subtasks[3].Title)
		assert.Equal(t, 30, plan.Subtasks[3].EstimatedDuration)
	}
}

func TestDecomposeEmptySubtasksUsesFallback(t *testing.T) {
	oracle := &fakeOracle{response: `{"subtasks": [], "completion_strategy": "nothing to do"}`}

	plan, err := Decompose(context.Background(), oracle, sampleRequest)
	require.NoError(t, err)
	assert.Equal(t, 0.7, plan.Confidence)
	assert.Len(t, plan.Subtasks, 4)
}

func TestDecomposeOracleFailure(t *testing.T) {
	oracle := &fakeOracle{err: errors.New("connection refused")}

	plan, err := Decompose(context.Background(), oracle, sampleRequest)
	assert.Nil(t, plan, "no partial or fabricated plan on oracle failure")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAdvisoryUnavailable)
}

func TestSuggestPriorityClamps(t *testing.T) {
	oracle := &fakeOracle{response: " 7 "}
	p, err := SuggestPriority(context.Background(), oracle, TaskSummary{Title: "t"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, p)

	oracle = &fakeOracle{response: "0"}
	p, err = SuggestPriority(context.Background(), oracle, TaskSummary{Title: "t"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, p)
}

func TestSuggestPriorityRejectsProse(t *testing.T) {
	oracle := &fakeOracle{response: "I'd say priority 4"}
	_, err := SuggestPriority(context.Background(), oracle, TaskSummary{Title: "t"}, nil)
	assert.Error(t, err)
}

func TestNextBestTaskPassesThrough(t *testing.T) {
	oracle := &fakeOracle{response: "Work on task abc123: it is due soonest.\n"}
	rec, err := NextBestTask(context.Background(), oracle, time.Now(), []TaskSummary{{Title: "t"}})
	require.NoError(t, err)
	assert.Equal(t, "Work on task abc123: it is due soonest.", rec)
}
