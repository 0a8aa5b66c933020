// Package planner turns natural-language task descriptions into
// structured subtask plans via an advisory oracle, with deterministic
// repair and fallback when the oracle's output is unusable.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Oracle proposes a structured response for a natural-language prompt.
// Implementations are best-effort and possibly slow or unavailable.
type Oracle interface {
	Propose(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAIOracle calls the OpenAI chat completion API.
type OpenAIOracle struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIOracle creates an oracle backed by the OpenAI API. An empty
// model defaults to gpt-4o-mini.
func NewOpenAIOracle(apiKey, model string) *OpenAIOracle {
	if model == "" {
		model = openai.GPT4oMini
		slog.Warn("OPENAI_MODEL not set, defaulting to gpt-4o-mini")
	}
	return &OpenAIOracle{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: 30 * time.Second,
	}
}

// Propose sends the prompt and returns the raw model output. The call
// is bounded by the oracle's timeout; a timeout is an oracle failure.
func (o *OpenAIOracle) Propose(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		slog.Error("oracle call failed", "error", err)
		return "", fmt.Errorf("oracle call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		slog.Warn("oracle returned no choices")
		return "", fmt.Errorf("oracle returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
