// Package llm abstracts the text-generation backends used by the agents.
// All agent continuity flows through the prompt; providers are stateless
// request/response clients.
package llm

import (
	"context"
	"time"
)

// CompletionRequest is a single prompt sent to a provider.
type CompletionRequest struct {
	Prompt      string  `json:"prompt"`
	System      string  `json:"system,omitempty"`
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// CompletionResponse is the text completion returned by a provider.
type CompletionResponse struct {
	Content      string        `json:"content"`
	Model        string        `json:"model"`
	Provider     string        `json:"provider"`
	TokensUsed   int           `json:"tokens_used"`
	FinishReason string        `json:"finish_reason,omitempty"`
	Latency      time.Duration `json:"latency"`
}

// Provider defines an interface for text-generation providers. Callers must
// not assume idempotence or repeatability of completions.
type Provider interface {
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
	Name() string
	HealthCheck() error
}
