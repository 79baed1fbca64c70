// Package agents provides the role adapters that wrap the shared
// text-generation provider with role-specific framing. Adapters hold no
// conversation state; continuity flows through the prompt the caller builds.
package agents

import (
	"context"

	"dev.simplylaw.agent/internal/llm"
)

// Adapter produces one role's framed response per invocation. Each call is a
// network call to the external generator and may incur latency and
// non-deterministic output.
type Adapter interface {
	Name() string
	Speak(ctx context.Context, prompt string) (string, error)
}

// roleAdapter is the common implementation: a fixed preamble over a shared
// provider instance. A single provider is injected into every role so client
// lifecycles are not duplicated.
type roleAdapter struct {
	name        string
	preamble    string
	provider    llm.Provider
	temperature float64
}

// Option configures a role adapter.
type Option func(*roleAdapter)

// WithPreamble replaces the role's default framing preamble.
func WithPreamble(preamble string) Option {
	return func(a *roleAdapter) {
		if preamble != "" {
			a.preamble = preamble
		}
	}
}

// WithTemperature sets the sampling temperature for the role.
func WithTemperature(t float64) Option {
	return func(a *roleAdapter) {
		a.temperature = t
	}
}

func newRole(name, preamble string, provider llm.Provider, opts ...Option) Adapter {
	a := &roleAdapter{
		name:     name,
		preamble: preamble,
		provider: provider,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *roleAdapter) Name() string { return a.name }

func (a *roleAdapter) Speak(ctx context.Context, prompt string) (string, error) {
	resp, err := a.provider.Complete(ctx, &llm.CompletionRequest{
		Prompt:      prompt,
		System:      a.preamble,
		Temperature: a.temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
