package debate

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"dev.simplylaw.agent/internal/llm"
)

// Task is one actionable follow-up generated from a finished analysis.
type Task struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Priority      string `json:"priority"`
	Category      string `json:"category"`
	EstimatedTime string `json:"estimatedTime"`
	Reasoning     string `json:"reasoning"`
}

// MalformedOutputError reports that structured parsing of a generation result
// failed. It is recovered locally with a conservative default and never
// propagated as fatal.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed generation output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// fencedJSON extracts a JSON array out of a markdown-fenced response.
var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\[.*?\\])\\s*```")

// defaultTasks is the conservative fallback when task generation cannot be
// parsed.
func defaultTasks() []Task {
	return []Task{{
		Title:         "Review Case Analysis",
		Description:   "Review the AI-generated analysis and verify key findings",
		Priority:      "high",
		Category:      "follow-up",
		EstimatedTime: "30 minutes",
		Reasoning:     "Ensure AI analysis aligns with case facts",
	}}
}

// TaskGenerator turns a consensus summary into actionable paralegal tasks.
type TaskGenerator struct {
	provider llm.Provider
	log      *logrus.Logger
}

func NewTaskGenerator(provider llm.Provider, log *logrus.Logger) *TaskGenerator {
	if log == nil {
		log = logrus.New()
	}
	return &TaskGenerator{provider: provider, log: log}
}

// Generate asks the provider for a JSON task list and parses it defensively.
// A failed call or unparseable output falls back to the default single-item
// list rather than failing the analysis.
func (g *TaskGenerator) Generate(ctx context.Context, request, consensusSummary string, documentCount int) []Task {
	prompt := taskPrompt(request, consensusSummary, documentCount)

	resp, err := g.provider.Complete(ctx, &llm.CompletionRequest{Prompt: prompt})
	if err != nil {
		g.log.WithError(err).Warn("task generation failed, using default task list")
		return defaultTasks()
	}

	tasks, err := ParseTasks(resp.Content)
	if err != nil {
		g.log.WithError(err).Warn("task parsing failed, using default task list")
		return defaultTasks()
	}
	return tasks
}

// ParseTasks parses a JSON task array from a possibly markdown-fenced
// completion.
func ParseTasks(raw string) ([]Task, error) {
	text := strings.TrimSpace(raw)
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	var tasks []Task
	if err := json.Unmarshal([]byte(text), &tasks); err != nil {
		return nil, &MalformedOutputError{Raw: raw, Err: err}
	}
	if len(tasks) == 0 {
		return nil, &MalformedOutputError{Raw: raw, Err: fmt.Errorf("empty task list")}
	}
	return tasks, nil
}

func taskPrompt(request, consensusSummary string, documentCount int) string {
	return fmt.Sprintf(`User Request: %s

Analysis Summary: %s

Files Analyzed: %d documents

Based on this case analysis, generate 3-7 specific, actionable tasks that a
legal assistant or paralegal should complete.

For each task, provide:
1. Title (brief, action-oriented)
2. Description (what needs to be done and why)
3. Priority (high, medium, or low)
4. Category (document, communication, research, deadline, or follow-up)
5. Estimated time (e.g., "30 minutes", "2-3 days")
6. Reasoning (why this task is important)

Format as JSON array with keys: title, description, priority, category,
estimatedTime, reasoning.

Return ONLY the JSON array, no other text.`, request, consensusSummary, documentCount)
}
