// Package orchestrator routes incoming case requests to the right agent
// path: direct client communication, or the collaborative analysis loop
// between the two analysts followed by a communication formatting pass.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"dev.simplylaw.agent/internal/agents"
	"dev.simplylaw.agent/internal/debate"
	"dev.simplylaw.agent/internal/documents"
	"dev.simplylaw.agent/internal/llm"
)

// Intent classifies an incoming request.
type Intent string

const (
	IntentComs     Intent = "client_coms"
	IntentAnalysis Intent = "analysis"
)

// Result is the orchestrator's response to one request.
type Result struct {
	UserRequest    string         `json:"user_request"`
	Intent         Intent         `json:"agent_type"`
	Workflow       string         `json:"workflow"`
	Response       string         `json:"response"`
	Analysis       *debate.Result `json:"analysis,omitempty"`
	DocumentsCount int            `json:"files_processed"`
}

// Orchestrator classifies requests and dispatches them.
type Orchestrator struct {
	provider llm.Provider
	engine   *debate.Engine
	tasks    *debate.TaskGenerator
	coms     agents.Adapter
	log      *logrus.Logger
}

func New(provider llm.Provider, engine *debate.Engine, tasks *debate.TaskGenerator, coms agents.Adapter, log *logrus.Logger) *Orchestrator {
	if log == nil {
		log = logrus.New()
	}
	return &Orchestrator{
		provider: provider,
		engine:   engine,
		tasks:    tasks,
		coms:     coms,
		log:      log,
	}
}

// Classify determines the intent of a request via a one-word LLM
// classification. The free-text answer is parsed defensively; anything
// unclear, and any classification failure, defaults to analysis.
func (o *Orchestrator) Classify(ctx context.Context, request string, docs []documents.Document) Intent {
	prompt := intentPrompt(request, docs)

	resp, err := o.provider.Complete(ctx, &llm.CompletionRequest{Prompt: prompt})
	if err != nil {
		o.log.WithError(err).Warn("intent classification failed, defaulting to analysis")
		return IntentAnalysis
	}

	answer := strings.ToUpper(strings.TrimSpace(resp.Content))
	if strings.Contains(answer, "COMS") {
		return IntentComs
	}
	return IntentAnalysis
}

// Process runs one request end to end. The analysis path either returns a
// complete result or a structured error; it never presents a truncated
// half-result as final.
func (o *Orchestrator) Process(ctx context.Context, request string, docs []documents.Document) (*Result, error) {
	intent := o.Classify(ctx, request, docs)

	o.log.WithFields(logrus.Fields{
		"intent":    intent,
		"documents": len(docs),
	}).Info("processing request")

	docContext := documents.BuildContext(docs)

	result := &Result{
		UserRequest:    request,
		Intent:         intent,
		DocumentsCount: len(docs),
	}

	switch intent {
	case IntentComs:
		response, err := o.coms.Speak(ctx, comsPrompt(request, docContext))
		if err != nil {
			return nil, fmt.Errorf("communication drafting failed: %w", err)
		}
		result.Response = response
		result.Workflow = "API -> Orchestrator -> Coms -> Out"

	default:
		analysis, err := o.engine.Run(ctx, request, docContext)
		if err != nil {
			return nil, err
		}

		if o.tasks != nil {
			analysis.Tasks = o.tasks.Generate(ctx, request, analysis.Consensus.UnifiedRecommendation, len(docs))
		}

		formatted, err := o.coms.Speak(ctx, formatPrompt(request, analysis.Consensus.UnifiedRecommendation))
		if err != nil {
			return nil, fmt.Errorf("consensus formatting failed: %w", err)
		}

		result.Analysis = analysis
		result.Response = formatted
		result.Workflow = "API -> Orchestrator -> Docu -> Sherlock -> Coms -> Out"
	}

	return result, nil
}

func intentPrompt(request string, docs []documents.Document) string {
	return fmt.Sprintf(`You are an AI agent router. Analyze the user's request and determine which agent should handle it.

User Request: %s

Files Provided:
%s

Available Agents:
1. COMS Agent: Handles email communication, client messaging, drafting responses, setting up communications
2. ANALYSIS: Handles data analysis, document review, case analysis, generating ideas, strategic thinking (involves the Docu and Sherlock agents working together)

Consider:
- If the user needs help with communications, emails, or messaging -> COMS
- If the user needs help analyzing data, reviewing documents, or coming up with ideas -> ANALYSIS

Respond with ONLY ONE WORD: either "COMS" or "ANALYSIS"`, request, documents.Summarize(docs, 200))
}

func comsPrompt(request, docContext string) string {
	return fmt.Sprintf(`User Request: %s

Files provided:
%s

Please help with the communication task.`, request, docContext)
}

func formatPrompt(request, consensus string) string {
	return fmt.Sprintf(`Please format this analysis for the client:

User's Original Request: %s

Analysis Consensus:
%s

Create a clear, professional response.`, request, consensus)
}
