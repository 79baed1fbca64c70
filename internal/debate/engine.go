// Package debate runs the bounded, turn-based dialogue between the document
// analyst and the investigative analyst until they converge on a consensus
// recommendation or the iteration budget runs out.
package debate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"dev.simplylaw.agent/internal/agents"
	"dev.simplylaw.agent/internal/conversation"
	"dev.simplylaw.agent/internal/observability"
)

// Config configures an analysis engine.
type Config struct {
	// MaxIterations bounds the alternating loop (opening turn excluded).
	MaxIterations int
	// TurnTimeout applies to each individual adapter invocation.
	TurnTimeout time.Duration
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterations: conversation.DefaultMaxIterations,
		TurnTimeout:   60 * time.Second,
	}
}

// TurnError reports a failed adapter invocation with enough context for the
// caller to retry the whole analysis.
type TurnError struct {
	ConversationID string
	Iteration      int
	Speaker        string
	Err            error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn %d (%s) failed in conversation %s: %v",
		e.Iteration, e.Speaker, e.ConversationID, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

// Result is the finished analysis: the full conversation plus its summary.
type Result struct {
	ConversationID string                        `json:"conversation_id"`
	Iterations     int                           `json:"iterations"`
	Turns          []conversation.Turn           `json:"conversation"`
	Consensus      *conversation.ConsensusResult `json:"consensus"`
	Tasks          []Task                        `json:"tasks,omitempty"`
}

// Engine drives the two-role dialogue. Turns within one conversation are
// strictly sequential: each prompt depends on the prior turn's output, so the
// two roles never run concurrently. Independent conversations may run in
// parallel against the shared store.
type Engine struct {
	store    *conversation.Store
	docu     agents.Adapter
	sherlock agents.Adapter
	config   Config
	metrics  *observability.Metrics
	log      *logrus.Logger
}

func NewEngine(store *conversation.Store, docu, sherlock agents.Adapter, config Config, metrics *observability.Metrics, log *logrus.Logger) *Engine {
	if config.MaxIterations < 1 {
		config.MaxIterations = conversation.DefaultMaxIterations
	}
	if config.TurnTimeout <= 0 {
		config.TurnTimeout = 60 * time.Second
	}
	if log == nil {
		log = logrus.New()
	}
	return &Engine{
		store:    store,
		docu:     docu,
		sherlock: sherlock,
		config:   config,
		metrics:  metrics,
		log:      log,
	}
}

// Run executes the collaborative analysis for the given request and document
// context and returns the finished conversation with its consensus summary.
//
// Failure semantics: an adapter error commits no turn; the conversation is
// closed as-is and the caller receives a TurnError wrapping the generation
// failure. The engine never retries.
func (e *Engine) Run(ctx context.Context, request, docContext string) (*Result, error) {
	return e.RunBounded(ctx, request, docContext, 0)
}

// RunBounded executes the analysis under a per-request iteration bound. A
// bound below 1 falls back to the engine's configured default.
func (e *Engine) RunBounded(ctx context.Context, request, docContext string, maxIterations int) (*Result, error) {
	if maxIterations < 1 {
		maxIterations = e.config.MaxIterations
	}

	id := e.store.Create(e.docu.Name(), e.sherlock.Name(), maxIterations)

	e.log.WithFields(logrus.Fields{
		"conversation_id": id,
		"max_iterations":  maxIterations,
	}).Info("starting collaborative analysis")

	// Opening turn: the document analyst reads the record first.
	opening := openingPrompt(request, docContext)
	if err := e.takeTurn(ctx, id, e.docu, opening, 0); err != nil {
		e.closeConversation(id)
		return nil, err
	}

	current, next := e.sherlock, e.docu

	for iteration := 1; iteration <= maxIterations; iteration++ {
		select {
		case <-ctx.Done():
			// Abort cleanly between turns; committed turns stay intact.
			e.log.WithField("conversation_id", id).Warn("analysis cancelled")
			return e.finish(id, ctx.Err())
		default:
		}

		history, err := e.store.History(id)
		if err != nil {
			return nil, err
		}

		prompt := turnPrompt(current.Name(), request, docContext, history)
		if err := e.takeTurn(ctx, id, current, prompt, iteration); err != nil {
			e.closeConversation(id)
			return nil, err
		}

		current, next = next, current

		history, err = e.store.History(id)
		if err != nil {
			return nil, err
		}
		if conversation.HasConverged(history) {
			if err := e.store.MarkConsensus(id); err != nil {
				e.log.WithError(err).WithField("conversation_id", id).Warn("marking consensus failed")
			}
			if e.metrics != nil {
				e.metrics.ConsensusReached.Inc()
			}
			e.log.WithFields(logrus.Fields{
				"conversation_id": id,
				"iterations":      len(history),
			}).Info("consensus reached")
			break
		}
	}

	return e.finish(id, nil)
}

// takeTurn invokes one adapter under the per-turn timeout and appends its
// output. On failure nothing is appended.
func (e *Engine) takeTurn(ctx context.Context, id string, speaker agents.Adapter, prompt string, iteration int) error {
	turnCtx, cancel := context.WithTimeout(ctx, e.config.TurnTimeout)
	defer cancel()

	content, err := speaker.Speak(turnCtx, prompt)
	if err != nil {
		if e.metrics != nil {
			e.metrics.GenerationFailures.Inc()
		}
		return &TurnError{
			ConversationID: id,
			Iteration:      iteration,
			Speaker:        speaker.Name(),
			Err:            err,
		}
	}

	if _, err := e.store.Append(id, speaker.Name(), content, nil); err != nil {
		return err
	}
	if e.metrics != nil {
		e.metrics.TurnsTotal.Inc()
	}
	return nil
}

// closeConversation seals a conversation, logging rather than propagating a
// failure: the caller is already on an error or teardown path.
func (e *Engine) closeConversation(id string) {
	if err := e.store.Close(id); err != nil {
		e.log.WithError(err).WithField("conversation_id", id).Warn("closing conversation failed")
	}
}

// finish closes the conversation and builds the result. A cancellation error
// still yields the partially-filled, unconverged conversation.
func (e *Engine) finish(id string, cause error) (*Result, error) {
	e.closeConversation(id)

	conv, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ConversationID: id,
		Iterations:     len(conv.Turns),
		Turns:          conv.Turns,
		Consensus:      conversation.Summarize(conv),
	}
	if e.metrics != nil {
		e.metrics.DebateIterations.Observe(float64(len(conv.Turns)))
	}
	if cause != nil {
		return result, cause
	}
	return result, nil
}

// openingPrompt frames the first turn for the document analyst.
func openingPrompt(request, docContext string) string {
	return fmt.Sprintf(`User Request: %s

Files to analyze:
%s

Please analyze these files and provide your logical, data-driven assessment.`, request, docContext)
}

// turnPrompt builds the accumulated-context prompt for the current speaker.
func turnPrompt(speaker, request, docContext string, history []conversation.Turn) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Request: %s\n\n", request)
	fmt.Fprintf(&b, "Files context:\n%s\n\n", docContext)
	fmt.Fprintf(&b, "Conversation so far:\n%s\n", formatHistory(history))

	if speaker == agents.RoleSherlock {
		b.WriteString("\nPlease provide your creative, investigative perspective and try to find alternative explanations or insights. If you concur with the current conclusion, say so explicitly.")
	} else {
		b.WriteString("\nPlease respond with your logical analysis. If you've reached a consensus or have nothing new to add, indicate that.")
	}
	return b.String()
}

// formatHistory renders the transcript as SPEAKER: content blocks.
func formatHistory(history []conversation.Turn) string {
	var b strings.Builder
	for _, turn := range history {
		fmt.Fprintf(&b, "%s: %s\n\n", strings.ToUpper(turn.Speaker), turn.Content)
	}
	return b.String()
}
