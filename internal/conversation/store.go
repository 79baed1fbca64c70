// Package conversation manages turn-based dialogues between two analysis
// agents, detects consensus, and summarizes finished conversations.
package conversation

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound reports an unknown conversation identifier. This is a
// programmer error: it is surfaced immediately and never retried.
type ErrNotFound struct {
	ID string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("conversation not found: %s", e.ID)
}

// ErrClosed reports an append to a conversation that has already been closed.
type ErrClosed struct {
	ID string
}

func (e *ErrClosed) Error() string {
	return fmt.Sprintf("conversation closed: %s", e.ID)
}

// Turn is one speaker's single contribution to a conversation. Analysis is a
// free-form annotation attached by the speaker; the protocol never depends on
// its shape, only Content is load-bearing.
type Turn struct {
	Iteration int            `json:"iteration"`
	Speaker   string         `json:"speaker"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Analysis  map[string]any `json:"analysis,omitempty"`
}

// Conversation is an append-only log of turns between two fixed speakers.
type Conversation struct {
	ID               string    `json:"id"`
	SpeakerA         string    `json:"speaker_a"`
	SpeakerB         string    `json:"speaker_b"`
	Turns            []Turn    `json:"turns"`
	MaxIterations    int       `json:"max_iterations"`
	ConsensusReached bool      `json:"consensus_reached"`
	Closed           bool      `json:"closed"`
	CreatedAt        time.Time `json:"created_at"`
}

// Store holds independent conversation threads keyed by identifier. It is
// safe for concurrent use across identifiers; within one conversation the
// caller drives turns sequentially (single logical writer).
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
	maxIterations int
}

// DefaultMaxIterations bounds the dialogue loop when no override is given.
const DefaultMaxIterations = 10

func NewStore() *Store {
	return &Store{
		conversations: make(map[string]*Conversation),
		maxIterations: DefaultMaxIterations,
	}
}

// Create registers a new conversation between the two named speakers and
// returns its identifier.
func (s *Store) Create(speakerA, speakerB string, maxIterations int) string {
	if maxIterations < 1 {
		maxIterations = s.maxIterations
	}

	conv := &Conversation{
		ID:            uuid.New().String(),
		SpeakerA:      speakerA,
		SpeakerB:      speakerB,
		Turns:         make([]Turn, 0, maxIterations+1),
		MaxIterations: maxIterations,
		CreatedAt:     time.Now(),
	}

	s.mu.Lock()
	s.conversations[conv.ID] = conv
	s.mu.Unlock()

	return conv.ID
}

// Append adds a turn to the conversation and returns its index.
func (s *Store) Append(id, speaker, content string, analysis map[string]any) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return 0, &ErrNotFound{ID: id}
	}
	if conv.Closed {
		return 0, &ErrClosed{ID: id}
	}

	turn := Turn{
		Iteration: len(conv.Turns),
		Speaker:   speaker,
		Content:   content,
		Timestamp: time.Now(),
		Analysis:  analysis,
	}
	conv.Turns = append(conv.Turns, turn)

	return turn.Iteration, nil
}

// History returns a copy of the conversation's turns in insertion order.
func (s *Store) History(id string) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, &ErrNotFound{ID: id}
	}

	turns := make([]Turn, len(conv.Turns))
	copy(turns, conv.Turns)
	return turns, nil
}

// MarkConsensus records that the detector observed convergence.
func (s *Store) MarkConsensus(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return &ErrNotFound{ID: id}
	}
	conv.ConsensusReached = true
	return nil
}

// Close seals the conversation; further appends fail with ErrClosed.
func (s *Store) Close(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return &ErrNotFound{ID: id}
	}
	conv.Closed = true
	return nil
}

// Get returns a snapshot copy of the conversation.
func (s *Store) Get(id string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, &ErrNotFound{ID: id}
	}

	snapshot := *conv
	snapshot.Turns = make([]Turn, len(conv.Turns))
	copy(snapshot.Turns, conv.Turns)
	return &snapshot, nil
}

// Purge removes closed conversations created before the retention cutoff and
// reports how many were removed. In-flight conversations are never purged.
func (s *Store) Purge(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, conv := range s.conversations {
		if conv.Closed && conv.CreatedAt.Before(cutoff) {
			delete(s.conversations, id)
			purged++
		}
	}
	return purged
}
