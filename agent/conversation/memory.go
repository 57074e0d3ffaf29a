// Package conversation persists per-conversation turn history for the
// planner and composer to consult.
package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	contractx "supervisor-agent/agent/contract"
)

const defaultMaxTurns = 50

// MemoryStore keeps history in process memory. The default backend: good
// for single-replica deployments and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	turns    map[string][]contractx.Turn
	maxTurns int
}

type MemoryOption func(*MemoryStore)

// WithMaxTurns caps how many turns are kept per conversation.
func WithMaxTurns(n int) MemoryOption {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxTurns = n
		}
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		turns:    make(map[string][]contractx.Turn),
		maxTurns: defaultMaxTurns,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *MemoryStore) History(_ context.Context, conversationID string) ([]contractx.Turn, error) {
	id, err := normalizeID(conversationID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.turns[id]
	out := make([]contractx.Turn, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, conversationID string, turns ...contractx.Turn) error {
	id, err := normalizeID(conversationID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, turn := range turns {
		if turn.At.IsZero() {
			turn.At = time.Now().UTC()
		}
		s.turns[id] = append(s.turns[id], turn)
	}
	if over := len(s.turns[id]) - s.maxTurns; over > 0 {
		s.turns[id] = s.turns[id][over:]
	}
	return nil
}

func normalizeID(conversationID string) (string, error) {
	id := strings.TrimSpace(conversationID)
	if id == "" {
		return "", fmt.Errorf("%w: conversation id is empty", contractx.ErrValidation)
	}
	return id, nil
}
