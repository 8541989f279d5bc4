package memory

import (
	"context"
	"sync"

	"github.com/hati-ai/hati-agent/internal/domain"
)

// ConversationStore keeps finished turns in memory, per session.
type ConversationStore struct {
	mu    sync.RWMutex
	turns map[domain.SessionID][]*domain.ConversationTurn
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		turns: make(map[domain.SessionID][]*domain.ConversationTurn),
	}
}

func (s *ConversationStore) SaveTurn(ctx context.Context, turn *domain.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns[turn.SessionID] = append(s.turns[turn.SessionID], turn)
	return nil
}

// History returns the most recent turns, newest last.
func (s *ConversationStore) History(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.turns[sessionID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return append([]*domain.ConversationTurn(nil), turns...), nil
}
