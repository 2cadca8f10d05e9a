// Package memory is an in-memory domain.Store. It is NOT persistent and is
// only suitable for development, local mode and tests.
package memory

import (
	"context"
	"sync"

	"github.com/PabloGalante/tasktalk/internal/domain"
)

type Store struct {
	mu            sync.RWMutex
	conversations map[domain.ConversationID]*domain.Conversation
	records       map[domain.ConversationID][]domain.Record
}

func NewStore() *Store {
	return &Store{
		conversations: make(map[domain.ConversationID]*domain.Conversation),
		records:       make(map[domain.ConversationID][]domain.Record),
	}
}

// Begin opens a unit of work. Writes are staged and become visible to
// other units of work only on Commit.
func (s *Store) Begin(ctx context.Context) (domain.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.E(domain.ErrStore, "memory.Begin", err)
	}
	return &unitOfWork{store: s}, nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) getConversation(id domain.ConversationID) (*domain.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, false
	}
	cp := *conv
	return &cp, true
}

func (s *Store) listRecords(id domain.ConversationID, limit, offset int) ([]domain.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.conversations[id]; !ok {
		return nil, false
	}

	recs := s.records[id]
	if offset >= len(recs) {
		return []domain.Record{}, true
	}
	recs = recs[offset:]
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}

	out := make([]domain.Record, len(recs))
	copy(out, recs)
	return out, true
}
