package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PabloGalante/tasktalk/internal/domain"
)

var errFinished = errors.New("unit of work already finished")

type unitOfWork struct {
	store *Store
	done  bool

	newConversations []*domain.Conversation
	records          []domain.Record
	touched          map[domain.ConversationID]time.Time
}

func (u *unitOfWork) check(op string) error {
	if u.done {
		return domain.E(domain.ErrStore, op, errFinished)
	}
	return nil
}

// staged returns a conversation created earlier in this unit of work.
func (u *unitOfWork) staged(id domain.ConversationID) (*domain.Conversation, bool) {
	for _, c := range u.newConversations {
		if c.ID == id {
			cp := *c
			return &cp, true
		}
	}
	return nil, false
}

func (u *unitOfWork) GetConversation(ctx context.Context, id domain.ConversationID) (*domain.Conversation, error) {
	const op = "memory.GetConversation"
	if err := u.check(op); err != nil {
		return nil, err
	}

	if conv, ok := u.staged(id); ok {
		return conv, nil
	}
	conv, ok := u.store.getConversation(id)
	if !ok {
		return nil, domain.E(domain.ErrNotFound, op, fmt.Errorf("conversation %q", id))
	}
	return conv, nil
}

// GetConversationMessages reads committed records only.
func (u *unitOfWork) GetConversationMessages(ctx context.Context, id domain.ConversationID, limit, offset int) ([]domain.Record, error) {
	const op = "memory.GetConversationMessages"
	if err := u.check(op); err != nil {
		return nil, err
	}

	recs, ok := u.store.listRecords(id, limit, offset)
	if !ok {
		return nil, domain.E(domain.ErrNotFound, op, fmt.Errorf("conversation %q", id))
	}
	return recs, nil
}

func (u *unitOfWork) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	const op = "memory.CreateConversation"
	if err := u.check(op); err != nil {
		return err
	}
	if conv == nil || conv.ID == "" {
		return domain.E(domain.ErrStore, op, errors.New("conversation id is required"))
	}

	cp := *conv
	u.newConversations = append(u.newConversations, &cp)
	return nil
}

func (u *unitOfWork) Add(ctx context.Context, rec domain.Record) error {
	const op = "memory.Add"
	if err := u.check(op); err != nil {
		return err
	}

	switch r := rec.(type) {
	case *domain.Message:
		cp := *r
		u.records = append(u.records, &cp)
	case *domain.Response:
		cp := *r
		u.records = append(u.records, &cp)
	default:
		return domain.E(domain.ErrStore, op, fmt.Errorf("unsupported record %T", rec))
	}
	return nil
}

func (u *unitOfWork) TouchConversation(ctx context.Context, id domain.ConversationID, at time.Time) error {
	const op = "memory.TouchConversation"
	if err := u.check(op); err != nil {
		return err
	}
	if u.touched == nil {
		u.touched = make(map[domain.ConversationID]time.Time)
	}
	u.touched[id] = at
	return nil
}

// Commit applies every staged write or none of them.
func (u *unitOfWork) Commit(ctx context.Context) error {
	const op = "memory.Commit"
	if err := u.check(op); err != nil {
		return err
	}
	u.done = true

	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	exists := func(id domain.ConversationID) bool {
		if _, ok := s.conversations[id]; ok {
			return true
		}
		_, ok := u.staged(id)
		return ok
	}

	for _, c := range u.newConversations {
		if _, ok := s.conversations[c.ID]; ok {
			return domain.E(domain.ErrStore, op, fmt.Errorf("conversation %q already exists", c.ID))
		}
	}
	for _, rec := range u.records {
		if id := conversationOf(rec); !exists(id) {
			return domain.E(domain.ErrNotFound, op, fmt.Errorf("conversation %q", id))
		}
	}
	for id := range u.touched {
		if !exists(id) {
			return domain.E(domain.ErrNotFound, op, fmt.Errorf("conversation %q", id))
		}
	}

	for _, c := range u.newConversations {
		s.conversations[c.ID] = c
	}
	for _, rec := range u.records {
		id := conversationOf(rec)
		s.records[id] = append(s.records[id], rec)
	}
	for id, at := range u.touched {
		s.conversations[id].UpdatedAt = at
	}
	return nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if err := u.check("memory.Rollback"); err != nil {
		return err
	}
	u.done = true
	u.newConversations, u.records, u.touched = nil, nil, nil
	return nil
}

func conversationOf(rec domain.Record) domain.ConversationID {
	switch r := rec.(type) {
	case *domain.Message:
		return r.ConversationID
	case *domain.Response:
		return r.ConversationID
	}
	return ""
}
