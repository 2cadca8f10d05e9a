package domain

import (
	"context"
	"time"
)

// ConversationContext gives a Drafter minimal context about where a reply goes.
type ConversationContext struct {
	ConversationID ConversationID
	UserID         UserID
}

// Drafter produces a candidate reply for a classified message.
// Drafts are validated by the caller before use.
type Drafter interface {
	Draft(ctx context.Context, text string, category Category, convCtx ConversationContext) (string, error)
}

// ConversationStore reads and creates conversations.
type ConversationStore interface {
	// GetConversation returns ErrNotFound when id is unknown.
	GetConversation(ctx context.Context, id ConversationID) (*Conversation, error)
	// GetConversationMessages returns records oldest first.
	GetConversationMessages(ctx context.Context, id ConversationID, limit, offset int) ([]Record, error)
	CreateConversation(ctx context.Context, conv *Conversation) error
}

// MessageStore stages records and settles them atomically.
type MessageStore interface {
	Add(ctx context.Context, rec Record) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UnitOfWork is a single transaction over both stores. A UnitOfWork is
// not safe for concurrent use; open one per operation.
type UnitOfWork interface {
	ConversationStore
	MessageStore
	TouchConversation(ctx context.Context, id ConversationID, at time.Time) error
}

// Store opens units of work against a backend.
type Store interface {
	Begin(ctx context.Context) (UnitOfWork, error)
	Close() error
}
