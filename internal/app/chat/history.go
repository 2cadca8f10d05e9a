package chat

import (
	"context"
	"errors"
	"iter"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/PabloGalante/tasktalk/internal/domain"
	"github.com/PabloGalante/tasktalk/internal/observability"
)

const (
	titleMaxLength = 50
	defaultTitle   = "New conversation"
)

// HistoryEntry is the serialized form of a stored record.
type HistoryEntry struct {
	ID             domain.MessageID      `json:"id"`
	ConversationID domain.ConversationID `json:"conversation_id"`
	Role           domain.Role           `json:"role"`
	Content        string                `json:"content"`
	ResponseType   domain.ResponseType   `json:"response_type,omitempty"`
	ReplyTo        domain.MessageID      `json:"reply_to,omitempty"`
	CreatedAt      domain.Timestamp      `json:"created_at"`
}

func entryFromRecord(rec domain.Record) HistoryEntry {
	switch r := rec.(type) {
	case *domain.Message:
		return HistoryEntry{
			ID:             r.ID,
			ConversationID: r.ConversationID,
			Role:           r.Sender,
			Content:        r.Content,
			CreatedAt:      r.CreatedAt,
		}
	case *domain.Response:
		return HistoryEntry{
			ID:             r.ID,
			ConversationID: r.ConversationID,
			Role:           domain.RoleAssistant,
			Content:        r.Content,
			ResponseType:   r.ResponseType,
			ReplyTo:        r.MessageID,
			CreatedAt:      r.CreatedAt,
		}
	}
	return HistoryEntry{ID: rec.RecordID()}
}

// ConversationHistory returns up to limit records of a conversation, oldest
// first, skipping offset records. limit <= 0 means DefaultHistoryLimit.
// Records are converted to HistoryEntry values as the sequence is consumed.
func (s *Service) ConversationHistory(
	ctx context.Context,
	conversationID domain.ConversationID,
	limit, offset int,
) (iter.Seq[HistoryEntry], error) {
	const op = "chat.ConversationHistory"

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, domain.Wrap(domain.ErrStore, op, err)
	}
	// Read-only: nothing to commit.
	defer func() {
		if rbErr := uow.Rollback(ctx); rbErr != nil {
			observability.LoggerFromContext(ctx).Warn("rollback after read failed", zap.Error(rbErr))
		}
	}()

	records, err := uow.GetConversationMessages(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, domain.Wrap(domain.ErrStore, op, err)
	}

	return func(yield func(HistoryEntry) bool) {
		for _, rec := range records {
			if !yield(entryFromRecord(rec)) {
				return
			}
		}
	}, nil
}

// StartConversation creates a conversation for userID. A non-blank
// initialMessage becomes the title source and the first stored message.
func (s *Service) StartConversation(
	ctx context.Context,
	userID domain.UserID,
	initialMessage string,
) (id domain.ConversationID, err error) {
	const op = "chat.StartConversation"

	if strings.TrimSpace(string(userID)) == "" {
		return "", domain.E(domain.ErrValidation, op, errors.New("user id must not be empty"))
	}
	hasMessage := strings.TrimSpace(initialMessage) != ""
	if hasMessage {
		if err := ValidateMessage(initialMessage); err != nil {
			return "", err
		}
	}

	log := observability.LoggerFromContext(ctx).With(zap.String("user_id", string(userID)))

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return "", domain.Wrap(domain.ErrStore, op, err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := uow.Rollback(ctx); rbErr != nil {
			log.Error("rollback failed", zap.Error(rbErr))
		}
	}()

	now := s.now()
	conv := &domain.Conversation{
		ID:        domain.ConversationID(domain.NewID()),
		UserID:    userID,
		Title:     titleFrom(initialMessage),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = uow.CreateConversation(ctx, conv); err != nil {
		return "", domain.Wrap(domain.ErrStore, op, err)
	}

	if hasMessage {
		err = uow.Add(ctx, &domain.Message{
			ID:             domain.MessageID(domain.NewID()),
			ConversationID: conv.ID,
			Sender:         domain.RoleUser,
			Content:        initialMessage,
			CreatedAt:      now,
		})
		if err != nil {
			return "", domain.Wrap(domain.ErrStore, op, err)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return "", domain.Wrap(domain.ErrStore, op, err)
	}

	log.Info("conversation started", zap.String("conversation_id", string(conv.ID)))
	return conv.ID, nil
}

func titleFrom(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return defaultTitle
	}
	if utf8.RuneCountInString(text) <= titleMaxLength {
		return text
	}
	r := []rune(text)
	return strings.TrimSpace(string(r[:titleMaxLength])) + "..."
}
