package firestore

import (
	"fmt"
	"time"

	"github.com/PabloGalante/tasktalk/internal/domain"
)

type conversationDoc struct {
	UserID    string    `firestore:"user_id"`
	Title     string    `firestore:"title"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func conversationToDoc(c *domain.Conversation) conversationDoc {
	return conversationDoc{
		UserID:    string(c.UserID),
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (d conversationDoc) toDomain(id domain.ConversationID) *domain.Conversation {
	return &domain.Conversation{
		ID:        id,
		UserID:    domain.UserID(d.UserID),
		Title:     d.Title,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// messageDoc holds both record kinds; a set ReplyTo marks a response.
// Seq orders records written in the same unit of work.
type messageDoc struct {
	ConversationID string    `firestore:"conversation_id"`
	Sender         string    `firestore:"sender"`
	Content        string    `firestore:"content"`
	ResponseType   string    `firestore:"response_type,omitempty"`
	ReplyTo        *string   `firestore:"reply_to"`
	CreatedAt      time.Time `firestore:"created_at"`
	Seq            int       `firestore:"seq"`
}

func recordToDoc(rec domain.Record) (messageDoc, domain.ConversationID, error) {
	switch r := rec.(type) {
	case *domain.Message:
		return messageDoc{
			ConversationID: string(r.ConversationID),
			Sender:         string(r.Sender),
			Content:        r.Content,
			CreatedAt:      r.CreatedAt,
		}, r.ConversationID, nil
	case *domain.Response:
		replyTo := string(r.MessageID)
		return messageDoc{
			ConversationID: string(r.ConversationID),
			Sender:         string(domain.RoleAssistant),
			Content:        r.Content,
			ResponseType:   string(r.ResponseType),
			ReplyTo:        &replyTo,
			CreatedAt:      r.CreatedAt,
		}, r.ConversationID, nil
	}
	return messageDoc{}, "", fmt.Errorf("unsupported record %T", rec)
}

func (d messageDoc) toRecord(id domain.MessageID, conv domain.ConversationID) domain.Record {
	if d.ReplyTo != nil {
		return &domain.Response{
			ID:             id,
			ConversationID: conv,
			MessageID:      domain.MessageID(*d.ReplyTo),
			Content:        d.Content,
			ResponseType:   domain.ResponseType(d.ResponseType),
			CreatedAt:      d.CreatedAt,
		}
	}
	return &domain.Message{
		ID:             id,
		ConversationID: conv,
		Sender:         domain.Role(d.Sender),
		Content:        d.Content,
		CreatedAt:      d.CreatedAt,
	}
}
