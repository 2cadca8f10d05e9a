package domain

import (
	"time"

	"github.com/google/uuid"
)

type ConversationID string
type UserID string
type MessageID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Category is the intent assigned to a user message. The set is closed:
// classification always yields exactly one of these.
type Category string

const (
	CategoryGreeting    Category = "greeting"
	CategoryTaskRelated Category = "task_related"
	CategoryNonTask     Category = "non_task"
)

// Categories returns every known category in a stable order.
func Categories() []Category {
	return []Category{CategoryGreeting, CategoryTaskRelated, CategoryNonTask}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryGreeting, CategoryTaskRelated, CategoryNonTask:
		return true
	}
	return false
}

// ResponseType labels a stored generated reply.
type ResponseType string

const (
	ResponseTaskGuidance    ResponseType = "task_guidance"
	ResponseGreeting        ResponseType = "greeting"
	ResponseBoundarySetting ResponseType = "boundary_setting"
	ResponseGeneral         ResponseType = "general"
)

// ConfidenceScores holds one score per category; values sum to 1.
type ConfidenceScores map[Category]float64

type Timestamp = time.Time

// NewID returns a random identifier suitable for conversations and messages.
func NewID() string {
	return uuid.NewString()
}
