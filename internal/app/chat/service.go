// Package chat wires the classifier and the responder to a domain.Store and
// persists every handled exchange in a single unit of work.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/PabloGalante/tasktalk/internal/domain"
	"github.com/PabloGalante/tasktalk/internal/observability"
)

const (
	// MaxMessageLength is the longest accepted message, in characters.
	MaxMessageLength = 10000
	// DefaultHistoryLimit applies when ConversationHistory gets limit <= 0.
	DefaultHistoryLimit = 10
)

type Classifier interface {
	ClassifyMessage(text string) domain.Category
	ConfidenceScores(text string) domain.ConfidenceScores
}

type Generator interface {
	GenerateResponse(text string, category domain.Category) string
	GenerateResponseWithValidation(ctx context.Context, text string, category domain.Category, convCtx *domain.ConversationContext) (string, error)
}

type Service struct {
	store      domain.Store
	classifier Classifier
	generator  Generator
	metrics    *observability.Metrics
	now        func() time.Time
}

// NewService returns a Service. metrics may be nil.
func NewService(
	store domain.Store,
	classifier Classifier,
	generator Generator,
	metrics *observability.Metrics,
) *Service {
	return &Service{
		store:      store,
		classifier: classifier,
		generator:  generator,
		metrics:    metrics,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ValidateMessage rejects blank messages and messages longer than
// MaxMessageLength characters.
func ValidateMessage(text string) error {
	const op = "chat.ValidateMessage"

	if strings.TrimSpace(text) == "" {
		return domain.E(domain.ErrValidation, op, errors.New("message must not be empty"))
	}
	if n := utf8.RuneCountInString(text); n > MaxMessageLength {
		return domain.E(domain.ErrValidation, op,
			fmt.Errorf("message is %d characters, limit is %d", n, MaxMessageLength))
	}
	return nil
}

// MapCategoryToResponseType is total: unknown categories map to
// domain.ResponseGeneral.
func MapCategoryToResponseType(category domain.Category) domain.ResponseType {
	switch category {
	case domain.CategoryTaskRelated:
		return domain.ResponseTaskGuidance
	case domain.CategoryGreeting:
		return domain.ResponseGreeting
	case domain.CategoryNonTask:
		return domain.ResponseBoundarySetting
	default:
		return domain.ResponseGeneral
	}
}

// HandleMessage classifies userMessage, generates a reply and persists both
// the message and the reply in one unit of work. On any failure after the
// unit of work is opened nothing is persisted.
func (s *Service) HandleMessage(
	ctx context.Context,
	conversationID domain.ConversationID,
	userMessage string,
	userID domain.UserID,
) (reply string, err error) {
	const op = "chat.HandleMessage"

	start := time.Now()
	var category domain.Category
	defer func() {
		s.metrics.ObserveMessage(category, err, time.Since(start))
	}()

	if err := ValidateMessage(userMessage); err != nil {
		return "", err
	}

	log := observability.LoggerFromContext(ctx).With(
		zap.String("conversation_id", string(conversationID)),
		zap.String("user_id", string(userID)),
	)

	uow, err := s.store.Begin(ctx)
	if err != nil {
		log.Error("failed to begin unit of work", zap.Error(err))
		return "", domain.Wrap(domain.ErrStore, op, err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := uow.Rollback(ctx); rbErr != nil {
			log.Error("rollback failed", zap.Error(rbErr))
		}
		log.Warn("message handling failed", zap.String("kind", domain.KindName(err)), zap.Error(err))
	}()

	conv, err := uow.GetConversation(ctx, conversationID)
	if err != nil {
		return "", domain.Wrap(domain.ErrStore, op, err)
	}

	now := s.now()
	msg := &domain.Message{
		ID:             domain.MessageID(domain.NewID()),
		ConversationID: conv.ID,
		Sender:         domain.RoleUser,
		Content:        userMessage,
		CreatedAt:      now,
	}

	category, err = s.classify(userMessage)
	if err != nil {
		return "", err
	}
	responseType := MapCategoryToResponseType(category)
	log.Debug("message classified",
		zap.String("category", string(category)),
		zap.String("response_type", string(responseType)),
	)

	reply, err = s.generate(ctx, userMessage, category, &domain.ConversationContext{
		ConversationID: conv.ID,
		UserID:         userID,
	})
	if err != nil {
		return "", err
	}

	resp := &domain.Response{
		ID:             domain.MessageID(domain.NewID()),
		ConversationID: conv.ID,
		MessageID:      msg.ID,
		Content:        reply,
		ResponseType:   responseType,
		CreatedAt:      s.now(),
	}

	if err = uow.Add(ctx, msg); err != nil {
		return "", domain.Wrap(domain.ErrStore, op, err)
	}
	if err = uow.Add(ctx, resp); err != nil {
		return "", domain.Wrap(domain.ErrStore, op, err)
	}
	if err = uow.TouchConversation(ctx, conv.ID, resp.CreatedAt); err != nil {
		return "", domain.Wrap(domain.ErrStore, op, err)
	}
	if err = uow.Commit(ctx); err != nil {
		return "", domain.Wrap(domain.ErrStore, op, err)
	}

	log.Info("message handled",
		zap.String("message_id", string(msg.ID)),
		zap.String("category", string(category)),
	)
	return reply, nil
}

func (s *Service) classify(text string) (category domain.Category, err error) {
	const op = "chat.classify"

	defer func() {
		if r := recover(); r != nil {
			err = domain.E(domain.ErrClassification, op, fmt.Errorf("panic: %v", r))
		}
	}()
	return s.classifier.ClassifyMessage(text), nil
}

func (s *Service) generate(
	ctx context.Context,
	text string,
	category domain.Category,
	convCtx *domain.ConversationContext,
) (reply string, err error) {
	const op = "chat.generate"

	defer func() {
		if r := recover(); r != nil {
			err = domain.E(domain.ErrGeneration, op, fmt.Errorf("panic: %v", r))
		}
	}()

	reply, err = s.generator.GenerateResponseWithValidation(ctx, text, category, convCtx)
	if err != nil {
		return "", domain.Wrap(domain.ErrGeneration, op, err)
	}
	return reply, nil
}
