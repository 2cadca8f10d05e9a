package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/PabloGalante/tasktalk/internal/domain"
	"github.com/PabloGalante/tasktalk/internal/observability"
)

const DefaultModel = "gemini-2.5-flash"

type VertexConfig struct {
	ProjectID string
	Location  string
	Model     string
}

// VertexDrafter drafts replies with Vertex AI (Gemini). Drafts are checked
// by the responder before they reach the user.
type VertexDrafter struct {
	client    *genai.Client
	modelName string
}

func NewVertexDrafter(ctx context.Context, cfg VertexConfig) (*VertexDrafter, error) {
	if cfg.ProjectID == "" || cfg.Location == "" {
		return nil, errors.New("vertex drafter needs a GCP project and location")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.ProjectID,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexDrafter{
		client:    client,
		modelName: cfg.Model,
	}, nil
}

// Draft implements domain.Drafter.
func (v *VertexDrafter) Draft(
	ctx context.Context,
	text string,
	category domain.Category,
	convCtx domain.ConversationContext,
) (string, error) {
	log := observability.LoggerFromContext(ctx).With(
		zap.String("model", v.modelName),
		zap.String("conversation_id", string(convCtx.ConversationID)),
	)

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	cfg := generationConfig(category)

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		log.Warn("vertex generate content failed", zap.Error(err))
		return "", fmt.Errorf("vertex generate content: %w", err)
	}

	reply := strings.TrimSpace(res.Text())
	if reply == "" {
		return "", errors.New("vertex returned empty text")
	}
	return reply, nil
}

func generationConfig(category domain.Category) *genai.GenerateContentConfig {
	temp := float32(0.3)
	topP := float32(0.9)

	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(category), genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   256,
	}
}
