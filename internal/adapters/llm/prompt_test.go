package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/tasktalk/internal/domain"
)

func TestSystemPromptPerCategory(t *testing.T) {
	assert.Contains(t, SystemPrompt(domain.CategoryGreeting), `"hello"`)
	assert.Contains(t, SystemPrompt(domain.CategoryTaskRelated), "add, complete, show or delete")
	assert.Contains(t, SystemPrompt(domain.CategoryNonTask), `"related"`)
	assert.Contains(t, SystemPrompt("other"), "offer help")

	for _, c := range domain.Categories() {
		assert.Contains(t, SystemPrompt(c), "TaskTalk")
	}
}

func TestGenerationConfig(t *testing.T) {
	cfg := generationConfig(domain.CategoryNonTask)
	require.NotNil(t, cfg.SystemInstruction)
	require.Len(t, cfg.SystemInstruction.Parts, 1)
	assert.Equal(t, SystemPrompt(domain.CategoryNonTask), cfg.SystemInstruction.Parts[0].Text)
	assert.EqualValues(t, 256, cfg.MaxOutputTokens)
}

func TestNewVertexDrafterRequiresProject(t *testing.T) {
	_, err := NewVertexDrafter(context.Background(), VertexConfig{Location: "us-central1"})
	assert.Error(t, err)
}
