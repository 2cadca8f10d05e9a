package responder_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/tasktalk/internal/app/responder"
	"github.com/PabloGalante/tasktalk/internal/domain"
)

var inputs = []string{
	"hello",
	"What's the weather like?",
	"How do I add a task?",
	"Tell me a joke about pirates",
	"ok",
	strings.Repeat("lorem ipsum ", 800),
	"<b>¿qué tal?</b> 🚀 \x00",
}

func TestGenerateResponseKeywordContracts(t *testing.T) {
	g := responder.New(nil)

	for _, in := range inputs {
		for _, category := range domain.Categories() {
			reply := g.GenerateResponse(in, category)
			require.NotEmpty(t, reply)
			assert.NoError(t, responder.Validate(category, reply), "category %s, input %q: %s", category, in, reply)
		}
	}
}

func TestNonTaskReplyHasTaskWordAndQualifier(t *testing.T) {
	g := responder.New(nil)

	for _, in := range inputs {
		reply := strings.ToLower(g.GenerateResponse(in, domain.CategoryNonTask))
		assert.True(t, containsAny(reply, "task", "manage", "productivity"), reply)
		assert.Contains(t, reply, "related")
	}
}

func TestGreetingReplyHasGreetingAndHelp(t *testing.T) {
	g := responder.New(nil)

	for _, in := range inputs {
		reply := strings.ToLower(g.GenerateResponse(in, domain.CategoryGreeting))
		assert.True(t, containsAny(reply, "hello", "hi ", "hey"), reply)
		assert.True(t, containsAny(reply, "task", "help"), reply)
	}
}

func TestTaskGuidanceFollowsRequestedOperation(t *testing.T) {
	g := responder.New(nil)

	cases := map[string]string{
		"please add buy milk":           "To add a task",
		"how do I complete a task":      "To complete a task",
		"show me my list":               "To show your tasks",
		"remove the dentist task":       "To delete a task",
		"what can you do with my tasks": "tasks",
	}
	for in, want := range cases {
		assert.Contains(t, g.GenerateResponse(in, domain.CategoryTaskRelated), want, in)
	}

	both := g.GenerateResponse("delete the old one and add a new one", domain.CategoryTaskRelated)
	assert.Less(t, strings.Index(both, "To add"), strings.Index(both, "To delete"))
}

func TestUnknownCategoryGetsGeneralReply(t *testing.T) {
	g := responder.New(nil)

	reply := g.GenerateResponse("anything", domain.Category("smalltalk"))
	assert.NotEmpty(t, reply)
	assert.Equal(t, responder.Fallback("smalltalk"), reply)
}

type drafterFunc func(ctx context.Context, text string, category domain.Category) (string, error)

func (f drafterFunc) Draft(ctx context.Context, text string, category domain.Category, _ domain.ConversationContext) (string, error) {
	return f(ctx, text, category)
}

func TestValidationKeepsGoodDraft(t *testing.T) {
	g := responder.New(drafterFunc(func(context.Context, string, domain.Category) (string, error) {
		return "Sure, I can add that task for you.", nil
	}))

	reply, err := g.GenerateResponseWithValidation(context.Background(), "add milk", domain.CategoryTaskRelated, nil)
	require.NoError(t, err)
	assert.Equal(t, "Sure, I can add that task for you.", reply)
}

func TestValidationFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		drafter drafterFunc
	}{
		{
			name: "drafter error",
			drafter: func(context.Context, string, domain.Category) (string, error) {
				return "", errors.New("upstream unavailable")
			},
		},
		{
			name: "empty draft",
			drafter: func(context.Context, string, domain.Category) (string, error) {
				return "   ", nil
			},
		},
		{
			name: "missing keywords",
			drafter: func(context.Context, string, domain.Category) (string, error) {
				return "Pirates say arr.", nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := responder.New(tt.drafter)

			for _, category := range domain.Categories() {
				reply, err := g.GenerateResponseWithValidation(context.Background(), "tell me a joke", category, &domain.ConversationContext{})
				require.NoError(t, err)
				assert.Equal(t, responder.Fallback(category), reply)
				assert.NoError(t, responder.Validate(category, reply))
			}
		})
	}
}

func TestValidationEscalatesUnrecoverable(t *testing.T) {
	t.Run("panic", func(t *testing.T) {
		g := responder.New(drafterFunc(func(context.Context, string, domain.Category) (string, error) {
			panic("template table corrupted")
		}))

		_, err := g.GenerateResponseWithValidation(context.Background(), "hi", domain.CategoryGreeting, nil)
		assert.ErrorIs(t, err, domain.ErrGeneration)
		assert.ErrorIs(t, err, domain.ErrFatal)
	})

	t.Run("fatal error", func(t *testing.T) {
		g := responder.New(drafterFunc(func(context.Context, string, domain.Category) (string, error) {
			return "", domain.ErrFatal
		}))

		_, err := g.GenerateResponseWithValidation(context.Background(), "hi", domain.CategoryGreeting, nil)
		assert.ErrorIs(t, err, domain.ErrGeneration)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := responder.New(nil).GenerateResponseWithValidation(ctx, "hi", domain.CategoryGreeting, nil)
		assert.ErrorIs(t, err, domain.ErrGeneration)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
