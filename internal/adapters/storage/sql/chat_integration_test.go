package sqlstore_test

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/tasktalk/internal/app/chat"
	"github.com/PabloGalante/tasktalk/internal/app/classifier"
	"github.com/PabloGalante/tasktalk/internal/app/responder"
	"github.com/PabloGalante/tasktalk/internal/domain"
)

func TestChatServiceOnSQLite(t *testing.T) {
	ctx := context.Background()
	s, _ := openSQLite(t)
	svc := chat.NewService(s, classifier.New(), responder.New(nil), nil)

	conv, err := svc.StartConversation(ctx, "u1", "")
	require.NoError(t, err)

	reply, err := svc.HandleMessage(ctx, conv, "How do I add a task?", "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, reply)

	_, err = svc.HandleMessage(ctx, "missing", "hello", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	seq, err := svc.ConversationHistory(ctx, conv, 10, 0)
	require.NoError(t, err)
	entries := slices.Collect(seq)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.RoleUser, entries[0].Role)
	assert.Equal(t, domain.ResponseTaskGuidance, entries[1].ResponseType)
	assert.Equal(t, reply, entries[1].Content)
}
