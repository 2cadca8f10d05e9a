package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/tasktalk/internal/adapters/storage/memory"
	"github.com/PabloGalante/tasktalk/internal/domain"
)

func seed(t *testing.T, s *memory.Store, id domain.ConversationID) {
	t.Helper()
	ctx := context.Background()

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, uow.CreateConversation(ctx, &domain.Conversation{
		ID: id, UserID: "u1", Title: "t", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, uow.Commit(ctx))
}

func message(conv domain.ConversationID, id, text string) *domain.Message {
	return &domain.Message{
		ID:             domain.MessageID(id),
		ConversationID: conv,
		Sender:         domain.RoleUser,
		Content:        text,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestCommitMakesWritesVisible(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seed(t, s, "c1")

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Add(ctx, message("c1", "m1", "hi")))
	require.NoError(t, uow.Add(ctx, &domain.Response{
		ID: "r1", ConversationID: "c1", MessageID: "m1", Content: "hello", ResponseType: domain.ResponseGreeting,
	}))

	reader, err := s.Begin(ctx)
	require.NoError(t, err)
	recs, err := reader.GetConversationMessages(ctx, "c1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, recs)
	require.NoError(t, reader.Rollback(ctx))

	require.NoError(t, uow.Commit(ctx))

	reader, err = s.Begin(ctx)
	require.NoError(t, err)
	defer reader.Rollback(ctx)

	recs, err = reader.GetConversationMessages(ctx, "c1", 10, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, domain.MessageID("m1"), recs[0].RecordID())
	assert.Equal(t, domain.MessageID("r1"), recs[1].RecordID())
}

func TestRollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seed(t, s, "c1")

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Add(ctx, message("c1", "m1", "hi")))
	require.NoError(t, uow.Rollback(ctx))

	assert.ErrorIs(t, uow.Commit(ctx), domain.ErrStore)
	assert.ErrorIs(t, uow.Rollback(ctx), domain.ErrStore)

	reader, err := s.Begin(ctx)
	require.NoError(t, err)
	defer reader.Rollback(ctx)
	recs, err := reader.GetConversationMessages(ctx, "c1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestUnknownConversation(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	defer uow.Rollback(ctx)

	_, err = uow.GetConversation(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uow.GetConversationMessages(ctx, "nope", 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCommitIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seed(t, s, "c1")

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Add(ctx, message("c1", "m1", "hi")))
	require.NoError(t, uow.Add(ctx, message("ghost", "m2", "boo")))
	assert.ErrorIs(t, uow.Commit(ctx), domain.ErrNotFound)

	reader, err := s.Begin(ctx)
	require.NoError(t, err)
	defer reader.Rollback(ctx)
	recs, err := reader.GetConversationMessages(ctx, "c1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestCreateAndUseConversationInSameUnit(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.CreateConversation(ctx, &domain.Conversation{ID: "c1", UserID: "u1"}))

	conv, err := uow.GetConversation(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), conv.UserID)

	require.NoError(t, uow.Add(ctx, message("c1", "m1", "first")))
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, uow.TouchConversation(ctx, "c1", at))
	require.NoError(t, uow.Commit(ctx))

	reader, err := s.Begin(ctx)
	require.NoError(t, err)
	defer reader.Rollback(ctx)
	conv, err = reader.GetConversation(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, at, conv.UpdatedAt)
}

func TestDuplicateConversation(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seed(t, s, "c1")

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.CreateConversation(ctx, &domain.Conversation{ID: "c1"}))
	assert.ErrorIs(t, uow.Commit(ctx), domain.ErrStore)
}

func TestPaging(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seed(t, s, "c1")

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, uow.Add(ctx, message("c1", id, id)))
	}
	require.NoError(t, uow.Commit(ctx))

	reader, err := s.Begin(ctx)
	require.NoError(t, err)
	defer reader.Rollback(ctx)

	recs, err := reader.GetConversationMessages(ctx, "c1", 2, 1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, domain.MessageID("b"), recs[0].RecordID())
	assert.Equal(t, domain.MessageID("c"), recs[1].RecordID())

	recs, err = reader.GetConversationMessages(ctx, "c1", 2, 9)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestConcurrentUnitsOfWork(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seed(t, s, "c1")

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uow, err := s.Begin(ctx)
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, uow.Add(ctx, message("c1", domain.NewID(), "x")))
			assert.NoError(t, uow.TouchConversation(ctx, "c1", time.Now()))
			assert.NoError(t, uow.Commit(ctx))
		}()
	}
	wg.Wait()

	reader, err := s.Begin(ctx)
	require.NoError(t, err)
	defer reader.Rollback(ctx)
	recs, err := reader.GetConversationMessages(ctx, "c1", 100, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 20)
}
