// Package firestore stores conversations in Cloud Firestore. Conversations
// live in the "conversations" collection, their records in a "messages"
// subcollection.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/tasktalk/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for projectID (TASKTALK_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Begin opens a unit of work. Reads go straight to Firestore; writes are
// collected in a single batch that Commit applies atomically.
func (s *Store) Begin(ctx context.Context) (domain.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.E(domain.ErrStore, "firestore.Begin", err)
	}
	return &unitOfWork{store: s, batch: s.client.Batch()}, nil
}

func (s *Store) conversationsCol() *firestore.CollectionRef {
	return s.client.Collection("conversations")
}

func (s *Store) conversationDoc(id domain.ConversationID) *firestore.DocumentRef {
	return s.conversationsCol().Doc(string(id))
}

func (s *Store) messagesCol(id domain.ConversationID) *firestore.CollectionRef {
	return s.conversationDoc(id).Collection("messages")
}

type unitOfWork struct {
	store  *Store
	batch  *firestore.WriteBatch
	writes int
	done   bool
}

var errFinished = errors.New("unit of work already finished")

func (u *unitOfWork) check(op string) error {
	if u.done {
		return domain.E(domain.ErrStore, op, errFinished)
	}
	return nil
}

func (u *unitOfWork) GetConversation(ctx context.Context, id domain.ConversationID) (*domain.Conversation, error) {
	const op = "firestore.GetConversation"
	if err := u.check(op); err != nil {
		return nil, err
	}

	snap, err := u.store.conversationDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.E(domain.ErrNotFound, op, fmt.Errorf("conversation %q", id))
		}
		return nil, domain.E(domain.ErrStore, op, err)
	}

	var doc conversationDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, domain.E(domain.ErrStore, op, fmt.Errorf("decode: %w", err))
	}
	return doc.toDomain(id), nil
}

func (u *unitOfWork) GetConversationMessages(ctx context.Context, id domain.ConversationID, limit, offset int) ([]domain.Record, error) {
	const op = "firestore.GetConversationMessages"
	if err := u.check(op); err != nil {
		return nil, err
	}

	if _, err := u.GetConversation(ctx, id); err != nil {
		return nil, err
	}

	q := u.store.messagesCol(id).
		OrderBy("created_at", firestore.Asc).
		OrderBy("seq", firestore.Asc)
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []domain.Record{}
	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, domain.E(domain.ErrStore, op, err)
		}

		var doc messageDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, domain.E(domain.ErrStore, op, fmt.Errorf("decode messageDoc: %w", err))
		}
		out = append(out, doc.toRecord(domain.MessageID(snap.Ref.ID), id))
	}
	return out, nil
}

func (u *unitOfWork) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	const op = "firestore.CreateConversation"
	if err := u.check(op); err != nil {
		return err
	}

	u.batch.Create(u.store.conversationDoc(conv.ID), conversationToDoc(conv))
	u.writes++
	return nil
}

func (u *unitOfWork) Add(ctx context.Context, rec domain.Record) error {
	const op = "firestore.Add"
	if err := u.check(op); err != nil {
		return err
	}

	doc, conv, err := recordToDoc(rec)
	if err != nil {
		return domain.E(domain.ErrStore, op, err)
	}
	doc.Seq = u.writes

	u.batch.Create(u.store.messagesCol(conv).Doc(string(rec.RecordID())), doc)
	u.writes++
	return nil
}

func (u *unitOfWork) TouchConversation(ctx context.Context, id domain.ConversationID, at time.Time) error {
	const op = "firestore.TouchConversation"
	if err := u.check(op); err != nil {
		return err
	}

	u.batch.Update(u.store.conversationDoc(id), []firestore.Update{
		{Path: "updated_at", Value: at},
	})
	u.writes++
	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	const op = "firestore.Commit"
	if err := u.check(op); err != nil {
		return err
	}
	u.done = true

	if u.writes == 0 {
		return nil
	}
	if _, err := u.batch.Commit(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.E(domain.ErrNotFound, op, err)
		}
		return domain.E(domain.ErrStore, op, err)
	}
	return nil
}

// Rollback drops the pending batch; nothing has been sent yet.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if err := u.check("firestore.Rollback"); err != nil {
		return err
	}
	u.done = true
	u.batch = nil
	return nil
}
