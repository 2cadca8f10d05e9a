// Package sqlstore is a domain.Store on top of database/sql, backed by
// PostgreSQL (lib/pq) or SQLite (modernc.org/sqlite).
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/PabloGalante/tasktalk/internal/domain"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

func init() {
	sqlx.BindDriver(DialectSQLite, sqlx.QUESTION)
}

type Store struct {
	db *sqlx.DB
}

// Open connects to dsn, checks the connection and applies migrations.
func Open(ctx context.Context, dialect, dsn string, logger *zap.Logger) (*Store, error) {
	if dialect != DialectPostgres && dialect != DialectSQLite {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	db, err := sqlx.ConnectContext(ctx, dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// One writer at a time; avoids SQLITE_BUSY between transactions.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	if err := Migrate(db, dialect, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("successfully connected to the database", zap.String("dialect", dialect))
	return &Store{db: db}, nil
}

// NewStore wraps an already migrated database.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Begin(ctx context.Context) (domain.UnitOfWork, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, domain.E(domain.ErrStore, "sql.Begin", err)
	}
	return &unitOfWork{tx: tx}, nil
}

type conversationRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type messageRow struct {
	ID             string         `db:"id"`
	ConversationID string         `db:"conversation_id"`
	Sender         string         `db:"sender"`
	Content        string         `db:"content"`
	ResponseType   sql.NullString `db:"response_type"`
	ReplyTo        sql.NullString `db:"reply_to"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (r messageRow) toRecord() domain.Record {
	if r.ReplyTo.Valid {
		return &domain.Response{
			ID:             domain.MessageID(r.ID),
			ConversationID: domain.ConversationID(r.ConversationID),
			MessageID:      domain.MessageID(r.ReplyTo.String),
			Content:        r.Content,
			ResponseType:   domain.ResponseType(r.ResponseType.String),
			CreatedAt:      r.CreatedAt.UTC(),
		}
	}
	return &domain.Message{
		ID:             domain.MessageID(r.ID),
		ConversationID: domain.ConversationID(r.ConversationID),
		Sender:         domain.Role(r.Sender),
		Content:        r.Content,
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

func rowFromRecord(rec domain.Record) (messageRow, error) {
	switch r := rec.(type) {
	case *domain.Message:
		return messageRow{
			ID:             string(r.ID),
			ConversationID: string(r.ConversationID),
			Sender:         string(r.Sender),
			Content:        r.Content,
			CreatedAt:      r.CreatedAt.UTC(),
		}, nil
	case *domain.Response:
		return messageRow{
			ID:             string(r.ID),
			ConversationID: string(r.ConversationID),
			Sender:         string(domain.RoleAssistant),
			Content:        r.Content,
			ResponseType:   sql.NullString{String: string(r.ResponseType), Valid: true},
			ReplyTo:        sql.NullString{String: string(r.MessageID), Valid: true},
			CreatedAt:      r.CreatedAt.UTC(),
		}, nil
	}
	return messageRow{}, fmt.Errorf("unsupported record %T", rec)
}

type unitOfWork struct {
	tx *sqlx.Tx
}

func (u *unitOfWork) GetConversation(ctx context.Context, id domain.ConversationID) (*domain.Conversation, error) {
	const op = "sql.GetConversation"

	var row conversationRow
	err := u.tx.GetContext(ctx, &row, u.tx.Rebind(
		`SELECT id, user_id, title, created_at, updated_at FROM conversations WHERE id = ?`), string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.E(domain.ErrNotFound, op, fmt.Errorf("conversation %q", id))
		}
		return nil, domain.E(domain.ErrStore, op, err)
	}

	return &domain.Conversation{
		ID:        domain.ConversationID(row.ID),
		UserID:    domain.UserID(row.UserID),
		Title:     row.Title,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}, nil
}

func (u *unitOfWork) GetConversationMessages(ctx context.Context, id domain.ConversationID, limit, offset int) ([]domain.Record, error) {
	const op = "sql.GetConversationMessages"

	if _, err := u.GetConversation(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = math.MaxInt32
	}
	if offset < 0 {
		offset = 0
	}

	query := u.tx.Rebind(`SELECT id, conversation_id, sender, content, response_type, reply_to, created_at
		FROM messages WHERE conversation_id = ? ORDER BY seq LIMIT ? OFFSET ?`)

	var rows []messageRow
	if err := u.tx.SelectContext(ctx, &rows, query, string(id), limit, offset); err != nil {
		return nil, domain.E(domain.ErrStore, op, err)
	}

	out := make([]domain.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toRecord())
	}
	return out, nil
}

func (u *unitOfWork) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	const op = "sql.CreateConversation"

	_, err := u.tx.NamedExecContext(ctx,
		`INSERT INTO conversations (id, user_id, title, created_at, updated_at)
		VALUES (:id, :user_id, :title, :created_at, :updated_at)`,
		conversationRow{
			ID:        string(conv.ID),
			UserID:    string(conv.UserID),
			Title:     conv.Title,
			CreatedAt: conv.CreatedAt.UTC(),
			UpdatedAt: conv.UpdatedAt.UTC(),
		})
	if err != nil {
		return domain.E(domain.ErrStore, op, err)
	}
	return nil
}

func (u *unitOfWork) Add(ctx context.Context, rec domain.Record) error {
	const op = "sql.Add"

	row, err := rowFromRecord(rec)
	if err != nil {
		return domain.E(domain.ErrStore, op, err)
	}

	_, err = u.tx.NamedExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, sender, content, response_type, reply_to, created_at)
		VALUES (:id, :conversation_id, :sender, :content, :response_type, :reply_to, :created_at)`,
		row)
	if err != nil {
		return domain.E(domain.ErrStore, op, err)
	}
	return nil
}

func (u *unitOfWork) TouchConversation(ctx context.Context, id domain.ConversationID, at time.Time) error {
	const op = "sql.TouchConversation"

	res, err := u.tx.ExecContext(ctx, u.tx.Rebind(
		`UPDATE conversations SET updated_at = ? WHERE id = ?`), at.UTC(), string(id))
	if err != nil {
		return domain.E(domain.ErrStore, op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.E(domain.ErrStore, op, err)
	}
	if n == 0 {
		return domain.E(domain.ErrNotFound, op, fmt.Errorf("conversation %q", id))
	}
	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(); err != nil {
		return domain.E(domain.ErrStore, "sql.Commit", err)
	}
	return nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if err := u.tx.Rollback(); err != nil {
		return domain.E(domain.ErrStore, "sql.Rollback", err)
	}
	return nil
}
