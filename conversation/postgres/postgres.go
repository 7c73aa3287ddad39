// Package postgres provides a PostgreSQL-backed conversation store.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chatbot "github.com/AnandaDly/chatbot3"
)

// Store implements chatbot.ConversationStore with PostgreSQL. The
// owner key is the partition key and the serial id the sort key, so a
// single indexed scan over (owner_key, created_at, id) serves paging.
type Store struct {
	pool      *pgxpool.Pool
	tableName string
}

// Option configures the store.
type Option func(*Store)

// WithTableName sets a custom table name.
func WithTableName(name string) Option {
	return func(s *Store) {
		s.tableName = name
	}
}

// New creates a new PostgreSQL conversation store.
func New(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{
		pool:      pool,
		tableName: "conversation_turns",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append inserts one turn. The serial id makes concurrent appends for
// the same owner both succeed with distinct ids; no application-level
// locking is needed because turns are never updated.
func (s *Store) Append(ctx context.Context, ownerKey, userInput, assistantResponse string) (*chatbot.ConversationTurn, error) {
	turn := chatbot.ConversationTurn{
		OwnerKey:          ownerKey,
		UserInput:         userInput,
		AssistantResponse: assistantResponse,
		CreatedAt:         time.Now().UTC(),
		IsAnonymousOwner:  chatbot.IsAnonymousKey(ownerKey),
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (owner_key, input, response, created_at, is_anonymous)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, s.tableName)

	err := s.pool.QueryRow(ctx, query,
		turn.OwnerKey, turn.UserInput, turn.AssistantResponse, turn.CreatedAt, turn.IsAnonymousOwner,
	).Scan(&turn.ID)
	if err != nil {
		return nil, chatbot.NewStorageError("appending turn", err)
	}

	return &turn, nil
}

// Page returns one page of the owner's turns, newest first, ties
// broken by id ascending. The total is recomputed on every call.
func (s *Store) Page(ctx context.Context, ownerKey string, pageNumber, pageSize int) (*chatbot.Page, error) {
	if pageNumber < 1 || pageSize < 1 {
		return nil, chatbot.NewChatError(chatbot.ErrCodeValidation,
			"page number and page size must be positive", chatbot.ErrInvalidPage)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE owner_key = $1`, s.tableName)
	if err := s.pool.QueryRow(ctx, countQuery, ownerKey).Scan(&total); err != nil {
		return nil, chatbot.NewStorageError("counting turns", err)
	}

	query := fmt.Sprintf(`
		SELECT id, owner_key, input, response, created_at, is_anonymous
		FROM %s
		WHERE owner_key = $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2 OFFSET $3
	`, s.tableName)

	rows, err := s.pool.Query(ctx, query, ownerKey, pageSize, (pageNumber-1)*pageSize)
	if err != nil {
		return nil, chatbot.NewStorageError("querying turns", err)
	}
	defer rows.Close()

	items, err := scanTurns(rows)
	if err != nil {
		return nil, err
	}

	return &chatbot.Page{
		Items:      items,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: chatbot.TotalPages(total, pageSize),
	}, nil
}

// ScanAll returns every turn across all owners, for operator tooling.
func (s *Store) ScanAll(ctx context.Context) ([]chatbot.ConversationTurn, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_key, input, response, created_at, is_anonymous
		FROM %s
	`, s.tableName)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, chatbot.NewStorageError("scanning turns", err)
	}
	defer rows.Close()

	return scanTurns(rows)
}

func scanTurns(rows pgx.Rows) ([]chatbot.ConversationTurn, error) {
	turns := []chatbot.ConversationTurn{}
	for rows.Next() {
		var t chatbot.ConversationTurn
		if err := rows.Scan(
			&t.ID, &t.OwnerKey, &t.UserInput, &t.AssistantResponse, &t.CreatedAt, &t.IsAnonymousOwner,
		); err != nil {
			return nil, chatbot.NewStorageError("scanning row", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, chatbot.NewStorageError("reading rows", err)
	}
	return turns, nil
}

// Migration returns the SQL to create the conversation turns table.
func Migration(tableName string) string {
	if tableName == "" {
		tableName = "conversation_turns"
	}
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			owner_key TEXT NOT NULL,
			input TEXT NOT NULL,
			response TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_anonymous BOOLEAN NOT NULL DEFAULT FALSE
		);

		CREATE INDEX IF NOT EXISTS idx_%s_owner_created ON %s (owner_key, created_at DESC, id ASC);
	`, tableName, tableName, tableName)
}
