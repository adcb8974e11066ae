package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/youssefsiam38/sessionlog/types"
)

// txContextKey is the context key for storing pgx.Tx
type txContextKey struct{}

// WithTx returns a new context with the given transaction
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext retrieves the transaction from context, or nil if not present
func TxFromContext(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(txContextKey{}).(pgx.Tx); ok {
		return tx
	}
	return nil
}

// querier is a common interface for pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using PostgreSQL with pgx
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// getQuerier returns the transaction from context if present, otherwise the pool
func (s *PostgresStore) getQuerier(ctx context.Context) querier {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.pool
}

// Schema returns the SQL statements required to set up the sessionlog tables.
func Schema() string {
	return `
CREATE TABLE IF NOT EXISTS sessionlog_sessions (
	id UUID PRIMARY KEY,
	identifier TEXT NOT NULL,
	metadata JSONB NOT NULL DEFAULT '{}',
	compaction_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sessionlog_events (
	id UUID PRIMARY KEY,
	session_id UUID NOT NULL REFERENCES sessionlog_sessions(id),
	seq BIGINT NOT NULL,
	author TEXT NOT NULL,
	content JSONB NOT NULL,
	compaction JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (session_id, seq)
);

CREATE INDEX IF NOT EXISTS sessionlog_events_session_seq
	ON sessionlog_events (session_id, seq);
`
}

// CreateSession creates a new conversation session
func (s *PostgresStore) CreateSession(ctx context.Context, identifier string, metadata map[string]any) (string, error) {
	if identifier == "" {
		return "", fmt.Errorf("identifier is required")
	}

	sessionID := uuid.New().String()

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO sessionlog_sessions (id, identifier, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`

	_, err = s.getQuerier(ctx).Exec(ctx, query, sessionID, identifier, metadataJSON)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return sessionID, nil
}

// GetSession retrieves a session by ID
func (s *PostgresStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	query := `
		SELECT id, identifier, metadata, compaction_count, created_at, updated_at
		FROM sessionlog_sessions
		WHERE id = $1
	`

	var session Session
	var metadataJSON []byte

	err := s.getQuerier(ctx).QueryRow(ctx, query, sessionID).Scan(
		&session.ID,
		&session.Identifier,
		&metadataJSON,
		&session.CompactionCount,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err := json.Unmarshal(metadataJSON, &session.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return &session, nil
}

// UpdateSessionCompactionCount increments the compaction count
func (s *PostgresStore) UpdateSessionCompactionCount(ctx context.Context, sessionID string) error {
	query := `
		UPDATE sessionlog_sessions
		SET compaction_count = compaction_count + 1, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := s.getQuerier(ctx).Exec(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update compaction count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	return nil
}

// AppendEvent stores the event at the end of the session's log.
// The sequence index is assigned inside the insert so it stays dense and
// monotonic per session.
func (s *PostgresStore) AppendEvent(ctx context.Context, event *types.Event) (*types.Event, error) {
	if event == nil {
		return nil, ErrNilEvent
	}

	contentJSON, err := json.Marshal(event.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content: %w", err)
	}

	var compactionJSON []byte
	if event.Actions.Compaction != nil {
		compactionJSON, err = json.Marshal(event.Actions.Compaction)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal compaction record: %w", err)
		}
	}

	stored := *event
	stored.ID = uuid.New()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO sessionlog_events (id, session_id, seq, author, content, compaction, created_at)
		VALUES (
			$1, $2,
			COALESCE((SELECT MAX(seq) + 1 FROM sessionlog_events WHERE session_id = $2), 0),
			$3, $4, $5, $6
		)
		RETURNING seq
	`

	err = s.getQuerier(ctx).QueryRow(ctx, query,
		stored.ID,
		stored.SessionID,
		stored.Author,
		contentJSON,
		compactionJSON,
		stored.CreatedAt,
	).Scan(&stored.Sequence)
	if err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	return &stored, nil
}

// GetEvents retrieves all events for a session ordered by sequence
func (s *PostgresStore) GetEvents(ctx context.Context, sessionID string) ([]*types.Event, error) {
	query := `
		SELECT id, session_id, seq, author, content, compaction, created_at
		FROM sessionlog_events
		WHERE session_id = $1
		ORDER BY seq ASC
	`

	rows, err := s.getQuerier(ctx).Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetEventsSince retrieves events with sequence greater than seq
func (s *PostgresStore) GetEventsSince(ctx context.Context, sessionID string, seq int64) ([]*types.Event, error) {
	query := `
		SELECT id, session_id, seq, author, content, compaction, created_at
		FROM sessionlog_events
		WHERE session_id = $1 AND seq > $2
		ORDER BY seq ASC
	`

	rows, err := s.getQuerier(ctx).Query(ctx, query, sessionID, seq)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetCompactionEvents retrieves the events carrying compaction records
func (s *PostgresStore) GetCompactionEvents(ctx context.Context, sessionID string) ([]*types.Event, error) {
	query := `
		SELECT id, session_id, seq, author, content, compaction, created_at
		FROM sessionlog_events
		WHERE session_id = $1 AND compaction IS NOT NULL
		ORDER BY seq ASC
	`

	rows, err := s.getQuerier(ctx).Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query compaction events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// scanEvents is a helper to scan event rows
func scanEvents(rows pgx.Rows) ([]*types.Event, error) {
	var events []*types.Event

	for rows.Next() {
		var ev types.Event
		var contentJSON []byte
		var compactionJSON []byte

		err := rows.Scan(
			&ev.ID,
			&ev.SessionID,
			&ev.Sequence,
			&ev.Author,
			&contentJSON,
			&compactionJSON,
			&ev.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		if err := json.Unmarshal(contentJSON, &ev.Content); err != nil {
			return nil, fmt.Errorf("failed to unmarshal content: %w", err)
		}

		if len(compactionJSON) > 0 {
			ev.Actions.Compaction = &types.Compaction{}
			if err := json.Unmarshal(compactionJSON, ev.Actions.Compaction); err != nil {
				return nil, fmt.Errorf("failed to unmarshal compaction record: %w", err)
			}
		}

		events = append(events, &ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

var _ Store = (*PostgresStore)(nil)
