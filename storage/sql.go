package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/youssefsiam38/sessionlog/types"
)

// SQLStore implements Store using database/sql.
// It targets PostgreSQL; use github.com/lib/pq as the driver.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates a new database/sql-backed store
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// CreateSession creates a new conversation session
func (s *SQLStore) CreateSession(ctx context.Context, identifier string, metadata map[string]any) (string, error) {
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

	_, err = s.db.ExecContext(ctx, query, sessionID, identifier, metadataJSON)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return sessionID, nil
}

// GetSession retrieves a session by ID
func (s *SQLStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	query := `
		SELECT id, identifier, metadata, compaction_count, created_at, updated_at
		FROM sessionlog_sessions
		WHERE id = $1
	`

	var session Session
	var metadataJSON []byte

	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(
		&session.ID,
		&session.Identifier,
		&metadataJSON,
		&session.CompactionCount,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if err == sql.ErrNoRows {
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
func (s *SQLStore) UpdateSessionCompactionCount(ctx context.Context, sessionID string) error {
	query := `
		UPDATE sessionlog_sessions
		SET compaction_count = compaction_count + 1, updated_at = NOW()
		WHERE id = $1
	`

	res, err := s.db.ExecContext(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update compaction count: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	return nil
}

// AppendEvent stores the event at the end of the session's log
func (s *SQLStore) AppendEvent(ctx context.Context, event *types.Event) (*types.Event, error) {
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

	err = s.db.QueryRowContext(ctx, query,
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
func (s *SQLStore) GetEvents(ctx context.Context, sessionID string) ([]*types.Event, error) {
	query := `
		SELECT id, session_id, seq, author, content, compaction, created_at
		FROM sessionlog_events
		WHERE session_id = $1
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanSQLEvents(rows)
}

// GetEventsSince retrieves events with sequence greater than seq
func (s *SQLStore) GetEventsSince(ctx context.Context, sessionID string, seq int64) ([]*types.Event, error) {
	query := `
		SELECT id, session_id, seq, author, content, compaction, created_at
		FROM sessionlog_events
		WHERE session_id = $1 AND seq > $2
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID, seq)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanSQLEvents(rows)
}

// GetCompactionEvents retrieves the events carrying compaction records
func (s *SQLStore) GetCompactionEvents(ctx context.Context, sessionID string) ([]*types.Event, error) {
	query := `
		SELECT id, session_id, seq, author, content, compaction, created_at
		FROM sessionlog_events
		WHERE session_id = $1 AND compaction IS NOT NULL
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query compaction events: %w", err)
	}
	defer rows.Close()

	return scanSQLEvents(rows)
}

// scanSQLEvents is a helper to scan event rows
func scanSQLEvents(rows *sql.Rows) ([]*types.Event, error) {
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

var _ Store = (*SQLStore)(nil)
