package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"freight-voice-backend/pkg/utils"
)

// Store is the persistence contract for the call event log.
//
// It MUST be append-only. No update or delete methods are provided.

type Store interface {
	// Append normalizes the event type, JSON-encodes the payload and inserts
	// the event with a store-assigned id and UTC timestamp.
	Append(ctx context.Context, callID, eventType string, payload any) (Event, error)
	// EventsFor returns all events for a call id, oldest first (id order).
	EventsFor(ctx context.Context, callID string) ([]Event, error)
	// DistinctCallIDs enumerates call ids, most recently active first,
	// excluding blank and placeholder ids.
	DistinctCallIDs(ctx context.Context) ([]string, error)
	// Recent returns the newest events across all calls, newest first.
	Recent(ctx context.Context, limit int) ([]Event, error)
	// LatestCallWith returns the call id of the newest event whose type is
	// typeA or typeB, or "" when no such event exists.
	LatestCallWith(ctx context.Context, typeA, typeB string) (string, error)
	// LatestByType returns the newest event of the given type across all
	// calls. The bool reports whether one exists.
	LatestByType(ctx context.Context, eventType string) (Event, bool, error)
	Count(ctx context.Context) (int, error)
}

// ParseTimestamp parses a stored timestamp, accepting any RFC3339 variant.
// The bool reports whether the value was parsable.
func ParseTimestamp(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// PostgresStore persists events in the events table.
//
// NOTE: assumes the events table from migrations/000001_init.up.sql exists.

type PostgresStore struct {
	db    *sql.DB
	clock func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, clock: time.Now}
}

func (s *PostgresStore) Append(ctx context.Context, callID, eventType string, payload any) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("events: encode payload: %w", err)
	}
	e := Event{
		CallID:    callID,
		EventType: NormalizeType(eventType),
		Payload:   string(body),
		Timestamp: utils.FormatUTC(s.clock()),
	}

	const q = `
INSERT INTO events (call_id, event_type, payload, ts)
VALUES ($1,$2,$3,$4)
RETURNING id
`
	if err := s.db.QueryRowContext(ctx, q, e.CallID, e.EventType, e.Payload, e.Timestamp).Scan(&e.ID); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *PostgresStore) EventsFor(ctx context.Context, callID string) ([]Event, error) {
	const q = `
SELECT id, call_id, event_type, payload, ts
FROM events
WHERE call_id = $1
ORDER BY id ASC
`
	rows, err := s.db.QueryContext(ctx, q, callID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *PostgresStore) DistinctCallIDs(ctx context.Context) ([]string, error) {
	const q = `
SELECT call_id
FROM events
WHERE call_id IS NOT NULL AND TRIM(call_id) <> '' AND call_id <> $1
GROUP BY call_id
ORDER BY MAX(id) DESC
`
	rows, err := s.db.QueryContext(ctx, q, UnknownCallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Event, error) {
	const q = `
SELECT id, call_id, event_type, payload, ts
FROM events
ORDER BY id DESC
LIMIT $1
`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *PostgresStore) LatestCallWith(ctx context.Context, typeA, typeB string) (string, error) {
	const q = `
SELECT call_id
FROM events
WHERE event_type IN ($1,$2)
ORDER BY id DESC
LIMIT 1
`
	var id string
	if err := s.db.QueryRowContext(ctx, q, typeA, typeB).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return id, nil
}

func (s *PostgresStore) LatestByType(ctx context.Context, eventType string) (Event, bool, error) {
	const q = `
SELECT id, call_id, event_type, payload, ts
FROM events
WHERE event_type = $1
ORDER BY id DESC
LIMIT 1
`
	var e Event
	err := s.db.QueryRowContext(ctx, q, eventType).Scan(
		&e.ID,
		&e.CallID,
		&e.EventType,
		&e.Payload,
		&e.Timestamp,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Event{}, false, nil
		}
		return Event{}, false, err
	}
	return e, true, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM events`
	var n int
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.CallID, &e.EventType, &e.Payload, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
