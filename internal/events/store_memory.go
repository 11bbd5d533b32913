package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"freight-voice-backend/pkg/utils"
)

// MemoryStore is an in-memory Store useful for tests. It applies the same
// type normalization and id/timestamp assignment as the Postgres store.
// Not intended for production use.

type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	events []Event

	// Clock is injectable for deterministic timestamps in tests.
	Clock func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, Clock: time.Now}
}

func (s *MemoryStore) Append(ctx context.Context, callID, eventType string, payload any) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("events: encode payload: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := Event{
		ID:        s.nextID,
		CallID:    callID,
		EventType: NormalizeType(eventType),
		Payload:   string(body),
		Timestamp: utils.FormatUTC(s.Clock()),
	}
	s.nextID++
	s.events = append(s.events, e)
	return e, nil
}

// AppendRaw inserts an event with a caller-chosen timestamp and payload
// text, bypassing encoding. Tests use it to shape historical sequences.
func (s *MemoryStore) AppendRaw(callID, eventType, rawPayload, timestamp string) Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := Event{
		ID:        s.nextID,
		CallID:    callID,
		EventType: NormalizeType(eventType),
		Payload:   rawPayload,
		Timestamp: timestamp,
	}
	s.nextID++
	s.events = append(s.events, e)
	return e
}

func (s *MemoryStore) EventsFor(ctx context.Context, callID string) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, e := range s.events {
		if e.CallID == callID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryStore) DistinctCallIDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var ids []string
	for i := len(s.events) - 1; i >= 0; i-- {
		id := s.events[i].CallID
		if strings.TrimSpace(id) == "" || id == UnknownCallID || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}

func (s *MemoryStore) LatestCallWith(ctx context.Context, typeA, typeB string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.events) - 1; i >= 0; i-- {
		if t := s.events[i].EventType; t == typeA || t == typeB {
			return s.events[i].CallID, nil
		}
	}
	return "", nil
}

func (s *MemoryStore) LatestByType(ctx context.Context, eventType string) (Event, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].EventType == eventType {
			return s.events[i], true, nil
		}
	}
	return Event{}, false, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events), nil
}
