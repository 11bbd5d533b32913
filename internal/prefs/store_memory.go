package prefs

import (
	"context"
	"sync"
	"time"

	"freight-voice-backend/pkg/utils"
)

// MemoryStore is an in-memory Store with the same partial-upsert semantics
// as the Postgres store. Useful for tests; not intended for production use.

type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string]*SearchPrefs
	order  []string

	Clock func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, rows: make(map[string]*SearchPrefs), Clock: time.Now}
}

func (s *MemoryStore) Upsert(ctx context.Context, callID string, u Update) (SearchPrefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.rows[callID]
	if !ok {
		p = &SearchPrefs{ID: s.nextID, CallID: callID}
		s.nextID++
		s.rows[callID] = p
		s.order = append(s.order, callID)
	}

	setString(&p.MCNumber, u.MCNumber)
	setString(&p.OriginCity, u.OriginCity)
	setString(&p.OriginState, u.OriginState)
	setString(&p.DestinationCity, u.DestinationCity)
	setString(&p.DestinationState, u.DestinationState)
	setString(&p.PickupDate, u.PickupDate)
	setString(&p.DepartureDate, u.DepartureDate)
	setString(&p.LatestDepartureDate, u.LatestDepartureDate)
	setString(&p.EquipmentType, u.EquipmentType)
	setString(&p.Notes, u.Notes)
	setInt(&p.WeightCapacity, u.WeightCapacity)
	setInt(&p.OriginRadiusMiles, u.OriginRadiusMiles)
	setInt(&p.DestRadiusMiles, u.DestRadiusMiles)
	setFloat(&p.OriginLat, u.OriginLat)
	setFloat(&p.OriginLng, u.OriginLng)
	setFloat(&p.DestLat, u.DestLat)
	setFloat(&p.DestLng, u.DestLng)
	setFloat(&p.MinTemp, u.MinTemp)
	setFloat(&p.MaxTemp, u.MaxTemp)
	p.UpdatedAt = utils.FormatUTC(s.Clock())

	return *p, nil
}

func (s *MemoryStore) Get(ctx context.Context, callID string) (SearchPrefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[callID]
	if !ok {
		return SearchPrefs{}, ErrNotFound
	}
	return *p, nil
}

func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]SearchPrefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []SearchPrefs
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *s.rows[s.order[i]])
	}
	return out, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows), nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst **int, v *int) {
	if v != nil {
		n := *v
		*dst = &n
	}
}

func setFloat(dst **float64, v *float64) {
	if v != nil {
		f := *v
		*dst = &f
	}
}
