package carriers

import (
	"context"
	"sort"
	"sync"
	"time"

	"freight-voice-backend/pkg/utils"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu     sync.Mutex
	rows   map[string]*Profile
	nextID int64

	// Clock is swappable so tests can pin updated_at.
	Clock func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:   make(map[string]*Profile),
		nextID: 1,
		Clock:  time.Now,
	}
}

func (s *MemoryStore) Upsert(_ context.Context, mcNumber string, upd ProfileUpdate) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.rows[mcNumber]
	if !ok {
		p = &Profile{ID: s.nextID, MCNumber: mcNumber}
		s.nextID++
		s.rows[mcNumber] = p
	}
	setString(&p.DOTNumber, upd.DOTNumber)
	setString(&p.LegalName, upd.LegalName)
	setString(&p.PhysicalCity, upd.PhysicalCity)
	setString(&p.PhysicalState, upd.PhysicalState)
	setFloat(&p.HomeLat, upd.HomeLat)
	setFloat(&p.HomeLng, upd.HomeLng)
	setString(&p.EquipmentType, upd.EquipmentType)
	setFloat(&p.MinTemp, upd.MinTemp)
	setFloat(&p.MaxTemp, upd.MaxTemp)
	setInt(&p.OriginRadiusMiles, upd.OriginRadiusMiles)
	setInt(&p.DestRadiusMiles, upd.DestRadiusMiles)
	p.UpdatedAt = utils.FormatUTC(s.Clock())
	return *p, nil
}

func (s *MemoryStore) Get(_ context.Context, mcNumber string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.rows[mcNumber]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return *p, nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Profile, 0, len(s.rows))
	for _, p := range s.rows {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows), nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst **float64, v *float64) {
	if v != nil {
		f := *v
		*dst = &f
	}
}

func setInt(dst **int, v *int) {
	if v != nil {
		n := *v
		*dst = &n
	}
}
