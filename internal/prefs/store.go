package prefs

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"freight-voice-backend/pkg/utils"
)

// Store is the persistence contract for call search preferences.

type Store interface {
	// Upsert applies a partial update keyed by call id and returns the full
	// row after the merge.
	Upsert(ctx context.Context, callID string, u Update) (SearchPrefs, error)
	// Get returns the row for a call id, or ErrNotFound.
	Get(ctx context.Context, callID string) (SearchPrefs, error)
	// Recent returns the newest rows, newest first.
	Recent(ctx context.Context, limit int) ([]SearchPrefs, error)
	Count(ctx context.Context) (int, error)
}

// PostgresStore persists preferences in the call_search_prefs table.
//
// NOTE: assumes the table from migrations/000001_init.up.sql exists, with
// UNIQUE (call_id) backing the upsert.

type PostgresStore struct {
	db    *sql.DB
	clock func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, clock: time.Now}
}

const prefsColumns = `
id, call_id, mc_number, origin_city, origin_state, destination_city, destination_state,
pickup_date, departure_date, latest_departure_date, equipment_type, weight_capacity,
origin_lat, origin_lng, origin_radius_miles, dest_lat, dest_lng, dest_radius_miles,
min_temp, max_temp, notes, updated_at`

func (s *PostgresStore) Upsert(ctx context.Context, callID string, u Update) (SearchPrefs, error) {
	// COALESCE keeps the stored value whenever the update field is NULL,
	// which is the partial-update invariant in one statement.
	const q = `
INSERT INTO call_search_prefs (
  call_id, mc_number, origin_city, origin_state, destination_city, destination_state,
  pickup_date, departure_date, latest_departure_date, equipment_type, weight_capacity,
  origin_lat, origin_lng, origin_radius_miles, dest_lat, dest_lng, dest_radius_miles,
  min_temp, max_temp, notes, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21
)
ON CONFLICT (call_id) DO UPDATE SET
  mc_number             = COALESCE(EXCLUDED.mc_number, call_search_prefs.mc_number),
  origin_city           = COALESCE(EXCLUDED.origin_city, call_search_prefs.origin_city),
  origin_state          = COALESCE(EXCLUDED.origin_state, call_search_prefs.origin_state),
  destination_city      = COALESCE(EXCLUDED.destination_city, call_search_prefs.destination_city),
  destination_state     = COALESCE(EXCLUDED.destination_state, call_search_prefs.destination_state),
  pickup_date           = COALESCE(EXCLUDED.pickup_date, call_search_prefs.pickup_date),
  departure_date        = COALESCE(EXCLUDED.departure_date, call_search_prefs.departure_date),
  latest_departure_date = COALESCE(EXCLUDED.latest_departure_date, call_search_prefs.latest_departure_date),
  equipment_type        = COALESCE(EXCLUDED.equipment_type, call_search_prefs.equipment_type),
  weight_capacity       = COALESCE(EXCLUDED.weight_capacity, call_search_prefs.weight_capacity),
  origin_lat            = COALESCE(EXCLUDED.origin_lat, call_search_prefs.origin_lat),
  origin_lng            = COALESCE(EXCLUDED.origin_lng, call_search_prefs.origin_lng),
  origin_radius_miles   = COALESCE(EXCLUDED.origin_radius_miles, call_search_prefs.origin_radius_miles),
  dest_lat              = COALESCE(EXCLUDED.dest_lat, call_search_prefs.dest_lat),
  dest_lng              = COALESCE(EXCLUDED.dest_lng, call_search_prefs.dest_lng),
  dest_radius_miles     = COALESCE(EXCLUDED.dest_radius_miles, call_search_prefs.dest_radius_miles),
  min_temp              = COALESCE(EXCLUDED.min_temp, call_search_prefs.min_temp),
  max_temp              = COALESCE(EXCLUDED.max_temp, call_search_prefs.max_temp),
  notes                 = COALESCE(EXCLUDED.notes, call_search_prefs.notes),
  updated_at            = EXCLUDED.updated_at
RETURNING ` + prefsColumns

	row := s.db.QueryRowContext(ctx, q,
		callID,
		u.MCNumber,
		u.OriginCity,
		u.OriginState,
		u.DestinationCity,
		u.DestinationState,
		u.PickupDate,
		u.DepartureDate,
		u.LatestDepartureDate,
		u.EquipmentType,
		u.WeightCapacity,
		u.OriginLat,
		u.OriginLng,
		u.OriginRadiusMiles,
		u.DestLat,
		u.DestLng,
		u.DestRadiusMiles,
		u.MinTemp,
		u.MaxTemp,
		u.Notes,
		utils.FormatUTC(s.clock()),
	)
	return scanPrefs(row)
}

func (s *PostgresStore) Get(ctx context.Context, callID string) (SearchPrefs, error) {
	const q = `
SELECT ` + prefsColumns + `
FROM call_search_prefs
WHERE call_id = $1
`
	p, err := scanPrefs(s.db.QueryRowContext(ctx, q, callID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SearchPrefs{}, ErrNotFound
		}
		return SearchPrefs{}, err
	}
	return p, nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]SearchPrefs, error) {
	const q = `
SELECT ` + prefsColumns + `
FROM call_search_prefs
ORDER BY id DESC
LIMIT $1
`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SearchPrefs
	for rows.Next() {
		p, err := scanPrefs(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM call_search_prefs`
	var n int
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrefs(row rowScanner) (SearchPrefs, error) {
	var (
		p                                        SearchPrefs
		mc, oCity, oState, dCity, dState         sql.NullString
		pickup, depart, latestDepart, equip      sql.NullString
		notes                                    sql.NullString
		weight, oRadius, dRadius                 sql.NullInt64
		oLat, oLng, dLat, dLng, minTemp, maxTemp sql.NullFloat64
	)
	if err := row.Scan(
		&p.ID,
		&p.CallID,
		&mc,
		&oCity,
		&oState,
		&dCity,
		&dState,
		&pickup,
		&depart,
		&latestDepart,
		&equip,
		&weight,
		&oLat,
		&oLng,
		&oRadius,
		&dLat,
		&dLng,
		&dRadius,
		&minTemp,
		&maxTemp,
		&notes,
		&p.UpdatedAt,
	); err != nil {
		return SearchPrefs{}, err
	}
	p.MCNumber = mc.String
	p.OriginCity = oCity.String
	p.OriginState = oState.String
	p.DestinationCity = dCity.String
	p.DestinationState = dState.String
	p.PickupDate = pickup.String
	p.DepartureDate = depart.String
	p.LatestDepartureDate = latestDepart.String
	p.EquipmentType = equip.String
	p.Notes = notes.String
	p.WeightCapacity = nullableInt(weight)
	p.OriginRadiusMiles = nullableInt(oRadius)
	p.DestRadiusMiles = nullableInt(dRadius)
	p.OriginLat = nullableFloat(oLat)
	p.OriginLng = nullableFloat(oLng)
	p.DestLat = nullableFloat(dLat)
	p.DestLng = nullableFloat(dLng)
	p.MinTemp = nullableFloat(minTemp)
	p.MaxTemp = nullableFloat(maxTemp)
	return p, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
