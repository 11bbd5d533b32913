package carriers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"freight-voice-backend/pkg/utils"
)

// Store persists carrier profiles keyed by MC number.
type Store interface {
	Upsert(ctx context.Context, mcNumber string, upd ProfileUpdate) (Profile, error)
	Get(ctx context.Context, mcNumber string) (Profile, error)
	Recent(ctx context.Context, limit int) ([]Profile, error)
	Count(ctx context.Context) (int, error)
}

// PostgresStore stores carrier profiles in Postgres.
//
// NOTE: assumes the carrier_profiles table from migrations/000001_init.up.sql.
type PostgresStore struct {
	db    *sql.DB
	clock func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, clock: time.Now}
}

const profileColumns = `
	id, mc_number, dot_number, legal_name, physical_city, physical_state,
	home_lat, home_lng, equipment_type, min_temp, max_temp,
	origin_radius_miles, dest_radius_miles, updated_at`

// Upsert inserts or patches the profile for mcNumber. Nil fields in upd map
// to NULL and the COALESCE keeps whatever is already stored.
func (s *PostgresStore) Upsert(ctx context.Context, mcNumber string, upd ProfileUpdate) (Profile, error) {
	const q = `
		INSERT INTO carrier_profiles (
			mc_number, dot_number, legal_name, physical_city, physical_state,
			home_lat, home_lng, equipment_type, min_temp, max_temp,
			origin_radius_miles, dest_radius_miles, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (mc_number) DO UPDATE SET
			dot_number          = COALESCE(EXCLUDED.dot_number, carrier_profiles.dot_number),
			legal_name          = COALESCE(EXCLUDED.legal_name, carrier_profiles.legal_name),
			physical_city       = COALESCE(EXCLUDED.physical_city, carrier_profiles.physical_city),
			physical_state      = COALESCE(EXCLUDED.physical_state, carrier_profiles.physical_state),
			home_lat            = COALESCE(EXCLUDED.home_lat, carrier_profiles.home_lat),
			home_lng            = COALESCE(EXCLUDED.home_lng, carrier_profiles.home_lng),
			equipment_type      = COALESCE(EXCLUDED.equipment_type, carrier_profiles.equipment_type),
			min_temp            = COALESCE(EXCLUDED.min_temp, carrier_profiles.min_temp),
			max_temp            = COALESCE(EXCLUDED.max_temp, carrier_profiles.max_temp),
			origin_radius_miles = COALESCE(EXCLUDED.origin_radius_miles, carrier_profiles.origin_radius_miles),
			dest_radius_miles   = COALESCE(EXCLUDED.dest_radius_miles, carrier_profiles.dest_radius_miles),
			updated_at          = EXCLUDED.updated_at
		RETURNING` + profileColumns

	row := s.db.QueryRowContext(ctx, q,
		mcNumber,
		upd.DOTNumber,
		upd.LegalName,
		upd.PhysicalCity,
		upd.PhysicalState,
		upd.HomeLat,
		upd.HomeLng,
		upd.EquipmentType,
		upd.MinTemp,
		upd.MaxTemp,
		upd.OriginRadiusMiles,
		upd.DestRadiusMiles,
		utils.FormatUTC(s.clock()),
	)
	p, err := scanProfile(row)
	if err != nil {
		return Profile{}, fmt.Errorf("carriers: upsert %s: %w", mcNumber, err)
	}
	return p, nil
}

func (s *PostgresStore) Get(ctx context.Context, mcNumber string) (Profile, error) {
	const q = `SELECT` + profileColumns + ` FROM carrier_profiles WHERE mc_number = $1`

	p, err := scanProfile(s.db.QueryRowContext(ctx, q, mcNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("carriers: get %s: %w", mcNumber, err)
	}
	return p, nil
}

// Recent returns the most recently touched profiles, newest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Profile, error) {
	const q = `SELECT` + profileColumns + ` FROM carrier_profiles ORDER BY id DESC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("carriers: recent: %w", err)
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("carriers: recent: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM carrier_profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("carriers: count: %w", err)
	}
	return n, nil
}

func scanProfile(row rowScanner) (Profile, error) {
	var (
		p                  Profile
		dot, legal         sql.NullString
		city, state, equip sql.NullString
		homeLat, homeLng   sql.NullFloat64
		minTemp, maxTemp   sql.NullFloat64
		originR, destR     sql.NullInt64
	)
	err := row.Scan(
		&p.ID,
		&p.MCNumber,
		&dot,
		&legal,
		&city,
		&state,
		&homeLat,
		&homeLng,
		&equip,
		&minTemp,
		&maxTemp,
		&originR,
		&destR,
		&p.UpdatedAt,
	)
	if err != nil {
		return Profile{}, err
	}
	p.DOTNumber = dot.String
	p.LegalName = legal.String
	p.PhysicalCity = city.String
	p.PhysicalState = state.String
	p.HomeLat = nullableFloat(homeLat)
	p.HomeLng = nullableFloat(homeLng)
	p.EquipmentType = equip.String
	p.MinTemp = nullableFloat(minTemp)
	p.MaxTemp = nullableFloat(maxTemp)
	p.OriginRadiusMiles = nullableInt(originR)
	p.DestRadiusMiles = nullableInt(destR)
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
