package carriers

import (
	"errors"
	"strings"
)

var ErrNotFound = errors.New("carriers: not found")

// Profile is the stored view of a carrier, keyed by MC number. Populated
// from FMCSA verification results and preference calls; read back when a
// call record knows the MC but no carrier name.
//
// Invariants:
// - Keyed by normalized MC number; one row per carrier.
// - Partial upserts only: an unset field never overwrites a stored value.

type Profile struct {
	ID       int64  `json:"id" db:"id"`
	MCNumber string `json:"mc_number" db:"mc_number"`

	DOTNumber     string `json:"dot_number" db:"dot_number"`
	LegalName     string `json:"legal_name" db:"legal_name"`
	PhysicalCity  string `json:"physical_city" db:"physical_city"`
	PhysicalState string `json:"physical_state" db:"physical_state"`

	HomeLat *float64 `json:"home_lat" db:"home_lat"`
	HomeLng *float64 `json:"home_lng" db:"home_lng"`

	EquipmentType string   `json:"equipment_type" db:"equipment_type"`
	MinTemp       *float64 `json:"min_temp" db:"min_temp"`
	MaxTemp       *float64 `json:"max_temp" db:"max_temp"`

	OriginRadiusMiles *int `json:"origin_radius_miles" db:"origin_radius_miles"`
	DestRadiusMiles   *int `json:"dest_radius_miles" db:"dest_radius_miles"`

	UpdatedAt string `json:"updated_at" db:"updated_at"`
}

// ProfileUpdate carries one partial upsert; nil fields leave stored values
// alone.

type ProfileUpdate struct {
	DOTNumber     *string
	LegalName     *string
	PhysicalCity  *string
	PhysicalState *string

	HomeLat *float64
	HomeLng *float64

	EquipmentType *string
	MinTemp       *float64
	MaxTemp       *float64

	OriginRadiusMiles *int
	DestRadiusMiles   *int
}

// NormalizeMC canonicalizes caller-supplied MC input: trims, upper-cases and
// drops the MC prefix and dashes, so "mc-123456", "MC123456" and " 123456 "
// all key the same carrier.
func NormalizeMC(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "MC", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.TrimSpace(s)
}
