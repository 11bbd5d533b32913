package prefs

import "errors"

var ErrNotFound = errors.New("prefs: not found")

// SearchPrefs is the load search preference row for one call, built up
// incrementally as the agent collects lane, equipment and timing details.
//
// Invariants:
// - Keyed by call id; one row per call.
// - Partial upserts only: an unset field never overwrites a stored value.
// - Rows are never deleted here; retention is an external concern.

type SearchPrefs struct {
	ID     int64  `json:"id" db:"id"`
	CallID string `json:"call_id" db:"call_id"`

	MCNumber string `json:"mc_number" db:"mc_number"`

	OriginCity       string `json:"origin_city" db:"origin_city"`
	OriginState      string `json:"origin_state" db:"origin_state"`
	DestinationCity  string `json:"destination_city" db:"destination_city"`
	DestinationState string `json:"destination_state" db:"destination_state"`

	PickupDate          string `json:"pickup_date" db:"pickup_date"`
	DepartureDate       string `json:"departure_date" db:"departure_date"`
	LatestDepartureDate string `json:"latest_departure_date" db:"latest_departure_date"`

	EquipmentType  string `json:"equipment_type" db:"equipment_type"`
	WeightCapacity *int   `json:"weight_capacity" db:"weight_capacity"`

	OriginLat         *float64 `json:"origin_lat" db:"origin_lat"`
	OriginLng         *float64 `json:"origin_lng" db:"origin_lng"`
	OriginRadiusMiles *int     `json:"origin_radius_miles" db:"origin_radius_miles"`
	DestLat           *float64 `json:"dest_lat" db:"dest_lat"`
	DestLng           *float64 `json:"dest_lng" db:"dest_lng"`
	DestRadiusMiles   *int     `json:"dest_radius_miles" db:"dest_radius_miles"`

	// Reefer temperature band, degrees Fahrenheit.
	MinTemp *float64 `json:"min_temp" db:"min_temp"`
	MaxTemp *float64 `json:"max_temp" db:"max_temp"`

	Notes     string `json:"notes" db:"notes"`
	UpdatedAt string `json:"updated_at" db:"updated_at"`
}

// Update carries the fields of one partial upsert. Nil means "leave the
// stored value alone"; numeric fields arrive pre-coerced by the caller and
// stay nil when coercion failed, so junk input cannot clear stored data.

type Update struct {
	MCNumber *string

	OriginCity       *string
	OriginState      *string
	DestinationCity  *string
	DestinationState *string

	PickupDate          *string
	DepartureDate       *string
	LatestDepartureDate *string

	EquipmentType  *string
	WeightCapacity *int

	OriginLat         *float64
	OriginLng         *float64
	OriginRadiusMiles *int
	DestLat           *float64
	DestLng           *float64
	DestRadiusMiles   *int

	MinTemp *float64
	MaxTemp *float64

	Notes *string
}
