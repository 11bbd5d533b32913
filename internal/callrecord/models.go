// Package callrecord reconstructs normalized call records from the event
// log. A record is derived, never stored: every build folds the call's
// events through last-write-wins and fallback rules, so dashboards, search
// and handoff emails all read the same view of a call.
package callrecord

// Outcomes a call can resolve to.
const (
	OutcomeFailedVerification = "failed_verification"
	OutcomeDropped            = "dropped"
	OutcomeBooked             = "booked"
	OutcomeNoDeal             = "no_deal"
)

// Verification statuses derived from the eligibility flag.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusFailed   = "failed"
)

// Sentiment categories, the classifier's full output set.
const (
	SentimentPositive   = "positive"
	SentimentNeutral    = "neutral"
	SentimentNegative   = "negative"
	SentimentFrustrated = "frustrated"
)

// Record is the normalized summary of one call.
//
// Invariants:
// - Outcome is a pure function of the eligibility flag, the presence of a
//   negotiation payload and negotiation.agreed.
// - VerificationStatus is failed iff eligibility was explicitly false,
//   verified iff explicitly true, pending otherwise.
// - Rebuilding against an unchanged event log yields an identical record.

type Record struct {
	ID                  string         `json:"id"`
	Timestamp           string         `json:"timestamp"`
	MCNumber            string         `json:"mc_number"`
	CarrierName         string         `json:"carrier_name"`
	FMCSAVerified       bool           `json:"fmcsa_verified"`
	VerificationStatus  string         `json:"verification_status"`
	Load                *LoadSnapshot  `json:"load_matched"`
	Negotiation         *Negotiation   `json:"negotiation"`
	Outcome             string         `json:"outcome"`
	Sentiment           string         `json:"sentiment"`
	SentimentTone       string         `json:"sentiment_tone"`
	SentimentReasoning  string         `json:"sentiment_reasoning"`
	CallDurationSeconds int            `json:"call_duration_seconds"`
	SearchPrefs         *PrefsSnapshot `json:"call_search_prefs"`
}

// LoadSnapshot is the load a call settled on. String fields carry placeholder
// defaults instead of nulls so renderers never branch on absence.

type LoadSnapshot struct {
	LoadID           string  `json:"load_id"`
	Origin           string  `json:"origin"`
	Destination      string  `json:"destination"`
	PickupDatetime   string  `json:"pickup_datetime"`
	DeliveryDatetime string  `json:"delivery_datetime"`
	EquipmentType    string  `json:"equipment_type"`
	LoadboardRate    float64 `json:"loadboard_rate"`
	Weight           float64 `json:"weight"`
	CommodityType    string  `json:"commodity_type"`
	Notes            string  `json:"notes"`
	NumOfPieces      *int    `json:"num_of_pieces"`
	Miles            float64 `json:"miles"`
	Dimensions       string  `json:"dimensions"`
}

// Negotiation is the caller-reported price back-and-forth. Rounds and the
// agreed flag are reported, never computed here.

type Negotiation struct {
	Rounds        int       `json:"rounds"`
	InitialOffer  float64   `json:"initial_offer"`
	CounterOffers []float64 `json:"counter_offers"`
	FinalRate     *float64  `json:"final_rate"`
	Agreed        bool      `json:"agreed"`
}

// PrefsSnapshot is the slice of stored search preferences a record carries.

type PrefsSnapshot struct {
	OriginCity          string   `json:"origin_city"`
	OriginState         string   `json:"origin_state"`
	DestinationCity     string   `json:"destination_city"`
	DestinationState    string   `json:"destination_state"`
	EquipmentType       string   `json:"equipment_type"`
	WeightCapacity      *int     `json:"weight_capacity"`
	MinTemp             *float64 `json:"min_temp"`
	MaxTemp             *float64 `json:"max_temp"`
	Notes               string   `json:"notes"`
	PickupDate          string   `json:"pickup_date"`
	DepartureDate       string   `json:"departure_date"`
	LatestDepartureDate string   `json:"latest_departure_date"`
}
