package callrecord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"freight-voice-backend/internal/carriers"
	"freight-voice-backend/internal/events"
	"freight-voice-backend/internal/payload"
	"freight-voice-backend/internal/prefs"
)

// EventSource is the slice of the event store the builder reads.
type EventSource interface {
	EventsFor(ctx context.Context, callID string) ([]events.Event, error)
	DistinctCallIDs(ctx context.Context) ([]string, error)
}

// ProfileSource resolves carrier names when verification payloads omit them.
type ProfileSource interface {
	Get(ctx context.Context, mcNumber string) (carriers.Profile, error)
}

// PrefsSource supplies the preference snapshot attached to each record.
type PrefsSource interface {
	Get(ctx context.Context, callID string) (prefs.SearchPrefs, error)
}

// Builder folds the events of one call into a Record. Builds are pure reads:
// two builds over the same store state produce identical records.
type Builder struct {
	events   EventSource
	profiles ProfileSource
	prefs    PrefsSource
	log      *slog.Logger
}

func NewBuilder(ev EventSource, profiles ProfileSource, prefsStore PrefsSource, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{events: ev, profiles: profiles, prefs: prefsStore, log: log}
}

// Build reconstructs the record for callID. The bool is false when the call
// has no events at all; that is an absence, not an error. Errors are store
// failures only; malformed event data degrades to defaults instead.
func (b *Builder) Build(ctx context.Context, callID string) (Record, bool, error) {
	evs, err := b.events.EventsFor(ctx, callID)
	if err != nil {
		return Record{}, false, fmt.Errorf("callrecord: events for %s: %w", callID, err)
	}
	if len(evs) == 0 {
		return Record{}, false, nil
	}

	byType := latestByType(evs)
	rec := Record{ID: callID, Timestamp: evs[0].Timestamp}
	rec.CallDurationSeconds = callDuration(evs, byType[events.TypeCallClassified])

	// Carrier identity and eligibility.
	verify := byType[events.TypeVerifyMCResult]
	carrier := payload.Map(verify, "carrier")

	var eligible *bool
	if v, ok := verify["eligible"].(bool); ok {
		eligible = &v
	}

	mc := payload.String(carrier, "mc_number")
	if mc == "" {
		mc = payload.String(verify, "mc_number")
	}
	name := payload.String(carrier, "name", "legal_name")
	if name == "" && mc != "" {
		p, err := b.profiles.Get(ctx, mc)
		switch {
		case err == nil:
			name = p.LegalName
		case !errors.Is(err, carriers.ErrNotFound):
			return Record{}, false, fmt.Errorf("callrecord: profile %s: %w", mc, err)
		}
	}
	if name == "" {
		name = "Unknown"
	}
	rec.MCNumber = mc
	if rec.MCNumber == "" {
		rec.MCNumber = "—"
	}
	rec.CarrierName = name

	switch {
	case eligible != nil && *eligible:
		rec.FMCSAVerified = true
		rec.VerificationStatus = StatusVerified
	case eligible != nil:
		rec.VerificationStatus = StatusFailed
	default:
		rec.VerificationStatus = StatusPending
	}

	// Load resolution: the negotiation payload wins when it names a load,
	// otherwise the last retrieved best load.
	neg := byType[events.TypeNegotiationComplete]
	loadSrc := byType[events.TypeBestLoadRetrieved]
	if payload.String(neg, "load_id", "origin") != "" {
		loadSrc = neg
	}

	var load *LoadSnapshot
	if payload.String(loadSrc, "load_id", "origin") != "" {
		load = &LoadSnapshot{
			LoadID:           stringOr(loadSrc, "—", "load_id"),
			Origin:           stringOr(loadSrc, "Unknown", "origin"),
			Destination:      stringOr(loadSrc, "Unknown", "destination"),
			PickupDatetime:   payload.String(loadSrc, "pickup_datetime"),
			DeliveryDatetime: payload.String(loadSrc, "delivery_datetime"),
			EquipmentType:    stringOr(loadSrc, "Van", "equipment_type"),
			LoadboardRate:    floatOrZero(payload.Float(loadSrc, "loadboard_rate", "rate")),
			Weight:           floatOrZero(payload.Float(loadSrc, "weight")),
			CommodityType:    payload.String(loadSrc, "commodity_type", "commodity"),
			Notes:            payload.String(loadSrc, "notes"),
			NumOfPieces:      payload.Int(loadSrc, "num_of_pieces"),
			Miles:            floatOrZero(payload.Float(loadSrc, "miles")),
			Dimensions:       payload.String(loadSrc, "dimensions"),
		}
	}
	rec.Load = load

	// Negotiation resolution.
	rawInitial := payload.Pick(neg, "loadboard_rate", "original_rate")
	if !payload.Truthy(rawInitial) && load != nil {
		rawInitial = load.LoadboardRate
	}
	initialOffer := payload.AsFloat(rawInitial)
	finalRate := payload.Float(neg, "final_price", "final_rate")
	accepted := acceptedValue(neg)

	if load != nil || len(neg) > 0 {
		offer := 0.0
		if initialOffer != nil && *initialOffer != 0 {
			offer = *initialOffer
		} else if load != nil {
			offer = load.LoadboardRate
		}
		counters := []float64{}
		for _, x := range payload.List(neg, "counter_offers") {
			counters = append(counters, floatOrZero(payload.AsFloat(x)))
		}
		rec.Negotiation = &Negotiation{
			Rounds:        intOrZero(payload.Int(neg, "negotiation_rounds")),
			InitialOffer:  offer,
			CounterOffers: counters,
			FinalRate:     finalRate,
			Agreed:        accepted,
		}
	}

	// When the only rate information lived in the negotiation payload the
	// load would otherwise display $0; backfill it.
	if load != nil && load.LoadboardRate == 0 && rec.Negotiation != nil {
		fallback := rec.Negotiation.InitialOffer
		if fallback == 0 && rec.Negotiation.FinalRate != nil {
			fallback = *rec.Negotiation.FinalRate
		}
		if fallback > 0 {
			load.LoadboardRate = fallback
		}
	}

	switch {
	case eligible != nil && !*eligible:
		rec.Outcome = OutcomeFailedVerification
	case len(neg) == 0:
		rec.Outcome = OutcomeDropped
	case accepted:
		rec.Outcome = OutcomeBooked
	default:
		rec.Outcome = OutcomeNoDeal
	}

	// Sentiment, tone and reasoning.
	sentRow := byType[events.TypeSentimentClassified]
	classRow := byType[events.TypeCallClassified]

	rawSentiment := payload.String(sentRow, "sentiment_classification", "sentiment")
	if rawSentiment == "" {
		rawSentiment = payload.String(classRow, "sentiment")
	}
	rec.Sentiment = ClassifySentiment(rawSentiment)
	rec.SentimentTone = payload.String(sentRow, "tone")
	if rec.SentimentTone == "" {
		rec.SentimentTone = payload.String(classRow, "tone")
	}
	rec.SentimentReasoning = extractReasoning(sentRow, 0)
	if rec.SentimentReasoning == "" {
		rec.SentimentReasoning = extractReasoning(classRow, 0)
	}

	sp, err := b.prefs.Get(ctx, callID)
	switch {
	case err == nil:
		rec.SearchPrefs = snapshotPrefs(sp)
	case !errors.Is(err, prefs.ErrNotFound):
		return Record{}, false, fmt.Errorf("callrecord: prefs %s: %w", callID, err)
	}

	return rec, true, nil
}

// BuildAll reconstructs records for every known call, most recently active
// first. A call whose build fails is skipped with a warning so one corrupt
// call cannot empty the whole call log.
func (b *Builder) BuildAll(ctx context.Context) ([]Record, error) {
	ids, err := b.events.DistinctCallIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("callrecord: call ids: %w", err)
	}
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		rec, ok, err := b.Build(ctx, id)
		if err != nil {
			b.log.Warn("call record build failed", "call_id", id, "err", err)
			continue
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// latestByType keeps the last-stored event per type, payload normalized.
// Store order is the tiebreak, not timestamps; both are assigned at insert
// time and only the id is guaranteed monotonic.
func latestByType(evs []events.Event) map[string]payload.Fields {
	out := make(map[string]payload.Fields, len(evs))
	for _, e := range evs {
		if e.EventType == "" {
			continue
		}
		out[e.EventType] = payload.Normalize(e.Payload)
	}
	return out
}

// callDuration spans first to last event timestamp, floored at zero and
// falling back to zero when either end does not parse. An explicit
// non-negative call_duration_seconds reported by the workflow wins over the
// computed span, which is often truncated when a call ends abnormally.
func callDuration(evs []events.Event, classified payload.Fields) int {
	d := 0
	first, ok1 := events.ParseTimestamp(evs[0].Timestamp)
	last, ok2 := events.ParseTimestamp(evs[len(evs)-1].Timestamp)
	if ok1 && ok2 {
		if span := int(last.Sub(first).Seconds()); span > 0 {
			d = span
		}
	}
	if v := payload.Int(classified, "call_duration_seconds"); v != nil && *v >= 0 {
		d = *v
	}
	return d
}

// acceptedValue is deliberately strict: only a boolean true or the literal
// strings "true"/"True" count as accepted. Other truthy encodings ("yes", 1)
// stay not-accepted.
func acceptedValue(neg payload.Fields) bool {
	switch v := neg["accepted"].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "True"
	}
	return false
}

func snapshotPrefs(sp prefs.SearchPrefs) *PrefsSnapshot {
	return &PrefsSnapshot{
		OriginCity:          sp.OriginCity,
		OriginState:         sp.OriginState,
		DestinationCity:     sp.DestinationCity,
		DestinationState:    sp.DestinationState,
		EquipmentType:       sp.EquipmentType,
		WeightCapacity:      sp.WeightCapacity,
		MinTemp:             sp.MinTemp,
		MaxTemp:             sp.MaxTemp,
		Notes:               sp.Notes,
		PickupDate:          sp.PickupDate,
		DepartureDate:       sp.DepartureDate,
		LatestDepartureDate: sp.LatestDepartureDate,
	}
}

func stringOr(f payload.Fields, fallback string, keys ...string) string {
	if s := payload.String(f, keys...); s != "" {
		return s
	}
	return fallback
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
