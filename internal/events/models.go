package events

import "strings"

// Event is one immutable fact logged about a call.
//
// Invariants:
// - Events are append-only; never updated or deleted.
// - ID is assigned by the store and defines arrival order. Record building
//   resolves last-write-wins by ID, not by timestamp, because both are
//   populated at insert time and ID is the reliable tiebreak.
// - EventType is normalized at the store boundary (trimmed, surrounding
//   double quotes stripped). Some workflow builders historically sent the
//   type with an extra JSON-encoding layer; normalizing once on append keeps
//   every read path free of quoted-variant matching.
// - Payload holds the JSON text of whatever the caller sent: an object, a
//   string, or a string encoded twice. It is decoded defensively on read,
//   never trusted on write.

type Event struct {
	ID        int64  `json:"id" db:"id"`
	CallID    string `json:"call_id" db:"call_id"`
	EventType string `json:"event_type" db:"event_type"`
	Payload   string `json:"payload" db:"payload"`
	Timestamp string `json:"timestamp" db:"ts"`
}

// Well-known event types consumed by record building. Callers may log any
// type; these are the ones with derivation semantics.
const (
	TypeVerifyMCRequested   = "verify_mc_requested"
	TypeVerifyMCResult      = "verify_mc_result"
	TypeCallClassified      = "call_classified"
	TypeSentimentClassified = "sentiment_classified"
	TypeNegotiationComplete = "negotiation_complete"
	TypeBestLoadRetrieved   = "best_load_retrieved"
	TypeLoadsFound          = "loads_found"
	TypePrefsUpdated        = "call_search_prefs_updated"
	TypeHandoffInitiated    = "handoff_initiated"
	TypeCallOutput          = "call_output"
	TypeLogEvent            = "log_event"
)

// UnknownCallID groups events logged without a usable call id so they still
// surface on the live dashboard. It is excluded from distinct-id enumeration.
const UnknownCallID = "unknown"

// EffectiveCallID maps an empty or whitespace call id to UnknownCallID.
func EffectiveCallID(callID string) string {
	t := strings.TrimSpace(callID)
	if t == "" {
		return UnknownCallID
	}
	return t
}

// NormalizeType strips whitespace and any surrounding double quotes from an
// event type before it is stored.
func NormalizeType(eventType string) string {
	return strings.Trim(strings.TrimSpace(eventType), `"`)
}
