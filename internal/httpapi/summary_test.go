package httpapi

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"freight-voice-backend/internal/events"
	"freight-voice-backend/internal/payload"
)

func TestCallSummaryEmptyLog(t *testing.T) {
	env := newTestEnv(t)

	w := env.get(t, "/api/call-summary")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decode(t, w)
	if got["call_id"] != nil {
		t.Fatalf("call_id = %v", got["call_id"])
	}
	if got["carrier_summary"] != "No calls yet." || got["load_summary"] != "No load data yet." {
		t.Fatalf("body = %v", got)
	}
	if got["outcome_summary"] != "No negotiation outcome yet." || got["sentiment_summary"] != "No sentiment captured yet." {
		t.Fatalf("body = %v", got)
	}
}

func TestCallSummaryFullCall(t *testing.T) {
	env := newTestEnv(t)
	seedBookedCall(t, env, "c1")
	if _, err := env.events.Append(context.Background(), "c1", events.TypeSentimentClassified, payload.Fields{
		"sentiment_classification": "positive",
		"sentiment_reasoning":      "Driver was upbeat and closed fast",
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got := decode(t, env.get(t, "/api/call-summary"))
	if got["call_id"] != "c1" {
		t.Fatalf("call_id = %v", got["call_id"])
	}
	if got["carrier_summary"] != "Carrier Acme Trucking (MC 123456, DOT 777). Eligible: true." {
		t.Fatalf("carrier_summary = %q", got["carrier_summary"])
	}
	if got["load_summary"] != "Load from Dallas, TX to Atlanta, GA with Unknown." {
		t.Fatalf("load_summary = %q", got["load_summary"])
	}
	if got["outcome_summary"] != "Outcome: accepted=true. Final price $950. Rounds: 2." {
		t.Fatalf("outcome_summary = %q", got["outcome_summary"])
	}
	if got["sentiment_summary"] != "Sentiment: positive. Reason: Driver was upbeat and closed fast" {
		t.Fatalf("sentiment_summary = %q", got["sentiment_summary"])
	}
	if got["call_id_hint"] != nil {
		t.Fatalf("hint = %v", got["call_id_hint"])
	}
}

func TestCallSummaryLoadDetailAndTempBand(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if _, err := env.events.Append(ctx, "c1", events.TypeVerifyMCResult, payload.Fields{
		"mc_number": "123456", "eligible": true,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := env.events.Append(ctx, "c1", events.TypeBestLoadRetrieved, payload.Fields{
		"origin": "Dallas, TX", "destination": "Atlanta, GA", "equipment_type": "Reefer",
		"loadboard_rate": 1200, "miles": 780, "commodity": "Produce",
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	env.postJSON(t, "/set_call_search_prefs", `{"call_id":"c1","min_temp":34,"max_temp":38.5}`)

	got := decode(t, env.get(t, "/api/call-summary"))
	want := "Load from Dallas, TX to Atlanta, GA with Reefer. Listed rate $1200. ~780 miles. Commodity: Produce. Refrigeration: 34 to 38.5°F."
	if got["load_summary"] != want {
		t.Fatalf("load_summary = %q, want %q", got["load_summary"], want)
	}
	// No carrier name anywhere: FMCSA payload had none and no profile exists.
	if got["carrier_summary"] != "Carrier Unknown carrier (MC 123456). Eligible: true." {
		t.Fatalf("carrier_summary = %q", got["carrier_summary"])
	}
}

func TestCallSummaryOrphanSentimentFallback(t *testing.T) {
	env := newTestEnv(t)
	seedBookedCall(t, env, "c1")
	// Sentiment logged with a blank call id lands under "unknown" but still
	// backfills the summary.
	if _, err := env.events.Append(context.Background(), events.UnknownCallID, events.TypeSentimentClassified, payload.Fields{
		"sentiment_classification": "frustrated",
		"sentiment_reasoning":      "Rate talk went in circles",
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got := decode(t, env.get(t, "/api/call-summary"))
	if got["call_id"] != "c1" {
		t.Fatalf("call_id = %v", got["call_id"])
	}
	if got["sentiment_summary"] != "Sentiment: frustrated. Reason: Rate talk went in circles" {
		t.Fatalf("sentiment_summary = %q", got["sentiment_summary"])
	}
}

func TestCallSummaryHintsOnPlaceholderCallID(t *testing.T) {
	env := newTestEnv(t)
	env.postJSON(t, "/log_event", `{"event_type":"note","payload":{"text":"hi"}}`)

	got := decode(t, env.get(t, "/api/call-summary"))
	if got["call_id"] != events.UnknownCallID {
		t.Fatalf("call_id = %v", got["call_id"])
	}
	hint, _ := got["call_id_hint"].(string)
	if !strings.Contains(hint, "real call identifier") {
		t.Fatalf("hint = %q", hint)
	}
	if got["carrier_summary"] != "Eligibility not recorded." {
		t.Fatalf("carrier_summary = %q", got["carrier_summary"])
	}
}
