package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"freight-voice-backend/internal/events"
	"freight-voice-backend/internal/payload"
)

func decodeList(t *testing.T, body []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode list: %v (%s)", err, body)
	}
	return out
}

func TestListCallsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	seedBookedCall(t, env, "c1")
	if _, err := env.events.Append(context.Background(), "c2", events.TypeLogEvent, payload.Fields{"note": "hi"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	w := env.get(t, "/api/calls")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decodeList(t, w.Body.Bytes())
	if len(got) != 2 {
		t.Fatalf("records = %v", got)
	}
	if got[0]["id"] != "c2" || got[1]["id"] != "c1" {
		t.Fatalf("order = %v, %v", got[0]["id"], got[1]["id"])
	}
	if got[0]["outcome"] != "dropped" || got[1]["outcome"] != "booked" {
		t.Fatalf("outcomes = %v, %v", got[0]["outcome"], got[1]["outcome"])
	}
}

func TestListCallsEmptyLogIsEmptyArray(t *testing.T) {
	env := newTestEnv(t)
	w := env.get(t, "/api/calls")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body := w.Body.String(); body != "[]" {
		t.Fatalf("body = %q", body)
	}
}

func TestListCallsFilters(t *testing.T) {
	env := newTestEnv(t)
	seedBookedCall(t, env, "c1")
	if _, err := env.events.Append(context.Background(), "c2", events.TypeLogEvent, payload.Fields{"note": "hi"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	byOutcome := decodeList(t, env.get(t, "/api/calls?outcome=booked").Body.Bytes())
	if len(byOutcome) != 1 || byOutcome[0]["id"] != "c1" {
		t.Fatalf("outcome filter = %v", byOutcome)
	}

	byQuery := decodeList(t, env.get(t, "/api/calls?q=acme").Body.Bytes())
	if len(byQuery) != 1 || byQuery[0]["id"] != "c1" {
		t.Fatalf("query filter = %v", byQuery)
	}

	none := decodeList(t, env.get(t, "/api/calls?q=acme&outcome=no_deal").Body.Bytes())
	if len(none) != 0 {
		t.Fatalf("combined filter = %v", none)
	}
}

func TestGetCall(t *testing.T) {
	env := newTestEnv(t)
	seedBookedCall(t, env, "c1")

	w := env.get(t, "/api/calls/c1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decode(t, w)
	if got["id"] != "c1" || got["carrier_name"] != "Acme Trucking" || got["fmcsa_verified"] != true {
		t.Fatalf("record = %v", got)
	}
	load, _ := got["load_matched"].(map[string]any)
	if load["load_id"] != "L-1" {
		t.Fatalf("load = %v", load)
	}
}

func TestGetCallNotFound(t *testing.T) {
	env := newTestEnv(t)
	w := env.get(t, "/api/calls/ghost")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode(t, w); got["error"] != "Call not found" {
		t.Fatalf("body = %v", got)
	}
}

func TestMetricsOverviewCountsOutcomes(t *testing.T) {
	env := newTestEnv(t)
	seedBookedCall(t, env, "c1")
	if _, err := env.events.Append(context.Background(), "c2", events.TypeLogEvent, payload.Fields{"note": "hi"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	w := env.get(t, "/api/metrics/overview")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decode(t, w)
	if got["total_calls"] != 2.0 {
		t.Fatalf("total_calls = %v", got["total_calls"])
	}
	outcomes, _ := got["call_outcomes"].(map[string]any)
	if outcomes["booked"] != 1.0 || outcomes["dropped"] != 1.0 {
		t.Fatalf("call_outcomes = %v", outcomes)
	}
}

func TestMetricsNegotiationsOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	seedBookedCall(t, env, "c1")

	got := decode(t, env.get(t, "/api/metrics/negotiations"))
	if got["total_negotiations"] != 1.0 || got["success_rate"] != 100.0 {
		t.Fatalf("body = %v", got)
	}
	recent, _ := got["recent_negotiations"].([]any)
	if len(recent) != 1 {
		t.Fatalf("recent = %v", got["recent_negotiations"])
	}
}

func TestCarrierInsightsOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	seedBookedCall(t, env, "c1")
	seedBookedCall(t, env, "c2")

	got := decode(t, env.get(t, "/api/carriers/insights"))
	repeat, _ := got["repeat_callers"].([]any)
	if len(repeat) != 1 {
		t.Fatalf("repeat_callers = %v", got["repeat_callers"])
	}
	first, _ := repeat[0].(map[string]any)
	if first["mc_number"] != "123456" || first["call_count"] != 2.0 {
		t.Fatalf("repeat caller = %v", first)
	}
}
