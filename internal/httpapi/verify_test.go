package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"freight-voice-backend/internal/carriers"
	"freight-voice-backend/internal/events"
	"freight-voice-backend/internal/payload"
)

func TestVerifyMCUnconfiguredKeyIsSoft(t *testing.T) {
	env := newTestEnv(t)

	w := env.postJSON(t, "/verify_mc", `{"call_id":"c1","mc_number":"MC-123456"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decode(t, w)
	if got["ok"] != true || got["eligible"] != false {
		t.Fatalf("body = %v", got)
	}
	if got["reason"] != "FMCSA_WEBKEY not configured" {
		t.Fatalf("reason = %v", got["reason"])
	}
	if got["carrier"] != nil {
		t.Fatalf("carrier = %v", got["carrier"])
	}

	evs, _ := env.events.EventsFor(context.Background(), "c1")
	if len(evs) != 2 {
		t.Fatalf("events = %+v", evs)
	}
	if evs[0].EventType != events.TypeVerifyMCRequested || evs[1].EventType != events.TypeVerifyMCResult {
		t.Fatalf("event types = %s, %s", evs[0].EventType, evs[1].EventType)
	}
	req := payload.Normalize(evs[0].Payload)
	if req["mc_number"] != "123456" || req["original_input"] != "MC-123456" {
		t.Fatalf("requested payload = %v", req)
	}
	res := payload.Normalize(evs[1].Payload)
	if res["ok"] != true || res["reason"] != "FMCSA_WEBKEY not configured" {
		t.Fatalf("result payload = %v", res)
	}
}

func fmcsaServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/carriers/docket-number/") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("webKey") != "test-key" {
			t.Errorf("webKey = %q", r.URL.Query().Get("webKey"))
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestVerifyMCEligibleUpsertsProfile(t *testing.T) {
	env := newTestEnv(t)
	srv := fmcsaServer(t, http.StatusOK, `{"content":[{"carrier":{"legalName":"Acme Trucking","dotNumber":"777","allowedToOperate":"Y","outOfService":"N","phyCity":"Dallas","phyState":"TX"}}]}`)
	defer srv.Close()
	env.h.Verifier = carriers.NewVerifier(srv.URL, "test-key", nil)

	w := env.postJSON(t, "/verify_mc", `{"call_id":"c1","mc_number":"123456"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decode(t, w)
	if got["eligible"] != true {
		t.Fatalf("body = %v", got)
	}
	carrier, _ := got["carrier"].(map[string]any)
	if carrier["name"] != "Acme Trucking" || carrier["mc_number"] != "123456" {
		t.Fatalf("carrier = %v", carrier)
	}

	p, err := env.profiles.Get(context.Background(), "123456")
	if err != nil {
		t.Fatalf("profile not stored: %v", err)
	}
	if p.LegalName != "Acme Trucking" || p.DOTNumber != "777" || p.PhysicalCity != "Dallas" {
		t.Fatalf("profile = %+v", p)
	}

	evs, _ := env.events.EventsFor(context.Background(), "c1")
	if len(evs) != 2 {
		t.Fatalf("events = %+v", evs)
	}
	res := payload.Normalize(evs[1].Payload)
	if res["eligible"] != true {
		t.Fatalf("result payload = %v", res)
	}
	stored := payload.Map(res, "carrier")
	if stored["name"] != "Acme Trucking" {
		t.Fatalf("stored carrier = %v", stored)
	}
}

func TestVerifyMCOutOfServiceStillUpserts(t *testing.T) {
	env := newTestEnv(t)
	srv := fmcsaServer(t, http.StatusOK, `{"content":[{"carrier":{"legalName":"Benched Freight","dotNumber":"888","allowedToOperate":"Y","outOfService":"Y"}}]}`)
	defer srv.Close()
	env.h.Verifier = carriers.NewVerifier(srv.URL, "test-key", nil)

	w := env.postJSON(t, "/verify_mc", `{"call_id":"c1","mc_number":"654321"}`)
	got := decode(t, w)
	if got["eligible"] != false || got["reason"] != "Carrier is currently out of service" {
		t.Fatalf("body = %v", got)
	}
	// FMCSA knew the carrier, so the profile is stored even though it failed.
	if _, err := env.profiles.Get(context.Background(), "654321"); err != nil {
		t.Fatalf("profile not stored: %v", err)
	}
}

func TestVerifyMCNotFound(t *testing.T) {
	env := newTestEnv(t)
	srv := fmcsaServer(t, http.StatusNotFound, `{}`)
	defer srv.Close()
	env.h.Verifier = carriers.NewVerifier(srv.URL, "test-key", nil)

	got := decode(t, env.postJSON(t, "/verify_mc", `{"call_id":"c1","mc_number":"999999"}`))
	if got["ok"] != true || got["eligible"] != false || got["reason"] != "MC not found" {
		t.Fatalf("body = %v", got)
	}
	if n, _ := env.profiles.Count(context.Background()); n != 0 {
		t.Fatalf("no profile should be stored, count = %d", n)
	}
}
