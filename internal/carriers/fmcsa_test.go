package carriers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const eligibleBody = `{"content":[{"carrier":{
	"legalName":"Acme Trucking LLC",
	"dotNumber":123456,
	"allowedToOperate":"Y",
	"outOfService":"N",
	"safetyRating":"S",
	"phyCity":"Dallas",
	"phyState":"TX"
}}]}`

func fmcsaServer(t *testing.T, status int, body string) (*httptest.Server, *int) {
	t.Helper()
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestVerifier_Eligible(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("webKey")
		w.Write([]byte(eligibleBody))
	}))
	defer srv.Close()

	v := NewVerifier(srv.URL, "test-key", nil)
	res := v.Verify(context.Background(), "123456")

	if !res.OK || !res.Eligible || res.Reason != "" {
		t.Fatalf("result = %+v, want ok eligible with no reason", res)
	}
	if gotPath != "/carriers/docket-number/123456" || gotKey != "test-key" {
		t.Fatalf("request = %s?webKey=%s", gotPath, gotKey)
	}
	c := res.Carrier
	if c == nil || c.Name != "Acme Trucking LLC" || c.MCNumber != "123456" || c.DOTNumber != "123456" {
		t.Fatalf("carrier = %+v", c)
	}
	if c.PhysicalCity != "Dallas" || c.PhysicalState != "TX" || c.SafetyRating != "S" {
		t.Fatalf("carrier = %+v", c)
	}
}

func TestVerifier_NotAllowedToOperate(t *testing.T) {
	srv, _ := fmcsaServer(t, http.StatusOK,
		`{"content":[{"carrier":{"legalName":"Parked Freight","allowedToOperate":"N","outOfService":"N"}}]}`)

	res := NewVerifier(srv.URL, "k", nil).Verify(context.Background(), "111111")
	if res.Eligible || res.Reason != "Carrier is not allowed to operate" {
		t.Fatalf("result = %+v", res)
	}
	if res.Carrier == nil || res.Carrier.Name != "Parked Freight" {
		t.Fatalf("carrier = %+v", res.Carrier)
	}
}

func TestVerifier_OutOfService(t *testing.T) {
	srv, _ := fmcsaServer(t, http.StatusOK,
		`{"content":[{"carrier":{"allowedToOperate":"Y","outOfService":"Y"}}]}`)

	res := NewVerifier(srv.URL, "k", nil).Verify(context.Background(), "111111")
	if res.Eligible || res.Reason != "Carrier is currently out of service" {
		t.Fatalf("result = %+v", res)
	}
}

func TestVerifier_NotFound(t *testing.T) {
	srv, _ := fmcsaServer(t, http.StatusNotFound, "")

	res := NewVerifier(srv.URL, "k", nil).Verify(context.Background(), "999999")
	if !res.OK || res.Eligible || res.Reason != "MC not found" {
		t.Fatalf("result = %+v", res)
	}
	if res.Carrier != nil {
		t.Fatalf("carrier = %+v, want nil", res.Carrier)
	}
}

func TestVerifier_UpstreamError(t *testing.T) {
	srv, _ := fmcsaServer(t, http.StatusInternalServerError, "")

	res := NewVerifier(srv.URL, "k", nil).Verify(context.Background(), "999999")
	if !res.OK || res.Eligible || res.Reason != "FMCSA API error: 500" {
		t.Fatalf("result = %+v", res)
	}
}

func TestVerifier_EmptyContent(t *testing.T) {
	srv, _ := fmcsaServer(t, http.StatusOK, `{"content":[]}`)

	res := NewVerifier(srv.URL, "k", nil).Verify(context.Background(), "999999")
	if res.Eligible || res.Reason != "MC not found" {
		t.Fatalf("result = %+v", res)
	}
	if res.Raw == nil {
		t.Fatal("raw body not carried on empty content")
	}
}

func TestVerifier_TransportFailureIsSoft(t *testing.T) {
	srv, _ := fmcsaServer(t, http.StatusOK, eligibleBody)
	srv.Close()

	res := NewVerifier(srv.URL, "k", nil).Verify(context.Background(), "123456")
	if !res.OK || res.Eligible || res.Reason == "" {
		t.Fatalf("result = %+v, want soft failure with reason", res)
	}
}

func TestVerifier_MissingWebKey(t *testing.T) {
	srv, hits := fmcsaServer(t, http.StatusOK, eligibleBody)

	res := NewVerifier(srv.URL, "", nil).Verify(context.Background(), "123456")
	if !res.OK || res.Eligible || res.Reason != "FMCSA_WEBKEY not configured" {
		t.Fatalf("result = %+v", res)
	}
	if *hits != 0 {
		t.Fatalf("unconfigured verifier reached upstream %d times", *hits)
	}
}

func TestVerifier_CacheServesRepeatLookups(t *testing.T) {
	srv, hits := fmcsaServer(t, http.StatusOK, eligibleBody)

	mr := miniredis.RunT(t)
	cache := NewCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)

	v := NewVerifier(srv.URL, "k", cache)
	first := v.Verify(context.Background(), "123456")
	second := v.Verify(context.Background(), "123456")

	if *hits != 1 {
		t.Fatalf("upstream hit %d times, want 1", *hits)
	}
	if !second.Eligible || second.Carrier == nil || second.Carrier.Name != first.Carrier.Name {
		t.Fatalf("cached result = %+v, want %+v", second, first)
	}
}

func TestCarrier_ProfileUpdateSkipsEmptyFields(t *testing.T) {
	c := &Carrier{Name: "Acme Trucking LLC", DOTNumber: "123456"}
	upd := c.ProfileUpdate()
	if upd.LegalName == nil || *upd.LegalName != c.Name {
		t.Fatalf("legal name = %v", upd.LegalName)
	}
	if upd.PhysicalCity != nil || upd.PhysicalState != nil {
		t.Fatalf("empty fields should stay nil: %+v", upd)
	}
}
