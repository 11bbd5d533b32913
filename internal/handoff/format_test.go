package handoff

import (
	"strings"
	"testing"

	"freight-voice-backend/internal/callrecord"
)

func TestFormat_FullRecord(t *testing.T) {
	finalRate := 1450.0
	rec := callrecord.Record{
		ID:                  "call_abc123",
		MCNumber:            "123456",
		CarrierName:         "Acme Trucking",
		VerificationStatus:  callrecord.StatusVerified,
		Outcome:             callrecord.OutcomeBooked,
		Sentiment:           callrecord.SentimentPositive,
		SentimentReasoning:  "Driver was upbeat.",
		CallDurationSeconds: 192,
		Load: &callrecord.LoadSnapshot{
			LoadID:           "LOAD-42",
			Origin:           "Los Angeles, CA",
			Destination:      "Phoenix, AZ",
			PickupDatetime:   "2025-01-03T08:00:00Z",
			DeliveryDatetime: "2025-01-04T17:00:00Z",
			EquipmentType:    "Van",
			LoadboardRate:    1500,
		},
		Negotiation: &callrecord.Negotiation{
			Rounds:        2,
			InitialOffer:  1500,
			CounterOffers: []float64{1400},
			FinalRate:     &finalRate,
			Agreed:        true,
		},
	}

	subject, body := Format(rec)
	if subject != "Call handoff: Acme Trucking (booked) — call_abc123" {
		t.Fatalf("subject = %q", subject)
	}
	want := strings.Join([]string{
		"Call handoff summary — call_abc123",
		"",
		"— Carrier —",
		"Carrier: Acme Trucking",
		"MC#: 123456",
		"Verification: verified",
		"",
		"— Outcome —",
		"Outcome: booked",
		"Sentiment: Positive",
		"Duration: 3m 12s",
		"Reasoning: Driver was upbeat.",
		"",
		"— Load —",
		"Lane: Los Angeles, CA → Phoenix, AZ",
		"Load ID: LOAD-42",
		"Rate: $1,500",
		"Equipment: Van",
		"Pickup: 2025-01-03T08:00:00Z",
		"Delivery: 2025-01-04T17:00:00Z",
		"",
		"— Negotiation —",
		"Rounds: 2",
		"Final rate: $1,450",
		"Agreed: true",
		"",
		"View full details in the Call Log.",
	}, "\n")
	if body != want {
		t.Fatalf("body mismatch:\ngot:\n%s\n\nwant:\n%s", body, want)
	}
}

func TestFormat_EmptyRecordUsesPlaceholders(t *testing.T) {
	subject, body := Format(callrecord.Record{ID: "call_x"})
	if subject != "Call handoff: Unknown (—) — call_x" {
		t.Fatalf("subject = %q", subject)
	}
	for _, want := range []string{
		"MC#: —",
		"Verification: —",
		"Sentiment: —",
		"Duration: 0m 0s",
		"Reasoning: No reasoning provided.",
		"Lane: —",
		"Rate: —",
		"Rounds: 0",
		"Final rate: —",
		"Agreed: —",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestFormat_RateFallsBackThroughNegotiation(t *testing.T) {
	finalRate := 1450.0
	_, body := Format(callrecord.Record{
		ID:          "c",
		Negotiation: &callrecord.Negotiation{FinalRate: &finalRate},
	})
	if !strings.Contains(body, "Rate: $1,450") {
		t.Fatalf("final rate not used:\n%s", body)
	}

	// A negotiation that never produced a price still shows $0, not a dash:
	// the negotiation section proves a price conversation happened.
	_, body = Format(callrecord.Record{
		ID:          "c",
		Negotiation: &callrecord.Negotiation{},
	})
	if !strings.Contains(body, "Rate: $0") {
		t.Fatalf("zero offer not rendered:\n%s", body)
	}
}

func TestDollars(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{950, "$950"},
		{1500, "$1,500"},
		{1234567, "$1,234,567"},
		{999.6, "$1,000"},
		{-1500, "$-1,500"},
	}
	for _, c := range cases {
		if got := dollars(c.in); got != c.want {
			t.Fatalf("dollars(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsPlaceholderID(t *testing.T) {
	for _, id := range []string{"", "   ", "schema", "Example", "_", "SCHEMA"} {
		if !IsPlaceholderID(id) {
			t.Fatalf("IsPlaceholderID(%q) = false", id)
		}
	}
	if IsPlaceholderID("call_8f2a91c3b7d4") {
		t.Fatal("real id flagged as placeholder")
	}
}

func TestExample(t *testing.T) {
	callID, subject, body := Example()
	if callID != "call_example" {
		t.Fatalf("call id = %q", callID)
	}
	if subject != "Call handoff: Example Carrier (booked) — call_example" {
		t.Fatalf("subject = %q", subject)
	}
	for _, want := range []string{
		"Lane: Los Angeles, CA → New York, NY",
		"Rate: $1,500",
		"Agreed: true",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("example body missing %q:\n%s", want, body)
		}
	}
}

func TestNotFound(t *testing.T) {
	subject, body := NotFound("call_missing")
	if subject != "Call handoff: (call not found) — call_missing" {
		t.Fatalf("subject = %q", subject)
	}
	want := "Call handoff summary — call_missing\n\n" +
		"No call record found for this call_id yet (events may not be logged). " +
		"View full details in the Call Log once data is available."
	if body != want {
		t.Fatalf("body = %q", body)
	}
}

func TestContext_Summary(t *testing.T) {
	rate := 1450.0
	c := Context{
		CallID:         "c1",
		CarrierName:    "Acme Trucking",
		MCNumber:       "123456",
		LoadID:         "LOAD-42",
		AgreedRate:     &rate,
		Origin:         "Los Angeles, CA",
		Destination:    "Phoenix, AZ",
		PickupDatetime: "2025-01-03",
		Notes:          "call dispatch on arrival",
	}
	want := "Carrier: Acme Trucking | MC#: 123456 | Load: LOAD-42 | " +
		"Route: Los Angeles, CA → Phoenix, AZ | Agreed Rate: $1,450 | " +
		"Pickup: 2025-01-03 | Notes: call dispatch on arrival"
	if got := c.Summary(); got != want {
		t.Fatalf("summary = %q, want %q", got, want)
	}
}

func TestContext_SummarySkipsEmptyParts(t *testing.T) {
	if got := (Context{CallID: "c1"}).Summary(); got != "" {
		t.Fatalf("summary = %q, want empty", got)
	}
	zero := 0.0
	got := (Context{CallID: "c1", CarrierName: "Acme", AgreedRate: &zero}).Summary()
	if got != "Carrier: Acme" {
		t.Fatalf("summary = %q, want zero rate skipped", got)
	}
}
