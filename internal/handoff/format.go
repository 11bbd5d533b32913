// Package handoff turns call records into the subject/body pair handed to a
// human rep, and optionally delivers it over SMTP. The body layout is part
// of the external contract: it is emailed verbatim, so section order and
// labels must stay stable.
package handoff

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"freight-voice-backend/internal/callrecord"
)

// Format renders the handoff email for a record. Pure and total: every
// optional field degrades to a placeholder, never an error.
func Format(rec callrecord.Record) (subject, body string) {
	carrier := rec.CarrierName
	if carrier == "" {
		carrier = "Unknown"
	}
	outcome := rec.Outcome
	if outcome == "" {
		outcome = "—"
	}
	subject = fmt.Sprintf("Call handoff: %s (%s) — %s", carrier, outcome, rec.ID)

	// Best known rate: the listed load rate, else what the negotiation
	// settled on, else its opening offer. A negotiation with only zero
	// rates still renders $0 rather than a dash.
	var rate *float64
	switch {
	case rec.Load != nil && rec.Load.LoadboardRate != 0:
		rate = &rec.Load.LoadboardRate
	case rec.Negotiation != nil && rec.Negotiation.FinalRate != nil && *rec.Negotiation.FinalRate != 0:
		rate = rec.Negotiation.FinalRate
	case rec.Negotiation != nil:
		rate = &rec.Negotiation.InitialOffer
	}
	rateStr := "—"
	if rate != nil {
		rateStr = dollars(*rate)
	}

	sentiment := capitalize(rec.Sentiment)
	if sentiment == "" {
		sentiment = "—"
	}
	reasoning := rec.SentimentReasoning
	if reasoning == "" {
		reasoning = "No reasoning provided."
	}

	lane, loadID, equipment, pickup, delivery := "—", "—", "—", "—", "—"
	if rec.Load != nil {
		lane = orDash(rec.Load.Origin) + " → " + orDash(rec.Load.Destination)
		loadID = orDash(rec.Load.LoadID)
		equipment = orDash(rec.Load.EquipmentType)
		pickup = orDash(rec.Load.PickupDatetime)
		delivery = orDash(rec.Load.DeliveryDatetime)
	}

	rounds, finalRate, agreed := "0", "—", "—"
	if rec.Negotiation != nil {
		rounds = strconv.Itoa(rec.Negotiation.Rounds)
		if rec.Negotiation.FinalRate != nil {
			finalRate = dollars(*rec.Negotiation.FinalRate)
		}
		agreed = strconv.FormatBool(rec.Negotiation.Agreed)
	}

	lines := []string{
		fmt.Sprintf("Call handoff summary — %s", rec.ID),
		"",
		"— Carrier —",
		"Carrier: " + carrier,
		"MC#: " + orDash(rec.MCNumber),
		"Verification: " + orDash(rec.VerificationStatus),
		"",
		"— Outcome —",
		"Outcome: " + outcome,
		"Sentiment: " + sentiment,
		fmt.Sprintf("Duration: %dm %ds", rec.CallDurationSeconds/60, rec.CallDurationSeconds%60),
		"Reasoning: " + reasoning,
		"",
		"— Load —",
		"Lane: " + lane,
		"Load ID: " + loadID,
		"Rate: " + rateStr,
		"Equipment: " + equipment,
		"Pickup: " + pickup,
		"Delivery: " + delivery,
		"",
		"— Negotiation —",
		"Rounds: " + rounds,
		"Final rate: " + finalRate,
		"Agreed: " + agreed,
		"",
		"View full details in the Call Log.",
	}
	return subject, strings.Join(lines, "\n")
}

// IsPlaceholderID reports whether id is one of the placeholders workflow
// builders send while wiring the integration, rather than a real call id.
func IsPlaceholderID(id string) bool {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "", "schema", "example", "_":
		return true
	}
	return false
}

// Example returns the canned summary served for placeholder ids, built from
// a fixed example record so it always matches the real layout.
func Example() (callID, subject, body string) {
	finalRate := 1500.0
	rec := callrecord.Record{
		ID:                  "call_example",
		Timestamp:           "2025-01-01T00:00:00.000000Z",
		MCNumber:            "123456",
		CarrierName:         "Example Carrier",
		FMCSAVerified:       true,
		VerificationStatus:  callrecord.StatusVerified,
		Outcome:             callrecord.OutcomeBooked,
		Sentiment:           callrecord.SentimentPositive,
		SentimentReasoning:  "Carrier was engaged and agreed quickly.",
		CallDurationSeconds: 312,
		Load: &callrecord.LoadSnapshot{
			LoadID:           "LOAD-123456",
			Origin:           "Los Angeles, CA",
			Destination:      "New York, NY",
			PickupDatetime:   "2025-01-03T08:00:00.000000Z",
			DeliveryDatetime: "2025-01-06T17:00:00.000000Z",
			EquipmentType:    "Van",
			LoadboardRate:    1500,
		},
		Negotiation: &callrecord.Negotiation{
			Rounds:        2,
			InitialOffer:  1400,
			CounterOffers: []float64{1450},
			FinalRate:     &finalRate,
			Agreed:        true,
		},
	}
	subject, body = Format(rec)
	return rec.ID, subject, body
}

// NotFound returns the fallback summary for a real-looking call id with no
// events logged yet.
func NotFound(callID string) (subject, body string) {
	subject = fmt.Sprintf("Call handoff: (call not found) — %s", callID)
	body = fmt.Sprintf("Call handoff summary — %s\n\n"+
		"No call record found for this call_id yet (events may not be logged). "+
		"View full details in the Call Log once data is available.", callID)
	return subject, body
}

// dollars renders a whole-dollar amount with thousands grouping, $1,500.
func dollars(v float64) string {
	n := int64(math.Round(v))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i := 0; i < len(digits); i++ {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(digits[i])
	}
	return "$" + sign + b.String()
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
