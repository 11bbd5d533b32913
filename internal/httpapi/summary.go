package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"freight-voice-backend/internal/carriers"
	"freight-voice-backend/internal/events"
	"freight-voice-backend/internal/payload"
	"freight-voice-backend/internal/prefs"
	"freight-voice-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const callIDHint = "Use the real call identifier from your voice session (e.g. from Web Call / Get Data), not a literal like 'string'."

// CallSummary renders the latest call as four plain-text blurbs for the live
// dashboard. The primary call is the newest one with a verification or
// negotiation event; calls that only ever logged chatter are a fallback, not
// the headline.
func (h Handlers) CallSummary(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromGin(c)

	callID, err := h.Events.LatestCallWith(ctx, events.TypeVerifyMCResult, events.TypeNegotiationComplete)
	if err != nil {
		log.Error("event lookup failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "event log unavailable"})
		return
	}
	if callID == "" {
		latest, err := h.Events.Recent(ctx, 1)
		if err != nil {
			log.Error("event lookup failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "event log unavailable"})
			return
		}
		if len(latest) == 0 {
			c.JSON(http.StatusOK, gin.H{
				"ok":                true,
				"call_id":           nil,
				"carrier_summary":   "No calls yet.",
				"load_summary":      "No load data yet.",
				"outcome_summary":   "No negotiation outcome yet.",
				"sentiment_summary": "No sentiment captured yet.",
			})
			return
		}
		callID = latest[0].CallID
	}

	evs, err := h.Events.EventsFor(ctx, callID)
	if err != nil {
		log.Error("event lookup failed", "call_id", callID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "event log unavailable"})
		return
	}
	latest := make(map[string]payload.Fields, len(evs))
	for _, e := range evs {
		if e.EventType != "" {
			latest[e.EventType] = payload.Normalize(e.Payload)
		}
	}

	carrierSummary, err := h.carrierSummary(ctx, latest[events.TypeVerifyMCResult])
	if err != nil {
		log.Error("carrier lookup failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "carrier lookup failed"})
		return
	}
	loadSummary, err := h.loadSummary(ctx, callID, latest)
	if err != nil {
		log.Error("prefs lookup failed", "call_id", callID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "preferences lookup failed"})
		return
	}
	sentimentSummary, err := h.sentimentSummary(ctx, latest[events.TypeSentimentClassified])
	if err != nil {
		log.Error("event lookup failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "event log unavailable"})
		return
	}

	var hint any
	if t := strings.TrimSpace(callID); t == "" || t == "string" || t == events.UnknownCallID {
		hint = callIDHint
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":                true,
		"call_id":           callID,
		"carrier_summary":   carrierSummary,
		"load_summary":      loadSummary,
		"outcome_summary":   outcomeSummary(latest[events.TypeNegotiationComplete]),
		"sentiment_summary": sentimentSummary,
		"call_id_hint":      hint,
	})
}

func (h Handlers) carrierSummary(ctx context.Context, verify payload.Fields) (string, error) {
	carrier := payload.Map(verify, "carrier")

	mc := payload.String(carrier, "mc_number")
	if mc == "" {
		mc = payload.String(verify, "mc_number")
	}
	if mc == "" {
		mc = "Unknown"
	}
	name := payload.String(carrier, "name", "legal_name", "legalName")
	if name == "" {
		p, err := h.Profiles.Get(ctx, mc)
		switch {
		case err == nil:
			name = p.LegalName
		case !errors.Is(err, carriers.ErrNotFound):
			return "", err
		}
	}
	if name == "" {
		name = "Unknown carrier"
	}

	eligible, ok := verify["eligible"]
	if !ok || eligible == nil {
		return "Eligibility not recorded.", nil
	}
	dot := ""
	if d := payload.String(carrier, "dot_number"); d != "" {
		dot = ", DOT " + d
	}
	return fmt.Sprintf("Carrier %s (MC %s%s). Eligible: %s.", name, mc, dot, scalar(eligible)), nil
}

// loadSummary describes the load under discussion, preferring the
// negotiation payload over the retrieved best load, and appends the reefer
// band from stored preferences when one was captured.
func (h Handlers) loadSummary(ctx context.Context, callID string, latest map[string]payload.Fields) (string, error) {
	load := latest[events.TypeNegotiationComplete]
	if len(load) == 0 {
		load = latest[events.TypeBestLoadRetrieved]
	}

	out := "No load data yet."
	if len(load) > 0 {
		parts := []string{fmt.Sprintf("Load from %s to %s with %s.",
			fieldOr(load, "Unknown", "origin"),
			fieldOr(load, "Unknown", "destination"),
			fieldOr(load, "Unknown", "equipment_type"))}
		if v := payload.Pick(load, "loadboard_rate", "rate"); payload.Truthy(v) {
			parts = append(parts, "Listed rate $"+scalar(v)+".")
		}
		if v := load["miles"]; payload.Truthy(v) {
			parts = append(parts, "~"+scalar(v)+" miles.")
		}
		if v := payload.Pick(load, "commodity", "commodity_type"); payload.Truthy(v) {
			parts = append(parts, "Commodity: "+scalar(v)+".")
		}
		out = strings.Join(parts, " ")
	}

	sp, err := h.Prefs.Get(ctx, callID)
	if err != nil {
		if errors.Is(err, prefs.ErrNotFound) {
			return out, nil
		}
		return "", err
	}
	if band := tempBand(sp.MinTemp, sp.MaxTemp); band != "" {
		out += " Refrigeration: " + band + "°F."
	}
	return out, nil
}

func outcomeSummary(neg payload.Fields) string {
	if len(neg) == 0 {
		return "No negotiation outcome yet."
	}
	return fmt.Sprintf("Outcome: accepted=%s. Final price $%s. Rounds: %s.",
		scalarOr(neg["accepted"], "false"),
		scalarOr(neg["final_price"], "0"),
		scalarOr(neg["negotiation_rounds"], "0"))
}

// sentimentSummary reads the call's sentiment event, falling back to the
// newest sentiment event across all calls. Workflow builders frequently log
// sentiment with a blank call id, and an orphaned reading beats none.
func (h Handlers) sentimentSummary(ctx context.Context, sent payload.Fields) (string, error) {
	if payload.String(sent, "sentiment_classification", "sentiment") == "" {
		e, ok, err := h.Events.LatestByType(ctx, events.TypeSentimentClassified)
		if err != nil {
			return "", err
		}
		if ok {
			sent = payload.Normalize(e.Payload)
		}
	}
	s := payload.String(sent, "sentiment_classification", "sentiment")
	if s == "" {
		return "No sentiment captured yet.", nil
	}
	return fmt.Sprintf("Sentiment: %s. Reason: %s", s, payload.String(sent, "sentiment_reasoning")), nil
}

// scalar renders a loose JSON scalar for display text; floats print without
// trailing zeros and nil renders empty.
func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func scalarOr(v any, fallback string) string {
	if s := scalar(v); s != "" {
		return s
	}
	return fallback
}

func fieldOr(f payload.Fields, fallback string, keys ...string) string {
	if s := payload.String(f, keys...); s != "" {
		return s
	}
	return fallback
}

func tempBand(minTemp, maxTemp *float64) string {
	var parts []string
	if minTemp != nil {
		parts = append(parts, scalar(*minTemp))
	}
	if maxTemp != nil {
		parts = append(parts, scalar(*maxTemp))
	}
	return strings.Join(parts, " to ")
}
