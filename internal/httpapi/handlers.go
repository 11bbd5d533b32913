// Package httpapi exposes the webhook surface the voice workflow calls and
// the read API the dashboard polls. Handlers stay thin: parse input, call
// internal services, return JSON. Anything a workflow builder can send with
// a blank or placeholder call id still gets a usable response; hard failures
// are reserved for a dead store.
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"freight-voice-backend/internal/callrecord"
	"freight-voice-backend/internal/carriers"
	"freight-voice-backend/internal/events"
	"freight-voice-backend/internal/handoff"
	"freight-voice-backend/internal/loads"
	"freight-voice-backend/internal/metrics"
	"freight-voice-backend/internal/prefs"
	"freight-voice-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handlers groups HTTP handlers for dependency injection.

type Handlers struct {
	Events   events.Store
	Prefs    prefs.Store
	Profiles carriers.Store
	Verifier *carriers.Verifier
	Builder  *callrecord.Builder
	Metrics  *metrics.Service
	Loads    *loads.Generator
	Mailer   *handoff.SMTPSender

	// Now is injectable for deterministic timestamps in tests.
	Now func() time.Time
}

func (h Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// newCallID mints the per-call grouping id handed out by /schema.
func newCallID() string {
	return "call_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// --- Health & schema ---

func (h Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Schema hands the workflow builder a fresh call id plus the output scaffold
// its Get Data step infers field names from. Every response mints a new id;
// the workflow carries that id through every later webhook so the call's
// events group together.
func (h Handlers) Schema(c *gin.Context) {
	callID := newCallID()
	c.JSON(http.StatusOK, gin.H{
		"call_id":   callID,
		"verified":  false,
		"mc_number": "",
		"carrier":   gin.H{"legal_name": "", "dot_number": ""},
		"lane":      gin.H{"origin": "", "destination": "", "pickup_datetime": "", "equipment_type": ""},
		"load":      gin.H{"load_id": "", "rate": 0, "call_id": callID},
		"outcome":   "",
	})
}

// appendEvent writes one event, turning a store failure into a 500. The bool
// reports whether the caller may continue.
func (h Handlers) appendEvent(c *gin.Context, callID, eventType string, body any) bool {
	if _, err := h.Events.Append(c.Request.Context(), callID, eventType, body); err != nil {
		logger.FromGin(c).Error("event append failed", "event_type", eventType, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "event log unavailable"})
		return false
	}
	return true
}
