package httpapi

import (
	"net/http"
	"strings"

	"freight-voice-backend/internal/events"
	"freight-voice-backend/internal/handoff"

	"github.com/gin-gonic/gin"
)

// --- Generic event logging ---

type logEventRequest struct {
	CallID    string         `json:"call_id"`
	EventType string         `json:"event_type"`
	Payload   map[string]any `json:"payload"`
}

// LogEvent appends an arbitrary workflow event. A request without a payload
// is treated as a schema probe from the workflow builder, not an error: the
// builder fires the webhook once with an empty body to learn the shape.
func (h Handlers) LogEvent(c *gin.Context) {
	var req logEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Payload == nil {
		c.JSON(http.StatusOK, gin.H{
			"ok":            true,
			"schema_probe":  true,
			"expected_body": gin.H{"call_id": "string", "event_type": "string", "payload": gin.H{}},
		})
		return
	}

	callID := events.EffectiveCallID(req.CallID)
	if strings.TrimSpace(req.EventType) == "" {
		if !h.appendEvent(c, callID, events.TypeLogEvent, req.Payload) {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"ok":      true,
			"warning": "event_type was empty; payload logged under event_type 'log_event'",
		})
		return
	}

	if !h.appendEvent(c, callID, req.EventType, req.Payload) {
		return
	}
	out := gin.H{"ok": true}
	if callID == events.UnknownCallID {
		out["warning"] = "call_id was empty; event logged with call_id 'unknown'. Set call_id in your workflow so this call appears in the call log."
	}
	c.JSON(http.StatusOK, out)
}

// --- Call output ---

type callOutputRequest struct {
	CallID    string `json:"call_id"`
	EventType string `json:"event_type"`
	// Payload may be an object or a JSON-encoded string; the store keeps
	// whatever arrived and read paths normalize.
	Payload any `json:"payload"`
}

// CallOutput logs the workflow's end-of-call dump and echoes the request
// back so the builder can chain it into later steps.
func (h Handlers) CallOutput(c *gin.Context) {
	var req callOutputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Payload == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "payload required"})
		return
	}

	eventType := strings.TrimSpace(req.EventType)
	if eventType == "" {
		eventType = events.TypeCallOutput
	}
	if !h.appendEvent(c, events.EffectiveCallID(req.CallID), eventType, req.Payload) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"call_id":    req.CallID,
		"event_type": req.EventType,
		"payload":    req.Payload,
	})
}

// --- Classification ---

type classifyCallRequest struct {
	CallID              string   `json:"call_id"`
	Outcome             string   `json:"outcome"`
	Sentiment           string   `json:"sentiment"`
	Tone                string   `json:"tone"`
	SentimentReasoning  string   `json:"sentiment_reasoning"`
	CarrierMC           string   `json:"carrier_mc"`
	LoadID              string   `json:"load_id"`
	FinalRate           *float64 `json:"final_rate"`
	NegotiationRounds   *int     `json:"negotiation_rounds"`
	CallDurationSeconds *int     `json:"call_duration_seconds"`
	Summary             string   `json:"summary"`
}

// ClassifyCall logs the agent's end-of-call classification. The full request
// is stored, unset fields included, so record building can read whichever
// fields the workflow populated.
func (h Handlers) ClassifyCall(c *gin.Context) {
	var req classifyCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if !h.appendEvent(c, events.EffectiveCallID(req.CallID), events.TypeCallClassified, req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "call_id": req.CallID})
}

// --- Handoff context ---

// HandoffContext logs the transfer context reported mid-call and returns the
// one-line summary the receiving rep hears.
func (h Handlers) HandoffContext(c *gin.Context) {
	var req handoff.Context
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if !h.appendEvent(c, events.EffectiveCallID(req.CallID), events.TypeHandoffInitiated, req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "summary": req.Summary(), "context": req})
}
