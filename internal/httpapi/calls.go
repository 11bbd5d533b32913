package httpapi

import (
	"net/http"

	"freight-voice-backend/internal/callrecord"
	"freight-voice-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// buildRecords reconstructs every call record for the read API, reporting a
// dead store as a 500. The bool reports whether the caller may continue.
func (h Handlers) buildRecords(c *gin.Context) ([]callrecord.Record, bool) {
	records, err := h.Builder.BuildAll(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("call record rebuild failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "call log unavailable"})
		return nil, false
	}
	return records, true
}

// ListCalls returns every reconstructed call record, newest activity first,
// filtered by the q/outcome/sentiment query parameters.
func (h Handlers) ListCalls(c *gin.Context) {
	f := callrecord.Filter{
		Query:     c.Query("q"),
		Outcome:   c.Query("outcome"),
		Sentiment: c.Query("sentiment"),
	}
	records, ok := h.buildRecords(c)
	if !ok {
		return
	}
	out := make([]callrecord.Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	c.JSON(http.StatusOK, out)
}

// GetCall returns one reconstructed call record.
func (h Handlers) GetCall(c *gin.Context) {
	callID := c.Param("call_id")
	rec, ok, err := h.Builder.Build(c.Request.Context(), callID)
	if err != nil {
		logger.FromGin(c).Error("call record build failed", "call_id", callID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "call log unavailable"})
		return
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Call not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// --- Metrics ---

func (h Handlers) MetricsOverview(c *gin.Context) {
	records, ok := h.buildRecords(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Metrics.Overview(records))
}

func (h Handlers) MetricsNegotiations(c *gin.Context) {
	records, ok := h.buildRecords(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Metrics.Negotiations(records))
}

func (h Handlers) CarrierInsights(c *gin.Context) {
	records, ok := h.buildRecords(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Metrics.CarrierInsights(records))
}
