package httpapi

import (
	"net/http"

	"freight-voice-backend/internal/carriers"
	"freight-voice-backend/internal/events"
	"freight-voice-backend/internal/payload"
	"freight-voice-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type verifyMCRequest struct {
	CallID   string `json:"call_id"`
	MCNumber string `json:"mc_number"`
}

// VerifyMC checks a carrier against FMCSA and logs both sides of the
// exchange. Verification never hard-fails a live call: an outage, a missing
// web key or an unknown MC all come back 200 with an ineligible result the
// agent can read out. When FMCSA knew the carrier, the snapshot also upserts
// the stored profile; a profile write failure is logged and swallowed since
// the verification itself succeeded.
func (h Handlers) VerifyMC(c *gin.Context) {
	var req verifyMCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	ctx := c.Request.Context()
	log := logger.FromGin(c)

	mc := carriers.NormalizeMC(req.MCNumber)
	callID := events.EffectiveCallID(req.CallID)
	if !h.appendEvent(c, callID, events.TypeVerifyMCRequested, payload.Fields{
		"mc_number":      mc,
		"original_input": req.MCNumber,
	}) {
		return
	}

	res := h.Verifier.Verify(ctx, mc)
	if res.Carrier != nil {
		if _, err := h.Profiles.Upsert(ctx, mc, res.Carrier.ProfileUpdate()); err != nil {
			log.Warn("carrier profile upsert failed", "mc_number", mc, "err", err)
		}
		if !h.appendEvent(c, callID, events.TypeVerifyMCResult, payload.Fields{
			"mc_number": mc,
			"eligible":  res.Eligible,
			"reason":    res.Reason,
			"carrier":   res.Carrier,
		}) {
			return
		}
	} else if !h.appendEvent(c, callID, events.TypeVerifyMCResult, res) {
		return
	}

	c.JSON(http.StatusOK, res)
}
