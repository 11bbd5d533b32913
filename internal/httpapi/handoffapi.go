package httpapi

import (
	"net/http"
	"strings"

	"freight-voice-backend/internal/handoff"
	"freight-voice-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HandoffSummary returns the email subject and body for a call. Placeholder
// ids get a canned example so a workflow builder probing the endpoint can
// infer the output shape, and an unknown id gets a not-found body instead of
// a 404 because the workflow's email step still needs something to send.
func (h Handlers) HandoffSummary(c *gin.Context) {
	callID := c.Param("call_id")
	if handoff.IsPlaceholderID(callID) {
		id, subject, body := handoff.Example()
		c.JSON(http.StatusOK, gin.H{"call_id": id, "subject": subject, "body": body})
		return
	}

	rec, ok, err := h.Builder.Build(c.Request.Context(), callID)
	if err != nil {
		logger.FromGin(c).Error("call record build failed", "call_id", callID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "call log unavailable"})
		return
	}
	if !ok {
		subject, body := handoff.NotFound(callID)
		c.JSON(http.StatusOK, gin.H{"call_id": callID, "subject": subject, "body": body})
		return
	}

	subject, body := handoff.Format(rec)
	c.JSON(http.StatusOK, gin.H{"call_id": callID, "subject": subject, "body": body})
}

type sendHandoffEmailRequest struct {
	CallID  string `json:"call_id"`
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
}

// SendHandoffEmail builds the handoff summary for a call and, when SMTP is
// configured, emails it to the sales rep. The summary always comes back in
// the response so an unconfigured or failed send still leaves the workflow
// something to forward.
func (h Handlers) SendHandoffEmail(c *gin.Context) {
	var req sendHandoffEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	ctx := c.Request.Context()

	rec, ok, err := h.Builder.Build(ctx, req.CallID)
	if err != nil {
		logger.FromGin(c).Error("call record build failed", "call_id", req.CallID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "call log unavailable"})
		return
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Call not found"})
		return
	}

	subject, body := handoff.Format(rec)
	if s := strings.TrimSpace(req.Subject); s != "" {
		subject = s
	}

	out := gin.H{
		"ok":       true,
		"call_id":  req.CallID,
		"to_email": req.ToEmail,
		"subject":  subject,
		"body":     body,
		"sent":     false,
	}
	if h.Mailer != nil && h.Mailer.Configured() {
		if err := h.Mailer.Send(ctx, req.ToEmail, subject, body); err != nil {
			logger.FromGin(c).Warn("handoff email send failed", "call_id", req.CallID, "err", err)
			out["error"] = err.Error()
		} else {
			out["sent"] = true
		}
	} else {
		out["message"] = handoff.NotConfiguredMessage
	}
	c.JSON(http.StatusOK, out)
}
