package main

import (
	"freight-voice-backend/internal/auth"
	"freight-voice-backend/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, apiKey string) {
	// public
	r.GET("/health", h.Health)
	r.GET("/schema", h.Schema)
	r.POST("/schema", h.Schema)
	r.GET("/dashboard", h.Dashboard)

	// Read-only API consumed by the dashboard (public).
	api := r.Group("/api")
	{
		api.GET("/live-data", h.LiveData)
		api.GET("/call-summary", h.CallSummary)
		api.GET("/calls", h.ListCalls)
		api.GET("/calls/:call_id", h.GetCall)
		api.GET("/metrics/overview", h.MetricsOverview)
		api.GET("/metrics/negotiations", h.MetricsNegotiations)
		api.GET("/carriers/insights", h.CarrierInsights)
	}

	// Voice-agent webhooks and tools (API key required).
	keyed := r.Group("")
	keyed.Use(auth.RequireAPIKey(apiKey))
	{
		keyed.POST("/verify_mc", h.VerifyMC)
		keyed.POST("/log_event", h.LogEvent)
		keyed.POST("/call_output", h.CallOutput)
		keyed.POST("/classify_call", h.ClassifyCall)
		keyed.POST("/handoff_context", h.HandoffContext)

		keyed.POST("/set_call_search_prefs", h.SetSearchPrefs)
		keyed.GET("/call_search_prefs", h.GetSearchPrefs)
		keyed.GET("/find_loads", h.FindLoads)
		keyed.GET("/get_best_load", h.GetBestLoad)
		keyed.POST("/submit_load", h.SubmitLoad)

		keyed.GET("/handoff_summary/:call_id", h.HandoffSummary)
		keyed.POST("/send_handoff_email", h.SendHandoffEmail)
	}
}
