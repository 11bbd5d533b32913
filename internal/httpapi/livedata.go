package httpapi

import (
	"net/http"

	"freight-voice-backend/internal/events"
	"freight-voice-backend/pkg/logger"
	"freight-voice-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type activeCallRow struct {
	CallID           string `json:"call_id"`
	MCNumber         string `json:"mc_number"`
	OriginCity       string `json:"origin_city"`
	OriginState      string `json:"origin_state"`
	DestinationCity  string `json:"destination_city"`
	DestinationState string `json:"destination_state"`
	EquipmentType    string `json:"equipment_type"`
	DepartureDate    string `json:"departure_date"`
	UpdatedAt        string `json:"updated_at"`
}

type carrierRow struct {
	MCNumber      string `json:"mc_number"`
	LegalName     string `json:"legal_name"`
	PhysicalCity  string `json:"physical_city"`
	PhysicalState string `json:"physical_state"`
	EquipmentType string `json:"equipment_type"`
	UpdatedAt     string `json:"updated_at"`
}

// LiveData is the dashboard polling feed: recent events, calls with active
// load searches, verified carriers and running totals in one response.
func (h Handlers) LiveData(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromGin(c)

	recent, err := h.Events.Recent(ctx, 20)
	if err != nil {
		log.Error("event lookup failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "event log unavailable"})
		return
	}
	if recent == nil {
		recent = []events.Event{}
	}

	activePrefs, err := h.Prefs.Recent(ctx, 10)
	if err != nil {
		log.Error("prefs lookup failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "preferences lookup failed"})
		return
	}
	activeCalls := make([]activeCallRow, 0, len(activePrefs))
	for _, sp := range activePrefs {
		activeCalls = append(activeCalls, activeCallRow{
			CallID:           sp.CallID,
			MCNumber:         sp.MCNumber,
			OriginCity:       sp.OriginCity,
			OriginState:      sp.OriginState,
			DestinationCity:  sp.DestinationCity,
			DestinationState: sp.DestinationState,
			EquipmentType:    sp.EquipmentType,
			DepartureDate:    sp.DepartureDate,
			UpdatedAt:        sp.UpdatedAt,
		})
	}

	profiles, err := h.Profiles.Recent(ctx, 10)
	if err != nil {
		log.Error("carrier lookup failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "carrier lookup failed"})
		return
	}
	carrierRows := make([]carrierRow, 0, len(profiles))
	for _, p := range profiles {
		carrierRows = append(carrierRows, carrierRow{
			MCNumber:      p.MCNumber,
			LegalName:     p.LegalName,
			PhysicalCity:  p.PhysicalCity,
			PhysicalState: p.PhysicalState,
			EquipmentType: p.EquipmentType,
			UpdatedAt:     p.UpdatedAt,
		})
	}

	totalEvents, err := h.Events.Count(ctx)
	if err != nil {
		log.Error("event lookup failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "event log unavailable"})
		return
	}
	totalCalls, err := h.Prefs.Count(ctx)
	if err != nil {
		log.Error("prefs lookup failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "preferences lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"timestamp": utils.FormatUTC(h.now()),
		"stats": gin.H{
			"total_events":   totalEvents,
			"total_calls":    totalCalls,
			"total_carriers": len(carrierRows),
		},
		"recent_events": recent,
		"active_calls":  activeCalls,
		"carriers":      carrierRows,
	})
}
