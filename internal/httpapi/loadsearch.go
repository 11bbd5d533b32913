package httpapi

import (
	"errors"
	"net/http"

	"freight-voice-backend/internal/events"
	"freight-voice-backend/internal/payload"
	"freight-voice-backend/internal/prefs"
	"freight-voice-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// --- Search preferences ---

// setSearchPrefsRequest carries one partial preference update. The numeric
// fields are typed any because workflow builders send them as strings and
// numbers interchangeably; coercion happens here and a value that fails to
// coerce is dropped rather than clearing stored data.
type setSearchPrefsRequest struct {
	CallID              string  `json:"call_id"`
	MCNumber            *string `json:"mc_number"`
	OriginCity          *string `json:"origin_city"`
	OriginState         *string `json:"origin_state"`
	DestinationCity     *string `json:"destination_city"`
	DestinationState    *string `json:"destination_state"`
	PickupDate          *string `json:"pickup_date"`
	DepartureDate       *string `json:"departure_date"`
	LatestDepartureDate *string `json:"latest_departure_date"`
	EquipmentType       *string `json:"equipment_type"`
	WeightCapacity      any     `json:"weight_capacity"`
	OriginLat           any     `json:"origin_lat"`
	OriginLng           any     `json:"origin_lng"`
	OriginRadiusMiles   any     `json:"origin_radius_miles"`
	DestLat             any     `json:"dest_lat"`
	DestLng             any     `json:"dest_lng"`
	DestRadiusMiles     any     `json:"dest_radius_miles"`
	MinTemp             any     `json:"min_temp"`
	MaxTemp             any     `json:"max_temp"`
	Notes               *string `json:"notes"`
}

func (r setSearchPrefsRequest) update() prefs.Update {
	return prefs.Update{
		MCNumber:            r.MCNumber,
		OriginCity:          r.OriginCity,
		OriginState:         r.OriginState,
		DestinationCity:     r.DestinationCity,
		DestinationState:    r.DestinationState,
		PickupDate:          r.PickupDate,
		DepartureDate:       r.DepartureDate,
		LatestDepartureDate: r.LatestDepartureDate,
		EquipmentType:       r.EquipmentType,
		WeightCapacity:      payload.AsInt(r.WeightCapacity),
		OriginLat:           payload.AsFloat(r.OriginLat),
		OriginLng:           payload.AsFloat(r.OriginLng),
		OriginRadiusMiles:   payload.AsInt(r.OriginRadiusMiles),
		DestLat:             payload.AsFloat(r.DestLat),
		DestLng:             payload.AsFloat(r.DestLng),
		DestRadiusMiles:     payload.AsInt(r.DestRadiusMiles),
		MinTemp:             payload.AsFloat(r.MinTemp),
		MaxTemp:             payload.AsFloat(r.MaxTemp),
		Notes:               r.Notes,
	}
}

// changes is the call_search_prefs_updated event payload: one entry per field
// the request carried, holding the coerced value. A failed coercion logs as
// null, mirroring what the store skipped.
func (r setSearchPrefsRequest) changes(u prefs.Update) payload.Fields {
	m := payload.Fields{}
	if r.MCNumber != nil {
		m["mc_number"] = *r.MCNumber
	}
	if r.OriginCity != nil {
		m["origin_city"] = *r.OriginCity
	}
	if r.OriginState != nil {
		m["origin_state"] = *r.OriginState
	}
	if r.DestinationCity != nil {
		m["destination_city"] = *r.DestinationCity
	}
	if r.DestinationState != nil {
		m["destination_state"] = *r.DestinationState
	}
	if r.PickupDate != nil {
		m["pickup_date"] = *r.PickupDate
	}
	if r.DepartureDate != nil {
		m["departure_date"] = *r.DepartureDate
	}
	if r.LatestDepartureDate != nil {
		m["latest_departure_date"] = *r.LatestDepartureDate
	}
	if r.EquipmentType != nil {
		m["equipment_type"] = *r.EquipmentType
	}
	if r.WeightCapacity != nil {
		m["weight_capacity"] = u.WeightCapacity
	}
	if r.OriginLat != nil {
		m["origin_lat"] = u.OriginLat
	}
	if r.OriginLng != nil {
		m["origin_lng"] = u.OriginLng
	}
	if r.OriginRadiusMiles != nil {
		m["origin_radius_miles"] = u.OriginRadiusMiles
	}
	if r.DestLat != nil {
		m["dest_lat"] = u.DestLat
	}
	if r.DestLng != nil {
		m["dest_lng"] = u.DestLng
	}
	if r.DestRadiusMiles != nil {
		m["dest_radius_miles"] = u.DestRadiusMiles
	}
	if r.MinTemp != nil {
		m["min_temp"] = u.MinTemp
	}
	if r.MaxTemp != nil {
		m["max_temp"] = u.MaxTemp
	}
	if r.Notes != nil {
		m["notes"] = *r.Notes
	}
	return m
}

// SetSearchPrefs merges a partial preference update for a call, logs what
// changed and returns the full merged row.
func (h Handlers) SetSearchPrefs(c *gin.Context) {
	var req setSearchPrefsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	callID := events.EffectiveCallID(req.CallID)

	u := req.update()
	row, err := h.Prefs.Upsert(c.Request.Context(), callID, u)
	if err != nil {
		logger.FromGin(c).Error("prefs upsert failed", "call_id", callID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "preferences save failed"})
		return
	}
	if !h.appendEvent(c, callID, events.TypePrefsUpdated, req.changes(u)) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "prefs": row})
}

// GetSearchPrefs returns the stored preference row for a call.
func (h Handlers) GetSearchPrefs(c *gin.Context) {
	callID := c.Query("call_id")
	row, err := h.Prefs.Get(c.Request.Context(), callID)
	if errors.Is(err, prefs.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Call search preferences not found"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("prefs lookup failed", "call_id", callID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "preferences lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "prefs": row})
}

// --- Loads ---

// FindLoads generates a batch of loads on the call's preferred lane. The
// preferences must exist; without them the agent should collect the lane
// first rather than pitch the default demo loads.
func (h Handlers) FindLoads(c *gin.Context) {
	callID := c.Query("call_id")
	ctx := c.Request.Context()

	sp, err := h.Prefs.Get(ctx, callID)
	if errors.Is(err, prefs.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Call search preferences not found"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("prefs lookup failed", "call_id", callID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "preferences lookup failed"})
		return
	}

	found := h.Loads.Generate(&sp)
	if !h.appendEvent(c, events.EffectiveCallID(callID), events.TypeLoadsFound, payload.Fields{
		"count":            len(found),
		"origin_city":      sp.OriginCity,
		"destination_city": sp.DestinationCity,
		"equipment_type":   sp.EquipmentType,
	}) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "call_id": callID, "loads": found})
}

// GetBestLoad returns the highest-rate load for the call's lane, falling
// back to the default demo lane when no preferences were captured, and logs
// it as the load under discussion.
func (h Handlers) GetBestLoad(c *gin.Context) {
	callID := c.Query("call_id")
	ctx := c.Request.Context()

	var sp *prefs.SearchPrefs
	row, err := h.Prefs.Get(ctx, callID)
	switch {
	case err == nil:
		sp = &row
	case !errors.Is(err, prefs.ErrNotFound):
		logger.FromGin(c).Error("prefs lookup failed", "call_id", callID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "preferences lookup failed"})
		return
	}

	best := h.Loads.Generate(sp)[0]
	if !h.appendEvent(c, events.EffectiveCallID(callID), events.TypeBestLoadRetrieved, payload.Fields{
		"load_id":     best.LoadID,
		"rate":        best.LoadboardRate,
		"origin":      best.Origin,
		"destination": best.Destination,
	}) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "call_id": callID, "load": best})
}

// --- External load submission ---

type submitLoadRequest struct {
	CallID           string   `json:"call_id"`
	LoadID           *string  `json:"load_id"`
	Origin           *string  `json:"origin"`
	Destination      *string  `json:"destination"`
	PickupDatetime   *string  `json:"pickup_datetime"`
	DeliveryDatetime *string  `json:"delivery_datetime"`
	EquipmentType    *string  `json:"equipment_type"`
	LoadboardRate    *float64 `json:"loadboard_rate"`
	Rate             *float64 `json:"rate"`
	Notes            *string  `json:"notes"`
	Weight           *int     `json:"weight"`
	CommodityType    *string  `json:"commodity_type"`
	NumOfPieces      *int     `json:"num_of_pieces"`
	Miles            *int     `json:"miles"`
	Dimensions       *string  `json:"dimensions"`
}

// loadFields collects the fields the request actually carried, adding the
// rate alias older workflows and the record builder read.
func (r submitLoadRequest) loadFields() payload.Fields {
	m := payload.Fields{}
	setString := func(key string, v *string) {
		if v != nil {
			m[key] = *v
		}
	}
	setString("load_id", r.LoadID)
	setString("origin", r.Origin)
	setString("destination", r.Destination)
	setString("pickup_datetime", r.PickupDatetime)
	setString("delivery_datetime", r.DeliveryDatetime)
	setString("equipment_type", r.EquipmentType)
	setString("notes", r.Notes)
	setString("commodity_type", r.CommodityType)
	setString("dimensions", r.Dimensions)
	if r.LoadboardRate != nil {
		m["loadboard_rate"] = *r.LoadboardRate
	}
	if r.Rate != nil {
		m["rate"] = *r.Rate
	}
	if r.Weight != nil {
		m["weight"] = *r.Weight
	}
	if r.NumOfPieces != nil {
		m["num_of_pieces"] = *r.NumOfPieces
	}
	if r.Miles != nil {
		m["miles"] = *r.Miles
	}
	if _, ok := m["rate"]; !ok {
		if lb, ok := m["loadboard_rate"]; ok {
			m["rate"] = lb
		}
	}
	return m
}

// SubmitLoad stores an externally sourced load (TMS, load board) against a
// call. It lands as a best_load_retrieved event so the call log and handoff
// pick it up like any agent-retrieved load.
func (h Handlers) SubmitLoad(c *gin.Context) {
	var req submitLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	hasAnchor := (req.LoadID != nil && *req.LoadID != "") || (req.Origin != nil && *req.Origin != "")
	if !hasAnchor {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Provide at least load_id or origin"})
		return
	}

	body := req.loadFields()
	if !h.appendEvent(c, events.EffectiveCallID(req.CallID), events.TypeBestLoadRetrieved, body) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "call_id": req.CallID, "load": body})
}
