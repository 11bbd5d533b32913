package handoff

import (
	"fmt"
	"strings"
)

// Context is what the workflow reports at transfer time, before any record
// can be built. It is logged as a handoff_initiated event with every field
// present, and summarized for the receiving rep.
type Context struct {
	CallID         string   `json:"call_id"`
	CarrierName    string   `json:"carrier_name"`
	MCNumber       string   `json:"mc_number"`
	LoadID         string   `json:"load_id"`
	AgreedRate     *float64 `json:"agreed_rate"`
	Origin         string   `json:"origin"`
	Destination    string   `json:"destination"`
	PickupDatetime string   `json:"pickup_datetime"`
	Notes          string   `json:"notes"`
}

// Summary joins the non-empty parts into the one-line summary read to the
// rep picking up the call.
func (c Context) Summary() string {
	var parts []string
	if c.CarrierName != "" {
		parts = append(parts, "Carrier: "+c.CarrierName)
	}
	if c.MCNumber != "" {
		parts = append(parts, "MC#: "+c.MCNumber)
	}
	if c.LoadID != "" {
		parts = append(parts, "Load: "+c.LoadID)
	}
	if c.Origin != "" || c.Destination != "" {
		parts = append(parts, fmt.Sprintf("Route: %s → %s", c.Origin, c.Destination))
	}
	if c.AgreedRate != nil && *c.AgreedRate != 0 {
		parts = append(parts, "Agreed Rate: "+dollars(*c.AgreedRate))
	}
	if c.PickupDatetime != "" {
		parts = append(parts, "Pickup: "+c.PickupDatetime)
	}
	if c.Notes != "" {
		parts = append(parts, "Notes: "+c.Notes)
	}
	return strings.Join(parts, " | ")
}
