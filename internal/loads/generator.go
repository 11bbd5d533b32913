// Package loads fabricates loadboard entries for demo calls. There is no
// real loadboard behind the API; the generator invents plausible lanes from
// the caller's search preferences so the voice flow can be exercised end to
// end.
package loads

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"freight-voice-backend/internal/prefs"
	"freight-voice-backend/pkg/utils"
)

// Load is one synthetic loadboard entry offered to the agent.
type Load struct {
	LoadID           string `json:"load_id"`
	Origin           string `json:"origin"`
	Destination      string `json:"destination"`
	PickupDatetime   string `json:"pickup_datetime"`
	DeliveryDatetime string `json:"delivery_datetime"`
	EquipmentType    string `json:"equipment_type"`
	LoadboardRate    int    `json:"loadboard_rate"`
	Weight           int    `json:"weight"`
	CommodityType    string `json:"commodity_type"`
	Miles            int    `json:"miles"`
}

// Generator produces batches of fake loads. Safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	clock func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		clock: time.Now,
	}
}

// NewSeededGenerator pins the random source and the clock, for tests.
func NewSeededGenerator(seed int64, clock func() time.Time) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), clock: clock}
}

// Generate returns three loads on the lane described by p, highest rate
// first. Unset preference fields fall back to a default demo lane (Los
// Angeles, CA to Phoenix, AZ, Van, 45000 lbs); a nil p means no preferences
// were captured at all. All three loads share one mileage so their rates are
// comparable offers on the same lane.
func (g *Generator) Generate(p *prefs.SearchPrefs) []Load {
	originCity, originState := "Los Angeles", "CA"
	destCity, destState := "Phoenix", "AZ"
	equipment := "Van"
	weight := 45000
	if p != nil {
		if p.OriginCity != "" {
			originCity = p.OriginCity
		}
		if p.OriginState != "" {
			originState = p.OriginState
		}
		if p.DestinationCity != "" {
			destCity = p.DestinationCity
		}
		if p.DestinationState != "" {
			destState = p.DestinationState
		}
		if p.EquipmentType != "" {
			equipment = p.EquipmentType
		}
		if p.WeightCapacity != nil && *p.WeightCapacity != 0 {
			weight = *p.WeightCapacity
		}
	}
	origin := fmt.Sprintf("%s, %s", originCity, originState)
	destination := fmt.Sprintf("%s, %s", destCity, destState)

	g.mu.Lock()
	defer g.mu.Unlock()

	miles := g.intn(400, 1200)
	now := g.clock().UTC()

	out := make([]Load, 0, 3)
	for i := 0; i < 3; i++ {
		rate := int(math.Round(float64(miles) * (2.0 + g.rng.Float64()*0.5)))
		pickup := now.AddDate(0, 0, g.intn(1, 5))
		delivery := pickup.AddDate(0, 0, g.intn(1, 3))
		out = append(out, Load{
			LoadID:           fmt.Sprintf("LOAD-%d", g.intn(100000, 999999)),
			Origin:           origin,
			Destination:      destination,
			PickupDatetime:   utils.FormatUTC(pickup),
			DeliveryDatetime: utils.FormatUTC(delivery),
			EquipmentType:    equipment,
			LoadboardRate:    rate,
			Weight:           weight,
			CommodityType:    "General",
			Miles:            miles,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LoadboardRate > out[j].LoadboardRate
	})
	return out
}

// intn draws an integer in [lo, hi]. Callers hold g.mu.
func (g *Generator) intn(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}
