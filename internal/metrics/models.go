package metrics

// Overview is the headline dashboard block.
// CallOutcomes and SentimentDistribution always carry every bucket so the
// dashboard renders fixed tiles without probing for missing keys.

type Overview struct {
	TotalCalls            int            `json:"total_calls"`
	ConversionRate        float64        `json:"conversion_rate"`
	AvgNegotiationSpread  float64        `json:"avg_negotiation_spread"`
	CallsToday            int            `json:"calls_today"`
	CallOutcomes          map[string]int `json:"call_outcomes"`
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
}

// NegotiationMetrics covers calls that reached pricing: a negotiation
// completed and a load was on the table. Calls missing either side are
// excluded from every figure, including the total.

type NegotiationMetrics struct {
	TotalNegotiations  int                 `json:"total_negotiations"`
	SuccessRate        float64             `json:"success_rate"`
	AvgDiscount        float64             `json:"avg_discount"`
	ChartPoints        []ChartPoint        `json:"chart_points"`
	RecentNegotiations []RecentNegotiation `json:"recent_negotiations"`
}

// ChartPoint pairs the listed and final rate of one negotiation for the
// rate-trend chart, oldest first.

type ChartPoint struct {
	Date          string  `json:"date"`
	LoadboardRate float64 `json:"loadboard_rate"`
	FinalRate     float64 `json:"final_rate"`
}

type RecentNegotiation struct {
	Date          string  `json:"date"`
	LoadID        string  `json:"load_id"`
	Lane          string  `json:"lane"`
	LoadboardRate float64 `json:"loadboard_rate"`
	FinalRate     float64 `json:"final_rate"`
	Spread        float64 `json:"spread"`
	Rounds        int     `json:"rounds"`
	Outcome       string  `json:"outcome"`
}

// Insights surfaces carriers that call back and the lanes they run.

type Insights struct {
	RepeatCallers []RepeatCaller `json:"repeat_callers"`
	FrequentLanes []FrequentLane `json:"frequent_lanes"`
}

type RepeatCaller struct {
	MCNumber     string   `json:"mc_number"`
	CarrierName  string   `json:"carrier_name"`
	CallCount    int      `json:"call_count"`
	TypicalLanes []string `json:"typical_lanes"`
}

type FrequentLane struct {
	Lane      string `json:"lane"`
	CallCount int    `json:"call_count"`
}
