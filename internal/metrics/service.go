// Package metrics turns built call records into the aggregate shapes the
// dashboard charts consume.
package metrics

import (
	"math"
	"sort"
	"strings"
	"time"

	"freight-voice-backend/internal/callrecord"
	"freight-voice-backend/internal/events"
)

const (
	recentWindow = 24 * time.Hour

	chartPointLimit   = 24
	recentLimit       = 12
	repeatCallerLimit = 8
	frequentLaneLimit = 8
	typicalLaneLimit  = 3
)

// Service computes aggregates over records the caller already built. The
// arithmetic is pure; the clock only feeds the CallsToday window.
type Service struct {
	clock func() time.Time
}

func NewService() *Service { return &Service{clock: time.Now} }

// Overview aggregates all records into the headline figures. ConversionRate
// is the booked share of all calls, in percent rounded to one decimal.
// AvgNegotiationSpread averages how far above the listed rate calls closed,
// clamped at zero per call, over calls where both rates are known.
func (s *Service) Overview(records []callrecord.Record) Overview {
	out := Overview{
		TotalCalls: len(records),
		CallOutcomes: map[string]int{
			callrecord.OutcomeBooked:             0,
			callrecord.OutcomeNoDeal:             0,
			callrecord.OutcomeFailedVerification: 0,
			callrecord.OutcomeDropped:            0,
		},
		SentimentDistribution: map[string]int{
			callrecord.SentimentPositive:   0,
			callrecord.SentimentNeutral:    0,
			callrecord.SentimentNegative:   0,
			callrecord.SentimentFrustrated: 0,
		},
	}

	cutoff := s.clock().Add(-recentWindow)
	var spreads []float64
	for _, rec := range records {
		if _, ok := out.CallOutcomes[rec.Outcome]; ok {
			out.CallOutcomes[rec.Outcome]++
		}
		sentiment := rec.Sentiment
		if sentiment == "" {
			sentiment = callrecord.SentimentNeutral
		}
		if _, ok := out.SentimentDistribution[sentiment]; ok {
			out.SentimentDistribution[sentiment]++
		}
		if ts, ok := events.ParseTimestamp(rec.Timestamp); ok && ts.After(cutoff) {
			out.CallsToday++
		}
		if rec.Load != nil && rec.Load.LoadboardRate != 0 && rec.Negotiation != nil && rec.Negotiation.FinalRate != nil {
			spreads = append(spreads, math.Max(0, *rec.Negotiation.FinalRate-rec.Load.LoadboardRate))
		}
	}
	if out.TotalCalls > 0 {
		out.ConversionRate = round1(float64(out.CallOutcomes[callrecord.OutcomeBooked]) / float64(out.TotalCalls) * 100)
	}
	if len(spreads) > 0 {
		out.AvgNegotiationSpread = math.Round(mean(spreads))
	}
	return out
}

// Negotiations aggregates the calls that carry both a negotiation and a
// matched load. AvgDiscount keeps its sign: negative means calls closing
// under the listed rate on average.
func (s *Service) Negotiations(records []callrecord.Record) NegotiationMetrics {
	negotiated := make([]callrecord.Record, 0, len(records))
	for _, rec := range records {
		if rec.Negotiation != nil && rec.Load != nil {
			negotiated = append(negotiated, rec)
		}
	}

	out := NegotiationMetrics{
		TotalNegotiations:  len(negotiated),
		ChartPoints:        []ChartPoint{},
		RecentNegotiations: []RecentNegotiation{},
	}

	successes := 0
	var discounts []float64
	for _, rec := range negotiated {
		if rec.Negotiation.Agreed {
			successes++
		}
		fr := rec.Negotiation.FinalRate
		if fr == nil {
			continue
		}
		if lb := effectiveLoadboardRate(rec.Load, rec.Negotiation); lb > 0 {
			discounts = append(discounts, *fr-lb)
		}
	}
	if out.TotalNegotiations > 0 {
		out.SuccessRate = round1(float64(successes) / float64(out.TotalNegotiations) * 100)
	}
	if len(discounts) > 0 {
		out.AvgDiscount = math.Round(mean(discounts))
	}

	byTimeAsc := append([]callrecord.Record(nil), negotiated...)
	sort.SliceStable(byTimeAsc, func(i, j int) bool { return byTimeAsc[i].Timestamp < byTimeAsc[j].Timestamp })
	for _, rec := range byTimeAsc {
		fr := rec.Negotiation.FinalRate
		lb := effectiveLoadboardRate(rec.Load, rec.Negotiation)
		if fr == nil || lb <= 0 {
			continue
		}
		out.ChartPoints = append(out.ChartPoints, ChartPoint{
			Date:          clip(rec.Timestamp, 10),
			LoadboardRate: lb,
			FinalRate:     *fr,
		})
	}
	if len(out.ChartPoints) > chartPointLimit {
		out.ChartPoints = out.ChartPoints[len(out.ChartPoints)-chartPointLimit:]
	}

	byTimeDesc := append([]callrecord.Record(nil), negotiated...)
	sort.SliceStable(byTimeDesc, func(i, j int) bool { return byTimeDesc[i].Timestamp > byTimeDesc[j].Timestamp })
	if len(byTimeDesc) > recentLimit {
		byTimeDesc = byTimeDesc[:recentLimit]
	}
	for _, rec := range byTimeDesc {
		lb := effectiveLoadboardRate(rec.Load, rec.Negotiation)
		frv := 0.0
		if rec.Negotiation.FinalRate != nil {
			frv = *rec.Negotiation.FinalRate
		}
		loadID := rec.Load.LoadID
		if loadID == "" {
			loadID = "—"
		}
		outcome := "declined"
		if rec.Negotiation.Agreed {
			outcome = "agreed"
		}
		out.RecentNegotiations = append(out.RecentNegotiations, RecentNegotiation{
			Date:          strings.ReplaceAll(clip(rec.Timestamp, 19), "T", " "),
			LoadID:        loadID,
			Lane:          rec.Load.Origin + " → " + rec.Load.Destination,
			LoadboardRate: lb,
			FinalRate:     frv,
			Spread:        math.Max(0, frv-lb),
			Rounds:        rec.Negotiation.Rounds,
			Outcome:       outcome,
		})
	}
	return out
}

// CarrierInsights groups records by MC number. Carriers with a single call
// are left out of RepeatCallers; ties keep the order records arrived in.
func (s *Service) CarrierInsights(records []callrecord.Record) Insights {
	counts := map[string]int{}
	names := map[string]string{}
	lanesByMC := map[string][]string{}
	laneCounts := map[string]int{}
	var mcOrder, laneOrder []string

	for _, rec := range records {
		mc := rec.MCNumber
		if mc == "" {
			mc = "—"
		}
		if _, seen := counts[mc]; !seen {
			mcOrder = append(mcOrder, mc)
		}
		counts[mc]++
		name := rec.CarrierName
		if name == "" {
			name = "Unknown"
		}
		names[mc] = name

		if rec.Load == nil || rec.Load.Origin == "" || rec.Load.Destination == "" {
			continue
		}
		lane := rec.Load.Origin + " → " + rec.Load.Destination
		lanesByMC[mc] = append(lanesByMC[mc], lane)
		if _, seen := laneCounts[lane]; !seen {
			laneOrder = append(laneOrder, lane)
		}
		laneCounts[lane]++
	}

	out := Insights{RepeatCallers: []RepeatCaller{}, FrequentLanes: []FrequentLane{}}

	sort.SliceStable(mcOrder, func(i, j int) bool { return counts[mcOrder[i]] > counts[mcOrder[j]] })
	for _, mc := range mcOrder {
		if counts[mc] < 2 {
			continue
		}
		if len(out.RepeatCallers) == repeatCallerLimit {
			break
		}
		out.RepeatCallers = append(out.RepeatCallers, RepeatCaller{
			MCNumber:     mc,
			CarrierName:  names[mc],
			CallCount:    counts[mc],
			TypicalLanes: dedupFirst(lanesByMC[mc], typicalLaneLimit),
		})
	}

	sort.SliceStable(laneOrder, func(i, j int) bool { return laneCounts[laneOrder[i]] > laneCounts[laneOrder[j]] })
	for _, lane := range laneOrder {
		if len(out.FrequentLanes) == frequentLaneLimit {
			break
		}
		out.FrequentLanes = append(out.FrequentLanes, FrequentLane{Lane: lane, CallCount: laneCounts[lane]})
	}
	return out
}

// effectiveLoadboardRate is the listed rate for spread math. When the load
// itself carries no usable rate the negotiation's own numbers stand in, so
// one chart input does not zero out a whole row.
func effectiveLoadboardRate(load *callrecord.LoadSnapshot, neg *callrecord.Negotiation) float64 {
	if load != nil && load.LoadboardRate > 0 {
		return load.LoadboardRate
	}
	if neg == nil {
		return 0
	}
	if neg.InitialOffer != 0 {
		return neg.InitialOffer
	}
	if neg.FinalRate != nil {
		return *neg.FinalRate
	}
	return 0
}

func dedupFirst(vs []string, limit int) []string {
	out := make([]string, 0, limit)
	seen := map[string]struct{}{}
	for _, v := range vs {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func mean(vs []float64) float64 {
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
