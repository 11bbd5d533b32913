package callrecord

import "testing"

func sampleRecord() Record {
	return Record{
		ID:          "c1",
		MCNumber:    "123456",
		CarrierName: "Acme Trucking",
		Outcome:     OutcomeBooked,
		Sentiment:   SentimentPositive,
		Load: &LoadSnapshot{
			LoadID:      "LOAD-42",
			Origin:      "Los Angeles, CA",
			Destination: "Phoenix, AZ",
		},
		SearchPrefs: &PrefsSnapshot{
			OriginCity:      "Los Angeles",
			DestinationCity: "Phoenix",
			EquipmentType:   "Reefer",
		},
	}
}

func TestFilter_Match(t *testing.T) {
	rec := sampleRecord()
	cases := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"zero filter matches", Filter{}, true},
		{"outcome match", Filter{Outcome: OutcomeBooked}, true},
		{"outcome mismatch", Filter{Outcome: OutcomeNoDeal}, false},
		{"sentiment match", Filter{Sentiment: SentimentPositive}, true},
		{"sentiment mismatch", Filter{Sentiment: SentimentNegative}, false},
		{"query over carrier name", Filter{Query: "acme"}, true},
		{"query over load id", Filter{Query: "load-42"}, true},
		{"query over prefs equipment", Filter{Query: "reefer"}, true},
		{"query trimmed", Filter{Query: "  phoenix  "}, true},
		{"query miss", Filter{Query: "flatbed"}, false},
		{"combined filters all must hold", Filter{Outcome: OutcomeBooked, Query: "acme"}, true},
		{"combined filters fail on one", Filter{Outcome: OutcomeBooked, Query: "flatbed"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.filter.Match(rec); got != c.want {
				t.Fatalf("Match = %v, want %v", got, c.want)
			}
		})
	}
}

func TestFilter_MatchWithoutOptionalSections(t *testing.T) {
	rec := Record{ID: "c2", MCNumber: "—", CarrierName: "Unknown"}
	if !(Filter{Query: "unknown"}).Match(rec) {
		t.Fatal("query should match carrier name")
	}
	if (Filter{Query: "phoenix"}).Match(rec) {
		t.Fatal("query should not match a record without load or prefs")
	}
}
