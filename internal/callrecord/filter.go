package callrecord

import "strings"

// Filter selects records for the call-log API. The zero value matches
// everything; Outcome and Sentiment are exact matches, Query is a substring
// search over the record's identifying text.
type Filter struct {
	Query     string
	Outcome   string
	Sentiment string
}

func (f Filter) Match(r Record) bool {
	if f.Outcome != "" && r.Outcome != f.Outcome {
		return false
	}
	if f.Sentiment != "" && r.Sentiment != f.Sentiment {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(haystack(r), q)
}

// haystack joins the searchable fields of a record: carrier identity, load
// lane and the preferred lane from the search prefs.
func haystack(r Record) string {
	parts := []string{r.MCNumber, r.CarrierName}
	if r.Load != nil {
		parts = append(parts, r.Load.LoadID, r.Load.Origin, r.Load.Destination)
	}
	if r.SearchPrefs != nil {
		parts = append(parts,
			r.SearchPrefs.OriginCity,
			r.SearchPrefs.DestinationCity,
			r.SearchPrefs.EquipmentType,
		)
	}
	return strings.ToLower(strings.Join(parts, " "))
}
