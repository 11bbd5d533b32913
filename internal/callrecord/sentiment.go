package callrecord

import (
	"strings"

	"freight-voice-backend/internal/payload"
)

// sentimentTable maps exact labels (lower-cased, trimmed) the workflow has
// been seen reporting to a category. The substring rules in
// ClassifySentiment cover the long tail.
var sentimentTable = map[string]string{
	"positive":                 SentimentPositive,
	"professional & satisfied": SentimentPositive,
	"friendly & cooperative":   SentimentPositive,
	"really positive":          SentimentPositive,
	"very positive":            SentimentPositive,

	"neutral": SentimentNeutral,

	"negative":        SentimentNegative,
	"unprofessional":  SentimentNegative,
	"really negative": SentimentNegative,
	"very negative":   SentimentNegative,

	"frustrated": SentimentFrustrated,
	"impatient":  SentimentFrustrated,
	"dismissive": SentimentFrustrated,
	"angry":      SentimentFrustrated,
}

// ClassifySentiment maps a free-text sentiment or tone label to one of the
// four fixed categories. Total: any input, including empty, yields a
// category, and unknown labels default to neutral.
func ClassifySentiment(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return SentimentNeutral
	}
	if cat, ok := sentimentTable[s]; ok {
		return cat
	}
	switch {
	case strings.Contains(s, "positive"):
		return SentimentPositive
	case strings.Contains(s, "negative"):
		return SentimentNegative
	case strings.Contains(s, "frustrat"),
		strings.Contains(s, "angry"),
		strings.Contains(s, "impatient"):
		return SentimentFrustrated
	}
	return SentimentNeutral
}

// reasoningKeys are the field names workflow builders have been seen using
// for sentiment reasoning, in priority order, including the capitalised
// variants some builders emit.
var reasoningKeys = []string{
	"sentiment_reasoning",
	"reasoning",
	"response_reasoning",
	"sentimentReasoning",
	"reason",
	"why",
	"explanation",
	"Response Reasoning",
	"Sentiment_Reasoning",
}

// nestKeys are wrapper objects builders sometimes bury the real fields in.
var nestKeys = []string{"payload", "data", "body"}

const maxReasoningDepth = 1

// extractReasoning returns the first non-empty reasoning string in f, trying
// reasoningKeys in order, then descending into nested payload/data/body
// sub-objects. String-encoded sub-objects are decoded on the way down.
func extractReasoning(f payload.Fields, depth int) string {
	if f == nil {
		return ""
	}
	for _, k := range reasoningKeys {
		if s, ok := f[k].(string); ok {
			if t := strings.TrimSpace(s); t != "" {
				return t
			}
		}
	}
	if depth >= maxReasoningDepth {
		return ""
	}
	for _, k := range nestKeys {
		nested := payload.Map(f, k)
		if nested == nil {
			if s, ok := f[k].(string); ok {
				nested = payload.Normalize(s)
			}
		}
		if len(nested) == 0 {
			continue
		}
		if r := extractReasoning(nested, depth+1); r != "" {
			return r
		}
	}
	return ""
}
