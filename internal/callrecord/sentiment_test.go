package callrecord

import (
	"testing"

	"freight-voice-backend/internal/payload"
)

func TestClassifySentiment(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", SentimentNeutral},
		{"   ", SentimentNeutral},
		{"positive", SentimentPositive},
		{"Really Positive", SentimentPositive},
		{"Professional & Satisfied", SentimentPositive},
		{"friendly & cooperative", SentimentPositive},
		{"neutral", SentimentNeutral},
		{"negative", SentimentNegative},
		{"unprofessional", SentimentNegative},
		{"mildly negative vibe", SentimentNegative},
		{"impatient", SentimentFrustrated},
		{"dismissive", SentimentFrustrated},
		{"angry", SentimentFrustrated},
		{"caller got frustrated halfway", SentimentFrustrated},
		{"somewhat positive overall", SentimentPositive},
		{"chatty", SentimentNeutral},
	}
	for _, c := range cases {
		if got := ClassifySentiment(c.in); got != c.want {
			t.Fatalf("ClassifySentiment(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExtractReasoning_PriorityOrder(t *testing.T) {
	f := payload.Fields{
		"reasoning":           "second choice",
		"sentiment_reasoning": "first choice",
	}
	if got := extractReasoning(f, 0); got != "first choice" {
		t.Fatalf("reasoning = %q, want priority key to win", got)
	}
}

func TestExtractReasoning_CapitalisedVariants(t *testing.T) {
	f := payload.Fields{"Response Reasoning": "builder sent this"}
	if got := extractReasoning(f, 0); got != "builder sent this" {
		t.Fatalf("reasoning = %q", got)
	}
}

func TestExtractReasoning_NestedObjects(t *testing.T) {
	f := payload.Fields{
		"payload": map[string]any{"why": "  nested why  "},
	}
	if got := extractReasoning(f, 0); got != "nested why" {
		t.Fatalf("reasoning = %q", got)
	}
}

func TestExtractReasoning_NestedJSONString(t *testing.T) {
	f := payload.Fields{"data": `{"explanation": "decoded from string"}`}
	if got := extractReasoning(f, 0); got != "decoded from string" {
		t.Fatalf("reasoning = %q", got)
	}
}

func TestExtractReasoning_DepthBounded(t *testing.T) {
	f := payload.Fields{
		"payload": map[string]any{
			"payload": map[string]any{"reasoning": "two levels down"},
		},
	}
	if got := extractReasoning(f, 0); got != "" {
		t.Fatalf("reasoning = %q, want descent bounded to one level", got)
	}
}

func TestExtractReasoning_SkipsBlankAndNonString(t *testing.T) {
	f := payload.Fields{
		"reasoning": "   ",
		"reason":    42,
		"why":       "the actual why",
	}
	if got := extractReasoning(f, 0); got != "the actual why" {
		t.Fatalf("reasoning = %q", got)
	}
}
