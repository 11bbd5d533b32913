package payload

import "testing"

func TestNormalize_ObjectString(t *testing.T) {
	f := Normalize(`{"a": 1}`)
	if len(f) != 1 {
		t.Fatalf("expected 1 field, got %d", len(f))
	}
	if n, ok := f["a"].(float64); !ok || n != 1 {
		t.Fatalf("expected a=1, got %v", f["a"])
	}
}

func TestNormalize_DoubleEncoded(t *testing.T) {
	f := Normalize(`"{\"a\": 1}"`)
	if n, ok := f["a"].(float64); !ok || n != 1 {
		t.Fatalf("expected a=1 after unwrapping, got %v", f["a"])
	}
}

func TestNormalize_NilAndGarbage(t *testing.T) {
	if f := Normalize(nil); len(f) != 0 {
		t.Fatalf("nil should normalize empty, got %v", f)
	}
	if f := Normalize("not json"); len(f) != 0 {
		t.Fatalf("garbage should normalize empty, got %v", f)
	}
	if f := Normalize(42); len(f) != 0 {
		t.Fatalf("scalar should normalize empty, got %v", f)
	}
	if f := Normalize(`[1,2,3]`); len(f) != 0 {
		t.Fatalf("array should normalize empty, got %v", f)
	}
}

func TestNormalize_MapPassThrough(t *testing.T) {
	in := map[string]any{"k": "v"}
	f := Normalize(in)
	if f["k"] != "v" {
		t.Fatalf("map should pass through, got %v", f)
	}
}

func TestNormalize_DepthBounded(t *testing.T) {
	// Six encoding layers exceeds the cap; must degrade to empty, not loop.
	s := `{"a":1}`
	for i := 0; i < 6; i++ {
		s = quote(s)
	}
	if f := Normalize(s); len(f) != 0 {
		t.Fatalf("over-encoded payload should normalize empty, got %v", f)
	}
	// Two layers is the common real-world case and must still unwrap.
	if f := Normalize(quote(quote(`{"a":1}`))); len(f) != 1 {
		t.Fatalf("expected two layers to unwrap, got %v", f)
	}
}

func quote(s string) string {
	out := `"`
	for _, r := range s {
		if r == '"' || r == '\\' {
			out += `\`
		}
		out += string(r)
	}
	return out + `"`
}

func TestString_FirstNonEmptyWins(t *testing.T) {
	f := Fields{"a": "", "b": "x", "c": "y"}
	if got := String(f, "a", "b", "c"); got != "x" {
		t.Fatalf("expected x, got %q", got)
	}
	if got := String(f, "missing"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestString_RendersScalars(t *testing.T) {
	f := Fields{"id": float64(123456), "flag": true}
	if got := String(f, "id"); got != "123456" {
		t.Fatalf("expected number rendered, got %q", got)
	}
	if got := String(f, "flag"); got != "true" {
		t.Fatalf("expected bool rendered, got %q", got)
	}
	if got := String(Fields{"o": map[string]any{}}, "o"); got != "" {
		t.Fatalf("objects must not render, got %q", got)
	}
}

func TestFloat_ChainedOrSemantics(t *testing.T) {
	// Zero falls through to the next candidate.
	f := Fields{"loadboard_rate": float64(0), "rate": float64(950)}
	if got := Float(f, "loadboard_rate", "rate"); got == nil || *got != 950 {
		t.Fatalf("expected 950, got %v", got)
	}

	// A truthy but unparsable value stops the chain and coerces to nil.
	f = Fields{"loadboard_rate": "abc", "rate": float64(950)}
	if got := Float(f, "loadboard_rate", "rate"); got != nil {
		t.Fatalf("unparsable truthy value should not fall through, got %v", *got)
	}

	// All candidates falsy: the last still coerces, keeping explicit zero.
	f = Fields{"final_price": nil, "final_rate": float64(0)}
	if got := Float(f, "final_price", "final_rate"); got == nil || *got != 0 {
		t.Fatalf("expected explicit 0, got %v", got)
	}

	// Nothing present at all.
	if got := Float(Fields{}, "final_price", "final_rate"); got != nil {
		t.Fatalf("expected nil for absent fields, got %v", *got)
	}
}

func TestMapAndList(t *testing.T) {
	f := Normalize(`{"carrier": {"name": "ACME"}, "counter_offers": [1, 2]}`)
	c := Map(f, "carrier")
	if c == nil || c["name"] != "ACME" {
		t.Fatalf("expected nested carrier, got %v", c)
	}
	if Map(f, "counter_offers") != nil {
		t.Fatalf("array is not a map")
	}
	l := List(f, "counter_offers")
	if len(l) != 2 {
		t.Fatalf("expected 2 offers, got %v", l)
	}
	if List(f, "carrier") != nil {
		t.Fatalf("object is not a list")
	}
}
