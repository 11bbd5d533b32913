// Package payload normalizes loosely-typed webhook payloads.
//
// Workflow builders deliver event payloads in several shapes: a JSON object,
// a JSON object encoded as a string, or that string encoded once more. All
// read paths go through Normalize so the rest of the system only ever sees a
// plain map, never an encoding error.
package payload

import "encoding/json"

// Fields is a normalized payload: a flat key/value view of whatever the
// caller sent. Missing data is an empty map, never nil semantics the caller
// has to branch on.
type Fields map[string]any

// maxDecodeDepth bounds repeated string decoding so a pathological payload
// ("\"\\\"...\\\"\"" nested forever) cannot loop.
const maxDecodeDepth = 5

// Normalize converts a raw payload value into Fields. Mappings pass through,
// strings are JSON-decoded (repeatedly, up to maxDecodeDepth, to unwrap
// double encoding), nil and everything else degrade to an empty map.
// Normalize never fails.
func Normalize(v any) Fields {
	return normalize(v, maxDecodeDepth)
}

func normalize(v any, depth int) Fields {
	if depth <= 0 {
		return Fields{}
	}
	switch t := v.(type) {
	case nil:
		return Fields{}
	case Fields:
		if t == nil {
			return Fields{}
		}
		return t
	case map[string]any:
		if t == nil {
			return Fields{}
		}
		return Fields(t)
	case []byte:
		return decodeText(string(t), depth)
	case string:
		return decodeText(t, depth)
	default:
		return Fields{}
	}
}

func decodeText(s string, depth int) Fields {
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return Fields{}
	}
	// One encoding layer unwrapped; the result may itself be a string.
	return normalize(decoded, depth-1)
}

// Map returns a nested object field, or nil when the field is absent or not
// an object. It does not decode string-encoded sub-objects; use Normalize on
// the raw value when that is needed.
func Map(f Fields, key string) Fields {
	if f == nil {
		return nil
	}
	switch t := f[key].(type) {
	case Fields:
		return t
	case map[string]any:
		return Fields(t)
	default:
		return nil
	}
}

// List returns a nested array field, or nil.
func List(f Fields, key string) []any {
	if f == nil {
		return nil
	}
	if l, ok := f[key].([]any); ok {
		return l
	}
	return nil
}

// String resolves the first candidate key whose value renders to a non-empty
// string. JSON numbers and bools render via render so identifiers arriving
// as numbers still resolve; objects and arrays do not.
func String(f Fields, keys ...string) string {
	for _, k := range keys {
		if f == nil {
			break
		}
		if s := render(f[k]); s != "" {
			return s
		}
	}
	return ""
}

// Float resolves candidate keys with chained-or semantics: the first truthy
// raw value wins (empty strings, zeros, false and nil all fall through), and
// when no candidate is truthy the last one is still coerced, so an explicit
// zero survives as 0 rather than null. The result follows AsFloat.
func Float(f Fields, keys ...string) *float64 {
	return AsFloat(firstTruthy(f, keys))
}

// Int is Float for integer targets; see AsInt for the coercion rules.
func Int(f Fields, keys ...string) *int {
	return AsInt(firstTruthy(f, keys))
}

// Pick resolves candidate keys like Float does but returns the winning raw
// value, so callers can extend the candidate chain across a second source
// before coercing.
func Pick(f Fields, keys ...string) any {
	return firstTruthy(f, keys)
}

// Truthy reports the truthiness Pick and Float use to pick a winner.
func Truthy(v any) bool {
	return truthy(v)
}

func firstTruthy(f Fields, keys []string) any {
	var last any
	for _, k := range keys {
		if f == nil {
			break
		}
		v := f[k]
		last = v
		if truthy(v) {
			return v
		}
	}
	return last
}

// truthy mirrors loose-JSON truthiness: nil, "", 0, false and empty
// containers are falsy, everything else is truthy.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case Fields:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}
