package payload

import (
	"encoding/json"
	"strconv"
	"strings"
)

// AsFloat coerces a loosely-typed value to a float. Numbers cast, numeric
// strings are trimmed and parsed, empty or unparsable strings and every
// other type come back nil. Upstream fields arrive as "45000" and 45000
// interchangeably, so every numeric read goes through here.
func AsFloat(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return floatPtr(t)
	case float32:
		return floatPtr(float64(t))
	case int:
		return floatPtr(float64(t))
	case int64:
		return floatPtr(float64(t))
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return nil
		}
		return floatPtr(n)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return floatPtr(n)
	default:
		return nil
	}
}

// AsInt coerces to an integer. Floats truncate toward zero; strings must
// parse as plain integers ("2.7" is unparsable, matching strict int
// conversion rather than parse-then-truncate).
func AsInt(v any) *int {
	switch t := v.(type) {
	case float64:
		return intPtr(int(t))
	case float32:
		return intPtr(int(t))
	case int:
		return intPtr(t)
	case int64:
		return intPtr(int(t))
	case json.Number:
		n, err := strconv.Atoi(t.String())
		if err != nil {
			return nil
		}
		return intPtr(n)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		return intPtr(n)
	default:
		return nil
	}
}

// render turns a scalar into its display string; non-scalars render empty.
func render(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
