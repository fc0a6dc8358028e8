// Package provider holds helpers shared by upstream payload decoders.
package provider

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ExtractValue normalizes a numeric field from the provider's payloads.
//
// The same field arrives as a JSON number, a quoted number, null, or a nested
// object like {"total": 15} depending on the endpoint and the match's parse
// state. This handles all of them.
//
// Returns the scalar float64 value, and ok=false if not extractable.
func ExtractValue(val interface{}) (float64, bool) {
	if val == nil {
		return 0, false
	}

	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, true
		}
		return 0, false
	case map[string]interface{}:
		for _, key := range []string{"total", "value", "count", "average"} {
			if inner, exists := v[key]; exists && inner != nil {
				return ExtractValue(inner)
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// Number is a JSON value that decodes from any of the shapes ExtractValue
// accepts. Valid is false when the field was absent, null, or unparseable.
type Number struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		n.Value, n.Valid = 0, false
		return nil
	}
	n.Value, n.Valid = ExtractValue(raw)
	return nil
}

// Int returns the value rounded to the nearest integer (0 when invalid).
func (n Number) Int() int {
	if !n.Valid {
		return 0
	}
	return int(math.Round(n.Value))
}

// Int64 is Int for 64-bit ids and timestamps.
func (n Number) Int64() int64 {
	if !n.Valid {
		return 0
	}
	return int64(math.Round(n.Value))
}

// Float returns the value, or 0 when invalid.
func (n Number) Float() float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}
