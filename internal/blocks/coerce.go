package blocks

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// canonical reduces raw to the shapes produced by encoding/json: nil, string,
// bool, float64, map[string]any and []any. Anything else is routed through a
// JSON round trip; values that cannot be encoded become nil.
func canonical(raw any) any {
	switch v := raw.(type) {
	case nil, string, bool, float64, map[string]any, []any:
		return v
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case json.RawMessage:
		var decoded any
		if err := json.Unmarshal(v, &decoded); err != nil {
			return nil
		}
		return decoded
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		return nil
	}
	return decoded
}

// decodeEmbedded parses s when it looks like a JSON object or array.
func decodeEmbedded(s string) (any, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, false
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil, false
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return nil, false
	}
	return decoded, true
}

// IsEncodedJSON reports whether s is a JSON object or array, the storage
// form of structured block values.
func IsEncodedJSON(s string) bool {
	_, ok := decodeEmbedded(s)
	return ok
}

// unwrap canonicalizes raw and expands JSON-encoded strings one level.
func unwrap(raw any) any {
	value := canonical(raw)
	if s, ok := value.(string); ok {
		if decoded, ok := decodeEmbedded(s); ok {
			return decoded
		}
	}
	return value
}

func asString(raw any) (string, bool) {
	switch v := canonical(raw).(type) {
	case string:
		return v, true
	case float64:
		return formatNumber(v), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

func asMap(raw any) (map[string]any, bool) {
	m, ok := unwrap(raw).(map[string]any)
	return m, ok
}

func asSlice(raw any) ([]any, bool) {
	s, ok := unwrap(raw).([]any)
	return s, ok
}

func asBool(raw any) bool {
	switch v := canonical(raw).(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on":
			return true
		}
	}
	return false
}

// stringList converts every scalar element of raw into a string. Nested
// objects contribute their first string field among fields.
func stringList(raw any, fields ...string) []string {
	items, ok := asSlice(raw)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, field(m, fields...))
			continue
		}
		if s, ok := asString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// nonEmpty drops blank entries and trims the rest.
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// field returns the first scalar value found under names.
func field(m map[string]any, names ...string) string {
	for _, name := range names {
		value, ok := m[name]
		if !ok || value == nil {
			continue
		}
		if s, ok := asString(value); ok {
			return s
		}
	}
	return ""
}

// scalarText resolves a text-like value: a scalar is used directly, an object
// (or JSON object string) contributes its first field among names.
func scalarText(raw any, names ...string) string {
	value := canonical(raw)
	if s, ok := value.(string); ok {
		decoded, ok := decodeEmbedded(s)
		if !ok {
			return s
		}
		if m, ok := decoded.(map[string]any); ok {
			return field(m, names...)
		}
		return s
	}
	if m, ok := value.(map[string]any); ok {
		return field(m, names...)
	}
	s, _ := asString(value)
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFinite(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func encodeJSON(v any) (string, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func ensureStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// fitWidth pads or truncates row to width cells.
func fitWidth(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
