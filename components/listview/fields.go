package listview

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Placeholder is shown for text fields whose candidates are all absent.
const Placeholder = "N/A"

// Candidates is an ordered list of keys tried for one logical field.
// A key may be a dotted path into nested objects, e.g. "user.mobile".
type Candidates []string

// FieldCandidates maps logical field names to their candidate keys.
type FieldCandidates map[string]Candidates

// Merge returns a copy of f with the entries of override taking precedence.
func (f FieldCandidates) Merge(override FieldCandidates) FieldCandidates {
	out := make(FieldCandidates, len(f)+len(override))
	for field, keys := range f {
		out[field] = append(Candidates(nil), keys...)
	}
	for field, keys := range override {
		if len(keys) == 0 {
			continue
		}
		out[field] = append(Candidates(nil), keys...)
	}
	return out
}

// Lookup returns the first present, non-null value among the candidates.
func (c Candidates) Lookup(raw RawRecord) (any, bool) {
	for _, key := range c {
		if value, ok := lookupPath(raw, key); ok {
			return value, true
		}
	}
	return nil, false
}

func lookupPath(raw RawRecord, key string) (any, bool) {
	if raw == nil || key == "" {
		return nil, false
	}
	if value, ok := raw[key]; ok {
		return value, value != nil
	}
	head, rest, nested := strings.Cut(key, ".")
	if !nested {
		return nil, false
	}
	child, ok := raw[head].(map[string]any)
	if !ok {
		return nil, false
	}
	return lookupPath(child, rest)
}

type fieldReader struct {
	raw        RawRecord
	candidates FieldCandidates
}

func (r fieldReader) value(field string) (any, bool) {
	return r.candidates[field].Lookup(r.raw)
}

// text returns the first non-blank string form of the field.
func (r fieldReader) text(field string) (string, bool) {
	for _, key := range r.candidates[field] {
		value, ok := lookupPath(r.raw, key)
		if !ok {
			continue
		}
		if s := strings.TrimSpace(stringify(value)); s != "" {
			return s, true
		}
	}
	return "", false
}

func (r fieldReader) textOr(field, fallback string) string {
	if s, ok := r.text(field); ok {
		return s
	}
	return fallback
}

func (r fieldReader) amount(field string) float64 {
	value, ok := r.value(field)
	if !ok {
		return 0
	}
	return toAmount(value)
}

func (r fieldReader) count(field string) int {
	value, ok := r.value(field)
	if !ok {
		return 0
	}
	n := toInt(value)
	if n < 0 {
		return 0
	}
	return n
}

func (r fieldReader) timestamp(field string) time.Time {
	s, ok := r.text(field)
	if !ok {
		return time.Time{}
	}
	return parseTime(s)
}

func (r fieldReader) list(field string) []map[string]any {
	value, ok := r.value(field)
	if !ok {
		return nil
	}
	items, ok := value.([]any)
	if !ok {
		if typed, ok := value.([]map[string]any); ok {
			return typed
		}
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case map[string]any, []any:
		return ""
	default:
		if s, ok := v.(interface{ String() string }); ok {
			return s.String()
		}
		return ""
	}
}

// toFloat coerces numbers and numeric strings. Anything else is 0.
func toFloat(value any) float64 {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// toAmount is toFloat clamped to non-negative values.
func toAmount(value any) float64 {
	f := toFloat(value)
	if f < 0 {
		return 0
	}
	return f
}

// toInt truncates toward zero, so "12.7" becomes 12.
func toInt(value any) int {
	f := toFloat(value)
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < math.MinInt32 {
		return math.MinInt32
	}
	return int(f)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func composeName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
