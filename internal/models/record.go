package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Record is the loosely-typed shape entities are built from and serialized to.
// Keys follow the backend's snake_case field names.
type Record map[string]interface{}

// ParseRecord decodes a JSON object into a Record.
func ParseRecord(raw []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("decode record: payload is not an object")
	}
	return rec, nil
}

// GetID returns the record's "id" value, allowing hydrated relation payloads to act as references.
func (r Record) GetID() string {
	if r == nil {
		return ""
	}
	return cast.ToString(r["id"])
}

func (r Record) has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r[key]
	return ok
}

func (r Record) str(key string, dst *string) {
	v, ok := r[key]
	if !ok {
		return
	}
	if s, err := cast.ToStringE(v); err == nil {
		*dst = s
	}
}

func (r Record) integer(key string, dst *int) {
	v, ok := r[key]
	if !ok || v == nil {
		return
	}
	if s, ok := v.(string); ok {
		if n, ok := parseDecimalInt(s); ok {
			*dst = n
		}
		return
	}
	if n, err := cast.ToIntE(v); err == nil {
		*dst = n
	}
}

func (r Record) float(key string, dst *float64) {
	v, ok := r[key]
	if !ok || v == nil {
		return
	}
	if s, ok := v.(string); ok {
		if f, ok := parseDecimalFloat(s); ok {
			*dst = f
		}
		return
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		*dst = f
	}
}

// parseDecimalInt reads form-style numbers as base 10, so "010" is ten. Whole floats like "5.0" are accepted.
func parseDecimalInt(s string) (int, bool) {
	if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 0); err == nil {
		return int(n), true
	}
	f, ok := parseDecimalFloat(s)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// parseDecimalFloat accepts plain decimal notation only: no hex, Inf, NaN or digit separators.
func parseDecimalFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xXpP_iInN") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func (r Record) boolean(key string, dst *bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return
	}
	if b, err := cast.ToBoolE(v); err == nil {
		*dst = b
	}
}

// timestamp reads a time value; an explicit null clears it.
func (r Record) timestamp(key string, dst *time.Time) {
	v, ok := r[key]
	if !ok {
		return
	}
	if v == nil {
		*dst = time.Time{}
		return
	}
	if t, ok := v.(time.Time); ok {
		*dst = t.UTC()
		return
	}
	if s, ok := v.(string); ok && s == "" {
		*dst = time.Time{}
		return
	}
	if t, err := cast.ToTimeE(v); err == nil {
		*dst = t.UTC()
	}
}

func (r Record) ref(key string, dst *Ref) {
	v, ok := r[key]
	if !ok {
		return
	}
	*dst = RefOf(v)
}

func (r Record) refs(key string, dst *RefList) {
	v, ok := r[key]
	if !ok {
		return
	}
	*dst = RefListOf(v)
}

// records reads a list of nested objects, skipping entries that are not objects.
func (r Record) records(key string) ([]Record, bool) {
	v, ok := r[key]
	if !ok {
		return nil, false
	}
	var out []Record
	switch items := v.(type) {
	case []Record:
		out = append(out, items...)
	case []map[string]interface{}:
		for _, item := range items {
			out = append(out, Record(item))
		}
	case []interface{}:
		for _, item := range items {
			if rec, ok := asRecord(item); ok {
				out = append(out, rec)
			}
		}
	}
	return out, true
}

func asRecord(v interface{}) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]interface{}:
		return Record(m), true
	}
	return nil, false
}

// Merge returns a shallow copy of r with the keys of other laid on top.
func (r Record) Merge(other Record) Record {
	out := make(Record, len(r)+len(other))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

func formatTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func formatDate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(dateLayout)
}
