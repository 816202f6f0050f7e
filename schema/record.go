package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Field is one named cell of a Record.
type Field struct {
	Name  string
	Value any // string or number; nil means the field is absent
}

// Record is one row of tabular input. Fields keep their insertion order,
// which matters for deduplication and for the first-field item fallback.
type Record []Field

// RecordOf builds a Record from alternating name/value arguments.
// Names that are not strings are skipped along with their value.
func RecordOf(pairs ...any) Record {
	r := make(Record, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			continue
		}
		r.Set(name, pairs[i+1])
	}
	return r
}

// Get returns the value of the named field.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of an existing field in place or appends a new one.
func (r *Record) Set(name string, value any) {
	for i := range *r {
		if (*r)[i].Name == name {
			(*r)[i].Value = value
			return
		}
	}
	*r = append(*r, Field{Name: name, Value: value})
}

// Names returns the field names in insertion order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// MarshalJSON encodes the record as a JSON object with keys in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, any](len(r))
	for _, f := range r {
		om.Set(f.Name, f.Value)
	}
	return json.Marshal(om)
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the document.
func (r *Record) UnmarshalJSON(data []byte) error {
	om := orderedmap.New[string, any]()
	if err := json.Unmarshal(data, om); err != nil {
		return fmt.Errorf("record is not a JSON object: %w", err)
	}
	rec := make(Record, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		rec = append(rec, Field{Name: pair.Key, Value: pair.Value})
	}
	*r = rec
	return nil
}

// IsScalar reports whether v is a value a Record field may hold.
// NaN and infinite floats are not.
func IsScalar(v any) bool {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return false
		}
	}
	_, ok := ValueString(v)
	return ok
}

// IsNumeric reports whether v is one of the numeric kinds a Record accepts.
func IsNumeric(v any) bool {
	switch v.(type) {
	case json.Number, float32, float64,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

// ValueString renders a scalar field value as text.
// It returns false for nil and for non-scalar values such as maps, slices and booleans.
func ValueString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), true
	default:
		return "", false
	}
}
