// Package codec converts entities to and from the loosely-typed key/value
// maps exchanged with the document store and the assistant.
//
// A record's identity is its map key, never a value: submissions are keyed by
// timestamp inside a habit's history, habits by name and reports by date
// inside the user document. Encoders omit the identity field; decoders inject
// it back from the key with withKey before parsing.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/wellmeing/internal/inputtype"
)

// Wire field names.
const (
	FieldName          = "name"
	FieldDescription   = "description"
	FieldGoal          = "goal"
	FieldMetrics       = "metrics"
	FieldHistory       = "history"
	FieldInput         = "input"
	FieldConfig        = "config"
	FieldID            = "id"
	FieldTimestamp     = "timestamp"
	FieldNotes         = "notes"
	FieldTitle         = "title"
	FieldContent       = "content"
	FieldDate          = "date"
	FieldBio           = "bio"
	FieldHabits        = "habits"
	FieldReports       = "reports"
	FieldNewReportDate = "newReportDate"
	FieldActions       = "actions"
	FieldCreation      = "creation"
	FieldLogging       = "logging"
	FieldSpeech        = "speech"
	FieldUsage         = "usage"
	FieldToday         = "today"
	FieldSubmissions   = "submissions"
	FieldTokens        = "tokens"
)

// DecodeError reports a required field that is missing or has the wrong
// shape. The entity it belongs to is treated as absent.
type DecodeError struct {
	Entity string
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: field %q %s", e.Entity, e.Field, e.Reason)
}

// withKey copies raw and sets each of fields to key.
func withKey(raw map[string]any, key string, fields ...string) map[string]any {
	out := make(map[string]any, len(raw)+len(fields))
	for k, v := range raw {
		out[k] = v
	}
	for _, f := range fields {
		out[f] = key
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case inputtype.Config:
		return m, true
	default:
		return nil, false
	}
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}

// requiredString reads a string field that must be non-empty after trimming.
func requiredString(raw map[string]any, entity, field string) (string, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return "", &DecodeError{Entity: entity, Field: field, Reason: "is missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &DecodeError{Entity: entity, Field: field, Reason: fmt.Sprintf("must be a string, got %T", v)}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &DecodeError{Entity: entity, Field: field, Reason: "is empty"}
	}
	return s, nil
}

// optionalString reads a string field, treating anything else as absent.
func optionalString(raw map[string]any, field string) string {
	s, _ := raw[field].(string)
	return strings.TrimSpace(s)
}

// optionalInt reads a counter stored as a number or numeric string. Anything
// else is zero.
func optionalInt(raw map[string]any, field string) int {
	switch v := raw[field].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return 0
			}
			return int(f)
		}
		return int(n)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// ToJSON serializes a wire map.
func ToJSON(doc map[string]any) ([]byte, error) {
	return json.Marshal(doc)
}

// FromJSON parses a wire map, keeping numbers as json.Number so integer
// values survive untouched.
func FromJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}
