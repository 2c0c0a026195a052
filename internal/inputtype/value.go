package inputtype

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Value is a decoded submission value. The concrete type is fixed by the
// owning metric's Kind.
type Value interface {
	Kind() Kind
}

// NumberValue is a slider position.
type NumberValue struct {
	Value   float64
	Integer bool
}

// TextValue is free text.
type TextValue string

// SelectionValue holds the selected form boxes in config order.
type SelectionValue []string

// DurationValue is a time entry.
type DurationValue time.Duration

// RatingValue is a star count between MinRating and MaxRating.
type RatingValue int

const (
	MinRating = 1
	MaxRating = 5

	// MaxSliderInteger is the largest integer slider value a float64 holds
	// exactly.
	MaxSliderInteger = 1 << 53

	// MaxDurationHours keeps HH:MM:SS within time.Duration.
	MaxDurationHours = int(math.MaxInt64 / int64(time.Hour))
)

func (NumberValue) Kind() Kind    { return Slider }
func (TextValue) Kind() Kind      { return Text }
func (SelectionValue) Kind() Kind { return Form }
func (DurationValue) Kind() Kind  { return Time }
func (RatingValue) Kind() Kind    { return Rating }

// Contains reports whether box is selected.
func (s SelectionValue) Contains(box string) bool {
	for _, selected := range s {
		if selected == box {
			return true
		}
	}
	return false
}

// DecodeValue converts a wire value into the typed value of kind. Form
// selections naming a box that is not configured are rejected.
func DecodeValue(kind Kind, cfg Config, wire any) (Value, error) {
	return decode(kind, cfg, wire, true)
}

// DecodeStoredValue is DecodeValue for data read back from the store: form
// selections naming unknown boxes are dropped instead of rejected, since the
// box list may have been edited after the submission was made.
func DecodeStoredValue(kind Kind, cfg Config, wire any) (Value, error) {
	return decode(kind, cfg, wire, false)
}

func decode(kind Kind, cfg Config, wire any, strict bool) (Value, error) {
	if wire == nil {
		return nil, &ValueError{Kind: kind, Value: wire, Reason: "missing value"}
	}
	switch kind {
	case Slider:
		f, ok := toFloat(wire)
		if !ok {
			return nil, &ValueError{Kind: kind, Value: wire, Reason: "not a number"}
		}
		integer := SliderRange(cfg).Integer
		if integer && f != math.Trunc(f) {
			return nil, &ValueError{Kind: kind, Value: wire, Reason: "not an integer"}
		}
		if integer && math.Abs(f) > MaxSliderInteger {
			return nil, &ValueError{Kind: kind, Value: wire, Reason: fmt.Sprintf("must be between %d and %d", -MaxSliderInteger, MaxSliderInteger)}
		}
		return NumberValue{Value: f, Integer: integer}, nil

	case Text:
		s, ok := wire.(string)
		if !ok {
			return nil, &ValueError{Kind: kind, Value: wire, Reason: "not a string"}
		}
		return TextValue(s), nil

	case Form:
		return decodeSelection(cfg, wire, strict)

	case Time:
		s, ok := wire.(string)
		if !ok {
			return nil, &ValueError{Kind: kind, Value: wire, Reason: "not a string"}
		}
		d, err := ParseDuration(s)
		if err != nil {
			return nil, &ValueError{Kind: kind, Value: wire, Reason: err.Error()}
		}
		return DurationValue(d), nil

	case Rating:
		f, ok := toFloat(wire)
		if !ok || f != math.Trunc(f) {
			return nil, &ValueError{Kind: kind, Value: wire, Reason: "not an integer"}
		}
		if f < MinRating || f > MaxRating {
			return nil, &ValueError{Kind: kind, Value: wire, Reason: fmt.Sprintf("must be between %d and %d", MinRating, MaxRating)}
		}
		return RatingValue(int(f)), nil

	default:
		return nil, &ValueError{Kind: kind, Value: wire, Reason: "unknown input type"}
	}
}

func decodeSelection(cfg Config, wire any, strict bool) (Value, error) {
	var names []string
	switch v := wire.(type) {
	case string:
		names = strings.Split(v, boxSeparator)
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, &ValueError{Kind: Form, Value: wire, Reason: "selection entries must be strings"}
			}
			names = append(names, s)
		}
	default:
		return nil, &ValueError{Kind: Form, Value: wire, Reason: "not a selection"}
	}

	boxes := Boxes(cfg)
	picked := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		known := false
		for _, box := range boxes {
			if box == name {
				known = true
				break
			}
		}
		if !known {
			if strict {
				return nil, &ValueError{Kind: Form, Value: wire, Reason: fmt.Sprintf("unknown box %q", name)}
			}
			continue
		}
		picked[name] = true
	}

	selection := SelectionValue{}
	for _, box := range boxes {
		if picked[box] {
			selection = append(selection, box)
		}
	}
	return selection, nil
}

// EncodeValue converts a typed value into its wire string.
func EncodeValue(v Value) any {
	switch v := v.(type) {
	case NumberValue:
		if v.Integer {
			return strconv.FormatInt(int64(v.Value), 10)
		}
		return strconv.FormatFloat(v.Value, 'f', -1, 64)
	case TextValue:
		return string(v)
	case SelectionValue:
		return strings.Join(v, boxSeparator)
	case DurationValue:
		return FormatDuration(time.Duration(v))
	case RatingValue:
		return strconv.Itoa(int(v))
	default:
		return nil
	}
}

// ToNumber projects a value onto a number for aggregation. Durations are
// expressed in seconds.
func ToNumber(v Value) (float64, error) {
	switch v := v.(type) {
	case NumberValue:
		return v.Value, nil
	case DurationValue:
		return time.Duration(v).Seconds(), nil
	case RatingValue:
		return float64(v), nil
	default:
		return 0, ErrNotNumeric
	}
}

// DefaultValue is the value an entry form starts from.
func DefaultValue(kind Kind, cfg Config) Value {
	switch kind {
	case Slider:
		r := SliderRange(cfg)
		return NumberValue{Value: r.Midpoint(), Integer: r.Integer}
	case Text:
		return TextValue("")
	case Form:
		return SelectionValue{}
	case Time:
		return DurationValue(0)
	case Rating:
		return RatingValue(MinRating)
	default:
		return nil
	}
}

// ParseDuration parses HH:MM:SS. Minutes and seconds must be below 60, hours
// below MaxDurationHours.
func ParseDuration(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("expected HH:MM:SS, got %q", s)
	}
	var fields [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("expected HH:MM:SS, got %q", s)
		}
		fields[i] = n
	}
	if fields[1] >= 60 || fields[2] >= 60 {
		return 0, fmt.Errorf("minutes and seconds must be below 60 in %q", s)
	}
	if fields[0] >= MaxDurationHours {
		return 0, fmt.Errorf("hours must be below %d in %q", MaxDurationHours, s)
	}
	return time.Duration(fields[0])*time.Hour +
		time.Duration(fields[1])*time.Minute +
		time.Duration(fields[2])*time.Second, nil
}

// FormatDuration renders d as HH:MM:SS, truncating sub-second precision.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
