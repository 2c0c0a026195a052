package inputtype

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Config keys.
const (
	KeyType  = "type"
	KeyMin   = "min"
	KeyMax   = "max"
	KeyBoxes = "boxes"

	SliderInt   = "int"
	SliderFloat = "float"

	// Widening applied when a slider's min equals its max.
	sliderWidening = 50

	boxSeparator = ";"
)

// DefaultBoxes is used for forms stored without a box list.
var DefaultBoxes = []string{"Done"}

// Config is the loosely-typed configuration of a metric.
type Config map[string]any

// Range is a normalized slider range with min strictly below max.
type Range struct {
	Min     float64
	Max     float64
	Integer bool
}

// Midpoint is the slider's default value.
func (r Range) Midpoint() float64 {
	mid := r.Min + (r.Max-r.Min)/2
	if r.Integer {
		return math.Trunc(mid)
	}
	return mid
}

// NormalizeRange applies the slider bound rules: equal bounds widen max by 50,
// inverted bounds are swapped.
func NormalizeRange(min, max float64) (float64, float64) {
	if min == max {
		return min, min + sliderWidening
	}
	if min > max {
		return max, min
	}
	return min, max
}

// SliderRange reads the normalized range of a slider config. Missing bounds
// default to 0 and 100; a missing type means float.
func SliderRange(cfg Config) Range {
	min, ok := toFloat(cfg[KeyMin])
	if !ok {
		min = 0
	}
	max, ok := toFloat(cfg[KeyMax])
	if !ok {
		max = 100
	}
	min, max = NormalizeRange(min, max)
	t, _ := cfg[KeyType].(string)
	return Range{Min: min, Max: max, Integer: strings.EqualFold(t, SliderInt)}
}

// Boxes reads the box names of a form config, falling back to DefaultBoxes.
func Boxes(cfg Config) []string {
	boxes, err := boxList(cfg[KeyBoxes])
	if err != nil || len(boxes) == 0 {
		return append([]string(nil), DefaultBoxes...)
	}
	return boxes
}

// ValidateConfig checks cfg against the schema of kind and returns the
// normalized config.
func ValidateConfig(kind Kind, cfg Config) (Config, error) {
	switch kind {
	case Slider:
		return validateSlider(cfg)
	case Form:
		return validateForm(cfg)
	case Text, Time, Rating:
		if len(cfg) > 0 {
			return nil, &ConfigError{Kind: kind, Reason: "no configuration allowed"}
		}
		return nil, nil
	default:
		return nil, &ConfigError{Kind: kind, Reason: "unknown input type"}
	}
}

func validateSlider(cfg Config) (Config, error) {
	for key := range cfg {
		if key != KeyType && key != KeyMin && key != KeyMax {
			return nil, &ConfigError{Kind: Slider, Key: key, Reason: "unknown key"}
		}
	}

	valueType := SliderFloat
	if raw, ok := cfg[KeyType]; ok {
		s, isString := raw.(string)
		s = strings.ToLower(strings.TrimSpace(s))
		if !isString || (s != SliderInt && s != SliderFloat) {
			return nil, &ConfigError{Kind: Slider, Key: KeyType, Reason: "must be \"int\" or \"float\""}
		}
		valueType = s
	}
	for _, key := range []string{KeyMin, KeyMax} {
		if raw, ok := cfg[key]; ok {
			if _, isNumber := toFloat(raw); !isNumber {
				return nil, &ConfigError{Kind: Slider, Key: key, Reason: "must be a number"}
			}
		}
	}

	r := SliderRange(Config{KeyType: valueType, KeyMin: cfg[KeyMin], KeyMax: cfg[KeyMax]})
	return Config{KeyType: valueType, KeyMin: r.Min, KeyMax: r.Max}, nil
}

func validateForm(cfg Config) (Config, error) {
	for key := range cfg {
		if key != KeyBoxes {
			return nil, &ConfigError{Kind: Form, Key: key, Reason: "unknown key"}
		}
	}
	raw, ok := cfg[KeyBoxes]
	if !ok {
		return Config{KeyBoxes: append([]string(nil), DefaultBoxes...)}, nil
	}
	boxes, err := boxList(raw)
	if err != nil {
		return nil, &ConfigError{Kind: Form, Key: KeyBoxes, Reason: err.Error()}
	}
	if len(boxes) == 0 {
		return nil, &ConfigError{Kind: Form, Key: KeyBoxes, Reason: "at least one box is required"}
	}
	seen := make(map[string]bool, len(boxes))
	for _, box := range boxes {
		if seen[box] {
			return nil, &ConfigError{Kind: Form, Key: KeyBoxes, Reason: "duplicate box " + strconv.Quote(box)}
		}
		seen[box] = true
	}
	return Config{KeyBoxes: boxes}, nil
}

// boxList accepts []string or []any of strings. Names are trimmed and the
// value separator is replaced so a selection can always be split back.
func boxList(raw any) ([]string, error) {
	var items []any
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	case []any:
		items = v
	default:
		return nil, errors.New("boxes must be a list of names")
	}

	boxes := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, errors.New("box names must be strings")
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), boxSeparator, "_")
		if s == "" {
			return nil, errors.New("box names must not be empty")
		}
		boxes = append(boxes, s)
	}
	return boxes, nil
}

func toFloat(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
