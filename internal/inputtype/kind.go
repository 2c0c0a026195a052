// Package inputtype defines the value kinds a habit metric can hold, along with
// the configuration schema, wire shape and aggregation rule of each kind.
package inputtype

import (
	"fmt"
	"strings"
)

// Kind identifies how a metric is entered, stored and aggregated.
type Kind string

const (
	// Slider is a bounded number. Config:
	//
	//	"config": {"type": "int" | "float", "min": 0, "max": 10}
	Slider Kind = "slider"

	// Text is a free string. No config.
	Text Kind = "text"

	// Form is an ordered set of independently selectable boxes. Config:
	//
	//	"config": {"boxes": ["first", "second", "third"]}
	Form Kind = "form"

	// Time is a duration in HH:MM:SS. No config.
	Time Kind = "time"

	// Rating is a 1-5 star count. No config.
	Rating Kind = "rating"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{Slider, Text, Form, Time, Rating}

// ParseKind resolves a wire name into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown input type %q", s)
}

func (k Kind) String() string {
	return string(k)
}

// Chartable reports whether values of this kind have a numeric projection
// and can be aggregated into chart series.
func (k Kind) Chartable() bool {
	switch k {
	case Slider, Time, Rating:
		return true
	default:
		return false
	}
}
