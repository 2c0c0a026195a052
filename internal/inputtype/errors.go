package inputtype

import (
	"errors"
	"fmt"
)

var (
	// ErrNotNumeric is returned when a value has no numeric projection.
	ErrNotNumeric = errors.New("value has no numeric projection")
	// ErrNotAggregatable is returned when a kind has no reduction rule.
	ErrNotAggregatable = errors.New("input type cannot be aggregated")
)

// ConfigError reports a metric config that violates its kind's schema.
type ConfigError struct {
	Kind   Kind
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid %s config: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("invalid %s config %q: %s", e.Kind, e.Key, e.Reason)
}

// ValueError reports a submission value that cannot be decoded for its kind.
type ValueError struct {
	Kind   Kind
	Value  any
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid %s value %v: %s", e.Kind, e.Value, e.Reason)
}
