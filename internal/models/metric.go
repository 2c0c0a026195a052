package models

import (
	"fmt"

	"github.com/julianstephens/wellmeing/internal/constants"
	"github.com/julianstephens/wellmeing/internal/inputtype"
)

// Metric is a named, typed field of a habit. The name identifies it within
// its habit.
type Metric struct {
	Name        string
	Description string
	Input       inputtype.Kind
	Config      inputtype.Config
}

// NewMetric builds a metric from user input, normalizing its config. It
// returns an *inputtype.ConfigError when the config violates the schema.
func NewMetric(name, description string, input inputtype.Kind, cfg inputtype.Config) (Metric, error) {
	name = Clean(name)
	if name == "" {
		return Metric{}, &FieldError{Entity: "metric", Field: "name", Reason: "required"}
	}
	if RuneLen(name) > constants.MaxMetricNameLength {
		return Metric{}, &FieldError{Entity: "metric", Field: "name",
			Reason: fmt.Sprintf("must be at most %d characters", constants.MaxMetricNameLength)}
	}
	normalized, err := inputtype.ValidateConfig(input, cfg)
	if err != nil {
		return Metric{}, err
	}
	return Metric{
		Name:        name,
		Description: Clean(description),
		Input:       input,
		Config:      normalized,
	}, nil
}

// Decode parses a wire value strictly, as required when a submission is created.
func (m Metric) Decode(wire any) (inputtype.Value, error) {
	return inputtype.DecodeValue(m.Input, m.Config, wire)
}

// DecodeStored parses a wire value read back from the store.
func (m Metric) DecodeStored(wire any) (inputtype.Value, error) {
	return inputtype.DecodeStoredValue(m.Input, m.Config, wire)
}

// Default returns the value an entry form starts from.
func (m Metric) Default() inputtype.Value {
	return inputtype.DefaultValue(m.Input, m.Config)
}
