package codec

import (
	"github.com/julianstephens/wellmeing/internal/inputtype"
	"github.com/julianstephens/wellmeing/internal/models"
)

// DecodeMetric reads a metric. Its config is taken as stored; schema checks
// only happen when a metric is created.
func DecodeMetric(raw map[string]any) (models.Metric, error) {
	name, err := requiredString(raw, "metric", FieldName)
	if err != nil {
		return models.Metric{}, err
	}
	input, err := requiredString(raw, "metric", FieldInput)
	if err != nil {
		return models.Metric{}, err
	}
	kind, err := inputtype.ParseKind(input)
	if err != nil {
		return models.Metric{}, &DecodeError{Entity: "metric", Field: FieldInput, Reason: err.Error()}
	}

	var cfg inputtype.Config
	if m, ok := asMap(raw[FieldConfig]); ok && len(m) > 0 {
		cfg = inputtype.Config(m)
	}

	return models.Metric{
		Name:        name,
		Description: optionalString(raw, FieldDescription),
		Input:       kind,
		Config:      cfg,
	}, nil
}

// EncodeMetric writes a metric. Empty description and config are omitted.
func EncodeMetric(m models.Metric) map[string]any {
	out := map[string]any{
		FieldName:  m.Name,
		FieldInput: m.Input.String(),
	}
	if m.Description != "" {
		out[FieldDescription] = m.Description
	}
	if len(m.Config) > 0 {
		out[FieldConfig] = map[string]any(m.Config)
	}
	return out
}
