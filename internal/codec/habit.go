package codec

import (
	"fmt"

	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/models"
)

// DecodeHabit reads a habit. Only the name is required; unreadable metrics
// and history entries are dropped.
func DecodeHabit(raw map[string]any) (models.Habit, error) {
	name, err := requiredString(raw, "habit", FieldName)
	if err != nil {
		return models.Habit{}, err
	}

	h := models.Habit{
		Name:        name,
		Description: optionalString(raw, FieldDescription),
		Goal:        optionalString(raw, FieldGoal),
	}

	if list, ok := asList(raw[FieldMetrics]); ok {
		seen := make(map[string]bool, len(list))
		for _, item := range list {
			m, ok := asMap(item)
			if !ok {
				logger.Warn("Dropping malformed metric", "habit", name)
				continue
			}
			metric, err := DecodeMetric(m)
			if err != nil {
				logger.Warn("Dropping unreadable metric", "habit", name, "error", err)
				continue
			}
			if seen[metric.Name] {
				logger.Warn("Dropping duplicate metric", "habit", name, "metric", metric.Name)
				continue
			}
			seen[metric.Name] = true
			h.Metrics = append(h.Metrics, metric)
		}
	}

	if history, ok := asMap(raw[FieldHistory]); ok {
		subs := make([]models.Submission, 0, len(history))
		for key, item := range history {
			m, ok := asMap(item)
			if !ok {
				logger.Warn("Dropping malformed submission", "habit", name, "key", key)
				continue
			}
			s, err := DecodeHistoryEntry(key, m, h.Metrics)
			if err != nil {
				logger.Warn("Dropping unreadable submission", "habit", name, "key", key, "error", err)
				continue
			}
			subs = append(subs, s)
		}
		h = h.WithHistory(subs)
	}

	return h, nil
}

// DecodeHabitEntry reads a habit stored under its name.
func DecodeHabitEntry(name string, raw map[string]any) (models.Habit, error) {
	return DecodeHabit(withKey(raw, name, FieldName))
}

// EncodeHabit writes a habit without its name, which is carried by the key.
func EncodeHabit(h models.Habit) map[string]any {
	out := map[string]any{}
	if h.Description != "" {
		out[FieldDescription] = h.Description
	}
	if h.Goal != "" {
		out[FieldGoal] = h.Goal
	}
	if len(h.Metrics) > 0 {
		metrics := make([]any, 0, len(h.Metrics))
		for _, m := range h.Metrics {
			metrics = append(metrics, EncodeMetric(m))
		}
		out[FieldMetrics] = metrics
	}
	if len(h.History) > 0 {
		history := make(map[string]any, len(h.History))
		for _, s := range h.History {
			history[s.Key()] = EncodeSubmission(s)
		}
		out[FieldHistory] = history
	}
	return out
}

// EncodeHabits writes habits keyed by name.
func EncodeHabits(habits []models.Habit) map[string]any {
	out := make(map[string]any, len(habits))
	for _, h := range habits {
		out[h.Name] = EncodeHabit(h)
	}
	return out
}

// DecodeHabitDefinition reads a habit the user is creating. Unlike
// DecodeHabitEntry it fails on any unreadable metric and runs the creation
// checks of models.NewMetric and models.NewHabit. History is ignored.
func DecodeHabitDefinition(name string, raw map[string]any) (models.Habit, error) {
	var metrics []models.Metric
	if v, present := raw[FieldMetrics]; present && v != nil {
		list, ok := asList(v)
		if !ok {
			return models.Habit{}, &DecodeError{Entity: "habit", Field: FieldMetrics, Reason: "must be a list"}
		}
		for i, item := range list {
			m, ok := asMap(item)
			if !ok {
				return models.Habit{}, &DecodeError{Entity: "habit", Field: FieldMetrics, Reason: fmt.Sprintf("entry %d is not an object", i)}
			}
			decoded, err := DecodeMetric(m)
			if err != nil {
				return models.Habit{}, err
			}
			metric, err := models.NewMetric(decoded.Name, decoded.Description, decoded.Input, decoded.Config)
			if err != nil {
				return models.Habit{}, err
			}
			metrics = append(metrics, metric)
		}
	}
	return models.NewHabit(name, optionalString(raw, FieldDescription), optionalString(raw, FieldGoal), metrics)
}
