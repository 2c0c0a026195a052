package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/wellmeing/internal/constants"
	"github.com/julianstephens/wellmeing/internal/inputtype"
)

// Habit is a trackable activity. Its name is the primary key within a user.
// History is kept sorted by timestamp.
type Habit struct {
	Name        string
	Description string
	Goal        string
	Metrics     []Metric
	History     []Submission
}

// NewHabit builds a habit from user or assistant input.
func NewHabit(name, description, goal string, metrics []Metric) (Habit, error) {
	name = Clean(name)
	if name == "" {
		return Habit{}, &FieldError{Entity: "habit", Field: "name", Reason: "required"}
	}
	if RuneLen(name) > constants.MaxHabitNameLength {
		return Habit{}, &FieldError{Entity: "habit", Field: "name",
			Reason: fmt.Sprintf("must be at most %d characters", constants.MaxHabitNameLength)}
	}
	description = Clean(description)
	if RuneLen(description) > constants.MaxDescriptionLength {
		return Habit{}, &FieldError{Entity: "habit", Field: "description",
			Reason: fmt.Sprintf("must be at most %d characters", constants.MaxDescriptionLength)}
	}
	goal = Clean(goal)
	if RuneLen(goal) > constants.MaxGoalLength {
		return Habit{}, &FieldError{Entity: "habit", Field: "goal",
			Reason: fmt.Sprintf("must be at most %d characters", constants.MaxGoalLength)}
	}
	if len(metrics) > constants.MaxMetrics {
		return Habit{}, &FieldError{Entity: "habit", Field: "metrics",
			Reason: fmt.Sprintf("at most %d metrics allowed", constants.MaxMetrics)}
	}
	seen := make(map[string]bool, len(metrics))
	for _, m := range metrics {
		if seen[m.Name] {
			return Habit{}, &FieldError{Entity: "habit", Field: "metrics",
				Reason: fmt.Sprintf("duplicate metric %q", m.Name)}
		}
		seen[m.Name] = true
	}

	return Habit{
		Name:        name,
		Description: description,
		Goal:        goal,
		Metrics:     metrics,
	}, nil
}

// Metric looks up a metric by name.
func (h Habit) Metric(name string) (Metric, bool) {
	for _, m := range h.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// Submission looks up a history entry by id.
func (h Habit) Submission(id string) (Submission, bool) {
	for _, s := range h.History {
		if s.ID == id {
			return s, true
		}
	}
	return Submission{}, false
}

// SubmissionsCount is the size of the history.
func (h Habit) SubmissionsCount() int {
	return len(h.History)
}

// LastSubmissionDate returns the latest timestamp in the history.
func (h Habit) LastSubmissionDate() (time.Time, bool) {
	var last time.Time
	found := false
	for _, s := range h.History {
		if !found || s.Timestamp.After(last) {
			last = s.Timestamp
			found = true
		}
	}
	return last, found
}

// WithHistory returns a shallow copy of h whose history is replaced.
func (h Habit) WithHistory(history []Submission) Habit {
	h.History = SortHistory(history)
	return h
}

// ParseValues decodes the wire values of a new submission. Every metric of
// the habit must be present and no others.
func (h Habit) ParseValues(wire map[string]any) (map[string]inputtype.Value, error) {
	values := make(map[string]inputtype.Value, len(h.Metrics))
	for _, m := range h.Metrics {
		raw, ok := wire[m.Name]
		if !ok {
			return nil, &FieldError{Entity: "submission", Field: m.Name, Reason: "missing value"}
		}
		v, err := m.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("metric %q: %w", m.Name, err)
		}
		values[m.Name] = v
	}
	for name := range wire {
		if _, ok := h.Metric(name); !ok {
			return nil, &FieldError{Entity: "submission", Field: name, Reason: "not a metric of " + h.Name}
		}
	}
	return values, nil
}

// CheckSubmission verifies that s carries exactly the habit's metrics with
// values of the right kind.
func (h Habit) CheckSubmission(s Submission) error {
	for name := range s.Metrics {
		if _, ok := h.Metric(name); !ok {
			return &FieldError{Entity: "submission", Field: name, Reason: "not a metric of " + h.Name}
		}
	}
	for _, m := range h.Metrics {
		v, ok := s.Metrics[m.Name]
		if !ok || v == nil {
			return &FieldError{Entity: "submission", Field: m.Name, Reason: "missing value"}
		}
		if v.Kind() != m.Input {
			return &inputtype.ValueError{Kind: m.Input, Value: v, Reason: "expected " + m.Input.String() + " value"}
		}
	}
	return nil
}

// SortHistory orders submissions by timestamp, oldest first.
func SortHistory(history []Submission) []Submission {
	sorted := append([]Submission(nil), history...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}
