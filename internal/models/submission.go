package models

import (
	"time"

	"github.com/julianstephens/wellmeing/internal/constants"
	"github.com/julianstephens/wellmeing/internal/inputtype"
)

// Submission is one timestamped record of values against a habit's metrics.
// ID is assigned by the store and is empty until the submission is persisted.
type Submission struct {
	ID        string
	Timestamp time.Time
	Notes     string
	Metrics   map[string]inputtype.Value
}

// NewSubmission builds a submission. The timestamp is truncated to the
// second, the precision of the stored format, and notes are cleaned.
func NewSubmission(timestamp time.Time, notes string, metrics map[string]inputtype.Value) Submission {
	if metrics == nil {
		metrics = map[string]inputtype.Value{}
	}
	return Submission{
		Timestamp: timestamp.Truncate(time.Second),
		Notes:     Truncate(Clean(notes), constants.MaxNotesLength),
		Metrics:   metrics,
	}
}

// Value returns the value recorded for metric, if any.
func (s Submission) Value(metric string) (inputtype.Value, bool) {
	v, ok := s.Metrics[metric]
	return v, ok
}

// Key is the identity of the submission within its habit's history.
func (s Submission) Key() string {
	if s.ID != "" {
		return s.ID
	}
	return FormatTimestamp(s.Timestamp)
}
