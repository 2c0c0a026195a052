package codec

import (
	"time"

	"github.com/julianstephens/wellmeing/internal/inputtype"
	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/models"
)

// DecodeSubmission reads a submission against the metric schema of its
// habit. The timestamp is required. Values for metrics outside the schema,
// or values that no longer decode, are dropped.
func DecodeSubmission(raw map[string]any, schema []models.Metric) (models.Submission, error) {
	stamp, err := requiredString(raw, "submission", FieldTimestamp)
	if err != nil {
		return models.Submission{}, err
	}
	ts, err := models.ParseTimestamp(stamp)
	if err != nil {
		return models.Submission{}, &DecodeError{Entity: "submission", Field: FieldTimestamp, Reason: "is not a timestamp: " + err.Error()}
	}
	return decodeSubmissionBody(raw, schema, ts, false), nil
}

// DecodeHistoryEntry reads a submission stored under key in a habit's
// history. The key is both the id and the timestamp.
func DecodeHistoryEntry(key string, raw map[string]any, schema []models.Metric) (models.Submission, error) {
	return DecodeSubmission(withKey(raw, key, FieldID, FieldTimestamp), schema)
}

// DecodeNewSubmission reads a submission that has not been stored yet, such
// as one proposed by the assistant. A missing or malformed timestamp falls
// back to now.
func DecodeNewSubmission(raw map[string]any, schema []models.Metric, now time.Time) models.Submission {
	ts := now
	if stamp := optionalString(raw, FieldTimestamp); stamp != "" {
		parsed, err := models.ParseTimestamp(stamp)
		if err != nil {
			logger.Warn("Submission timestamp unreadable, using current time", "timestamp", stamp, "error", err)
		} else {
			ts = parsed
		}
	}
	return decodeSubmissionBody(raw, schema, ts, true)
}

func decodeSubmissionBody(raw map[string]any, schema []models.Metric, ts time.Time, strict bool) models.Submission {
	values := map[string]inputtype.Value{}
	if wire, ok := asMap(raw[FieldMetrics]); ok {
		for _, m := range schema {
			w, present := wire[m.Name]
			if !present {
				continue
			}
			var v inputtype.Value
			var err error
			if strict {
				v, err = m.Decode(w)
			} else {
				v, err = m.DecodeStored(w)
			}
			if err != nil {
				logger.Warn("Dropping unreadable metric value", "metric", m.Name, "error", err)
				continue
			}
			values[m.Name] = v
		}
	}

	s := models.NewSubmission(ts, optionalString(raw, FieldNotes), values)
	s.ID = optionalString(raw, FieldID)
	return s
}

// EncodeSubmission writes a submission without its id and timestamp, which
// are carried by the history key.
func EncodeSubmission(s models.Submission) map[string]any {
	metrics := make(map[string]any, len(s.Metrics))
	for name, v := range s.Metrics {
		metrics[name] = inputtype.EncodeValue(v)
	}
	out := map[string]any{FieldMetrics: metrics}
	if s.Notes != "" {
		out[FieldNotes] = s.Notes
	}
	return out
}

// EncodeNewSubmission writes a submission with an explicit timestamp, the
// shape used for loggings in assistant payloads.
func EncodeNewSubmission(s models.Submission) map[string]any {
	out := EncodeSubmission(s)
	out[FieldTimestamp] = models.FormatTimestamp(s.Timestamp)
	return out
}
