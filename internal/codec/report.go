package codec

import (
	"errors"

	"github.com/julianstephens/wellmeing/internal/models"
)

// DecodeReport reads a report. Date, title and content are all required.
func DecodeReport(raw map[string]any) (models.Report, error) {
	stamp, err := requiredString(raw, "report", FieldDate)
	if err != nil {
		return models.Report{}, err
	}
	date, err := models.ParseTimestamp(stamp)
	if err != nil {
		return models.Report{}, &DecodeError{Entity: "report", Field: FieldDate, Reason: "is not a timestamp: " + err.Error()}
	}
	title, _ := raw[FieldTitle].(string)
	content, _ := raw[FieldContent].(string)

	r, err := models.NewReport(title, date, content)
	if err != nil {
		var fieldErr *models.FieldError
		if errors.As(err, &fieldErr) {
			return models.Report{}, &DecodeError{Entity: "report", Field: fieldErr.Field, Reason: fieldErr.Reason}
		}
		return models.Report{}, err
	}
	return r, nil
}

// DecodeReportEntry reads a report stored under its date.
func DecodeReportEntry(date string, raw map[string]any) (models.Report, error) {
	return DecodeReport(withKey(raw, date, FieldDate))
}

// EncodeReport writes a report without its date, which is carried by the key.
func EncodeReport(r models.Report) map[string]any {
	return map[string]any{
		FieldTitle:   r.Title,
		FieldContent: r.Content,
	}
}

// ReportKey is the key a report is stored under.
func ReportKey(r models.Report) string {
	return models.FormatTimestamp(r.Date)
}
