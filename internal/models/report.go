package models

import (
	"time"

	"github.com/julianstephens/wellmeing/internal/constants"
)

// Report is an assistant-written summary. Its date is its identity.
type Report struct {
	Title   string
	Date    time.Time
	Content string
}

// NewReport builds a report. Title and content are trimmed, must not be
// empty, and are truncated to their maximum lengths.
func NewReport(title string, date time.Time, content string) (Report, error) {
	title = Clean(title)
	if title == "" {
		return Report{}, &FieldError{Entity: "report", Field: "title", Reason: "required"}
	}
	content = Clean(content)
	if content == "" {
		return Report{}, &FieldError{Entity: "report", Field: "content", Reason: "required"}
	}
	return Report{
		Title:   Truncate(title, constants.MaxReportTitleLength),
		Date:    date.Truncate(time.Second),
		Content: Truncate(content, constants.MaxReportContentLength),
	}, nil
}
