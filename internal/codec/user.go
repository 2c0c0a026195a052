package codec

import (
	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/models"
)

// DecodeUser reads a whole user document. A nil document is a user with no
// data yet. Habits and reports that fail to decode are dropped.
func DecodeUser(raw map[string]any) *models.UserData {
	u := &models.UserData{
		Name: optionalString(raw, FieldName),
		Bio:  optionalString(raw, FieldBio),
	}

	if habits, ok := asMap(raw[FieldHabits]); ok {
		for name, item := range habits {
			m, ok := asMap(item)
			if !ok {
				logger.Warn("Dropping malformed habit", "habit", name)
				continue
			}
			h, err := DecodeHabitEntry(name, m)
			if err != nil {
				logger.Warn("Dropping unreadable habit", "habit", name, "error", err)
				continue
			}
			u.Habits = append(u.Habits, h)
		}
		models.SortHabits(u.Habits)
	}

	if reports, ok := asMap(raw[FieldReports]); ok {
		for date, item := range reports {
			m, ok := asMap(item)
			if !ok {
				logger.Warn("Dropping malformed report", "date", date)
				continue
			}
			r, err := DecodeReportEntry(date, m)
			if err != nil {
				logger.Warn("Dropping unreadable report", "date", date, "error", err)
				continue
			}
			u.Reports = append(u.Reports, r)
		}
		models.SortReports(u.Reports)
	}

	if stamp := optionalString(raw, FieldNewReportDate); stamp != "" {
		if ts, err := models.ParseTimestamp(stamp); err == nil {
			u.NewReportDate = &ts
		} else {
			logger.Warn("Ignoring unreadable report date", "value", stamp, "error", err)
		}
	}

	u.Usage = DecodeUsage(raw[FieldUsage])

	return u
}

// DecodeUsage reads the usage counters. Missing or malformed counters are
// zero.
func DecodeUsage(raw any) models.Usage {
	m, ok := asMap(raw)
	if !ok {
		return models.Usage{}
	}
	usage := models.Usage{
		Submissions: optionalInt(m, FieldSubmissions),
		Tokens:      optionalInt(m, FieldTokens),
	}
	if stamp := optionalString(m, FieldToday); stamp != "" {
		if ts, err := models.ParseTimestamp(stamp); err == nil {
			usage.Today = ts
		}
	}
	return usage
}

// EncodeUsage writes the usage counters.
func EncodeUsage(u models.Usage) map[string]any {
	out := map[string]any{
		FieldSubmissions: u.Submissions,
		FieldTokens:      u.Tokens,
	}
	if !u.Today.IsZero() {
		out[FieldToday] = models.FormatTimestamp(u.Today)
	}
	return out
}

// EncodeUser writes a whole user document.
func EncodeUser(u *models.UserData) map[string]any {
	out := map[string]any{}
	if u == nil {
		return out
	}
	if u.Name != "" {
		out[FieldName] = u.Name
	}
	if u.Bio != "" {
		out[FieldBio] = u.Bio
	}
	if len(u.Habits) > 0 {
		out[FieldHabits] = EncodeHabits(u.Habits)
	}
	if len(u.Reports) > 0 {
		reports := make(map[string]any, len(u.Reports))
		for _, r := range u.Reports {
			reports[ReportKey(r)] = EncodeReport(r)
		}
		out[FieldReports] = reports
	}
	if u.NewReportDate != nil {
		out[FieldNewReportDate] = models.FormatTimestamp(*u.NewReportDate)
	}
	if u.Usage != (models.Usage{}) {
		out[FieldUsage] = EncodeUsage(u.Usage)
	}
	return out
}

// ReportRequest is the assistant payload for report generation.
func ReportRequest(u *models.UserData, habits []models.Habit) map[string]any {
	out := map[string]any{FieldHabits: EncodeHabits(habits)}
	if u != nil && u.Name != "" {
		out[FieldName] = u.Name
	}
	if u != nil && u.Bio != "" {
		out[FieldBio] = u.Bio
	}
	return out
}

// SpeechRequest is the assistant payload for voice command parsing.
func SpeechRequest(speech string, habits []models.Habit) map[string]any {
	return map[string]any{
		FieldSpeech: speech,
		FieldHabits: EncodeHabits(habits),
	}
}
