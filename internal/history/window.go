// Package history selects submissions by time window and reduces them into
// weekly chart series. Every function is pure: habits passed in are never
// modified and callers receive copies.
package history

import (
	"time"

	"github.com/julianstephens/wellmeing/internal/constants"
	"github.com/julianstephens/wellmeing/internal/models"
)

// SubmissionsInWindow returns copies of habits whose history only holds the
// submissions made in the trailing window of windowDays ending at now, both
// ends included. When filterNames is given only the named habits are
// returned.
func SubmissionsInWindow(habits []models.Habit, windowDays int, now time.Time, filterNames ...string) []models.Habit {
	start := now.AddDate(0, 0, -windowDays)

	var wanted map[string]bool
	if len(filterNames) > 0 {
		wanted = make(map[string]bool, len(filterNames))
		for _, name := range filterNames {
			wanted[name] = true
		}
	}

	out := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if wanted != nil && !wanted[h.Name] {
			continue
		}
		var kept []models.Submission
		for _, s := range h.History {
			if s.Timestamp.Before(start) || s.Timestamp.After(now) {
				continue
			}
			kept = append(kept, s)
		}
		out = append(out, h.WithHistory(kept))
	}
	return out
}

// Week is SubmissionsInWindow over the last 7 days.
func Week(habits []models.Habit, now time.Time, filterNames ...string) []models.Habit {
	return SubmissionsInWindow(habits, constants.WeekWindow, now, filterNames...)
}

// Month is SubmissionsInWindow over the last 30 days.
func Month(habits []models.Habit, now time.Time, filterNames ...string) []models.Habit {
	return SubmissionsInWindow(habits, constants.MonthWindow, now, filterNames...)
}
