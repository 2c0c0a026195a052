package history

import (
	"fmt"
	"time"
)

// DaysPerWeek is the length of a chart series.
const DaysPerWeek = 7

// WeekdayNames holds the chart column labels, Monday first.
var WeekdayNames = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdayIndex maps t onto a chart column: Monday is 0, Sunday is 6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % DaysPerWeek
}

// WeekRange returns the calendar week offset whole weeks from the week
// holding now. 0 is the current week, -1 the previous one. start is Monday
// at midnight and end, exclusive, is the following Monday.
func WeekRange(now time.Time, offset int) (start, end time.Time) {
	y, m, d := now.Date()
	start = time.Date(y, m, d-WeekdayIndex(now)+offset*DaysPerWeek, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 0, DaysPerWeek)
	return start, end
}

// InWeek reports whether t falls in [start, end).
func InWeek(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// WeekLabel renders the dates covered by a week, e.g. "5 May 2025 - 11 May 2025".
func WeekLabel(now time.Time, offset int) string {
	start, end := WeekRange(now, offset)
	last := end.AddDate(0, 0, -1)
	return fmt.Sprintf("%s - %s", start.Format("2 Jan 2006"), last.Format("2 Jan 2006"))
}
