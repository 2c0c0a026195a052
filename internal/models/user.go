package models

import (
	"fmt"
	"sort"
	"time"
	"unicode"

	"github.com/julianstephens/wellmeing/internal/constants"
)

// UserData is the decoded user document.
type UserData struct {
	Name          string
	Bio           string
	Habits        []Habit
	Reports       []Report
	NewReportDate *time.Time
	Usage         Usage
}

// Usage counts submissions made on the day of Today, and assistant tokens
// spent over the lifetime of the account.
type Usage struct {
	Today       time.Time
	Submissions int
	Tokens      int
}

// On returns the usage as seen on the day of now: the submission counter
// restarts on a new day.
func (u Usage) On(now time.Time) Usage {
	y1, m1, d1 := u.Today.Date()
	y2, m2, d2 := now.Date()
	if u.Today.IsZero() || y1 != y2 || m1 != m2 || d1 != d2 {
		u.Today = now.Truncate(time.Second)
		u.Submissions = 0
	}
	return u
}

// CanRequestReport reports whether the report cool-down is over at now.
func (u *UserData) CanRequestReport(now time.Time) bool {
	return u == nil || u.NewReportDate == nil || !u.NewReportDate.After(now)
}

// Habit looks up a habit by name.
func (u *UserData) Habit(name string) (Habit, bool) {
	if u == nil {
		return Habit{}, false
	}
	for _, h := range u.Habits {
		if h.Name == name {
			return h, true
		}
	}
	return Habit{}, false
}

// HabitNames lists the habit names in display order.
func (u *UserData) HabitNames() []string {
	if u == nil {
		return nil
	}
	names := make([]string, 0, len(u.Habits))
	for _, h := range u.Habits {
		names = append(names, h.Name)
	}
	return names
}

// Report looks up a report by its date.
func (u *UserData) Report(date time.Time) (Report, bool) {
	if u == nil {
		return Report{}, false
	}
	for _, r := range u.Reports {
		if r.Date.Equal(date) {
			return r, true
		}
	}
	return Report{}, false
}

// SortHabits orders habits by name.
func SortHabits(habits []Habit) {
	sort.Slice(habits, func(i, j int) bool { return habits[i].Name < habits[j].Name })
}

// SortReports orders reports newest first.
func SortReports(reports []Report) {
	sort.Slice(reports, func(i, j int) bool { return reports[i].Date.After(reports[j].Date) })
}

// ValidateUsername cleans a username. An empty username resets it; otherwise
// it must be 4-32 characters of letters and spaces.
func ValidateUsername(name string) (string, error) {
	name = Clean(name)
	if name == "" {
		return "", nil
	}
	n := RuneLen(name)
	if n < constants.MinUsernameLength || n > constants.MaxUsernameLength {
		return "", &FieldError{Entity: "profile", Field: "name",
			Reason: fmt.Sprintf("must be %d-%d characters", constants.MinUsernameLength, constants.MaxUsernameLength)}
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && r != ' ' {
			return "", &FieldError{Entity: "profile", Field: "name", Reason: "only letters and spaces are allowed"}
		}
	}
	return name, nil
}

// ValidateBio cleans a bio. An empty bio resets it; otherwise it must be
// 8-500 characters.
func ValidateBio(bio string) (string, error) {
	bio = Clean(bio)
	if bio == "" {
		return "", nil
	}
	n := RuneLen(bio)
	if n < constants.MinBioLength || n > constants.MaxBioLength {
		return "", &FieldError{Entity: "profile", Field: "bio",
			Reason: fmt.Sprintf("must be %d-%d characters", constants.MinBioLength, constants.MaxBioLength)}
	}
	return bio, nil
}
