package history

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/wellmeing/internal/inputtype"
	"github.com/julianstephens/wellmeing/internal/models"
)

// Wednesday.
var now = time.Date(2025, 5, 14, 12, 0, 0, 0, time.Local)

func at(day, hour int) time.Time {
	return time.Date(2025, 5, day, hour, 0, 0, 0, time.Local)
}

func sub(ts time.Time, values map[string]inputtype.Value) models.Submission {
	s := models.NewSubmission(ts, "", values)
	s.ID = models.FormatTimestamp(ts)
	return s
}

func fixture() []models.Habit {
	return []models.Habit{
		{
			Name: "Running",
			Metrics: []models.Metric{
				{Name: "Km", Input: inputtype.Slider},
				{Name: "Mood", Input: inputtype.Rating},
				{Name: "Time", Input: inputtype.Time},
				{Name: "Notes", Input: inputtype.Text},
			},
			History: []models.Submission{
				sub(at(5, 8), map[string]inputtype.Value{"Km": inputtype.NumberValue{Value: 3}, "Mood": inputtype.RatingValue(5)}),
				sub(at(12, 7), map[string]inputtype.Value{"Km": inputtype.NumberValue{Value: 10}, "Mood": inputtype.RatingValue(2)}),
				sub(at(12, 18), map[string]inputtype.Value{"Km": inputtype.NumberValue{Value: 15}, "Mood": inputtype.RatingValue(4)}),
				sub(at(12, 21), map[string]inputtype.Value{"Mood": inputtype.RatingValue(3)}),
				sub(at(14, 9), map[string]inputtype.Value{"Time": inputtype.DurationValue(30 * time.Minute)}),
			},
		},
		{Name: "Reading", Goal: "20 pages", Metrics: []models.Metric{{Name: "Pages", Input: inputtype.Slider}}},
	}
}

func TestSubmissionsInWindow(t *testing.T) {
	boundary := now.AddDate(0, 0, -7)
	habits := []models.Habit{{
		Name: "Sleep",
		History: []models.Submission{
			sub(now.AddDate(0, 0, -8), nil),
			sub(boundary, nil),
			sub(now.Add(-time.Hour), nil),
			sub(now.Add(time.Hour), nil),
		},
	}, {Name: "Water", Description: "glasses"}}

	got := SubmissionsInWindow(habits, 7, now)
	if len(got) != 2 {
		t.Fatalf("expected both habits, got %d", len(got))
	}
	hist := got[0].History
	if len(hist) != 2 {
		t.Fatalf("expected 2 submissions in window, got %d", len(hist))
	}
	if !hist[0].Timestamp.Equal(boundary) {
		t.Errorf("expected boundary submission included, got %v", hist[0].Timestamp)
	}
	if got[1].Description != "glasses" {
		t.Errorf("expected habit fields preserved, got %+v", got[1])
	}
	if len(habits[0].History) != 4 {
		t.Errorf("source habit was modified: %d submissions", len(habits[0].History))
	}
}

func TestSubmissionsInWindowFilter(t *testing.T) {
	got := Month(fixture(), now, "Reading", "Missing")
	if len(got) != 1 || got[0].Name != "Reading" {
		t.Errorf("expected only Reading, got %+v", got)
	}
	if got := Week(fixture(), now); len(got[0].History) != 4 {
		t.Errorf("expected 4 Running submissions this week, got %d", len(got[0].History))
	}
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		offset    int
		wantStart time.Time
	}{
		{"wednesday", now, 0, at(12, 0)},
		{"monday midnight", at(12, 0), 0, at(12, 0)},
		{"sunday", time.Date(2025, 5, 18, 23, 0, 0, 0, time.Local), 0, at(12, 0)},
		{"last week", now, -1, at(5, 0)},
		{"across month", now, -2, time.Date(2025, 4, 28, 0, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekRange(tt.now, tt.offset)
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantStart.AddDate(0, 0, 7)) {
				t.Errorf("end = %v, want a week after start", end)
			}
		})
	}
}

func TestWeekdayIndex(t *testing.T) {
	for day, want := range map[int]int{12: 0, 14: 2, 17: 5, 18: 6} {
		if got := WeekdayIndex(at(day, 10)); got != want {
			t.Errorf("WeekdayIndex(May %d) = %d, want %d", day, got, want)
		}
	}
}

func TestWeekLabel(t *testing.T) {
	if got, want := WeekLabel(now, -1), "5 May 2025 - 11 May 2025"; got != want {
		t.Errorf("WeekLabel() = %q, want %q", got, want)
	}
}

func TestAggregateWeek(t *testing.T) {
	habits := fixture()

	tests := []struct {
		name   string
		habit  string
		metric string
		offset int
		want   Series
	}{
		{"slider sums", "Running", "Km", 0, Series{25}},
		{"rating averages", "Running", "Mood", 0, Series{3}},
		{"time in seconds", "Running", "Time", 0, Series{0, 0, 1800}},
		{"previous week", "Running", "Km", -1, Series{3}},
		{"two weeks ago", "Running", "Mood", -2, Series{}},
		{"unknown habit", "Swimming", "Km", 0, Series{}},
		{"unknown metric", "Running", "Heart", 0, Series{}},
		{"empty history", "Reading", "Pages", 0, Series{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AggregateWeek(habits, tt.habit, tt.metric, tt.offset, now)
			if err != nil {
				t.Fatalf("AggregateWeek() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("AggregateWeek() = %v, want %v", got, tt.want)
			}
		})
	}

	got, err := AggregateWeek(habits, "Running", "Km", -1, now.AddDate(0, 0, 7))
	if err != nil || got != (Series{25}) {
		t.Errorf("expected last week's Km from next week's view, got %v, %v", got, err)
	}
}

func TestAggregateWeekRejectsText(t *testing.T) {
	got, err := AggregateWeek(fixture(), "Running", "Notes", 0, now)
	if !errors.Is(err, inputtype.ErrNotAggregatable) {
		t.Errorf("expected ErrNotAggregatable, got %v", err)
	}
	if !got.Empty() {
		t.Errorf("expected zeros, got %v", got)
	}
}

func TestChartItems(t *testing.T) {
	items := ChartItems(fixture())
	if len(items) != 4 {
		t.Fatalf("expected 4 chartable metrics, got %+v", items)
	}
	for _, it := range items {
		if it.Metric == "Notes" {
			t.Error("text metric must not be chartable")
		}
	}
	if items[0].Title() != "Running · Km" {
		t.Errorf("unexpected title %q", items[0].Title())
	}
}
