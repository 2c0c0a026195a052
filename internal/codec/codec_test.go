package codec

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/wellmeing/internal/inputtype"
	"github.com/julianstephens/wellmeing/internal/models"
)

func testSchema() []models.Metric {
	return []models.Metric{
		{Name: "Distance", Input: inputtype.Slider, Config: inputtype.Config{"type": "float", "min": 0.0, "max": 42.0}},
		{Name: "Reps", Input: inputtype.Slider, Config: inputtype.Config{"type": "int"}},
		{Name: "Journal", Input: inputtype.Text},
		{Name: "Route", Input: inputtype.Form, Config: inputtype.Config{"boxes": []any{"Park", "River", "Hill"}}},
		{Name: "Duration", Input: inputtype.Time},
		{Name: "Mood", Input: inputtype.Rating},
	}
}

func TestSubmissionRoundTrip(t *testing.T) {
	ts := time.Date(2025, 5, 12, 7, 30, 0, 0, time.Local)
	s := models.NewSubmission(ts, "windy", map[string]inputtype.Value{
		"Distance": inputtype.NumberValue{Value: 5.25},
		"Reps":     inputtype.NumberValue{Value: 12, Integer: true},
		"Journal":  inputtype.TextValue("legs heavy"),
		"Route":    inputtype.SelectionValue{"Park", "Hill"},
		"Duration": inputtype.DurationValue(32*time.Minute + 10*time.Second),
		"Mood":     inputtype.RatingValue(4),
	})

	key := models.FormatTimestamp(ts)
	wire := EncodeSubmission(s)
	if _, ok := wire[FieldTimestamp]; ok {
		t.Error("encoded submission must not carry its timestamp key")
	}
	if _, ok := wire[FieldID]; ok {
		t.Error("encoded submission must not carry its id")
	}

	back, err := DecodeHistoryEntry(key, wire, testSchema())
	if err != nil {
		t.Fatalf("DecodeHistoryEntry() error = %v", err)
	}
	if back.ID != key {
		t.Errorf("expected id injected from key, got %q", back.ID)
	}
	back.ID = ""
	if !reflect.DeepEqual(back, s) {
		t.Errorf("round trip mismatch:\n got  %#v\n want %#v", back, s)
	}
}

func TestSubmissionRoundTripThroughJSON(t *testing.T) {
	ts := time.Date(2025, 5, 12, 7, 30, 0, 0, time.Local)
	s := models.NewSubmission(ts, "", map[string]inputtype.Value{
		"Reps": inputtype.NumberValue{Value: 8, Integer: true},
		"Mood": inputtype.RatingValue(2),
	})
	data, err := ToJSON(EncodeSubmission(s))
	if err != nil {
		t.Fatal(err)
	}
	raw, err := FromJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	back, err := DecodeHistoryEntry(s.Key(), raw, testSchema())
	if err != nil {
		t.Fatal(err)
	}
	back.ID = ""
	if !reflect.DeepEqual(back, s) {
		t.Errorf("round trip mismatch:\n got  %#v\n want %#v", back, s)
	}
}

func TestDecodeSubmissionDropsBadValues(t *testing.T) {
	raw := map[string]any{
		"metrics": map[string]any{
			"Mood":    "11",
			"Route":   "Park;Beach",
			"Unknown": "3",
			"Reps":    3.0,
		},
		"notes": "   ",
	}
	s, err := DecodeHistoryEntry("2025-05-12T07:30:00", raw, testSchema())
	if err != nil {
		t.Fatalf("DecodeHistoryEntry() error = %v", err)
	}
	if _, ok := s.Metrics["Mood"]; ok {
		t.Error("expected out-of-range rating to be dropped")
	}
	if _, ok := s.Metrics["Unknown"]; ok {
		t.Error("expected metric outside the schema to be dropped")
	}
	if got := s.Metrics["Route"]; !reflect.DeepEqual(got, inputtype.SelectionValue{"Park"}) {
		t.Errorf("expected unknown box dropped on read, got %#v", got)
	}
	if s.Notes != "" {
		t.Errorf("expected blank notes absent, got %q", s.Notes)
	}
}

func TestDecodeHistoryEntryRejectsBadKey(t *testing.T) {
	_, err := DecodeHistoryEntry("not-a-date", map[string]any{}, nil)
	var decErr *DecodeError
	if !errors.As(err, &decErr) || decErr.Field != FieldTimestamp {
		t.Errorf("expected timestamp DecodeError, got %v", err)
	}
}

func TestDecodeNewSubmissionFallsBackToNow(t *testing.T) {
	now := time.Date(2025, 5, 14, 12, 0, 0, 0, time.Local)

	s := DecodeNewSubmission(map[string]any{"timestamp": "14/05/2025"}, nil, now)
	if !s.Timestamp.Equal(now) {
		t.Errorf("expected fallback to now, got %v", s.Timestamp)
	}

	s = DecodeNewSubmission(map[string]any{}, nil, now)
	if !s.Timestamp.Equal(now) {
		t.Errorf("expected missing timestamp to use now, got %v", s.Timestamp)
	}

	s = DecodeNewSubmission(map[string]any{"timestamp": "2025-05-13T09:00:00"}, nil, now)
	if models.FormatTimestamp(s.Timestamp) != "2025-05-13T09:00:00" {
		t.Errorf("expected parsed timestamp, got %v", s.Timestamp)
	}
}

func TestHabitRoundTrip(t *testing.T) {
	ts := time.Date(2025, 5, 12, 7, 30, 0, 0, time.Local)
	sub := models.NewSubmission(ts, "", map[string]inputtype.Value{"Mood": inputtype.RatingValue(3)})
	sub.ID = models.FormatTimestamp(ts)
	h := models.Habit{
		Name:        "Running",
		Description: "Morning runs",
		Goal:        "Run 3 times a week",
		Metrics:     []models.Metric{{Name: "Mood", Input: inputtype.Rating}},
		History:     []models.Submission{sub},
	}

	wire := EncodeHabit(h)
	if _, ok := wire[FieldName]; ok {
		t.Error("encoded habit must not carry its name")
	}
	back, err := DecodeHabitEntry("Running", wire)
	if err != nil {
		t.Fatalf("DecodeHabitEntry() error = %v", err)
	}
	if !reflect.DeepEqual(back, h) {
		t.Errorf("round trip mismatch:\n got  %#v\n want %#v", back, h)
	}
}

func TestDecodeHabitToleratesMalformedOptionals(t *testing.T) {
	raw := map[string]any{
		"description": 42,
		"metrics": []any{
			map[string]any{"name": "Mood", "input": "rating"},
			map[string]any{"name": "Bad", "input": "dial"},
			"garbage",
			map[string]any{"name": "Mood", "input": "text"},
		},
		"history": map[string]any{
			"2025-05-12T07:30:00": map[string]any{"metrics": map[string]any{"Mood": "5"}},
			"broken":              map[string]any{},
		},
	}
	h, err := DecodeHabitEntry("Running", raw)
	if err != nil {
		t.Fatalf("DecodeHabitEntry() error = %v", err)
	}
	if h.Description != "" {
		t.Errorf("expected mistyped description absent, got %q", h.Description)
	}
	if len(h.Metrics) != 1 || h.Metrics[0].Input != inputtype.Rating {
		t.Errorf("expected only the first valid metric, got %+v", h.Metrics)
	}
	if h.SubmissionsCount() != 1 {
		t.Errorf("expected one readable submission, got %d", h.SubmissionsCount())
	}

	if _, err := DecodeHabit(map[string]any{"description": "no name"}); err == nil {
		t.Error("expected DecodeError for missing name")
	}
}

func TestDecodeReport(t *testing.T) {
	_, err := DecodeReportEntry("2025-05-12T07:30:00", map[string]any{"title": "   ", "content": "text"})
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Errorf("expected DecodeError for whitespace-only title, got %v", err)
	}

	if _, err := DecodeReportEntry("May 12", map[string]any{"title": "T", "content": "C"}); err == nil {
		t.Error("expected DecodeError for malformed date key")
	}

	r, err := DecodeReportEntry("2025-05-12T07:30:00", map[string]any{"title": " Week 19 ", "content": "Good week."})
	if err != nil {
		t.Fatalf("DecodeReportEntry() error = %v", err)
	}
	if r.Title != "Week 19" || ReportKey(r) != "2025-05-12T07:30:00" {
		t.Errorf("unexpected report %+v", r)
	}
	if wire := EncodeReport(r); len(wire) != 2 {
		t.Errorf("EncodeReport() = %v, want title and content only", wire)
	}
}

func TestDecodeActionsNormalizesEmpty(t *testing.T) {
	raw := map[string]any{
		"creation": map[string]any{},
		"logging":  map[string]any{"H": []any{}},
	}
	a, err := DecodeActions(raw, SchemasFrom([]models.Habit{{Name: "H"}}), time.Now())
	if err != nil {
		t.Fatalf("DecodeActions() error = %v", err)
	}
	if a != nil {
		t.Errorf("expected absent actions, got %+v", a)
	}

	if _, err := DecodeActions(map[string]any{}, nil, time.Now()); err == nil {
		t.Error("expected DecodeError when both lists are missing")
	}
}

func TestDecodeActions(t *testing.T) {
	now := time.Date(2025, 5, 14, 12, 0, 0, 0, time.Local)
	existing := []models.Habit{{
		Name:    "Sleep",
		Metrics: []models.Metric{{Name: "Hours", Input: inputtype.Slider}},
	}}
	raw := map[string]any{
		"actions": map[string]any{
			"creation": map[string]any{
				"Reading": map[string]any{
					"goal":    "20 pages a day",
					"metrics": []any{map[string]any{"name": "Pages", "input": "slider", "config": map[string]any{"type": "int"}}},
				},
			},
			"logging": map[string]any{
				"Sleep":   []any{map[string]any{"timestamp": "2025-05-14T07:00:00", "metrics": map[string]any{"Hours": "7.5"}}},
				"Reading": []any{map[string]any{"metrics": map[string]any{"Pages": "20"}}},
				"Ghost":   []any{map[string]any{"metrics": map[string]any{"x": "1"}}},
			},
		},
	}

	a, err := DecodeActions(raw, SchemasFrom(existing), now)
	if err != nil {
		t.Fatalf("DecodeActions() error = %v", err)
	}
	if a == nil {
		t.Fatal("expected actions")
	}
	if len(a.Creations) != 1 || a.Creations[0].Name != "Reading" {
		t.Errorf("unexpected creations %+v", a.Creations)
	}
	if _, ok := a.Loggings["Ghost"]; ok {
		t.Error("expected loggings for unknown habit dropped")
	}
	sleep := a.Loggings["Sleep"]
	if len(sleep) != 1 || sleep[0].Metrics["Hours"] != (inputtype.NumberValue{Value: 7.5}) {
		t.Errorf("unexpected Sleep logging %+v", sleep)
	}
	reading := a.Loggings["Reading"]
	if len(reading) != 1 || !reading[0].Timestamp.Equal(now) {
		t.Errorf("expected Reading logging stamped now, got %+v", reading)
	}
	if reading[0].Metrics["Pages"] != (inputtype.NumberValue{Value: 20, Integer: true}) {
		t.Errorf("expected Pages decoded with the new habit's schema, got %#v", reading[0].Metrics["Pages"])
	}

	again, err := DecodeActions(EncodeActions(a), SchemasFrom(existing), now)
	if err != nil {
		t.Fatal(err)
	}
	if again.Count() != a.Count() {
		t.Errorf("re-decoded %d actions, want %d", again.Count(), a.Count())
	}
}

func TestUserDocumentRoundTrip(t *testing.T) {
	raw := map[string]any{
		"name": "Alice",
		"bio":  "Trying to sleep more.",
		"habits": map[string]any{
			"Sleep": map[string]any{
				"metrics": []any{map[string]any{"name": "Hours", "input": "slider"}},
				"history": map[string]any{
					"2025-05-12T07:00:00": map[string]any{"metrics": map[string]any{"Hours": "8"}},
				},
			},
			"Broken": "not a habit",
		},
		"newReportDate": "2025-05-19T00:00:00",
		"reports": map[string]any{
			"2025-05-12T00:00:00": map[string]any{"title": "Week 19", "content": "Slept well."},
			"2025-05-05T00:00:00": map[string]any{"title": "", "content": "x"},
		},
	}

	u := DecodeUser(raw)
	if u.Name != "Alice" || len(u.Habits) != 1 || len(u.Reports) != 1 {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.NewReportDate == nil {
		t.Fatal("expected newReportDate")
	}

	again := DecodeUser(EncodeUser(u))
	if !reflect.DeepEqual(again, u) {
		t.Errorf("user round trip mismatch:\n got  %#v\n want %#v", again, u)
	}

	if empty := DecodeUser(nil); empty == nil || len(empty.Habits) != 0 {
		t.Errorf("expected empty user for nil document, got %+v", empty)
	}
}

func TestAssistantRequests(t *testing.T) {
	u := &models.UserData{Name: "Alice"}
	habits := []models.Habit{{Name: "Sleep", Goal: "8h"}}

	req := ReportRequest(u, habits)
	if req["name"] != "Alice" {
		t.Errorf("expected name in report request, got %v", req)
	}
	if _, ok := req["bio"]; ok {
		t.Error("expected empty bio omitted")
	}
	byName, _ := req["habits"].(map[string]any)
	sleep, _ := byName["Sleep"].(map[string]any)
	if sleep["goal"] != "8h" {
		t.Errorf("unexpected habits payload %v", req["habits"])
	}
	if _, ok := sleep["name"]; ok {
		t.Error("habit payload must be keyed by name, not carry it")
	}

	speech := SpeechRequest("I slept eight hours", habits)
	if speech["speech"] != "I slept eight hours" {
		t.Errorf("unexpected speech request %v", speech)
	}
}

func TestDecodeHabitDefinition(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		wantErr bool
	}{
		{"no metrics", map[string]any{"goal": "daily"}, false},
		{"valid metrics", map[string]any{"metrics": []any{
			map[string]any{"name": "Pages", "input": "slider", "config": map[string]any{"type": "int", "min": 10, "max": 10}},
			map[string]any{"name": "Mood", "input": "rating"},
		}}, false},
		{"metrics not a list", map[string]any{"metrics": "Pages"}, true},
		{"metric not an object", map[string]any{"metrics": []any{"Pages"}}, true},
		{"unknown input", map[string]any{"metrics": []any{map[string]any{"name": "Pages", "input": "dial"}}}, true},
		{"bad config", map[string]any{"metrics": []any{map[string]any{"name": "Mood", "input": "rating", "config": map[string]any{"max": 3}}}}, true},
		{"duplicate metric", map[string]any{"metrics": []any{
			map[string]any{"name": "Mood", "input": "rating"},
			map[string]any{"name": "Mood", "input": "text"},
		}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := DecodeHabitDefinition("Read", tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeHabitDefinition() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && h.Name != "Read" {
				t.Errorf("expected name Read, got %q", h.Name)
			}
		})
	}

	h, err := DecodeHabitDefinition("Read", tests[1].raw)
	if err != nil {
		t.Fatal(err)
	}
	r := inputtype.SliderRange(h.Metrics[0].Config)
	if r.Min != 10 || r.Max != 60 || !r.Integer {
		t.Errorf("expected normalized range 10..60 int, got %+v", r)
	}
}
