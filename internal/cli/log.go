package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/wellmeing/internal/inputtype"
	"github.com/julianstephens/wellmeing/internal/models"
	"github.com/julianstephens/wellmeing/internal/tracker"
)

type LogCmd struct {
	Habit  string   `arg:"" help:"Habit to log."`
	Values []string `arg:"" optional:"" help:"Metric values as Metric=value. Time is HH:MM:SS, form boxes are separated by ';'."`
	Notes  string   `short:"n" help:"Notes for the submission."`
	At     string   `help:"Submission time as YYYY-MM-DDTHH:MM:SS. Defaults to now."`
}

func (c *LogCmd) Run(ctx *Context) error {
	wire, err := parseValues(c.Values)
	if err != nil {
		return err
	}

	t, err := ctx.Tracker(context.Background())
	if err != nil {
		return err
	}
	ts := t.Session().Now()
	if c.At != "" {
		if ts, err = models.ParseTimestamp(c.At); err != nil {
			return fmt.Errorf("invalid --at %q: %w", c.At, err)
		}
	}

	saved, err := t.LogSubmission(context.Background(), c.Habit, ts, c.Notes, wire)
	if err != nil {
		return err
	}
	ctx.printf("Logged %s at %s\n", c.Habit, saved.ID)
	return nil
}

func parseValues(values []string) (map[string]any, error) {
	wire := make(map[string]any, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid value %q, expected Metric=value", v)
		}
		if _, dup := wire[name]; dup {
			return nil, fmt.Errorf("metric %q given twice", name)
		}
		wire[name] = value
	}
	return wire, nil
}

type SubmissionListCmd struct {
	Habit string `arg:"" help:"Habit whose history to list."`
	Limit int    `default:"20" help:"Number of most recent submissions to show. 0 shows all."`
}

func (c *SubmissionListCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker(context.Background())
	if err != nil {
		return err
	}
	snapshot := t.Session().Snapshot()
	h, ok := snapshot.Habit(c.Habit)
	if !ok {
		return fmt.Errorf("%w: %s", tracker.ErrHabitNotFound, c.Habit)
	}
	history := models.SortHistory(h.History)
	if c.Limit > 0 && len(history) > c.Limit {
		history = history[len(history)-c.Limit:]
	}
	if len(history) == 0 {
		ctx.printf("No submissions for %s.\n", h.Name)
		return nil
	}
	for _, s := range history {
		ctx.printf("%s  %s\n", s.ID, formatSubmission(h, s))
		if s.Notes != "" {
			ctx.printf("    %s\n", s.Notes)
		}
	}
	return nil
}

// formatSubmission renders metric values in the habit's metric order.
func formatSubmission(h models.Habit, s models.Submission) string {
	parts := make([]string, 0, len(h.Metrics))
	for _, m := range h.Metrics {
		v, ok := s.Value(m.Name)
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", m.Name, inputtype.EncodeValue(v)))
	}
	return strings.Join(parts, " ")
}

type SubmissionDeleteCmd struct {
	Habit string `arg:"" help:"Habit of the submission."`
	ID    string `arg:"" help:"Submission id (its timestamp)."`
}

func (c *SubmissionDeleteCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker(context.Background())
	if err != nil {
		return err
	}
	if err := t.DeleteSubmission(context.Background(), c.Habit, c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted submission %s of %s\n", c.ID, c.Habit)
	return nil
}

type HistoryCmd struct {
	Days  int      `default:"7" help:"Window size in days."`
	Habit []string `short:"H" help:"Restrict to these habits."`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	if c.Days < 1 {
		return fmt.Errorf("--days must be at least 1, got %d", c.Days)
	}
	t, err := ctx.Tracker(context.Background())
	if err != nil {
		return err
	}
	habits := t.Session().Window(c.Days, c.Habit...)

	type row struct {
		at    time.Time
		habit models.Habit
		sub   models.Submission
	}
	var rows []row
	for _, h := range habits {
		for _, s := range h.History {
			rows = append(rows, row{at: s.Timestamp, habit: h, sub: s})
		}
	}
	if len(rows) == 0 {
		ctx.printf("No submissions in the last %d days.\n", c.Days)
		return nil
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].at.Before(rows[j].at) })
	for _, r := range rows {
		ctx.printf("%s  %-20s %s\n", r.sub.ID, r.habit.Name, formatSubmission(r.habit, r.sub))
	}
	return nil
}
