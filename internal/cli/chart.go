package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/wellmeing/internal/history"
	"github.com/julianstephens/wellmeing/internal/tracker"
	"github.com/julianstephens/wellmeing/internal/tui/components/chart"
)

type ChartCmd struct {
	Habit  string `arg:"" help:"Habit to chart."`
	Metric string `arg:"" help:"Slider, time or rating metric of the habit."`
	Week   int    `default:"0" help:"Week offset from the current week, 0 or negative."`
	Width  int    `default:"40" help:"Width of the longest bar."`
}

func (c *ChartCmd) Run(ctx *Context) error {
	if c.Week > 0 {
		return fmt.Errorf("--week must be 0 or negative, got %d", c.Week)
	}
	t, err := ctx.Tracker(context.Background())
	if err != nil {
		return err
	}
	sess := t.Session()
	h, ok := sess.Snapshot().Habit(c.Habit)
	if !ok {
		return fmt.Errorf("%w: %s", tracker.ErrHabitNotFound, c.Habit)
	}
	m, ok := h.Metric(c.Metric)
	if !ok {
		return fmt.Errorf("%s has no metric %q", h.Name, c.Metric)
	}
	series, err := sess.AggregateWeek(h.Name, m.Name, c.Week)
	if err != nil {
		return err
	}

	ctx.printf("%s · %s (%s)\n", h.Name, m.Name, history.WeekLabel(sess.Now(), c.Week))
	for i, line := range chart.Bars(series, m.Input, c.Width) {
		ctx.printf("%-4s %s\n", history.WeekdayNames[i], line)
	}
	return nil
}
