package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/wellmeing/internal/models"
	"github.com/julianstephens/wellmeing/internal/tracker"
)

type ReportNewCmd struct{}

func (c *ReportNewCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker(context.Background())
	if err != nil {
		return err
	}
	// Fail on the cool-down before asking for an API key.
	if err := t.CheckReportAvailable(); err != nil {
		return err
	}
	a, err := ctx.loadAssistant()
	if err != nil {
		return err
	}

	ctx.println("Writing your report...")
	report, err := t.RequestReport(context.Background(), a)
	if err != nil {
		return err
	}
	printReport(ctx, report)
	return nil
}

type ReportListCmd struct{}

func (c *ReportListCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker(context.Background())
	if err != nil {
		return err
	}
	user := t.Session().Snapshot()
	if len(user.Reports) == 0 {
		ctx.println("No reports yet.")
	}
	for _, r := range user.Reports {
		ctx.printf("%s  %s\n", models.FormatTimestamp(r.Date), r.Title)
	}
	if user.NewReportDate != nil && !user.CanRequestReport(t.Session().Now()) {
		ctx.printf("Next report available on %s\n", user.NewReportDate.Format("2 Jan 2006 15:04"))
	}
	return nil
}

type ReportShowCmd struct {
	Date string `arg:"" help:"Report date as YYYY-MM-DDTHH:MM:SS."`
}

func (c *ReportShowCmd) Run(ctx *Context) error {
	date, err := models.ParseTimestamp(c.Date)
	if err != nil {
		return fmt.Errorf("invalid report date %q: %w", c.Date, err)
	}
	t, err := ctx.Tracker(context.Background())
	if err != nil {
		return err
	}
	report, ok := t.Session().Snapshot().Report(date)
	if !ok {
		return fmt.Errorf("%w: %s", tracker.ErrReportNotFound, c.Date)
	}
	printReport(ctx, report)
	return nil
}

type ReportDeleteCmd struct {
	Date string `arg:"" help:"Report date as YYYY-MM-DDTHH:MM:SS."`
}

func (c *ReportDeleteCmd) Run(ctx *Context) error {
	date, err := models.ParseTimestamp(c.Date)
	if err != nil {
		return fmt.Errorf("invalid report date %q: %w", c.Date, err)
	}
	t, err := ctx.Tracker(context.Background())
	if err != nil {
		return err
	}
	if err := t.DeleteReport(context.Background(), date); err != nil {
		return err
	}
	ctx.printf("Deleted report %s\n", c.Date)
	return nil
}

func printReport(ctx *Context, r models.Report) {
	ctx.printf("%s\n%s\n\n%s\n", r.Title, models.FormatTimestamp(r.Date), r.Content)
}
