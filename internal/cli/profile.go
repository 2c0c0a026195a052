package cli

import (
	"context"

	"github.com/julianstephens/wellmeing/internal/constants"
	"github.com/julianstephens/wellmeing/internal/models"
)

type ProfileCmd struct {
	Name *string `help:"Set your display name. An empty value clears it."`
	Bio  *string `help:"Set a short bio the assistant reads. An empty value clears it."`
}

func (c *ProfileCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker(context.Background())
	if err != nil {
		return err
	}
	if c.Name != nil || c.Bio != nil {
		if err := t.UpdateProfile(context.Background(), c.Name, c.Bio); err != nil {
			return err
		}
		ctx.println("Profile updated.")
	}

	user := t.Session().Snapshot()
	now := t.Session().Now()
	usage := user.Usage.On(now)
	ctx.printf("Name:        %s\n", orNone(user.Name))
	ctx.printf("Bio:         %s\n", orNone(user.Bio))
	ctx.printf("Habits:      %d/%d\n", len(user.Habits), constants.MaxHabits)
	ctx.printf("Submissions: %d/%d today\n", usage.Submissions, constants.MaxDailySubmissions)
	ctx.printf("Tokens:      %d/%d\n", usage.Tokens, constants.TokenUsageLimit)
	if user.CanRequestReport(now) {
		ctx.println("Report:      available")
	} else {
		ctx.printf("Report:      next on %s\n", models.FormatTimestamp(*user.NewReportDate))
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
