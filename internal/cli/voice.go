package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/julianstephens/wellmeing/internal/models"
)

type VoiceCmd struct {
	Speech string `arg:"" optional:"" help:"What you did, in your own words. Read from stdin when omitted."`
	Yes    bool   `short:"y" help:"Apply the proposed actions without asking."`
}

func (c *VoiceCmd) Run(ctx *Context) error {
	speech := c.Speech
	if strings.TrimSpace(speech) == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read speech: %w", err)
		}
		speech = string(data)
	}

	t, err := ctx.Tracker(context.Background())
	if err != nil {
		return err
	}
	a, err := ctx.loadAssistant()
	if err != nil {
		return err
	}

	actions, err := t.ProposeActions(context.Background(), a, speech)
	if err != nil {
		return err
	}
	if actions == nil {
		ctx.println("Nothing to create or log.")
		return nil
	}
	printActions(ctx, actions, t.Session().Habits())

	if !c.Yes {
		ok, err := ctx.confirm(fmt.Sprintf("Apply %d actions?", actions.Count()))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Discarded.")
			return nil
		}
	}

	result, err := t.ApplyActions(context.Background(), actions)
	if err != nil {
		return err
	}
	ctx.printf("Applied %d actions.\n", result.Count())
	return nil
}

func printActions(ctx *Context, a *models.Actions, existing []models.Habit) {
	for _, h := range a.Creations {
		names := make([]string, len(h.Metrics))
		for i, m := range h.Metrics {
			names[i] = fmt.Sprintf("%s (%s)", m.Name, m.Input)
		}
		ctx.printf("+ create %s: %s\n", h.Name, strings.Join(names, ", "))
	}

	habits := make([]string, 0, len(a.Loggings))
	for name := range a.Loggings {
		habits = append(habits, name)
	}
	sort.Strings(habits)
	for _, name := range habits {
		h, ok := findHabit(name, a.Creations, existing)
		for _, s := range a.Loggings[name] {
			if ok {
				ctx.printf("+ log %s at %s: %s\n", name, models.FormatTimestamp(s.Timestamp), formatSubmission(h, s))
			} else {
				ctx.printf("+ log %s at %s\n", name, models.FormatTimestamp(s.Timestamp))
			}
		}
	}
}

// findHabit looks name up in the proposed creations, then in existing.
func findHabit(name string, lists ...[]models.Habit) (models.Habit, bool) {
	for _, habits := range lists {
		for _, h := range habits {
			if h.Name == name {
				return h, true
			}
		}
	}
	return models.Habit{}, false
}
