package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/wellmeing/internal/codec"
	"github.com/julianstephens/wellmeing/internal/inputtype"
	"github.com/julianstephens/wellmeing/internal/models"
)

type HabitAddCmd struct {
	Name        string   `arg:"" help:"Habit name."`
	Description string   `help:"Habit description."`
	Goal        string   `help:"What the habit is working towards."`
	Metric      []string `short:"m" help:"Metric as Name:input[:key=value,...] where input is slider, text, form, time or rating. Form boxes are separated by '|'." sep:"none"`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	metrics := make([]any, 0, len(c.Metric))
	for _, spec := range c.Metric {
		m, err := parseMetricSpec(spec)
		if err != nil {
			return err
		}
		metrics = append(metrics, m)
	}
	h, err := codec.DecodeHabitDefinition(c.Name, map[string]any{
		codec.FieldDescription: c.Description,
		codec.FieldGoal:        c.Goal,
		codec.FieldMetrics:     metrics,
	})
	if err != nil {
		return err
	}

	t, err := ctx.Tracker(context.Background())
	if err != nil {
		return err
	}
	if err := t.CreateHabit(context.Background(), h); err != nil {
		return err
	}
	ctx.printf("Added habit: %s (%d metrics)\n", h.Name, len(h.Metrics))
	return nil
}

// parseMetricSpec reads Name:input[:key=value,...] into the wire shape of a
// metric definition.
func parseMetricSpec(spec string) (map[string]any, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
		return nil, fmt.Errorf("invalid metric %q, expected Name:input[:key=value,...]", spec)
	}
	metric := map[string]any{
		codec.FieldName:  strings.TrimSpace(parts[0]),
		codec.FieldInput: strings.TrimSpace(parts[1]),
	}
	if len(parts) < 3 || strings.TrimSpace(parts[2]) == "" {
		return metric, nil
	}

	cfg := map[string]any{}
	for _, pair := range strings.Split(parts[2], ",") {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q in metric %q, expected key=value", pair, spec)
		}
		if key == inputtype.KeyBoxes {
			var boxes []any
			for _, box := range strings.Split(value, "|") {
				boxes = append(boxes, box)
			}
			cfg[key] = boxes
			continue
		}
		cfg[key] = strings.TrimSpace(value)
	}
	metric[codec.FieldConfig] = cfg
	return metric, nil
}

type HabitListCmd struct {
	Verbose bool `short:"v" help:"Show metric configuration."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker(context.Background())
	if err != nil {
		return err
	}
	habits := t.Session().Habits()
	if len(habits) == 0 {
		ctx.println("No habits found.")
		return nil
	}

	for _, h := range habits {
		line := fmt.Sprintf("- %s: %d submissions", h.Name, h.SubmissionsCount())
		if last, ok := h.LastSubmissionDate(); ok {
			line += ", last " + models.FormatTimestamp(last)
		}
		ctx.println(line)
		if h.Goal != "" {
			ctx.printf("    goal: %s\n", h.Goal)
		}
		for _, m := range h.Metrics {
			if c.Verbose && len(m.Config) > 0 {
				ctx.printf("    %s (%s) %s\n", m.Name, m.Input, formatConfig(m.Config))
			} else {
				ctx.printf("    %s (%s)\n", m.Name, m.Input)
			}
		}
	}
	return nil
}

func formatConfig(cfg inputtype.Config) string {
	switch {
	case cfg[inputtype.KeyBoxes] != nil:
		return "boxes: " + strings.Join(inputtype.Boxes(cfg), ", ")
	case cfg[inputtype.KeyMin] != nil || cfg[inputtype.KeyMax] != nil:
		r := inputtype.SliderRange(cfg)
		kind := inputtype.SliderFloat
		if r.Integer {
			kind = inputtype.SliderInt
		}
		return fmt.Sprintf("%s %g..%g", kind, r.Min, r.Max)
	default:
		return ""
	}
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit to delete."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker(context.Background())
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := ctx.confirm(fmt.Sprintf("Delete %s and its whole history?", c.Name))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Canceled.")
			return nil
		}
	}
	if err := t.DeleteHabit(context.Background(), c.Name); err != nil {
		return err
	}
	ctx.printf("Deleted habit: %s\n", c.Name)
	return nil
}
