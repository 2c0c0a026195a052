package tracker

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/wellmeing/internal/codec"
	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/models"
	"github.com/julianstephens/wellmeing/internal/storage"
)

// ApplyResult summarizes what ApplyActions stored.
type ApplyResult struct {
	Created []string
	Logged  map[string]int
}

// Count is the number of habits created plus submissions logged.
func (r ApplyResult) Count() int {
	n := len(r.Created)
	for _, c := range r.Logged {
		n += c
	}
	return n
}

// ApplyActions stores confirmed assistant actions: creations first, so that
// loggings may target a habit created by the same reply. Either everything
// is stored or nothing is.
func (t *Tracker) ApplyActions(ctx context.Context, a *models.Actions) (ApplyResult, error) {
	result := ApplyResult{Logged: map[string]int{}}
	if a == nil {
		return result, nil
	}

	creations := make([]models.Habit, 0, len(a.Creations))
	for _, h := range a.Creations {
		valid, err := revalidate(h)
		if err != nil {
			return ApplyResult{}, fmt.Errorf("proposed habit %q: %w", h.Name, err)
		}
		creations = append(creations, valid)
	}

	habits := make([]string, 0, len(a.Loggings))
	for name := range a.Loggings {
		habits = append(habits, name)
	}
	sort.Strings(habits)

	now := t.session.Now()
	err := t.update(ctx, func(doc map[string]any) error {
		result = ApplyResult{Logged: map[string]int{}}
		for _, h := range creations {
			if err := createHabit(doc, h); err != nil {
				return fmt.Errorf("create habit %q: %w", h.Name, err)
			}
			result.Created = append(result.Created, h.Name)
		}
		for _, name := range habits {
			h, err := loadHabit(doc, name)
			if err != nil {
				return fmt.Errorf("log %q: %w", name, err)
			}
			for _, s := range a.Loggings[name] {
				s.Timestamp = freeTimestamp(doc, name, s.Timestamp)
				if _, err := addSubmission(doc, h, s, now); err != nil {
					return fmt.Errorf("log %q at %s: %w", name, models.FormatTimestamp(s.Timestamp), err)
				}
				result.Logged[name]++
			}
		}
		return nil
	})
	if err != nil {
		return ApplyResult{}, err
	}
	logger.Info("Assistant actions applied", "created", len(result.Created), "logged", result.Count()-len(result.Created))
	return result, nil
}

// revalidate rebuilds an assistant-proposed habit through the creation
// constructors so it meets the same limits as one entered by hand.
func revalidate(h models.Habit) (models.Habit, error) {
	metrics := make([]models.Metric, 0, len(h.Metrics))
	for _, m := range h.Metrics {
		valid, err := models.NewMetric(m.Name, m.Description, m.Input, m.Config)
		if err != nil {
			return models.Habit{}, err
		}
		metrics = append(metrics, valid)
	}
	return models.NewHabit(h.Name, h.Description, h.Goal, metrics)
}

// freeTimestamp moves ts forward a second at a time until no submission of
// habit uses it. Loggings without a timestamp all default to the same
// instant.
func freeTimestamp(doc map[string]any, habit string, ts time.Time) time.Time {
	for {
		key := models.FormatTimestamp(ts)
		if _, taken := storage.GetPath(doc, codec.FieldHabits, habit, codec.FieldHistory, key); !taken {
			return ts
		}
		ts = ts.Add(time.Second)
	}
}

// SpeechParser turns a spoken request into proposed actions and returns the
// tokens it spent.
type SpeechParser interface {
	ParseSpeech(ctx context.Context, speech string, habits []models.Habit, now time.Time) (*models.Actions, int, error)
}

// ProposeActions asks p what speech should do to the current habits. Nothing
// is stored besides the spent tokens; confirmed proposals go to ApplyActions.
func (t *Tracker) ProposeActions(ctx context.Context, p SpeechParser, speech string) (*models.Actions, error) {
	if err := t.session.Refresh(ctx); err != nil {
		return nil, err
	}
	if err := t.CheckTokenBudget(); err != nil {
		return nil, err
	}

	actions, tokens, parseErr := p.ParseSpeech(ctx, speech, t.session.Habits(), t.session.Now())
	if err := t.AddTokens(ctx, tokens); err != nil {
		logger.Warn("Failed to record token usage", "tokens", tokens, "error", err)
	}
	if parseErr != nil {
		return nil, fmt.Errorf("parse speech: %w", parseErr)
	}
	return actions, nil
}
