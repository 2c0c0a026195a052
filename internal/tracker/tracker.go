// Package tracker applies user and assistant mutations to the user document.
// Every operation is a single atomic read-modify-write through the store,
// after which the session snapshot is replaced with the stored result.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/wellmeing/internal/codec"
	"github.com/julianstephens/wellmeing/internal/constants"
	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/models"
	"github.com/julianstephens/wellmeing/internal/session"
	"github.com/julianstephens/wellmeing/internal/storage"
)

var (
	ErrHabitExists        = errors.New("habit already exists")
	ErrHabitNotFound      = errors.New("habit not found")
	ErrTooManyHabits      = fmt.Errorf("you can only have %d habits", constants.MaxHabits)
	ErrSubmissionExists   = errors.New("a submission with this timestamp already exists")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrReportNotFound     = errors.New("report not found")
	ErrDailyLimit         = errors.New("daily submission limit reached")
	ErrReportCooldown     = errors.New("a new report is not available yet")
	ErrTokenLimit         = errors.New("assistant token limit exceeded")
)

// Store is the part of storage.Provider the tracker writes through.
type Store interface {
	UpdateDocument(ctx context.Context, userID string, fn storage.UpdateFunc) (map[string]any, error)
}

type Tracker struct {
	store   Store
	session *session.Session
}

func New(store Store, s *session.Session) *Tracker {
	return &Tracker{store: store, session: s}
}

// Session is the session the tracker keeps current.
func (t *Tracker) Session() *session.Session {
	return t.session
}

func (t *Tracker) update(ctx context.Context, fn storage.UpdateFunc) error {
	stored, err := t.store.UpdateDocument(ctx, t.session.UserID, fn)
	if err != nil {
		return err
	}
	t.session.Replace(codec.DecodeUser(stored))
	return nil
}

// CreateHabit stores a new habit built with models.NewHabit. Its history,
// if any, is ignored.
func (t *Tracker) CreateHabit(ctx context.Context, h models.Habit) error {
	err := t.update(ctx, func(doc map[string]any) error {
		return createHabit(doc, h)
	})
	if err != nil {
		return fmt.Errorf("create habit %q: %w", h.Name, err)
	}
	logger.Info("Habit created", "habit", h.Name, "metrics", len(h.Metrics))
	return nil
}

func createHabit(doc map[string]any, h models.Habit) error {
	habits, _ := storage.GetPath(doc, codec.FieldHabits)
	if m, ok := habits.(map[string]any); ok {
		if _, exists := m[h.Name]; exists {
			return ErrHabitExists
		}
		if len(m) >= constants.MaxHabits {
			return ErrTooManyHabits
		}
	}
	return storage.SetPath(doc, codec.EncodeHabit(h.WithHistory(nil)), codec.FieldHabits, h.Name)
}

// DeleteHabit removes a habit and its whole history.
func (t *Tracker) DeleteHabit(ctx context.Context, name string) error {
	err := t.update(ctx, func(doc map[string]any) error {
		if !storage.RemovePath(doc, codec.FieldHabits, name) {
			return ErrHabitNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete habit %q: %w", name, err)
	}
	logger.Info("Habit deleted", "habit", name)
	return nil
}

// LogSubmission records values for every metric of a habit. wire maps metric
// names to wire values and must name exactly the habit's metrics.
func (t *Tracker) LogSubmission(ctx context.Context, habit string, timestamp time.Time, notes string, wire map[string]any) (models.Submission, error) {
	var saved models.Submission
	now := t.session.Now()
	err := t.update(ctx, func(doc map[string]any) error {
		h, err := loadHabit(doc, habit)
		if err != nil {
			return err
		}
		values, err := h.ParseValues(wire)
		if err != nil {
			return err
		}
		saved, err = addSubmission(doc, h, models.NewSubmission(timestamp, notes, values), now)
		return err
	})
	if err != nil {
		return models.Submission{}, fmt.Errorf("log %q: %w", habit, err)
	}
	logger.Info("Submission logged", "habit", habit, "id", saved.ID)
	return saved, nil
}

// AddSubmission stores an already typed submission.
func (t *Tracker) AddSubmission(ctx context.Context, habit string, s models.Submission) (models.Submission, error) {
	var saved models.Submission
	now := t.session.Now()
	err := t.update(ctx, func(doc map[string]any) error {
		h, err := loadHabit(doc, habit)
		if err != nil {
			return err
		}
		saved, err = addSubmission(doc, h, s, now)
		return err
	})
	if err != nil {
		return models.Submission{}, fmt.Errorf("log %q: %w", habit, err)
	}
	return saved, nil
}

// addSubmission checks s against h and the daily limit, then stores it keyed
// by its timestamp, which becomes its id.
func addSubmission(doc map[string]any, h models.Habit, s models.Submission, now time.Time) (models.Submission, error) {
	if err := h.CheckSubmission(s); err != nil {
		return models.Submission{}, err
	}
	key := models.FormatTimestamp(s.Timestamp)
	if _, exists := storage.GetPath(doc, codec.FieldHabits, h.Name, codec.FieldHistory, key); exists {
		return models.Submission{}, ErrSubmissionExists
	}

	usage := codec.DecodeUsage(doc[codec.FieldUsage]).On(now)
	if usage.Submissions >= constants.MaxDailySubmissions {
		return models.Submission{}, ErrDailyLimit
	}
	usage.Submissions++

	if err := storage.SetPath(doc, codec.EncodeSubmission(s), codec.FieldHabits, h.Name, codec.FieldHistory, key); err != nil {
		return models.Submission{}, err
	}
	doc[codec.FieldUsage] = codec.EncodeUsage(usage)

	s.ID = key
	return s, nil
}

// DeleteSubmission removes one history entry and gives back its slot in
// the daily limit.
func (t *Tracker) DeleteSubmission(ctx context.Context, habit, id string) error {
	err := t.update(ctx, func(doc map[string]any) error {
		if _, ok := storage.GetPath(doc, codec.FieldHabits, habit); !ok {
			return ErrHabitNotFound
		}
		if !storage.RemovePath(doc, codec.FieldHabits, habit, codec.FieldHistory, id) {
			return ErrSubmissionNotFound
		}
		usage := codec.DecodeUsage(doc[codec.FieldUsage])
		if usage.Submissions > 0 {
			usage.Submissions--
			doc[codec.FieldUsage] = codec.EncodeUsage(usage)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete submission %s of %q: %w", id, habit, err)
	}
	logger.Info("Submission deleted", "habit", habit, "id", id)
	return nil
}

func loadHabit(doc map[string]any, name string) (models.Habit, error) {
	raw, ok := storage.GetPath(doc, codec.FieldHabits, name)
	if !ok {
		return models.Habit{}, ErrHabitNotFound
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return models.Habit{}, fmt.Errorf("habit %q is malformed", name)
	}
	return codec.DecodeHabitEntry(name, m)
}
