// Package session owns the decoded state of one user. Reads go through an
// immutable snapshot that Refresh replaces wholesale.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/julianstephens/wellmeing/internal/codec"
	"github.com/julianstephens/wellmeing/internal/history"
	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/models"
)

// Fetcher returns the raw user document. A user with no document yet gets
// a nil map and no error.
type Fetcher interface {
	GetDocument(ctx context.Context, userID string) (map[string]any, error)
}

// Session caches the user document of UserID. Snapshot readers never block;
// concurrent Refresh calls are serialized.
type Session struct {
	UserID string

	fetcher Fetcher
	now     func() time.Time

	refreshMu sync.Mutex
	current   atomic.Pointer[models.UserData]
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session with an empty snapshot. Call Refresh to load it.
func New(userID string, fetcher Fetcher, opts ...Option) *Session {
	s := &Session{
		UserID:  userID,
		fetcher: fetcher,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&models.UserData{})
	return s
}

// Refresh refetches the whole user document and swaps the snapshot.
// On error the previous snapshot is kept.
func (s *Session) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	doc, err := s.fetcher.GetDocument(ctx, s.UserID)
	if err != nil {
		return fmt.Errorf("fetch user %s: %w", s.UserID, err)
	}
	user := codec.DecodeUser(doc)
	s.current.Store(user)
	logger.Debug("Session refreshed", "user", s.UserID, "habits", len(user.Habits), "reports", len(user.Reports))
	return nil
}

// Replace swaps in an already decoded snapshot, as returned by a write.
func (s *Session) Replace(user *models.UserData) {
	if user == nil {
		user = &models.UserData{}
	}
	s.current.Store(user)
}

// Snapshot returns the current user data. Callers must not modify it.
func (s *Session) Snapshot() *models.UserData {
	return s.current.Load()
}

// Now is the session clock.
func (s *Session) Now() time.Time {
	return s.now()
}

// Habits returns the current habits.
func (s *Session) Habits() []models.Habit {
	return s.Snapshot().Habits
}

// Window returns copies of the habits holding only the submissions of the
// last days, optionally restricted to names.
func (s *Session) Window(days int, names ...string) []models.Habit {
	return history.SubmissionsInWindow(s.Habits(), days, s.now(), names...)
}

// AggregateWeek builds the chart series of one habit metric.
func (s *Session) AggregateWeek(habit, metric string, offset int) (history.Series, error) {
	return history.AggregateWeek(s.Habits(), habit, metric, offset, s.now())
}

// ChartItems lists the chartable metrics of the current habits.
func (s *Session) ChartItems() []history.ChartItem {
	return history.ChartItems(s.Habits())
}
