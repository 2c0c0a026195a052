package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/wellmeing/internal/codec"
	"github.com/julianstephens/wellmeing/internal/keyring"
	"github.com/julianstephens/wellmeing/internal/lockfile"
)

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(ctx *Context) error
	warning bool
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	checks := []check{
		{name: "Storage reachable", run: checkStorage},
		{name: "User configured", run: checkUser},
		{name: "User document", run: checkDocument},
		{name: "API key", run: checkAPIKey, warning: true},
		{name: "Serve lock", run: checkServeLock, warning: true},
		{name: "Clock/timezone", run: checkClock},
	}

	failed := false
	for _, c := range checks {
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", c.name)
		case c.warning:
			ctx.printf("⚠ %s: WARNING\n", c.name)
			ctx.printf("   %v\n", err)
		default:
			ctx.printf("❌ %s: FAIL\n", c.name)
			ctx.printf("   Error: %v\n", err)
			failed = true
		}
	}

	ctx.println()
	if failed {
		ctx.println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkStorage(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage at %s: %w", ctx.Store.GetConfigPath(), err)
	}
	return nil
}

// checkServeLock warns while a running serve holds the local database.
func checkServeLock(ctx *Context) error {
	db, ok := ctx.localDatabase()
	if !ok {
		return nil
	}
	owner, err := lockHolder(db)
	if err != nil {
		return fmt.Errorf("%s: %w", lockfile.Path(db), err)
	}
	if owner != nil {
		return fmt.Errorf("wellmeing serve (pid %d) is running on %s, restores are blocked until it stops", owner.PID, owner.Addr)
	}
	return nil
}

func checkUser(ctx *Context) error {
	settings, err := ctx.settings()
	if err != nil {
		return err
	}
	if settings.UserID == "" {
		return ErrNoUser
	}
	return nil
}

// checkDocument reports stored history entries that no longer decode
// against their habit's metrics.
func checkDocument(ctx *Context) error {
	settings, err := ctx.settings()
	if err != nil {
		return err
	}
	if settings.UserID == "" {
		return ErrNoUser
	}
	doc, err := ctx.Store.GetDocument(context.Background(), settings.UserID)
	if err != nil {
		return err
	}
	user := codec.DecodeUser(doc)

	habits, _ := doc[codec.FieldHabits].(map[string]any)
	unreadable := 0
	for name, raw := range habits {
		h, ok := user.Habit(name)
		entry, _ := raw.(map[string]any)
		stored, _ := entry[codec.FieldHistory].(map[string]any)
		if !ok {
			unreadable += len(stored)
			continue
		}
		unreadable += len(stored) - len(h.History)
	}
	if len(habits) != len(user.Habits) {
		return fmt.Errorf("%d of %d habits could not be read", len(habits)-len(user.Habits), len(habits))
	}
	if unreadable > 0 {
		return fmt.Errorf("%d history entries could not be read", unreadable)
	}
	return nil
}

func checkAPIKey(ctx *Context) error {
	if ctx.APIKey != "" {
		return nil
	}
	if !keyring.IsAvailable() {
		return errors.New("OS keyring is not available, set OPENAI_API_KEY to use reports and voice")
	}
	if _, err := keyring.GetAPIKey(); err != nil {
		return errors.New("no API key stored, run 'wellmeing key set' to use reports and voice")
	}
	return nil
}

func checkClock(ctx *Context) error {
	now := ctx.now()
	if now.Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if now.Location() == nil {
		return errors.New("no local time zone")
	}
	return nil
}
