package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

type InitCmd struct {
	Force bool   `help:"Delete an existing local database before initialization."`
	User  string `help:"User id to track. Defaults to the current one or a new random id."`
	Model string `help:"Assistant model to save as the default."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if path, local := ctx.localDatabase(); c.Force && local {
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.printf("Deleted existing database at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	switch {
	case c.User != "":
		settings.UserID = c.User
	case ctx.UserID != "":
		settings.UserID = ctx.UserID
	case settings.UserID == "":
		settings.UserID = uuid.NewString()
	}
	if c.Model != "" {
		settings.Model = c.Model
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	ctx.printf("Initialized wellmeing storage at: %s\n", ctx.Store.GetConfigPath())
	ctx.printf("Tracking user: %s\n", settings.UserID)
	return nil
}
