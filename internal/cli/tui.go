package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/wellmeing/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker(context.Background())
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(t), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
