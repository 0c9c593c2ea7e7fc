package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Start runs the viewer until the user quits or ctx is cancelled.
func Start(ctx context.Context, src Refresher) error {
	program := tea.NewProgram(NewModel(ctx, src), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
