package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive leaderboard viewer and blocks until the user
// quits.
func Run(cfg Config) error {
	if cfg.Result == nil {
		return fmt.Errorf("leaderboard result is required")
	}

	program := tea.NewProgram(newModel(cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("leaderboard viewer failed: %w", err)
	}
	return nil
}
