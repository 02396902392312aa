package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agenttop/agenttop/pkg/storage"
)

// Run starts the dashboard's terminal event loop and blocks until the user
// quits.
func Run(handle *storage.Handle) error {
	p := tea.NewProgram(NewModel(handle), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
