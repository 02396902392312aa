package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// Update handles key input and the poll/fetch cycle.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, m.selectCmd()
		case "down", "j":
			if m.selected < len(m.tools)-1 {
				m.selected++
			}
			return m, m.selectCmd()
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchCmd(m.handle), tickCmd())

	case snapshotMsg:
		if msg.err != nil {
			slog.Error("tui: fetching metrics snapshot failed", "error", msg.err)
			return m, nil
		}
		m.tools = msg.tools
		m.tokens = msg.tokens
		m.session = msg.session
		m.api = msg.api
		if m.selected >= len(m.tools) {
			m.selected = max(0, len(m.tools)-1)
		}
		return m, m.selectCmd()

	case lastErrMsg:
		m.lastErr = msg.text
		return m, nil
	}
	return m, nil
}

func (m Model) selectCmd() tea.Cmd {
	if m.selected < 0 || m.selected >= len(m.tools) {
		return nil
	}
	return fetchLastErrCmd(m.handle, m.tools[m.selected].ToolName)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
