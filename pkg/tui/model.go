// Package tui renders a live terminal view of agenttop's aggregated
// metrics. It is a thin collaborator of the storage actor: it owns no
// business logic beyond formatting and polls the handle on a fixed cadence.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agenttop/agenttop/pkg/storage"
)

const pollInterval = 100 * time.Millisecond

// Model is the bubbletea model driving the dashboard.
type Model struct {
	handle *storage.Handle

	tools   []storage.ToolMetrics
	tokens  storage.TokenMetrics
	session storage.SessionMetrics
	api     storage.ApiMetrics

	selected int
	lastErr  string
	err      error

	width  int
	height int
}

// NewModel builds a dashboard model polling handle.
func NewModel(handle *storage.Handle) Model {
	return Model{handle: handle}
}

// Init starts the poll loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchCmd(m.handle), tickCmd())
}

type tickMsg time.Time

type snapshotMsg struct {
	tools   []storage.ToolMetrics
	tokens  storage.TokenMetrics
	session storage.SessionMetrics
	api     storage.ApiMetrics
	err     error
}

type lastErrMsg struct {
	text string
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchCmd queries every aggregate off the actor handle in one tea.Cmd, so
// the Update loop itself never blocks on the database.
func fetchCmd(h *storage.Handle) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		tools, err := h.GetToolMetrics(ctx, nil)
		if err != nil {
			return snapshotMsg{err: err}
		}
		tokens, err := h.GetTokenMetrics(ctx, nil)
		if err != nil {
			return snapshotMsg{err: err}
		}
		session, err := h.GetSessionMetrics(ctx, nil)
		if err != nil {
			return snapshotMsg{err: err}
		}
		api, err := h.GetApiMetrics(ctx, nil)
		if err != nil {
			return snapshotMsg{err: err}
		}
		return snapshotMsg{tools: tools, tokens: tokens, session: session, api: api}
	}
}

func fetchLastErrCmd(h *storage.Handle, toolName string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		text, err := h.GetLastToolError(ctx, toolName)
		if err != nil {
			return lastErrMsg{}
		}
		return lastErrMsg{text: text}
	}
}
