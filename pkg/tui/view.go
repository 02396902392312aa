package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agenttop/agenttop/pkg/provider"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("237")).Foreground(lipgloss.Color("255"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// View renders the summary strip, the tool table, and the detail popup for
// the currently selected row.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("agenttop") + "\n")
	b.WriteString(m.renderSummary() + "\n\n")
	b.WriteString(m.renderTable() + "\n")

	if m.lastErr != "" {
		b.WriteString("\n" + errorStyle.Render("last error: "+m.lastErr) + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("up/down select · q quit"))
	return b.String()
}

func (m Model) renderSummary() string {
	return fmt.Sprintf(
		"tokens in=%d out=%d cache_read=%d cache_write=%d cost=$%.4f reuse=%.1f%%  sessions loc=%d commits=%d  api calls=%d errors=%d avg_latency=%.0fms",
		m.tokens.InputTokens, m.tokens.OutputTokens, m.tokens.CacheReadTokens, m.tokens.CacheCreationTokens,
		m.tokens.TotalCostUSD, m.tokens.CacheReuseRate(),
		m.session.LinesOfCode, m.session.CommitCount,
		m.api.TotalCalls, m.api.TotalErrors, m.api.AvgLatencyMs,
	)
}

func (m Model) renderTable() string {
	if len(m.tools) == 0 {
		return dimStyle.Render("(no tool invocations yet)")
	}

	var b strings.Builder
	header := fmt.Sprintf("%-28s %8s %10s %9s %9s", "TOOL", "CALLS", "SUCCESS%", "APPROVE%", "AVG(ms)")
	b.WriteString(headerStyle.Render(header) + "\n")

	for i, t := range m.tools {
		row := fmt.Sprintf("%-28s %8d %9.1f%% %8.1f%% %9.1f",
			provider.DisplayToolName(t.ToolName), t.CallCount, t.OverallSuccessRate(), t.ApprovalRate(), t.AvgDurationMs,
		)
		if i == m.selected {
			row = selectedStyle.Render(row)
		}
		b.WriteString(row + "\n")
	}
	return b.String()
}
