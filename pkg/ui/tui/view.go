package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the dashboard
func (m *Model) View() string {
	sections := []string{
		titleStyle.Render(" tlharvest "),
		m.renderProgress(),
		m.renderStats(),
		m.renderUsers(),
	}
	if len(m.logs) > 0 {
		sections = append(sections, m.renderLogs())
	}
	sections = append(sections, helpStyle.Render("q: stop the run • ctrl+l: clear log"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderProgress() string {
	head := m.spinner.View()
	switch {
	case m.finished:
		head = "✓"
	case m.stopping:
		head = warningStyle.Render("■")
	}
	return fmt.Sprintf("%s %s %d/%d", head, m.bar.ViewAs(m.Percent()), m.done, len(m.rows))
}

func (m *Model) renderStats() string {
	elapsed := time.Since(m.startTime).Round(time.Second)
	stats := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Written:"), statsValueStyle.Render(fmt.Sprintf("%d", m.written))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Failed:"), statsValueStyle.Render(fmt.Sprintf("%d", m.failed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Elapsed:"), statsValueStyle.Render(elapsed.String())),
	}
	return strings.Join(stats, "   ")
}

// renderUsers shows a window of rows around the active user
func (m *Model) renderUsers() string {
	const visible = 10

	start := m.done - visible/2
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > len(m.rows) {
		end = len(m.rows)
		if start = end - visible; start < 0 {
			start = 0
		}
	}

	lines := make([]string, 0, end-start)
	for _, row := range m.rows[start:end] {
		lines = append(lines, renderRow(row))
	}
	if len(lines) == 0 {
		lines = append(lines, pendingStyle.Render("no users"))
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderRow(row UserRow) string {
	switch row.State {
	case UserActive:
		return activeStyle.Render(fmt.Sprintf("▶ %d", row.ID))
	case UserDone:
		return doneStyle.Render(fmt.Sprintf("✓ %d  %d pages, %d written, %s", row.ID, row.Pages, row.Written, row.Stop))
	case UserFailed:
		return failedStyle.Render(fmt.Sprintf("✗ %d  %v", row.ID, row.Err))
	default:
		return pendingStyle.Render(fmt.Sprintf("· %d", row.ID))
	}
}

func (m *Model) renderLogs() string {
	lines := make([]string, len(m.logs))
	for i, l := range m.logs {
		lines[i] = logStyle.Render(l)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
