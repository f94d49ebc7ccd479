package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// UserDoneMsg is sent after each user with the number handled so far
type UserDoneMsg struct {
	Done    int
	UserID  int64
	Pages   int
	Written int
	Stop    string
	Err     error
}

// RunFinishedMsg is sent once the run has returned
type RunFinishedMsg struct {
	Files       []string
	Interrupted bool
	Err         error
}

// LogMsg adds a line to the log panel
type LogMsg struct {
	Message string
}

// FormatEntry renders a structured log entry as one panel line, fields sorted
// by key. run_id is left out since every line of a run carries the same one.
func FormatEntry(level, msg string, fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != "run_id" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case UserDoneMsg:
		m.userDone(msg)
		return m, nil

	case RunFinishedMsg:
		m.runFinished(msg)
		return m, tea.Quit

	case LogMsg:
		m.addLog(msg.Message)
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input. The terminal is in raw mode, so
// ctrl+c arrives here instead of as a signal.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		if m.finished {
			return m, tea.Quit
		}
		if !m.stopping {
			m.stopping = true
			m.addLog("stopping, closing the current output file")
			m.cancel()
		}
		return m, nil

	case "ctrl+l":
		m.logs = nil
		return m, nil
	}

	return m, nil
}
