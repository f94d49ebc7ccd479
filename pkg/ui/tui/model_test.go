package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelTracksUsers(t *testing.T) {
	m := NewModel([]int64{10, 20, 10}, nil)

	rows := m.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, UserActive, rows[0].State)
	assert.Equal(t, UserPending, rows[1].State)

	m.Update(UserDoneMsg{Done: 1, UserID: 10, Pages: 3, Written: 7, Stop: "exhausted"})
	m.Update(UserDoneMsg{Done: 2, UserID: 20, Err: errors.New("auth error")})

	rows = m.Rows()
	assert.Equal(t, UserDone, rows[0].State)
	assert.Equal(t, 7, rows[0].Written)
	assert.Equal(t, UserFailed, rows[1].State)
	assert.Equal(t, UserActive, rows[2].State, "duplicate ids keep their own row")
	assert.Equal(t, 7, m.written)
	assert.Equal(t, 1, m.failed)
	assert.InDelta(t, 2.0/3.0, m.Percent(), 1e-9)
	assert.Len(t, m.logs, 1)
}

func TestModelIgnoresOutOfRangeDone(t *testing.T) {
	m := NewModel([]int64{1}, nil)
	m.Update(UserDoneMsg{Done: 5})
	m.Update(UserDoneMsg{Done: 0})
	assert.Equal(t, 0, m.done)
}

func TestQuitCancelsRunOnce(t *testing.T) {
	calls := 0
	m := NewModel([]int64{1, 2}, func() { calls++ })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Nil(t, cmd, "the program waits for the run to finish")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, 1, calls)
	assert.True(t, m.stopping)
}

func TestRunFinishedQuits(t *testing.T) {
	m := NewModel([]int64{1, 2}, nil)
	m.Update(UserDoneMsg{Done: 1, UserID: 1})

	_, cmd := m.Update(RunFinishedMsg{Files: []string{"out-001.json"}, Interrupted: true})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.finished)
	assert.True(t, m.interrupted)
	assert.Equal(t, UserPending, m.Rows()[1].State)
}

func TestView(t *testing.T) {
	m := NewModel([]int64{42, 43}, nil)
	m.Update(UserDoneMsg{Done: 1, UserID: 42, Pages: 2, Written: 5, Stop: "passed_window"})

	out := m.View()
	assert.Contains(t, out, "tlharvest")
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "passed_window")
}

func TestFormatEntry(t *testing.T) {
	line := FormatEntry("WARN", "Request failed, backing off", map[string]interface{}{
		"user_id": int64(5),
		"run_id":  "harvest-1",
		"delay":   "4s",
		"error":   "rate_limit error (code 429): Too Many Requests",
	})
	assert.Equal(t, "WARN Request failed, backing off delay=4s error=rate_limit error (code 429): Too Many Requests user_id=5", line)

	assert.Equal(t, "ERROR boom", FormatEntry("ERROR", "boom", nil))
}

func TestLogPanelKeepsNewestLines(t *testing.T) {
	m := NewModel([]int64{1}, nil)
	for i := 0; i < 12; i++ {
		m.Update(LogMsg{Message: FormatEntry("WARN", "page", map[string]interface{}{"n": i})})
	}

	require.Len(t, m.logs, 8)
	assert.True(t, strings.HasSuffix(m.logs[0], "WARN page n=4"), m.logs[0])
	assert.True(t, strings.HasSuffix(m.logs[7], "WARN page n=11"), m.logs[7])
	assert.Contains(t, m.View(), "WARN page n=11")
}
