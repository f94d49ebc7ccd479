package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// UserState is the position of one user in the run
type UserState int

const (
	UserPending UserState = iota
	UserActive
	UserDone
	UserFailed
)

// UserRow is one line of the user list
type UserRow struct {
	ID      int64
	State   UserState
	Pages   int
	Written int
	Stop    string
	Err     error
}

// Model is the dashboard state. Rows follow the run order, duplicates
// included, so the n-th finished user is always row n-1.
type Model struct {
	spinner spinner.Model
	bar     progress.Model

	rows    []UserRow
	done    int
	written int
	failed  int

	files       []string
	finished    bool
	interrupted bool
	stopping    bool
	runErr      error

	logs    []string
	maxLogs int

	cancel    func()
	startTime time.Time
	width     int
	height    int
}

// NewModel creates a model for a run over userIDs. cancel is called when
// the operator asks to stop.
func NewModel(userIDs []int64, cancel func()) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentCyan)

	bar := progress.New(progress.WithGradient(string(accentPurple), string(accentCyan)))
	bar.Width = 40

	rows := make([]UserRow, len(userIDs))
	for i, id := range userIDs {
		rows[i] = UserRow{ID: id}
	}
	if len(rows) > 0 {
		rows[0].State = UserActive
	}

	if cancel == nil {
		cancel = func() {}
	}

	return &Model{
		spinner:   s,
		bar:       bar,
		rows:      rows,
		maxLogs:   8,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// Init starts the spinner
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) userDone(msg UserDoneMsg) {
	i := msg.Done - 1
	if i < 0 || i >= len(m.rows) {
		return
	}

	row := &m.rows[i]
	row.Pages = msg.Pages
	row.Written = msg.Written
	row.Stop = msg.Stop
	row.Err = msg.Err
	if msg.Err != nil {
		row.State = UserFailed
		m.failed++
		m.addLog(fmt.Sprintf("user %d failed: %v", row.ID, msg.Err))
	} else {
		row.State = UserDone
	}

	m.done = msg.Done
	m.written += msg.Written
	if i+1 < len(m.rows) {
		m.rows[i+1].State = UserActive
	}
}

func (m *Model) runFinished(msg RunFinishedMsg) {
	m.finished = true
	m.files = msg.Files
	m.interrupted = msg.Interrupted
	m.runErr = msg.Err
	for i := range m.rows {
		if m.rows[i].State == UserActive {
			m.rows[i].State = UserPending
		}
	}
}

func (m *Model) addLog(line string) {
	m.logs = append(m.logs, fmt.Sprintf("%s %s", time.Now().Format("15:04:05"), line))
	if len(m.logs) > m.maxLogs {
		m.logs = m.logs[len(m.logs)-m.maxLogs:]
	}
}

// Percent is the share of users handled so far
func (m *Model) Percent() float64 {
	if len(m.rows) == 0 {
		return 1
	}
	return float64(m.done) / float64(len(m.rows))
}

// Rows returns a copy of the user list
func (m *Model) Rows() []UserRow {
	rows := make([]UserRow, len(m.rows))
	copy(rows, m.rows)
	return rows
}
