package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// TUI runs the dashboard program for one harvest run
type TUI struct {
	program *tea.Program
	model   *Model
}

// New creates a dashboard for userIDs. cancel stops the run.
func New(userIDs []int64, cancel func(), opts ...tea.ProgramOption) *TUI {
	model := NewModel(userIDs, cancel)
	return &TUI{
		program: tea.NewProgram(model, opts...),
		model:   model,
	}
}

// Run blocks until the run has finished or the program is quit
func (t *TUI) Run() error {
	_, err := t.program.Run()
	return err
}

// UserDone reports a finished user
func (t *TUI) UserDone(done int, userID int64, pages, written int, stop string, err error) {
	t.program.Send(UserDoneMsg{
		Done:    done,
		UserID:  userID,
		Pages:   pages,
		Written: written,
		Stop:    stop,
		Err:     err,
	})
}

// Log adds a line to the log panel
func (t *TUI) Log(message string) {
	t.program.Send(LogMsg{Message: message})
}

// LogEntry adds a structured log entry to the log panel. Its signature
// matches logger.ForwardFunc.
func (t *TUI) LogEntry(level, msg string, fields map[string]interface{}) {
	t.Log(FormatEntry(level, msg, fields))
}

// Finish reports the end of the run; the program exits afterwards
func (t *TUI) Finish(files []string, interrupted bool, err error) {
	t.program.Send(RunFinishedMsg{Files: files, Interrupted: interrupted, Err: err})
}
