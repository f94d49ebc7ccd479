package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accentCyan   = lipgloss.Color("#00D7FF")
	accentPurple = lipgloss.Color("#AF87FF")
	okGreen      = lipgloss.Color("#5FD75F")
	warnOrange   = lipgloss.Color("#FFAF00")
	failRed      = lipgloss.Color("#FF5F5F")
	dimGray      = lipgloss.Color("#808080")

	titleStyle = lipgloss.NewStyle().
			Background(accentPurple).
			Foreground(lipgloss.Color("#000000")).
			Bold(true).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentPurple).
			Padding(0, 1)

	statsLabelStyle = lipgloss.NewStyle().
			Foreground(accentCyan).
			Bold(true)

	statsValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(dimGray).
			PaddingLeft(2)

	activeStyle = lipgloss.NewStyle().
			Foreground(accentCyan).
			Bold(true).
			PaddingLeft(2)

	doneStyle = lipgloss.NewStyle().
			Foreground(okGreen).
			PaddingLeft(2)

	failedStyle = lipgloss.NewStyle().
			Foreground(failRed).
			PaddingLeft(2)

	warningStyle = lipgloss.NewStyle().
			Foreground(warnOrange).
			Bold(true)

	logStyle = lipgloss.NewStyle().
			Foreground(dimGray)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			PaddingLeft(1)
)
