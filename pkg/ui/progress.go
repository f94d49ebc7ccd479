package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// ProgressDisplay prints one line per finished user and a final summary
type ProgressDisplay struct {
	mu        sync.Mutex
	total     int
	done      int
	written   int
	failed    int
	startTime time.Time
}

// NewProgressDisplay creates a display for a run over total users
func NewProgressDisplay(total int) *ProgressDisplay {
	return &ProgressDisplay{total: total, startTime: time.Now()}
}

// UserDone records a finished user and prints its line
func (p *ProgressDisplay) UserDone(done int, userID int64, pages, written int, stop string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = done
	p.written += written
	if err != nil {
		p.failed++
	}
	if quiet {
		return
	}

	status := Green(stop)
	if err != nil {
		status = Red("failed: " + err.Error())
	}
	fmt.Fprintf(out, "%s [%s] %d/%d • user %d • %d pages • %d written • %s • %s\n",
		Cyan("harvest"),
		p.bar(20),
		p.done,
		p.total,
		userID,
		pages,
		written,
		status,
		p.calculateETA(),
	)
}

// Complete prints the summary of the run
func (p *ProgressDisplay) Complete(files []string, interrupted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if quiet {
		return
	}

	elapsed := time.Since(p.startTime)
	fmt.Fprintln(out)
	if interrupted {
		fmt.Fprintln(out, Yellow("Harvest interrupted"))
	} else {
		fmt.Fprintln(out, Green("Harvest complete"))
	}
	fmt.Fprintf(out, "  %s %d/%d (%d failed)\n", Dim("users:  "), p.done, p.total, p.failed)
	fmt.Fprintf(out, "  %s %d\n", Dim("written:"), p.written)
	fmt.Fprintf(out, "  %s %s\n", Dim("elapsed:"), formatDuration(elapsed))
	for _, f := range files {
		fmt.Fprintf(out, "  %s %s\n", Dim("file:   "), f)
	}
}

func (p *ProgressDisplay) bar(width int) string {
	if p.total <= 0 {
		return strings.Repeat("─", width)
	}
	filled := p.done * width / p.total
	if filled > width {
		filled = width
	}
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

// calculateETA extrapolates the remaining time from the average per user
func (p *ProgressDisplay) calculateETA() string {
	if p.done == 0 || p.done >= p.total {
		return "ETA --"
	}
	perUser := time.Since(p.startTime) / time.Duration(p.done)
	return "ETA " + formatDuration(perUser*time.Duration(p.total-p.done))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}
