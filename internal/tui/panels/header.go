// Package panels provides the panel components for the flow dashboard.
package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// DefaultTitle is shown when no project name is configured.
const DefaultTitle = "flow"

const headerSep = "  │  "

// HeaderProps holds all data needed to render the header bar.
// Status is passed as strings so this package does not import tui.
type HeaderProps struct {
	ProjectName string
	Counter     int
	Dispatches  int
	Ticks       int
	Items       int
	StateSymbol string // "●", "✓", "◌" or "✗"
	StateLabel  string
	Elapsed     time.Duration
	Clock       time.Time
}

// FormatElapsed renders d as a stopwatch reading: "0:05", "1:30", "3:15:00".
func FormatElapsed(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	if total < 0 {
		total = 0
	}
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func (p HeaderProps) title() string {
	if p.ProjectName == "" {
		return "⇄ " + DefaultTitle
	}
	return "⇄ " + p.ProjectName
}

// stats are the left-hand segments: title, store values, then status.
func (p HeaderProps) stats() []string {
	segs := []string{
		p.title(),
		fmt.Sprintf("counter: %d", p.Counter),
		fmt.Sprintf("dispatches: %d", p.Dispatches),
		fmt.Sprintf("ticks: %d", p.Ticks),
		fmt.Sprintf("items: %d", p.Items),
	}
	switch {
	case p.StateLabel == "":
	case p.StateSymbol == "":
		segs = append(segs, p.StateLabel)
	default:
		segs = append(segs, p.StateSymbol+" "+p.StateLabel)
	}
	return segs
}

// clock is the right-hand segment: uptime and wall clock.
func (p HeaderProps) clock() string {
	var segs []string
	if p.Elapsed > 0 {
		segs = append(segs, "up "+FormatElapsed(p.Elapsed))
	}
	if !p.Clock.IsZero() {
		segs = append(segs, p.Clock.Format("15:04"))
	}
	return strings.Join(segs, " ")
}

// RenderHeader renders the header bar across width. The clock is pushed to
// the right edge when it fits, otherwise it follows the stats.
func RenderHeader(props HeaderProps, width int, accentStyle lipgloss.Style) string {
	left := strings.Join(props.stats(), headerSep)
	right := props.clock()

	line := left
	if right != "" {
		gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
		if gap >= len(headerSep) {
			line = left + strings.Repeat(" ", gap) + right
		} else {
			line = left + headerSep + right
		}
	}
	return accentStyle.Width(width).Render(line)
}
