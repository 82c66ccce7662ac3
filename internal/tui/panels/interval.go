package panels

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.Flow/internal/tui/components"
)

// IntervalPanel shows whether the interval subscription is live and the
// ticks it has delivered.
type IntervalPanel struct {
	ticks   components.LogView
	running bool
	last    int
	count   int
	period  time.Duration
	width   int
	height  int
}

// NewIntervalPanel creates a stopped interval panel.
func NewIntervalPanel(w, h int, period time.Duration) IntervalPanel {
	return IntervalPanel{
		ticks:  components.NewLogView(w, tabContentHeight(h)).SetMaxLines(200),
		last:   -1,
		period: period,
		width:  w,
		height: h,
	}
}

// SetRunning records whether a subscription is live.
func (p IntervalPanel) SetRunning(running bool) IntervalPanel {
	p.running = running
	return p
}

// Running reports whether a subscription is live.
func (p IntervalPanel) Running() bool { return p.running }

// AddTick records a delivered tick value with its rendered line.
func (p IntervalPanel) AddTick(value int, rendered string) IntervalPanel {
	p.last = value
	p.count++
	p.ticks = p.ticks.AppendLine(rendered)
	return p
}

// Count returns how many ticks have been shown across subscriptions.
func (p IntervalPanel) Count() int { return p.count }

// Following reports whether the tick log is in follow mode.
func (p IntervalPanel) Following() bool { return p.ticks.Following() }

// SetSize resizes the panel.
func (p IntervalPanel) SetSize(w, h int) IntervalPanel {
	p.width = w
	p.height = h
	p.ticks = p.ticks.SetSize(w, tabContentHeight(h))
	return p
}

// Update handles follow toggling and scrolling.
func (p IntervalPanel) Update(msg tea.Msg) (IntervalPanel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "f" {
		p.ticks = p.ticks.ToggleFollow()
		return p, nil
	}
	var cmd tea.Cmd
	p.ticks, cmd = p.ticks.Update(msg)
	return p, cmd
}

// View renders the status line and the tick log.
func (p IntervalPanel) View() string {
	state := dimStyle.Render("○ stopped")
	if p.running {
		state = newStyle.Render("● running")
	}
	last := "—"
	if p.last >= 0 {
		last = fmt.Sprint(p.last)
	}
	status := fmt.Sprintf("%s  every %s  last: %s", state, p.period, last)
	return lipgloss.JoinVertical(lipgloss.Left, status, p.ticks.View())
}
