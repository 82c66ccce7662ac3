package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// historyLimit bounds the number of actions the counter panel remembers.
const historyLimit = 50

var valueStyle = lipgloss.NewStyle().Bold(true)

// CounterPanel shows the current counter value and the most recent actions,
// newest first.
type CounterPanel struct {
	value   int
	history []string
	offset  int
	width   int
	height  int
}

// NewCounterPanel creates a counter panel showing initial.
func NewCounterPanel(initial, w, h int) CounterPanel {
	return CounterPanel{value: initial, width: w, height: h}
}

// Record notes a reduced action and the state it produced.
func (p CounterPanel) Record(action string, payload, state int) CounterPanel {
	line := fmt.Sprintf("%-22s %+4d → %d", action, signed(action, payload), state)
	history := make([]string, 0, len(p.history)+1)
	history = append(history, line)
	history = append(history, p.history...)
	if len(history) > historyLimit {
		history = history[:historyLimit]
	}
	p.history = history
	p.value = state
	p.offset = 0
	return p
}

// signed renders decrements as negative deltas. Unknown actions show their
// raw payload.
func signed(action string, payload int) int {
	if strings.HasSuffix(action, "Decrement") {
		return -payload
	}
	return payload
}

// Value returns the last state recorded.
func (p CounterPanel) Value() int { return p.value }

// SetSize resizes the panel.
func (p CounterPanel) SetSize(w, h int) CounterPanel {
	p.width = w
	p.height = h
	return p
}

// Update scrolls the history with j/k.
func (p CounterPanel) Update(msg tea.Msg) (CounterPanel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "j", "down":
		if p.offset < len(p.history)-1 {
			p.offset++
		}
	case "k", "up":
		if p.offset > 0 {
			p.offset--
		}
	}
	return p, nil
}

// View renders the panel.
func (p CounterPanel) View() string {
	lines := []string{
		valueStyle.Render(fmt.Sprintf("state: %d", p.value)),
		"",
	}
	if len(p.history) == 0 {
		lines = append(lines, dimStyle.Render("no actions yet"))
	} else {
		rows := p.height - len(lines)
		if rows < 1 {
			rows = 1
		}
		end := p.offset + rows
		if end > len(p.history) {
			end = len(p.history)
		}
		lines = append(lines, p.history[p.offset:end]...)
	}
	return lipgloss.NewStyle().Width(p.width).Height(p.height).Render(strings.Join(lines, "\n"))
}
