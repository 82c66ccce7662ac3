// Package components provides reusable widgets for the flow dashboard.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	defaultTabAccent = "#7D56F4"
	tabSep           = " │ "
)

var tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

type tab struct {
	label string
	badge int
}

func (t tab) text() string {
	if t.badge > 0 {
		return fmt.Sprintf("%s (%d)", t.label, t.badge)
	}
	return t.label
}

// TabBar is a single row of tabs, each with an optional count badge. The
// active tab is bold and drawn in the accent color.
type TabBar struct {
	tabs   []tab
	active int
	width  int
	accent lipgloss.Style
}

func accentStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
}

// NewTabBar creates a TabBar with the first of labels active.
func NewTabBar(labels []string) TabBar {
	tabs := make([]tab, len(labels))
	for i, l := range labels {
		tabs[i] = tab{label: l}
	}
	return TabBar{tabs: tabs, accent: accentStyle(defaultTabAccent)}
}

// SetAccent changes the active tab color; "" keeps the current one.
func (t TabBar) SetAccent(color string) TabBar {
	if color != "" {
		t.accent = accentStyle(color)
	}
	return t
}

// SetBadge shows n next to tab i; n <= 0 hides the badge.
func (t TabBar) SetBadge(i, n int) TabBar {
	if i < 0 || i >= len(t.tabs) {
		return t
	}
	tabs := append([]tab(nil), t.tabs...)
	tabs[i].badge = n
	t.tabs = tabs
	return t
}

// Active returns the index of the active tab.
func (t TabBar) Active() int { return t.active }

// Next activates the following tab, wrapping around.
func (t TabBar) Next() TabBar { return t.shift(1) }

// Prev activates the preceding tab, wrapping around.
func (t TabBar) Prev() TabBar { return t.shift(-1) }

func (t TabBar) shift(by int) TabBar {
	if n := len(t.tabs); n > 0 {
		t.active = ((t.active+by)%n + n) % n
	}
	return t
}

// SetWidth sets the width View must fit in; 0 disables truncation.
func (t TabBar) SetWidth(w int) TabBar {
	t.width = w
	return t
}

// View renders the tabs on one line, truncating each to an equal share of
// the width.
func (t TabBar) View() string {
	if len(t.tabs) == 0 {
		return ""
	}
	share := 0
	if t.width > 0 {
		share = max(1, (t.width-runewidth.StringWidth(tabSep)*(len(t.tabs)-1))/len(t.tabs))
	}

	var b strings.Builder
	for i, tb := range t.tabs {
		if i > 0 {
			b.WriteString(tabSep)
		}
		text := tb.text()
		if share > 0 {
			text = runewidth.Truncate(text, share, "…")
		}
		style := tabInactiveStyle
		if i == t.active {
			style = t.accent
		}
		b.WriteString(style.Render(text))
	}
	return b.String()
}
