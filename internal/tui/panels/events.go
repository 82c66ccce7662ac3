package panels

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.Flow/internal/tui/components"
)

// EventsTab identifies the active tab in the events panel.
type EventsTab int

const (
	TabAll    EventsTab = iota // Every event
	TabErrors                  // Errors only
)

var eventsTabLabels = []string{"All", "Errors"}

// EventsPanel is the main panel: a live feed of every event, with a second
// tab collecting errors.
type EventsPanel struct {
	tabbar components.TabBar
	all    components.LogView
	errors components.LogView
	width  int
	height int
}

// NewEventsPanel creates an events panel with the All tab active.
func NewEventsPanel(w, h int, accent string) EventsPanel {
	contentH := tabContentHeight(h)
	return EventsPanel{
		tabbar: components.NewTabBar(eventsTabLabels).SetWidth(w).SetAccent(accent),
		all:    components.NewLogView(w, contentH),
		errors: components.NewLogView(w, contentH),
		width:  w,
		height: h,
	}
}

// tabContentHeight subtracts the tab bar row.
func tabContentHeight(h int) int {
	if h > 1 {
		return h - 1
	}
	return 1
}

// AppendLine adds a rendered line to the All tab, and to Errors when isError.
func (p EventsPanel) AppendLine(rendered string, isError bool) EventsPanel {
	p.all = p.all.AppendLine(rendered)
	if isError {
		p.errors = p.errors.AppendLine(rendered)
		p.tabbar = p.tabbar.SetBadge(int(TabErrors), p.errors.Len())
	}
	return p
}

// ActiveTab returns the visible tab.
func (p EventsPanel) ActiveTab() EventsTab { return EventsTab(p.tabbar.Active()) }

// Following reports whether the visible tab is in follow mode.
func (p EventsPanel) Following() bool {
	if p.ActiveTab() == TabErrors {
		return p.errors.Following()
	}
	return p.all.Following()
}

// Lines returns the number of lines in each tab.
func (p EventsPanel) Lines() (all, errors int) { return p.all.Len(), p.errors.Len() }

// SetSize resizes both tabs.
func (p EventsPanel) SetSize(w, h int) EventsPanel {
	p.width = w
	p.height = h
	contentH := tabContentHeight(h)
	p.tabbar = p.tabbar.SetWidth(w)
	p.all = p.all.SetSize(w, contentH)
	p.errors = p.errors.SetSize(w, contentH)
	return p
}

// Update handles tab switching, follow toggling and scrolling.
func (p EventsPanel) Update(msg tea.Msg) (EventsPanel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "[":
			p.tabbar = p.tabbar.Prev()
			return p, nil
		case "]":
			p.tabbar = p.tabbar.Next()
			return p, nil
		case "f":
			if p.ActiveTab() == TabErrors {
				p.errors = p.errors.ToggleFollow()
			} else {
				p.all = p.all.ToggleFollow()
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	if p.ActiveTab() == TabErrors {
		p.errors, cmd = p.errors.Update(msg)
	} else {
		p.all, cmd = p.all.Update(msg)
	}
	return p, cmd
}

// View renders the tab bar and the active tab.
func (p EventsPanel) View() string {
	content := p.all.View()
	if p.ActiveTab() == TabErrors {
		content = p.errors.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, p.tabbar.View(), content)
}
