package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// FooterProps holds all data needed to render the footer bar.
type FooterProps struct {
	Focus      string // "counter", "news", "events", "interval"
	LastAction string
	Step       int
	Following  bool
}

// RenderFooter renders the footer bar. Left side: last dispatched action.
// Right side: keybinding hints for the current focus plus the global keys.
func RenderFooter(props FooterProps, width int) string {
	last := props.LastAction
	if last == "" {
		last = "—"
	}
	left := fmt.Sprintf("last action: %s", last)

	step := props.Step
	if step <= 0 {
		step = 1
	}
	global := fmt.Sprintf("+/-:±%d  n:new item  r:reload  i:interval  tab:panel  q:quit", step)
	right := panelHints(props.Focus, props.Following) + "  " + global

	// Drop the hints rather than wrap when the terminal is narrow.
	if runewidth.StringWidth(left)+runewidth.StringWidth(right)+2 > width {
		right = global
	}
	gap := width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 2 {
		gap = 2
	}

	return footerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// panelHints returns the context-sensitive keybinding hints for a given focus.
func panelHints(focus string, following bool) string {
	follow := "f:follow"
	if following {
		follow = "f:unfollow"
	}
	switch focus {
	case "counter":
		return "j/k:scroll history"
	case "news":
		return "j/k:navigate"
	case "events":
		return follow + "  [/]:tab"
	case "interval":
		return follow + "  j/k:scroll"
	default:
		return ""
	}
}
