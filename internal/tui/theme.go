package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/LISSConsulting/LISSTech.Flow/internal/loop"
)

// Theme holds accent-color-derived styles for the dashboard.
type Theme struct {
	accent          string
	accentStyle     lipgloss.Style // header background
	borderFocused   lipgloss.Style
	borderUnfocused lipgloss.Style
}

// NewTheme creates a Theme from a hex accent color string (e.g. "#7D56F4").
// If accentColor is empty, the default accent color is used.
func NewTheme(accentColor string) Theme {
	color := defaultAccentColor
	if accentColor != "" {
		color = accentColor
	}
	c := lipgloss.Color(color)
	return Theme{
		accent: color,
		accentStyle: lipgloss.NewStyle().
			Background(c).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		borderFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c),
		borderUnfocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray),
	}
}

// Accent returns the accent color in use.
func (t Theme) Accent() string { return t.accent }

// AccentHeaderStyle returns the style for the header bar.
func (t Theme) AccentHeaderStyle() lipgloss.Style {
	return t.accentStyle
}

// PanelBorderStyle returns the border style for a panel based on whether it
// currently holds keyboard focus.
func (t Theme) PanelBorderStyle(focused bool) lipgloss.Style {
	if focused {
		return t.borderFocused
	}
	return t.borderUnfocused
}

// RenderLogLine renders a loop.LogEntry as a single terminal line no wider
// than width.
func (t Theme) RenderLogLine(entry loop.LogEntry, width int) string {
	ts := timestampStyle.Render(fmt.Sprintf("[%s]", entry.Timestamp.Format("15:04:05")))
	// "[15:04:05]  " plus an icon column.
	maxText := width - 15
	if maxText < 20 {
		maxText = 20
	}
	fit := func(s string) string {
		return runewidth.Truncate(singleLine(s), maxText, "…")
	}

	var text string
	switch entry.Kind {
	case loop.LogDispatch:
		text = fmt.Sprintf("%s %d → state %d", entry.Action, entry.Payload, entry.State)
	case loop.LogTick:
		text = fmt.Sprintf("tick %d", entry.Tick)
	case loop.LogItems:
		text = fmt.Sprintf("%d top stories", len(entry.Items))
		if entry.Message != "" {
			text += "  " + entry.Message
		}
	case loop.LogCreated:
		text = fmt.Sprintf("created item %d", entry.ItemID)
	default:
		text = entry.Message
	}

	look := lookFor(entry)
	if look.glyph == "" {
		return fmt.Sprintf("%s  %s", ts, look.style.Render(fit(text)))
	}
	if entry.Kind == loop.LogDispatch {
		return fmt.Sprintf("%s  %s %s", ts, look.glyph, look.style.Render(fit(text)))
	}
	return fmt.Sprintf("%s  %s", ts, look.style.Render(fit(look.glyph+" "+text)))
}

// singleLine collapses newlines so an entry never spans rows.
func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
