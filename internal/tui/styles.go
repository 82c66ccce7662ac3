// Package tui provides a bubbletea + lipgloss dashboard for the flow demos.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.Flow/internal/counter"
	"github.com/LISSConsulting/LISSTech.Flow/internal/loop"
)

const defaultAccentColor = "#7D56F4" // indigo

var (
	colorWhite  = lipgloss.Color("#FAFAFA")
	colorGray   = lipgloss.Color("#888888")
	colorBlue   = lipgloss.Color("#5B9BD5")
	colorGreen  = lipgloss.Color("#6BCB77")
	colorYellow = lipgloss.Color("#FFD93D")
	colorRed    = lipgloss.Color("#FF6B6B")
	colorOrange = lipgloss.Color("#FFA54F")
)

var timestampStyle = lipgloss.NewStyle().Foreground(colorGray)

// lineLook is how one kind of feed line is drawn.
type lineLook struct {
	glyph string
	style lipgloss.Style
}

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

// kindLooks covers every non-dispatch kind; dispatches use actionLooks.
var kindLooks = map[loop.LogKind]lineLook{
	loop.LogTick:    {glyph: "⏱", style: fg(colorBlue)},
	loop.LogCancel:  {glyph: "⏹", style: fg(colorGray)},
	loop.LogItems:   {glyph: "📰", style: fg(colorYellow)},
	loop.LogCreated: {glyph: "✚", style: fg(colorYellow)},
	loop.LogError:   {glyph: "✗", style: fg(colorRed).Bold(true)},
	loop.LogDone:    {glyph: "✓", style: fg(colorGreen).Bold(true)},
}

var actionLooks = map[string]lineLook{
	counter.Increment: {glyph: "▲", style: fg(colorGreen)},
	counter.Decrement: {glyph: "▼", style: fg(colorOrange)},
}

var plainLook = lineLook{glyph: "•", style: fg(colorWhite)}

// lookFor picks the glyph and style for entry.
func lookFor(entry loop.LogEntry) lineLook {
	if entry.Kind == loop.LogDispatch {
		if l, ok := actionLooks[entry.Action]; ok {
			return l
		}
		return plainLook
	}
	if l, ok := kindLooks[entry.Kind]; ok {
		return l
	}
	return lineLook{style: plainLook.style}
}
