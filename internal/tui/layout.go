package tui

// Rect represents a rectangular region of the terminal.
type Rect struct {
	X, Y, Width, Height int
}

// Layout holds the computed panel geometry for a given terminal size.
type Layout struct {
	Header, Footer   Rect
	Counter, News    Rect
	Events, Interval Rect
	TooSmall         bool // true when terminal is below the minimum 80×24
}

// Calculate computes the panel layout for a terminal of the given dimensions.
// Returns a Layout with TooSmall=true if width < 80 or height < 24.
//
// Algorithm:
//   - Header: full width, 1 row at top
//   - Footer: full width, 1 row at bottom
//   - Sidebar: 30% of width, clamped to [26, 40]
//   - Counter: sidebar width × 40% of body height (top of sidebar)
//   - News: sidebar width × remaining body height (bottom of sidebar)
//   - Events: remaining width × 60% of body height (top-right)
//   - Interval: remaining width × remaining body height (bottom-right)
func Calculate(width, height int) Layout {
	if width < 80 || height < 24 {
		return Layout{TooSmall: true}
	}

	bodyH := height - 2 // subtract header + footer rows

	sidebarW := width * 30 / 100
	if sidebarW < 26 {
		sidebarW = 26
	}
	if sidebarW > 40 {
		sidebarW = 40
	}
	rightW := width - sidebarW

	counterH := bodyH * 40 / 100
	newsH := bodyH - counterH

	eventsH := bodyH * 60 / 100
	intervalH := bodyH - eventsH

	return Layout{
		Header:   Rect{X: 0, Y: 0, Width: width, Height: 1},
		Footer:   Rect{X: 0, Y: height - 1, Width: width, Height: 1},
		Counter:  Rect{X: 0, Y: 1, Width: sidebarW, Height: counterH},
		News:     Rect{X: 0, Y: 1 + counterH, Width: sidebarW, Height: newsH},
		Events:   Rect{X: sidebarW, Y: 1, Width: rightW, Height: eventsH},
		Interval: Rect{X: sidebarW, Y: 1 + eventsH, Width: rightW, Height: intervalH},
	}
}

// innerDims returns the content dimensions for a panel rect accounting for
// the 1-character border on each side (2 total per dimension).
func innerDims(r Rect) (w, h int) {
	w = r.Width - 2
	if w < 1 {
		w = 1
	}
	h = r.Height - 2
	if h < 1 {
		h = 1
	}
	return
}
