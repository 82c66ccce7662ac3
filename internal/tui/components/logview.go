package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultMaxLines bounds how many lines a LogView keeps.
const DefaultMaxLines = 1000

// LogView is a bounded, scrollable list of pre-styled lines backed by a
// bubbles viewport. While following, the newest line stays in view.
type LogView struct {
	vp       viewport.Model
	lines    []string
	follow   bool
	maxLines int
}

// NewLogView returns an empty, following LogView of w by h cells.
func NewLogView(w, h int) LogView {
	return LogView{vp: viewport.New(w, h), follow: true, maxLines: DefaultMaxLines}
}

// SetMaxLines sets how many of the newest lines are kept; n <= 0 means
// DefaultMaxLines. Excess lines are dropped immediately.
func (v LogView) SetMaxLines(n int) LogView {
	if n <= 0 {
		n = DefaultMaxLines
	}
	v.maxLines = n
	return v.with(v.lines)
}

// AppendLine adds one line at the bottom. The receiver's backing slice is
// never written, so earlier copies of v keep their content.
func (v LogView) AppendLine(line string) LogView {
	next := make([]string, 0, len(v.lines)+1)
	return v.with(append(append(next, v.lines...), line))
}

// SetContent replaces every line with a copy of lines.
func (v LogView) SetContent(lines []string) LogView {
	return v.with(append([]string(nil), lines...))
}

// with installs lines, dropping the oldest beyond maxLines, and re-renders.
func (v LogView) with(lines []string) LogView {
	if drop := len(lines) - v.maxLines; drop > 0 {
		lines = lines[drop:]
	}
	v.lines = lines
	v.vp.SetContent(strings.Join(lines, "\n"))
	return v.stick()
}

// stick scrolls to the bottom when following.
func (v LogView) stick() LogView {
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// Len returns the number of retained lines.
func (v LogView) Len() int { return len(v.lines) }

// Following reports whether new lines keep the view at the bottom.
func (v LogView) Following() bool { return v.follow }

// ToggleFollow flips follow mode; turning it on jumps to the newest line.
func (v LogView) ToggleFollow() LogView {
	v.follow = !v.follow
	return v.stick()
}

// SetSize resizes the viewport.
func (v LogView) SetSize(w, h int) LogView {
	v.vp.Width, v.vp.Height = w, h
	return v.stick()
}

// Update forwards scroll keys and mouse wheel events to the viewport. A key
// or mouse event that leaves the bottom turns follow mode off.
func (v LogView) Update(msg tea.Msg) (LogView, tea.Cmd) {
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
		if v.follow && !v.vp.AtBottom() {
			v.follow = false
		}
	}
	return v, cmd
}

// View renders the visible lines.
func (v LogView) View() string { return v.vp.View() }
