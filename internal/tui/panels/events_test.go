package panels

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestEventsPanel_RoutesErrors(t *testing.T) {
	p := NewEventsPanel(80, 10, "")
	p = p.AppendLine("dispatch line", false)
	p = p.AppendLine("error line", true)

	all, errs := p.Lines()
	if all != 2 || errs != 1 {
		t.Errorf("Lines = %d/%d, want 2/1", all, errs)
	}
	if !strings.Contains(p.View(), "dispatch line") {
		t.Errorf("All tab should show dispatch line: %q", p.View())
	}
	if !strings.Contains(p.View(), "Errors (1)") {
		t.Errorf("Errors tab should carry a count badge: %q", p.View())
	}

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	if p.ActiveTab() != TabErrors {
		t.Fatalf("] should switch to Errors, got %d", p.ActiveTab())
	}
	if view := p.View(); strings.Contains(view, "dispatch line") || !strings.Contains(view, "error line") {
		t.Errorf("Errors tab view = %q", view)
	}

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")})
	if p.ActiveTab() != TabAll {
		t.Errorf("[ should switch back to All, got %d", p.ActiveTab())
	}
}

func TestEventsPanel_FollowPerTab(t *testing.T) {
	p := NewEventsPanel(80, 10, "#FF0000")
	f := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")}

	p, _ = p.Update(f)
	if p.Following() {
		t.Error("f should turn follow off on the All tab")
	}
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	if !p.Following() {
		t.Error("Errors tab should still be following")
	}
}

func TestEventsPanel_SetSize(t *testing.T) {
	p := NewEventsPanel(80, 10, "").SetSize(120, 30)
	if p.width != 120 || p.height != 30 {
		t.Errorf("size = %dx%d, want 120x30", p.width, p.height)
	}
}

func TestIntervalPanel(t *testing.T) {
	p := NewIntervalPanel(60, 8, 500*time.Millisecond)
	if p.Running() {
		t.Error("new interval panel should be stopped")
	}
	if view := p.View(); !strings.Contains(view, "stopped") || !strings.Contains(view, "500ms") {
		t.Errorf("stopped view = %q", view)
	}

	p = p.SetRunning(true)
	p = p.AddTick(0, "tick 0")
	p = p.AddTick(1, "tick 1")
	if p.Count() != 2 {
		t.Errorf("Count = %d, want 2", p.Count())
	}
	view := p.View()
	for _, want := range []string{"running", "last: 1", "tick 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q: %q", want, view)
		}
	}

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	if p.Following() {
		t.Error("f should toggle follow off")
	}
}
