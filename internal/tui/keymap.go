package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the global bindings the root model checks before a key is
// handed to the focused panel.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Increment key.Binding
	Decrement key.Binding
	NewItem   key.Binding
	Reload    key.Binding
	Interval  key.Binding
	NextPanel key.Binding
	PrevPanel key.Binding
	Counter   key.Binding
	News      key.Binding
	Events    key.Binding
	Ticks     key.Binding
}

// DefaultKeyMap returns the dashboard's standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		Increment: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "increment")),
		Decrement: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "decrement")),
		NewItem:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new item")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Interval:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "interval")),
		NextPanel: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "panel")),
		PrevPanel: key.NewBinding(key.WithKeys("shift+tab")),
		Counter:   key.NewBinding(key.WithKeys("1")),
		News:      key.NewBinding(key.WithKeys("2")),
		Events:    key.NewBinding(key.WithKeys("3")),
		Ticks:     key.NewBinding(key.WithKeys("4")),
	}
}

func (k KeyMap) bindings() []key.Binding {
	return []key.Binding{
		k.Quit, k.ForceQuit, k.Increment, k.Decrement, k.NewItem, k.Reload,
		k.Interval, k.NextPanel, k.PrevPanel, k.Counter, k.News, k.Events, k.Ticks,
	}
}

// panelFocus maps the numeric panel bindings to their targets.
func (k KeyMap) panelFocus(msg string) (FocusTarget, bool) {
	for target, b := range map[FocusTarget]key.Binding{
		FocusCounter: k.Counter, FocusNews: k.News, FocusEvents: k.Events, FocusInterval: k.Ticks,
	} {
		for _, s := range b.Keys() {
			if s == msg {
				return target, true
			}
		}
	}
	return 0, false
}

// IsGlobal reports whether s is bound by the root model.
func (k KeyMap) IsGlobal(s string) bool {
	for _, b := range k.bindings() {
		for _, bk := range b.Keys() {
			if bk == s {
				return true
			}
		}
	}
	return false
}

// panelKeys lists the keys each panel handles once it has focus.
var panelKeys = map[FocusTarget][]string{
	FocusCounter:  {"j", "k"},
	FocusNews:     {"j", "k", "enter"},
	FocusEvents:   {"f", "[", "]", "j", "k"},
	FocusInterval: {"f", "j", "k"},
}

// PanelKeys returns the keys handled by the given focused panel.
func PanelKeys(focus FocusTarget) []string {
	return panelKeys[focus]
}
