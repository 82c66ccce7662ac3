package panels

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CreateItemRequestMsg is emitted when the user submits a title via the 'n'
// overlay.
type CreateItemRequestMsg struct{ Title string }

// ItemSelectedMsg is emitted when the user presses enter on an item.
type ItemSelectedMsg struct{ ID int }

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	newStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77"))
	errTextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

// newsItem wraps a story id as a list.Item.
type newsItem struct {
	id      int
	created bool // created in this session rather than loaded
}

func (n newsItem) Title() string {
	if n.created {
		return fmt.Sprintf("#%d  (new)", n.id)
	}
	return fmt.Sprintf("#%d", n.id)
}

func (n newsItem) Description() string { return "" }
func (n newsItem) FilterValue() string { return fmt.Sprint(n.id) }

// newsDelegate renders compact single-line items.
type newsDelegate struct{}

func (d newsDelegate) Height() int                             { return 1 }
func (d newsDelegate) Spacing() int                            { return 0 }
func (d newsDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d newsDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(newsItem)
	if !ok {
		return
	}
	s := ni.Title()
	switch {
	case index == m.Index():
		s = selectedStyle.Render("> " + s)
	case ni.created:
		s = "  " + newStyle.Render(s)
	default:
		s = "  " + s
	}
	_, _ = fmt.Fprint(w, s)
}

// NewsPanel lists story ids. It shows a spinner while ids are loading or an
// item is being created, and an inline title prompt for new items.
type NewsPanel struct {
	list        list.Model
	spinner     spinner.Model
	input       textinput.Model
	inputActive bool
	loading     bool
	creating    int
	err         string
	width       int
	height      int
}

// NewNewsPanel creates an empty news panel.
func NewNewsPanel(w, h int) NewsPanel {
	l := list.New(nil, newsDelegate{}, w, listHeight(h))
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "item title"
	ti.CharLimit = 80
	if w > 4 {
		ti.Width = w - 4
	}

	return NewsPanel{
		list:    l,
		spinner: sp,
		input:   ti,
		width:   w,
		height:  h,
	}
}

// listHeight leaves one row for the status line.
func listHeight(h int) int {
	if h > 2 {
		return h - 1
	}
	return 1
}

// SetLoading marks a fetch as in flight. The returned command starts the
// spinner and must be run by the caller.
func (p NewsPanel) SetLoading() (NewsPanel, tea.Cmd) {
	p.loading = true
	p.err = ""
	return p, p.spinner.Tick
}

// SetCreating records that one more create is in flight.
func (p NewsPanel) SetCreating() (NewsPanel, tea.Cmd) {
	p.creating++
	return p, p.spinner.Tick
}

// SetItems replaces the list with loaded ids.
func (p NewsPanel) SetItems(ids []int) NewsPanel {
	items := make([]list.Item, len(ids))
	for i, id := range ids {
		items[i] = newsItem{id: id}
	}
	p.list.SetItems(items)
	p.list.Select(0)
	p.loading = false
	return p
}

// Prepend puts a created id at the top of the list.
func (p NewsPanel) Prepend(id int) NewsPanel {
	p.list.InsertItem(0, newsItem{id: id, created: true})
	if p.creating > 0 {
		p.creating--
	}
	return p
}

// SetError ends any pending load and shows msg.
func (p NewsPanel) SetError(msg string) NewsPanel {
	p.loading = false
	p.creating = 0
	p.err = msg
	return p
}

// IDs returns the ids currently listed, top first.
func (p NewsPanel) IDs() []int {
	items := p.list.Items()
	ids := make([]int, 0, len(items))
	for _, it := range items {
		if ni, ok := it.(newsItem); ok {
			ids = append(ids, ni.id)
		}
	}
	return ids
}

// Busy reports whether a load or create is pending.
func (p NewsPanel) Busy() bool { return p.loading || p.creating > 0 }

// Prompting reports whether the title prompt is open.
func (p NewsPanel) Prompting() bool { return p.inputActive }

// OpenPrompt shows the title prompt.
func (p NewsPanel) OpenPrompt() (NewsPanel, tea.Cmd) {
	p.inputActive = true
	p.input.Reset()
	p.input.Focus()
	return p, textinput.Blink
}

// SetSize resizes the panel.
func (p NewsPanel) SetSize(w, h int) NewsPanel {
	p.width = w
	p.height = h
	p.list.SetSize(w, listHeight(h))
	if w > 4 {
		p.input.Width = w - 4
	}
	return p
}

// Update handles spinner ticks, the title prompt and list navigation.
func (p NewsPanel) Update(msg tea.Msg) (NewsPanel, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		if !p.Busy() {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(tick)
		return p, cmd
	}

	if p.inputActive {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				p.inputActive = false
				p.input.Blur()
				p.input.Reset()
				return p, nil
			case "enter":
				title := strings.TrimSpace(p.input.Value())
				if title == "" {
					return p, nil
				}
				p.inputActive = false
				p.input.Blur()
				p.input.Reset()
				return p, func() tea.Msg { return CreateItemRequestMsg{Title: title} }
			}
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyDown})
		case "k", "up":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyUp})
		case "enter":
			if item, ok := p.list.SelectedItem().(newsItem); ok {
				id := item.id
				return p, func() tea.Msg { return ItemSelectedMsg{ID: id} }
			}
		default:
			p.list, cmd = p.list.Update(msg)
		}
	default:
		p.list, cmd = p.list.Update(msg)
	}
	return p, cmd
}

// View renders the news panel.
func (p NewsPanel) View() string {
	if p.inputActive {
		content := lipgloss.JoinVertical(lipgloss.Left,
			selectedStyle.Render("New item title:"),
			p.input.View(),
			dimStyle.Render("Enter to create · Esc to cancel"),
		)
		return lipgloss.NewStyle().Width(p.width).Height(p.height).Render(content)
	}

	var status string
	switch {
	case p.loading:
		status = p.spinner.View() + " loading top stories…"
	case p.creating > 0:
		status = p.spinner.View() + fmt.Sprintf(" creating %d item(s)…", p.creating)
	case p.err != "":
		status = errTextStyle.Render("✗ " + p.err)
	default:
		status = dimStyle.Render(fmt.Sprintf("%d items", len(p.list.Items())))
	}

	body := p.list.View()
	if len(p.list.Items()) == 0 {
		body = lipgloss.NewStyle().
			Width(p.width).Height(listHeight(p.height)).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#888888")).
			Render("No items")
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, body)
}
