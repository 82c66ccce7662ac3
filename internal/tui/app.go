package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.Flow/internal/loop"
	"github.com/LISSConsulting/LISSTech.Flow/internal/tui/panels"
)

// Options configures the dashboard.
type Options struct {
	AccentColor string
	ProjectName string
	Initial     int           // counter value shown before the first dispatch
	Step        int           // payload for +/- keys; <= 0 means 1
	Period      time.Duration // interval period, for display
	LoadingNews bool          // a FindAll is already in flight at start
	Focus       string        // panel focused first, by name; "" = events
}

// Model is the root bubbletea model for the dashboard.
type Model struct {
	events     <-chan loop.LogEntry
	controller Controller
	keys       KeyMap
	step       int

	counter  panels.CounterPanel
	news     panels.NewsPanel
	feed     panels.EventsPanel
	interval panels.IntervalPanel

	layout Layout
	focus  FocusTarget
	theme  Theme
	width  int
	height int

	dispatches int
	lastAction string
	failed     bool
	closed     bool

	startedAt   time.Time
	now         time.Time
	projectName string

	initCmds []tea.Cmd
}

// New creates the dashboard Model. controller may be nil, which disables the
// keys that request domain changes.
func New(events <-chan loop.LogEntry, controller Controller, opts Options) Model {
	now := time.Now()
	th := NewTheme(opts.AccentColor)
	layout := Calculate(80, 24)

	counterW, counterH := innerDims(layout.Counter)
	newsW, newsH := innerDims(layout.News)
	feedW, feedH := innerDims(layout.Events)
	intW, intH := innerDims(layout.Interval)

	step := opts.Step
	if step <= 0 {
		step = 1
	}

	m := Model{
		events:      events,
		controller:  controller,
		keys:        DefaultKeyMap(),
		step:        step,
		counter:     panels.NewCounterPanel(opts.Initial, counterW, counterH),
		news:        panels.NewNewsPanel(newsW, newsH),
		feed:        panels.NewEventsPanel(feedW, feedH, th.Accent()),
		interval:    panels.NewIntervalPanel(intW, intH, opts.Period),
		layout:      layout,
		focus:       FocusEvents,
		theme:       th,
		width:       80,
		height:      24,
		startedAt:   now,
		now:         now,
		projectName: opts.ProjectName,
	}
	if f, ok := parseFocus(opts.Focus); ok {
		m.focus = f
	}
	if opts.LoadingNews {
		var cmd tea.Cmd
		m.news, cmd = m.news.SetLoading()
		m.initCmds = append(m.initCmds, cmd)
	}
	return m
}

// Init returns the initial commands: event listener + clock ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(append([]tea.Cmd{waitForEvent(m.events), tickCmd()}, m.initCmds...)...)
}

// tickCmd schedules the next one-second clock tick.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent blocks on the event channel and returns the next message.
func waitForEvent(ch <-chan loop.LogEntry) tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return logEntryMsg(entry)
	}
}

// Update handles all incoming bubbletea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case logEntryMsg:
		return m.handleLogEntry(loop.LogEntry(msg))
	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()
	case eventsClosedMsg:
		// The producer finished. Keep the dashboard open until q.
		m.closed = true
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.news, cmd = m.news.Update(msg)
		return m, cmd
	case panels.CreateItemRequestMsg:
		return m.handleCreateItem(msg)
	case panels.ItemSelectedMsg:
		line := m.theme.RenderLogLine(loop.NewEntry(loop.LogInfo,
			fmt.Sprintf("item %d: https://news.ycombinator.com/item?id=%d", msg.ID, msg.ID)), m.layout.Events.Width)
		m.feed = m.feed.AppendLine(line, false)
		return m, nil
	}
	return m.delegateToFocused(msg)
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.layout = Calculate(msg.Width, msg.Height)
	if !m.layout.TooSmall {
		m.counter = m.counter.SetSize(innerDims(m.layout.Counter))
		m.news = m.news.SetSize(innerDims(m.layout.News))
		m.feed = m.feed.SetSize(innerDims(m.layout.Events))
		m.interval = m.interval.SetSize(innerDims(m.layout.Interval))
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	// The title prompt owns the keyboard while open.
	if m.news.Prompting() {
		var cmd tea.Cmd
		m.news, cmd = m.news.Update(msg)
		return m, cmd
	}
	if target, ok := m.keys.panelFocus(msg.String()); ok {
		m.focus = target
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextPanel):
		m.focus = m.focus.Next()
	case key.Matches(msg, m.keys.PrevPanel):
		m.focus = m.focus.Prev()
	case !m.keys.IsGlobal(msg.String()):
		return m.delegateToFocused(msg)
	case m.controller == nil:
		// Domain keys need a controller.
	case key.Matches(msg, m.keys.Increment):
		m.controller.Increment(m.step)
	case key.Matches(msg, m.keys.Decrement):
		m.controller.Decrement(m.step)
	case key.Matches(msg, m.keys.NewItem):
		m.focus = FocusNews
		m.news, cmd = m.news.OpenPrompt()
	case key.Matches(msg, m.keys.Reload):
		m.failed = false
		m.news, cmd = m.news.SetLoading()
		m.controller.ReloadNews()
	case key.Matches(msg, m.keys.Interval):
		m.interval = m.interval.SetRunning(m.controller.ToggleInterval())
	}
	return m, cmd
}

func (m Model) handleCreateItem(msg panels.CreateItemRequestMsg) (tea.Model, tea.Cmd) {
	if m.controller == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.news, cmd = m.news.SetCreating()
	m.controller.CreateItem(msg.Title)
	return m, cmd
}

func (m Model) delegateToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusCounter:
		m.counter, cmd = m.counter.Update(msg)
	case FocusNews:
		m.news, cmd = m.news.Update(msg)
	case FocusEvents:
		m.feed, cmd = m.feed.Update(msg)
	case FocusInterval:
		m.interval, cmd = m.interval.Update(msg)
	}
	return m, cmd
}

func (m Model) handleLogEntry(entry loop.LogEntry) (tea.Model, tea.Cmd) {
	switch entry.Kind {
	case loop.LogDispatch:
		m.counter = m.counter.Record(entry.Action, entry.Payload, entry.State)
		m.dispatches++
		m.lastAction = fmt.Sprintf("%s %d", entry.Action, entry.Payload)
	case loop.LogTick:
		// Ticks only go to the interval panel so they do not flood the feed.
		rendered := m.theme.RenderLogLine(entry, m.layout.Interval.Width)
		m.interval = m.interval.AddTick(entry.Tick, rendered)
		return m, waitForEvent(m.events)
	case loop.LogCancel:
		m.interval = m.interval.SetRunning(false)
	case loop.LogItems:
		m.news = m.news.SetItems(entry.Items)
		m.failed = false
	case loop.LogCreated:
		m.news = m.news.Prepend(entry.ItemID)
		m.failed = false
	case loop.LogError:
		m.news = m.news.SetError(entry.Message)
		m.failed = true
	}

	rendered := m.theme.RenderLogLine(entry, m.layout.Events.Width)
	m.feed = m.feed.AppendLine(rendered, entry.Kind == loop.LogError)
	return m, waitForEvent(m.events)
}

// status derives the header status from panel state.
func (m Model) status() Status {
	switch {
	case m.failed:
		return StatusError
	case m.news.Busy():
		return StatusLoading
	case m.interval.Running():
		return StatusTicking
	default:
		return StatusIdle
	}
}

// following reports the follow state of the focused log, for the footer.
func (m Model) following() bool {
	switch m.focus {
	case FocusEvents:
		return m.feed.Following()
	case FocusInterval:
		return m.interval.Following()
	default:
		return false
	}
}

// View renders the full dashboard.
func (m Model) View() string {
	if m.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%dx%d).\nPlease resize to at least 80x24.", m.width, m.height)
		return lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Render(msg)
	}

	st := m.status()
	header := panels.RenderHeader(panels.HeaderProps{
		ProjectName: m.projectName,
		Counter:     m.counter.Value(),
		Dispatches:  m.dispatches,
		Ticks:       m.interval.Count(),
		Items:       len(m.news.IDs()),
		StateSymbol: st.Symbol(),
		StateLabel:  st.Label(),
		Elapsed:     m.now.Sub(m.startedAt),
		Clock:       m.now,
	}, m.layout.Header.Width, m.theme.AccentHeaderStyle())

	footer := panels.RenderFooter(panels.FooterProps{
		Focus:      m.focus.String(),
		LastAction: m.lastAction,
		Step:       m.step,
		Following:  m.following(),
	}, m.layout.Footer.Width)

	counterW, counterH := innerDims(m.layout.Counter)
	newsW, newsH := innerDims(m.layout.News)
	feedW, feedH := innerDims(m.layout.Events)
	intW, intH := innerDims(m.layout.Interval)

	sidebar := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.PanelBorderStyle(m.focus == FocusCounter).
			Width(counterW).Height(counterH).
			Render(m.counter.View()),
		m.theme.PanelBorderStyle(m.focus == FocusNews).
			Width(newsW).Height(newsH).
			Render(m.news.View()),
	)

	rightCol := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.PanelBorderStyle(m.focus == FocusEvents).
			Width(feedW).Height(feedH).
			Render(m.feed.View()),
		m.theme.PanelBorderStyle(m.focus == FocusInterval).
			Width(intW).Height(intH).
			Render(m.interval.View()),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, rightCol)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
