package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.Flow/internal/config"
	"github.com/LISSConsulting/LISSTech.Flow/internal/counter"
	"github.com/LISSConsulting/LISSTech.Flow/internal/hackernews"
	"github.com/LISSConsulting/LISSTech.Flow/internal/journal"
	"github.com/LISSConsulting/LISSTech.Flow/internal/loop"
	"github.com/LISSConsulting/LISSTech.Flow/internal/notify"
	"github.com/LISSConsulting/LISSTech.Flow/internal/observable"
	"github.com/LISSConsulting/LISSTech.Flow/internal/store"
	"github.com/LISSConsulting/LISSTech.Flow/internal/tui"
)

// dashboard owns the domain state behind the TUI. Every store, service and
// subscription is touched only on lp; the TUI reaches it through the
// tui.Controller methods, which post work to the loop and return at once.
type dashboard struct {
	lp      *loop.Loop
	events  chan<- loop.LogEntry
	counter *store.Store[int, counter.Action]
	news    *hackernews.StatefulService
	journal *journal.Journal

	period time.Duration
	limit  time.Duration

	mu      sync.Mutex
	running bool // interval state as last requested by the TUI

	// Loop-only interval subscription state.
	ticks      observable.Cancel
	tickCount  int
	generation int
}

var _ tui.Controller = (*dashboard)(nil)

// newDashboard wires the counter store and news service on lp. Entries go to
// events; they are only sent from loop tasks.
func newDashboard(lp *loop.Loop, cfg *config.Config, events chan<- loop.LogEntry) (*dashboard, error) {
	d := &dashboard{
		lp:     lp,
		events: events,
		period: cfg.Interval.Period(),
		limit:  cfg.Interval.Duration(),
	}
	if cfg.Counter.Journal {
		jr, err := openJournal(cfg)
		if err != nil {
			return nil, err
		}
		d.journal = jr
	}

	seq := 0
	d.counter = store.New(counter.Reduce, cfg.Counter.Initial,
		store.WithObserver(func(a counter.Action, _, next int) {
			seq++
			if d.journal != nil {
				if _, err := d.journal.Append(a, next); err != nil {
					d.emit(loop.NewEntry(loop.LogError, err.Error()))
				}
			}
			d.emit(dispatchEntry(seq, a, next))
		}),
	)
	d.news = hackernews.NewStateful(hackernews.New(lp, newsOptions(cfg)))
	return d, nil
}

// emit sends entry without blocking. It must run on the loop.
func (d *dashboard) emit(entry loop.LogEntry) {
	select {
	case d.events <- entry:
	default:
	}
}

func (d *dashboard) Increment(n int) {
	d.lp.Post(func() { d.counter.Dispatch(counter.Action{Type: counter.Increment, Payload: n}) })
}

func (d *dashboard) Decrement(n int) {
	d.lp.Post(func() { d.counter.Dispatch(counter.Action{Type: counter.Decrement, Payload: n}) })
}

func (d *dashboard) ReloadNews() { d.loadNews(nil) }

// loadNews fetches the top stories and calls then, on the loop, once the
// list has been loaded. then is skipped when the fetch fails.
func (d *dashboard) loadNews(then func()) {
	d.lp.Post(func() {
		d.news.FindAll().Subscribe(observable.Observer[[]int]{
			Next: func(ids []int) {
				entry := loop.NewEntry(loop.LogItems, "")
				entry.Items = ids
				d.emit(entry)
			},
			Error:    d.emitError,
			Complete: then,
		})
	})
}

// loadAndCreate loads the news list and then creates n items titled
// "item 1" to "item n", so the load never replaces them.
func (d *dashboard) loadAndCreate(n int) {
	d.loadNews(func() {
		for i := 0; i < n; i++ {
			d.CreateItem(fmt.Sprintf("item %d", i+1))
		}
	})
}

func (d *dashboard) CreateItem(title string) {
	d.lp.Post(func() {
		d.news.Create(hackernews.Item{Title: title}).Subscribe(observable.Observer[int]{
			Next: func(id int) {
				entry := loop.NewEntry(loop.LogCreated, title)
				entry.ItemID = id
				d.emit(entry)
			},
			Error: d.emitError,
		})
	})
}

// ToggleInterval flips the requested interval state and reports it. The
// subscription itself is started or cancelled on the loop.
func (d *dashboard) ToggleInterval() bool {
	d.mu.Lock()
	d.running = !d.running
	running := d.running
	d.mu.Unlock()

	d.lp.Post(func() {
		if running {
			d.startInterval()
		} else {
			d.stopInterval()
		}
	})
	return running
}

func (d *dashboard) startInterval() {
	if d.ticks != nil {
		return
	}
	d.generation++
	gen := d.generation
	d.tickCount = 0
	d.ticks = observable.Interval(d.lp, d.period).Subscribe(observable.Observer[int]{
		Next: func(i int) {
			d.tickCount++
			entry := loop.NewEntry(loop.LogTick, "")
			entry.Tick = i
			d.emit(entry)
		},
	})
	if d.limit <= 0 {
		return
	}
	d.lp.AfterFunc(d.limit, func() {
		if d.generation != gen {
			return
		}
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
		d.stopInterval()
	})
}

func (d *dashboard) stopInterval() {
	if d.ticks == nil {
		return
	}
	d.ticks()
	d.ticks = nil
	d.generation++
	d.emit(loop.NewEntry(loop.LogCancel, fmt.Sprintf("interval cancelled after %d ticks", d.tickCount)))
}

func (d *dashboard) emitError(err error) {
	d.emit(loop.NewEntry(loop.LogError, err.Error()))
}

// close releases the journal. Call it after the loop has stopped.
func (d *dashboard) close() error {
	if d.journal == nil {
		return nil
	}
	return d.journal.Close()
}

// dashboardRun tweaks the dashboard start-up.
type dashboardRun struct {
	Focus  string // panel focused first
	Create int    // items created right after the first load
}

// runDashboard runs the dashboard until the user quits or ctx is done.
// Domain entries are forwarded from the loop to the TUI channel, passing
// through the notifier on the way.
func runDashboard(ctx context.Context, cfg *config.Config, run dashboardRun) error {
	lp, stopLoop := startLoop(ctx)

	loopEvents := make(chan loop.LogEntry, 128)
	tuiEvents := make(chan loop.LogEntry, 128)

	d, err := newDashboard(lp, cfg, loopEvents)
	if err != nil {
		stopLoop()
		return err
	}

	model := tui.New(tuiEvents, d, tui.Options{
		AccentColor: cfg.TUI.AccentColor,
		ProjectName: cfg.Project.Name,
		Initial:     cfg.Counter.Initial,
		Step:        cfg.Counter.Step,
		Period:      cfg.Interval.Period(),
		LoadingNews: true,
		Focus:       run.Focus,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	forwardDone := make(chan struct{})
	go func() {
		defer close(forwardDone)
		defer close(tuiEvents)
		forward(loopEvents, tuiEvents, newNotifier(cfg))
	}()

	d.loadAndCreate(run.Create)

	tuiErr := finishTUI(program)

	stopLoop()
	close(loopEvents)
	<-forwardDone
	return errors.Join(tuiErr, d.close())
}

// forward copies entries from in to out until in is closed, dropping entries
// when out is full. n may be nil.
func forward(in <-chan loop.LogEntry, out chan<- loop.LogEntry, n *notify.Notifier) {
	for entry := range in {
		if n != nil {
			n.Hook(entry)
		}
		select {
		case out <- entry:
		default:
		}
	}
}

// finishTUI runs the bubbletea program. Cancellation is normal shutdown
// (signal) and is not reported.
func finishTUI(program *tea.Program) error {
	_, err := program.Run()
	if err == nil || errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
		return nil
	}
	return fmt.Errorf("tui: %w", err)
}
