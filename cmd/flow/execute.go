package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/LISSConsulting/LISSTech.Flow/internal/config"
	"github.com/LISSConsulting/LISSTech.Flow/internal/counter"
	"github.com/LISSConsulting/LISSTech.Flow/internal/hackernews"
	"github.com/LISSConsulting/LISSTech.Flow/internal/journal"
	"github.com/LISSConsulting/LISSTech.Flow/internal/loop"
	"github.com/LISSConsulting/LISSTech.Flow/internal/notify"
	"github.com/LISSConsulting/LISSTech.Flow/internal/observable"
	"github.com/LISSConsulting/LISSTech.Flow/internal/store"
)

// counterRun is one invocation of the counter demo.
type counterRun struct {
	Initial int
	Actions []counter.Action
	Journal bool
}

// counterSlice is the key of the counter in the root state map.
const counterSlice = "counter"

// executeCounter creates a root store combining the counter reducer,
// subscribes a logger that prints the counter after every dispatch, and
// dispatches the actions in order.
func executeCounter(w io.Writer, cfg *config.Config, run counterRun) error {
	var jr *journal.Journal
	if run.Journal {
		var err error
		jr, err = openJournal(cfg)
		if err != nil {
			return err
		}
		defer jr.Close()
	}
	n := newNotifier(cfg)

	var (
		last      counter.Action
		seq       int
		appendErr error
	)
	reduce := store.Combine(map[string]store.Reducer[int, counter.Action]{
		counterSlice: counter.Reduce,
	})
	st := store.New(reduce, map[string]int{counterSlice: run.Initial},
		store.WithObserver(func(a counter.Action, _, next map[string]int) {
			last = a
			seq++
			if jr == nil {
				return
			}
			if _, err := jr.Append(a, next[counterSlice]); err != nil {
				appendErr = errors.Join(appendErr, err)
			}
		}),
	)

	unsubscribe := st.Subscribe(func() {
		entry := dispatchEntry(seq, last, st.State()[counterSlice])
		fmt.Fprintln(w, formatLogLine(entry))
		if n != nil {
			n.Hook(entry)
		}
	})
	defer unsubscribe()

	for _, a := range run.Actions {
		st.Dispatch(a)
	}
	if appendErr != nil {
		return appendErr
	}

	done := loop.NewEntry(loop.LogDone, fmt.Sprintf("%d actions, final state %d", len(run.Actions), st.State()[counterSlice]))
	fmt.Fprintln(w, formatLogLine(done))
	if jr != nil {
		sum := jr.Summary()
		fmt.Fprintln(w, formatLogLine(loop.NewEntry(loop.LogInfo,
			fmt.Sprintf("journal: %d records in %s", sum.Records, sum.Path))))
	}
	return nil
}

// executeInterval subscribes to an interval source and prints every tick.
// With limit > 0 the subscription is cancelled after limit; otherwise it runs
// until ctx is done.
func executeInterval(ctx context.Context, w io.Writer, every, limit time.Duration) error {
	lp, stop := startLoop(ctx)
	defer stop()

	finished := make(chan struct{})
	err := lp.Do(ctx, func() {
		ticks := 0
		cancel := observable.Interval(lp, every).Subscribe(observable.Observer[int]{
			Next: func(i int) {
				ticks++
				entry := loop.NewEntry(loop.LogTick, "")
				entry.Tick = i
				fmt.Fprintln(w, formatLogLine(entry))
			},
		})
		if limit <= 0 {
			return
		}
		lp.AfterFunc(limit, func() {
			cancel()
			fmt.Fprintln(w, formatLogLine(loop.NewEntry(loop.LogCancel,
				fmt.Sprintf("interval cancelled after %d ticks", ticks))))
			close(finished)
		})
	})
	if err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return nil
	}
}

// executeNews loads the top story ids, then creates count items one after
// another, printing an entry for every notification.
func executeNews(ctx context.Context, w io.Writer, cfg *config.Config, count int) error {
	lp, stop := startLoop(ctx)
	defer stop()

	n := newNotifier(cfg)
	emit := func(entry loop.LogEntry) {
		fmt.Fprintln(w, formatLogLine(entry))
		if n != nil {
			n.Hook(entry)
		}
	}

	svc := hackernews.NewStateful(hackernews.New(lp, newsOptions(cfg)))
	result := make(chan error, 1)
	finish := func(err error) {
		if err != nil {
			emit(loop.NewEntry(loop.LogError, err.Error()))
		}
		result <- err
	}

	var created int
	var createNext func(i int)
	createNext = func(i int) {
		if i >= count {
			emit(loop.NewEntry(loop.LogDone, fmt.Sprintf("%d items, %d created", len(svc.Items()), created)))
			finish(nil)
			return
		}
		svc.Create(hackernews.Item{Title: fmt.Sprintf("item %d", i+1)}).Subscribe(observable.Observer[int]{
			Next: func(id int) {
				created++
				entry := loop.NewEntry(loop.LogCreated, "")
				entry.ItemID = id
				emit(entry)
			},
			Error:    finish,
			Complete: func() { createNext(i + 1) },
		})
	}

	if !lp.Post(func() {
		svc.FindAll().Subscribe(observable.Observer[[]int]{
			Next: func(ids []int) {
				entry := loop.NewEntry(loop.LogItems, svc.Endpoint())
				entry.Items = ids
				emit(entry)
			},
			Error:    finish,
			Complete: func() { createNext(0) },
		})
	}) {
		return loop.ErrStopped
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return nil
	}
}

// showJournal prints every record of a session followed by the state
// recomputed from its actions.
func showJournal(w io.Writer, path string, initial int) error {
	records, err := journal.Read(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Session %s\n", path)
	fmt.Fprintln(w, "───────")
	for _, rec := range records {
		fmt.Fprintln(w, formatRecord(rec))
	}

	replayed := journal.Replay(records, initial)
	fmt.Fprintf(w, "  %-20s %d\n", "Records:", len(records))
	fmt.Fprintf(w, "  %-20s %d\n", "Replayed state:", replayed)
	if len(records) > 0 {
		recorded := records[len(records)-1].State
		if recorded != replayed {
			fmt.Fprintf(w, "  %-20s %d (differs from replay)\n", "Recorded state:", recorded)
		}
	}
	return nil
}

// tailJournal prints a session's records as they are appended, until ctx is
// done or the file goes away.
func tailJournal(ctx context.Context, w io.Writer, path string) error {
	lp, stop := startLoop(ctx)
	defer stop()

	result := make(chan error, 1)
	var cancel observable.Cancel
	err := lp.Do(ctx, func() {
		cancel = journal.Follow(lp, path).Subscribe(observable.Observer[journal.Record]{
			Next:     func(rec journal.Record) { fmt.Fprintln(w, formatRecord(rec)) },
			Error:    func(err error) { result <- err },
			Complete: func() { result <- nil },
		})
	})
	if err != nil {
		return err
	}
	defer cancel()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return nil
	}
}

// openJournal opens a new session in the configured directory and prunes
// sessions beyond the retention limit.
func openJournal(cfg *config.Config) (*journal.Journal, error) {
	jr, err := journal.Open(cfg.Counter.JournalDir)
	if err != nil {
		return nil, err
	}
	if err := journal.EnforceRetention(cfg.Counter.JournalDir, cfg.Counter.JournalRetention); err != nil {
		jr.Close()
		return nil, err
	}
	return jr, nil
}

// newNotifier returns nil when notifications are not configured.
func newNotifier(cfg *config.Config) *notify.Notifier {
	if cfg.Notifications.URL == "" {
		return nil
	}
	return notify.New(cfg.Notifications.URL, cfg.Project.Name, cfg.Notifications.OnDispatch, cfg.Notifications.OnError)
}

func newsOptions(cfg *config.Config) hackernews.Options {
	return hackernews.Options{
		Endpoint:    cfg.News.Endpoint,
		Timeout:     cfg.News.Timeout(),
		CreateDelay: cfg.News.CreateDelay(),
		MaxID:       cfg.News.MaxID,
	}
}

// startLoop runs a loop until the returned stop function is called or ctx is
// done. stop waits for the loop to exit.
func startLoop(ctx context.Context) (*loop.Loop, func()) {
	ctx, cancel := context.WithCancel(ctx)
	lp := loop.New()
	go func() { _ = lp.Run(ctx) }()
	return lp, func() {
		cancel()
		<-lp.Done()
	}
}
