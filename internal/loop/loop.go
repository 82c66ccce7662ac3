// Package loop provides a single-goroutine task queue that plays the role of a
// host event loop. Timer callbacks and network completions are posted to the
// loop and run one at a time, never in parallel with other loop tasks.
package loop

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStopped is returned when work is submitted to a loop that is no longer running.
var ErrStopped = errors.New("loop: stopped")

// ErrRunning is returned by Run when the loop is already running or has run.
var ErrRunning = errors.New("loop: already started")

// Loop executes posted tasks in FIFO order on the goroutine that called Run.
// The zero value is not usable; create loops with New.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	started bool
	stopped bool

	wake chan struct{}
	done chan struct{}
}

// New creates an idle loop. Tasks posted before Run are kept and executed
// once Run starts.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Run executes tasks until ctx is cancelled. It returns ctx.Err() on shutdown.
// Tasks still queued at shutdown are discarded.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return ErrRunning
	}
	l.started = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
		close(l.done)
	}()

	for {
		for {
			task, ok := l.pop()
			if !ok {
				break
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			task()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// pop removes and returns the next queued task.
func (l *Loop) pop() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	task := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return task, true
}

// Post enqueues fn. It reports false, and drops fn, once the loop has stopped.
// Post never blocks and is safe to call from any goroutine, including loop tasks.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do runs fn on the loop and waits for it to return. It must not be called
// from a loop task: the loop would wait on itself.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		// The task may have run just before shutdown.
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel that is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// AfterFunc posts fn to the loop once d has elapsed. The returned stop
// function reports whether it prevented fn from being queued.
func (l *Loop) AfterFunc(d time.Duration, fn func()) (stop func() bool) {
	t := time.AfterFunc(d, func() { l.Post(fn) })
	return t.Stop
}

// Every posts fn to the loop every d until stop is called or the loop stops.
// stop may be called any number of times.
func (l *Loop) Every(d time.Duration, fn func()) (stop func()) {
	ticker := time.NewTicker(d)
	quit := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !l.Post(fn) {
					return
				}
			case <-quit:
				return
			case <-l.done:
				return
			}
		}
	}()

	return func() { once.Do(func() { close(quit) }) }
}
