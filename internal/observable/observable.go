// Package observable implements minimal push sources whose observers are
// always called on a loop.Loop. A Source starts producing when subscribed and
// stops when the returned Cancel is called.
package observable

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LISSConsulting/LISSTech.Flow/internal/loop"
)

// Observer receives the values of one subscription. Any callback may be nil.
// Error and Complete are terminal: at most one of them is called, once.
type Observer[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

// Cancel releases a subscription. It is safe to call more than once.
type Cancel func()

// Source produces values for each subscriber independently.
type Source[T any] interface {
	Subscribe(o Observer[T]) Cancel
}

// SourceFunc adapts a function to a Source.
type SourceFunc[T any] func(o Observer[T]) Cancel

// Subscribe calls f(o).
func (f SourceFunc[T]) Subscribe(o Observer[T]) Cancel {
	return f(o)
}

// subscription guards delivery to one observer. Deliveries happen on the loop;
// closed is atomic because Cancel may be called from any goroutine.
type subscription[T any] struct {
	o      Observer[T]
	closed atomic.Bool

	mu       sync.Mutex
	released bool
	teardown func()
}

func newSubscription[T any](o Observer[T]) *subscription[T] {
	return &subscription[T]{o: o}
}

func (s *subscription[T]) next(v T) {
	if s.closed.Load() {
		return
	}
	if s.o.Next != nil {
		s.o.Next(v)
	}
}

func (s *subscription[T]) fail(err error) {
	if s.closed.Swap(true) {
		return
	}
	s.release()
	if s.o.Error != nil {
		s.o.Error(err)
	}
}

func (s *subscription[T]) complete() {
	if s.closed.Swap(true) {
		return
	}
	s.release()
	if s.o.Complete != nil {
		s.o.Complete()
	}
}

func (s *subscription[T]) cancel() {
	s.closed.Store(true)
	s.release()
}

// setTeardown registers the function that frees the subscription's
// resources. If the subscription was already released, fn runs immediately.
func (s *subscription[T]) setTeardown(fn func()) {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		fn()
		return
	}
	s.teardown = fn
	s.mu.Unlock()
}

func (s *subscription[T]) release() {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	s.released = true
	fn := s.teardown
	s.teardown = nil
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Interval returns a Source that emits 0, 1, 2, ... every interval. Each
// subscription gets its own timer and counter. After Cancel is called on the
// loop no further values are delivered. Interval panics if interval <= 0.
func Interval(lp *loop.Loop, interval time.Duration) Source[int] {
	if interval <= 0 {
		panic("observable: non-positive interval")
	}
	return SourceFunc[int](func(o Observer[int]) Cancel {
		s := newSubscription(o)
		i := 0
		s.setTeardown(lp.Every(interval, func() {
			if s.closed.Load() {
				return
			}
			v := i
			i++
			s.next(v)
		}))
		return s.cancel
	})
}

// Of returns a Source that emits v once and completes.
func Of[T any](lp *loop.Loop, v T) Source[T] {
	return SourceFunc[T](func(o Observer[T]) Cancel {
		s := newSubscription(o)
		lp.Post(func() {
			s.next(v)
			s.complete()
		})
		return s.cancel
	})
}

// Delay returns a Source that re-emits every value and the completion of src
// after d. Errors are forwarded immediately.
func Delay[T any](lp *loop.Loop, src Source[T], d time.Duration) Source[T] {
	return SourceFunc[T](func(o Observer[T]) Cancel {
		s := newSubscription(o)

		// Timers with equal durations may fire in any order, so each timer
		// delivers the oldest pending event rather than its own.
		var (
			mu      sync.Mutex
			pending []func()
			stops   []func() bool
		)
		schedule := func(fn func()) {
			mu.Lock()
			pending = append(pending, fn)
			mu.Unlock()
			stop := lp.AfterFunc(d, func() {
				mu.Lock()
				if len(pending) == 0 {
					mu.Unlock()
					return
				}
				head := pending[0]
				pending = pending[1:]
				mu.Unlock()
				head()
			})
			mu.Lock()
			stops = append(stops, stop)
			mu.Unlock()
		}

		up := src.Subscribe(Observer[T]{
			Next:     func(v T) { schedule(func() { s.next(v) }) },
			Error:    s.fail,
			Complete: func() { schedule(s.complete) },
		})
		s.setTeardown(func() {
			up()
			mu.Lock()
			defer mu.Unlock()
			for _, stop := range stops {
				stop()
			}
		})
		return s.cancel
	})
}

// Create returns a Source whose producer runs on its own goroutine for each
// subscription. Values passed to emit are delivered on the loop in order.
// When produce returns, the subscription errors with its result or completes.
// Cancel cancels the producer's context.
func Create[T any](lp *loop.Loop, produce func(ctx context.Context, emit func(T)) error) Source[T] {
	return SourceFunc[T](func(o Observer[T]) Cancel {
		s := newSubscription(o)
		ctx, cancel := context.WithCancel(context.Background())
		s.setTeardown(cancel)

		go func() {
			err := produce(ctx, func(v T) {
				lp.Post(func() { s.next(v) })
			})
			lp.Post(func() {
				if err != nil {
					s.fail(err)
					return
				}
				s.complete()
			})
		}()
		return s.cancel
	})
}

// FromFunc returns a Source that calls fn once per subscription and emits its
// result, or its error, on the loop.
func FromFunc[T any](lp *loop.Loop, fn func(ctx context.Context) (T, error)) Source[T] {
	return Create(lp, func(ctx context.Context, emit func(T)) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		emit(v)
		return nil
	})
}
