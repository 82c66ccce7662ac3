package hackernews

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.Flow/internal/loop"
	"github.com/LISSConsulting/LISSTech.Flow/internal/observable"
)

func startLoop(t *testing.T) *loop.Loop {
	t.Helper()
	lp := loop.New()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = lp.Run(ctx) }()
	t.Cleanup(cancel)
	return lp
}

// result is everything one subscription delivered.
type result[T any] struct {
	values    []T
	err       error
	completed bool
}

// collect subscribes to src and waits for it to terminate. The observer runs
// on the loop; the result is handed back over a channel.
func collect[T any](t *testing.T, src observable.Source[T]) result[T] {
	t.Helper()
	done := make(chan result[T], 1)
	var r result[T]
	src.Subscribe(observable.Observer[T]{
		Next: func(v T) { r.values = append(r.values, v) },
		Error: func(err error) {
			r.err = err
			done <- r
		},
		Complete: func() {
			r.completed = true
			done <- r
		},
	})
	select {
	case got := <-done:
		return got
	case <-time.After(3 * time.Second):
		t.Fatal("source never terminated")
		return result[T]{}
	}
}

func TestFindAll(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[8863, 121003, 2921983]"))
	}))
	defer srv.Close()

	svc := New(startLoop(t), Options{Endpoint: srv.URL})
	got := collect(t, svc.FindAll())

	if got.err != nil {
		t.Fatalf("unexpected error: %v", got.err)
	}
	if !got.completed {
		t.Error("FindAll should complete")
	}
	if len(got.values) != 1 {
		t.Fatalf("expected one emission, got %d", len(got.values))
	}
	want := []int{8863, 121003, 2921983}
	for i, id := range want {
		if got.values[0][i] != id {
			t.Errorf("ids[%d] = %d, want %d", i, got.values[0][i], id)
		}
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("expected 1 request, got %d", n)
	}
}

func TestFindAll_RequestPerSubscribe(t *testing.T) {
	hits := make(chan struct{}, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- struct{}{}
		_, _ = w.Write([]byte("[1]"))
	}))
	defer srv.Close()

	svc := New(startLoop(t), Options{Endpoint: srv.URL})
	src := svc.FindAll()
	collect(t, src)
	collect(t, src)

	if len(hits) != 2 {
		t.Errorf("expected 2 requests for 2 subscriptions, got %d", len(hits))
	}
}

func TestFindAll_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantMsg string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantMsg: "500",
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			wantMsg: "404",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"not":"a list"}`))
			},
			wantMsg: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			got := collect(t, New(startLoop(t), Options{Endpoint: srv.URL}).FindAll())
			if got.err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(got.err.Error(), "hackernews:") {
				t.Errorf("error %q should be prefixed with hackernews:", got.err)
			}
			if !strings.Contains(got.err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", got.err, tt.wantMsg)
			}
			if got.completed || len(got.values) != 0 {
				t.Error("error should be the only delivery")
			}
		})
	}
}

func TestFindAll_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	got := collect(t, New(startLoop(t), Options{Endpoint: url}).FindAll())
	if got.err == nil {
		t.Fatal("expected transport error from a closed server")
	}
}

func TestFindAll_EmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))
	defer srv.Close()

	got := collect(t, New(startLoop(t), Options{Endpoint: srv.URL}).FindAll())
	if got.err != nil {
		t.Fatal(got.err)
	}
	if got.values[0] == nil || len(got.values[0]) != 0 {
		t.Errorf("null body should decode to an empty list, got %#v", got.values[0])
	}
}

func TestCreate(t *testing.T) {
	svc := New(startLoop(t), Options{CreateDelay: 30 * time.Millisecond, MaxID: 10})

	start := time.Now()
	got := collect(t, svc.Create(Item{Title: "hello"}))
	elapsed := time.Since(start)

	if elapsed < 30*time.Millisecond {
		t.Errorf("Create emitted after %v, want >= 30ms", elapsed)
	}
	if !got.completed {
		t.Error("Create should complete")
	}
	if len(got.values) != 1 {
		t.Fatalf("expected one id, got %v", got.values)
	}
	if id := got.values[0]; id < 0 || id >= 10 {
		t.Errorf("id %d outside [0, 10)", id)
	}
}

func TestCreate_SeededRand(t *testing.T) {
	lp := startLoop(t)
	opts := func() Options {
		return Options{CreateDelay: time.Millisecond, Rand: rand.New(rand.NewPCG(1, 2))}
	}

	a := collect(t, New(lp, opts()).Create(Item{}))
	b := collect(t, New(lp, opts()).Create(Item{}))
	if a.values[0] != b.values[0] {
		t.Errorf("equal seeds gave ids %d and %d", a.values[0], b.values[0])
	}
}

func TestCreate_Cancel(t *testing.T) {
	svc := New(startLoop(t), Options{CreateDelay: 40 * time.Millisecond})

	emitted := make(chan int, 1)
	cancel := svc.Create(Item{}).Subscribe(observable.Observer[int]{
		Next: func(id int) { emitted <- id },
	})
	cancel()

	select {
	case id := <-emitted:
		t.Errorf("cancelled Create emitted %d", id)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNew_Defaults(t *testing.T) {
	svc := New(loop.New(), Options{})
	if svc.Endpoint() != DefaultEndpoint {
		t.Errorf("Endpoint = %q, want %q", svc.Endpoint(), DefaultEndpoint)
	}
	if svc.delay != DefaultCreateDelay {
		t.Errorf("delay = %v, want %v", svc.delay, DefaultCreateDelay)
	}
	if svc.maxID != DefaultMaxID {
		t.Errorf("maxID = %d, want %d", svc.maxID, DefaultMaxID)
	}
	if svc.client.Timeout != DefaultTimeout {
		t.Errorf("client timeout = %v, want %v", svc.client.Timeout, DefaultTimeout)
	}
}
