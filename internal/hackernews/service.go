// Package hackernews is an HTTP-backed service returning observable sources:
// FindAll fetches the current top story ids and Create simulates saving an
// item with a delayed, randomly chosen id.
package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/LISSConsulting/LISSTech.Flow/internal/loop"
	"github.com/LISSConsulting/LISSTech.Flow/internal/observable"
)

// DefaultEndpoint is the Hacker News top stories feed.
const DefaultEndpoint = "https://hacker-news.firebaseio.com/v0/topstories.json"

const (
	// DefaultMaxID bounds the ids handed out by Create.
	DefaultMaxID = 100000
	// DefaultCreateDelay is how long Create waits before emitting.
	DefaultCreateDelay = time.Second
	// DefaultTimeout bounds a FindAll request.
	DefaultTimeout = 10 * time.Second
)

// Item is the payload passed to Create. The service does not send it
// anywhere; it only stands in for a real create request.
type Item struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// Options configures a Service. Zero fields take the package defaults.
type Options struct {
	Endpoint    string
	Timeout     time.Duration
	CreateDelay time.Duration
	MaxID       int
	// Client overrides the HTTP client; Timeout is ignored when it is set.
	Client *http.Client
	// Rand overrides the id source, mainly for tests.
	Rand *rand.Rand
}

// Service issues requests and delivers their results on a loop.
type Service struct {
	lp       *loop.Loop
	endpoint string
	delay    time.Duration
	maxID    int
	client   *http.Client
	rand     *rand.Rand
}

// New creates a Service delivering on lp.
func New(lp *loop.Loop, opts Options) *Service {
	s := &Service{
		lp:       lp,
		endpoint: opts.Endpoint,
		delay:    opts.CreateDelay,
		maxID:    opts.MaxID,
		client:   opts.Client,
		rand:     opts.Rand,
	}
	if s.endpoint == "" {
		s.endpoint = DefaultEndpoint
	}
	if s.delay <= 0 {
		s.delay = DefaultCreateDelay
	}
	if s.maxID <= 0 {
		s.maxID = DefaultMaxID
	}
	if s.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		s.client = &http.Client{Timeout: timeout}
	}
	return s
}

// Endpoint returns the URL FindAll requests.
func (s *Service) Endpoint() string { return s.endpoint }

// FindAll returns a Source that issues one GET per subscription, emits the
// decoded id list once and completes. Transport failures, non-2xx responses
// and malformed bodies are delivered to Error.
func (s *Service) FindAll() observable.Source[[]int] {
	return observable.FromFunc(s.lp, s.fetch)
}

func (s *Service) fetch(ctx context.Context) ([]int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("hackernews: request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hackernews: get %s: %w", s.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return nil, fmt.Errorf("hackernews: get %s: %s", s.endpoint, resp.Status)
	}

	var ids []int
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return nil, fmt.Errorf("hackernews: decode: %w", err)
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}

// Create returns a Source that emits a pseudo-random id in [0, MaxID) after
// the create delay and completes. data is accepted for shape only.
func (s *Service) Create(data Item) observable.Source[int] {
	return observable.SourceFunc[int](func(o observable.Observer[int]) observable.Cancel {
		// The id is drawn on the loop so a shared Rand is never used
		// concurrently.
		src := observable.Delay(s.lp, observable.Of(s.lp, 0), s.delay)
		return src.Subscribe(observable.Observer[int]{
			Next: func(int) {
				if o.Next != nil {
					o.Next(s.nextID())
				}
			},
			Error:    o.Error,
			Complete: o.Complete,
		})
	})
}

func (s *Service) nextID() int {
	if s.rand != nil {
		return s.rand.IntN(s.maxID)
	}
	return rand.IntN(s.maxID)
}
