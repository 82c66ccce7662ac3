package notify

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.Flow/internal/loop"
)

type webhookCall struct {
	method, body, contentType, title string
}

// webhook starts a server that forwards each request it receives on the
// returned channel.
func webhook(t *testing.T) (string, <-chan webhookCall) {
	t.Helper()
	calls := make(chan webhookCall, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls <- webhookCall{
			method:      r.Method,
			body:        string(body),
			contentType: r.Header.Get("Content-Type"),
			title:       r.Header.Get("X-Title"),
		}
	}))
	t.Cleanup(srv.Close)
	return srv.URL, calls
}

func receive(t *testing.T, calls <-chan webhookCall) webhookCall {
	t.Helper()
	select {
	case c := <-calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no webhook call received")
		return webhookCall{}
	}
}

func expectNone(t *testing.T, calls <-chan webhookCall) {
	t.Helper()
	select {
	case c := <-calls:
		t.Errorf("unexpected webhook call with body %q", c.body)
	case <-time.After(75 * time.Millisecond):
	}
}

func TestHook_Sends(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		entry     loop.LogEntry
		wantBody  string
		wantTitle string
	}{
		{
			name:      "dispatch",
			title:     "counter",
			entry:     loop.LogEntry{Kind: loop.LogDispatch, Action: "[Counter] Increment", Payload: 10, State: 10},
			wantBody:  "[Counter] Increment 10 -> state 10",
			wantTitle: "counter",
		},
		{
			name:      "error with default title",
			entry:     loop.LogEntry{Kind: loop.LogError, Message: "hackernews: get: 502 Bad Gateway"},
			wantBody:  "error: hackernews: get: 502 Bad Gateway",
			wantTitle: DefaultTitle,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, calls := webhook(t)
			New(url, tt.title, true, true).Hook(tt.entry)

			c := receive(t, calls)
			if c.method != http.MethodPost || c.contentType != "text/plain" {
				t.Errorf("request = %s %s, want POST text/plain", c.method, c.contentType)
			}
			if c.body != tt.wantBody {
				t.Errorf("body = %q, want %q", c.body, tt.wantBody)
			}
			if c.title != tt.wantTitle {
				t.Errorf("X-Title = %q, want %q", c.title, tt.wantTitle)
			}
		})
	}
}

func TestHook_Filters(t *testing.T) {
	tests := []struct {
		name                string
		onDispatch, onError bool
		kinds               []loop.LogKind
	}{
		{name: "dispatch disabled", onError: true, kinds: []loop.LogKind{loop.LogDispatch}},
		{name: "error disabled", onDispatch: true, kinds: []loop.LogKind{loop.LogError}},
		{
			name:       "other kinds never notify",
			onDispatch: true,
			onError:    true,
			kinds:      []loop.LogKind{loop.LogInfo, loop.LogTick, loop.LogCancel, loop.LogItems, loop.LogCreated, loop.LogDone},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, calls := webhook(t)
			n := New(url, "", tt.onDispatch, tt.onError)
			for _, k := range tt.kinds {
				n.Hook(loop.LogEntry{Kind: k, Message: "tick 3"})
			}
			expectNone(t, calls)
		})
	}
}

func TestHook_UnreachableURL(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	n := New(url, "", true, true)
	n.Hook(loop.LogEntry{Kind: loop.LogDispatch, Action: "[Counter] Decrement", Payload: 1})
	n.Hook(loop.LogEntry{Kind: loop.LogError, Message: "refused"})
	time.Sleep(100 * time.Millisecond)
}

func TestMessage(t *testing.T) {
	tests := []struct {
		entry loop.LogEntry
		want  string
	}{
		{loop.LogEntry{Kind: loop.LogDispatch, Action: "[Counter] Decrement", Payload: 3, State: 7}, "[Counter] Decrement 3 -> state 7"},
		{loop.LogEntry{Kind: loop.LogError, Message: "boom"}, "error: boom"},
		{loop.LogEntry{Kind: loop.LogCreated, Message: "item 2"}, "item 2"},
	}
	for _, tt := range tests {
		if got := Message(tt.entry); got != tt.want {
			t.Errorf("Message(%v) = %q, want %q", tt.entry.Kind, got, tt.want)
		}
	}
}
