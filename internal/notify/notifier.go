// Package notify sends fire-and-forget HTTP notifications for flow events.
// The primary use case is ntfy.sh, but any HTTP webhook works.
package notify

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/LISSConsulting/LISSTech.Flow/internal/loop"
)

// DefaultTitle is sent as X-Title when no title is configured.
const DefaultTitle = "Flow"

// Notifier posts plain-text HTTP notifications for selected log events.
type Notifier struct {
	url        string
	title      string
	onDispatch bool
	onError    bool
	client     *http.Client
}

// New creates a Notifier. title is used as the X-Title header; if empty,
// DefaultTitle is used instead.
func New(url, title string, onDispatch, onError bool) *Notifier {
	if title == "" {
		title = DefaultTitle
	}
	return &Notifier{
		url:        url,
		title:      title,
		onDispatch: onDispatch,
		onError:    onError,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Hook fires an asynchronous POST for entries that match the configured
// flags. It never blocks and never reports failure.
func (n *Notifier) Hook(entry loop.LogEntry) {
	switch entry.Kind {
	case loop.LogDispatch:
		if n.onDispatch {
			go n.post(Message(entry))
		}
	case loop.LogError:
		if n.onError {
			go n.post(Message(entry))
		}
	}
}

// Message renders the notification body for entry.
func Message(entry loop.LogEntry) string {
	switch entry.Kind {
	case loop.LogDispatch:
		return fmt.Sprintf("%s %d -> state %d", entry.Action, entry.Payload, entry.State)
	case loop.LogError:
		return "error: " + entry.Message
	default:
		return entry.Message
	}
}

// post sends a plain-text POST to the configured URL. Errors are silently
// discarded so notification failures never interrupt a demo.
func (n *Notifier) post(message string) {
	req, err := http.NewRequest(http.MethodPost, n.url, strings.NewReader(message))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Title", n.title)
	resp, err := n.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
