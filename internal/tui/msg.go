package tui

import (
	"time"

	"github.com/LISSConsulting/LISSTech.Flow/internal/loop"
)

// logEntryMsg wraps a LogEntry received from the event channel.
type logEntryMsg loop.LogEntry

// eventsClosedMsg signals the event channel closed.
type eventsClosedMsg struct{}

// tickMsg is sent every second for the clock.
type tickMsg time.Time
