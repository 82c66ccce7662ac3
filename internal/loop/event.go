package loop

import "time"

// LogKind identifies the type of a flow log event.
type LogKind int

const (
	LogInfo     LogKind = iota // General informational message
	LogDispatch                // Action reduced by a store
	LogTick                    // Interval source tick
	LogCancel                  // Interval subscription cancelled
	LogItems                   // News ids loaded
	LogCreated                 // News item created
	LogError                   // Error delivered on an observer's error channel
	LogDone                    // Demo finished normally
)

// String returns the short lowercase name of the kind.
func (k LogKind) String() string {
	switch k {
	case LogInfo:
		return "info"
	case LogDispatch:
		return "dispatch"
	case LogTick:
		return "tick"
	case LogCancel:
		return "cancel"
	case LogItems:
		return "items"
	case LogCreated:
		return "created"
	case LogError:
		return "error"
	case LogDone:
		return "done"
	default:
		return "unknown"
	}
}

// LogEntry is a structured event emitted by the demos. Non-TUI commands print
// one line per entry; the dashboard consumes entries from a channel.
type LogEntry struct {
	Kind      LogKind
	Timestamp time.Time
	Message   string

	// Dispatch fields
	Seq     int
	Action  string
	Payload int
	State   int

	// Tick fields
	Tick int

	// News fields
	Items  []int
	ItemID int
}

// NewEntry returns an entry of the given kind stamped with the current time.
func NewEntry(kind LogKind, message string) LogEntry {
	return LogEntry{Kind: kind, Timestamp: time.Now(), Message: message}
}
