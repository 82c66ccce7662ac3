package tui

// FocusTarget identifies which panel currently holds keyboard focus.
type FocusTarget int

const (
	FocusCounter  FocusTarget = iota // Left sidebar, counter state and history
	FocusNews                        // Left sidebar, story ids
	FocusEvents                      // Right top, event feed
	FocusInterval                    // Right bottom, interval ticks
)

// Next returns the next focus target in forward tab order.
func (f FocusTarget) Next() FocusTarget {
	return (f + 1) % 4
}

// Prev returns the previous focus target in reverse tab order.
func (f FocusTarget) Prev() FocusTarget {
	return (f + 3) % 4
}

// String returns the human-readable name of the focus target.
func (f FocusTarget) String() string {
	switch f {
	case FocusCounter:
		return "counter"
	case FocusNews:
		return "news"
	case FocusEvents:
		return "events"
	case FocusInterval:
		return "interval"
	default:
		return "unknown"
	}
}

// parseFocus returns the focus target named name, as printed by String.
func parseFocus(name string) (FocusTarget, bool) {
	for f := FocusCounter; f <= FocusInterval; f++ {
		if f.String() == name {
			return f, true
		}
	}
	return 0, false
}

// Status is the dashboard-wide activity shown in the header.
type Status int

const (
	StatusIdle    Status = iota // Nothing in flight
	StatusTicking               // Interval subscription live
	StatusLoading               // News request or create pending
	StatusError                 // The last source reported an error
)

// Label returns a short uppercase label for the status.
func (s Status) Label() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusTicking:
		return "TICKING"
	case StatusLoading:
		return "LOADING"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Symbol returns a single-character symbol representing the status.
func (s Status) Symbol() string {
	switch s {
	case StatusIdle:
		return "✓"
	case StatusTicking:
		return "●"
	case StatusLoading:
		return "◌"
	case StatusError:
		return "✗"
	default:
		return "?"
	}
}
