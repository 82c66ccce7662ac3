package tui

// Controller is how the dashboard asks for domain changes. The TUI never
// mutates domain state itself: results come back as loop.LogEntry values on
// the event channel passed to New. Implementations must not block.
type Controller interface {
	// Increment dispatches an increment of n to the counter store.
	Increment(n int)

	// Decrement dispatches a decrement of n to the counter store.
	Decrement(n int)

	// CreateItem subscribes to the news service's Create source.
	CreateItem(title string)

	// ReloadNews subscribes to the news service's FindAll source.
	ReloadNews()

	// ToggleInterval starts the interval subscription, or cancels it when
	// live. It reports whether a subscription is live afterwards.
	ToggleInterval() bool
}
